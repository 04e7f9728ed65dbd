// Copyright 2026 The nullshim Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"time"

	"golang.org/x/time/rate"
)

// rateLimited forwards to an underlying Logger at most once per interval.
// The interposed registration surfaces can be hit in bursts (crash
// reporters reinstall their handlers repeatedly), and a burst carries no
// more information than its first message.
type rateLimited struct {
	logger Logger
	limit  *rate.Limiter
}

func (rl *rateLimited) Debugf(format string, v ...any) {
	if !rl.limit.Allow() {
		return
	}
	rl.logger.Debugf(format, v...)
}

func (rl *rateLimited) Infof(format string, v ...any) {
	if !rl.limit.Allow() {
		return
	}
	rl.logger.Infof(format, v...)
}

func (rl *rateLimited) Warningf(format string, v ...any) {
	if !rl.limit.Allow() {
		return
	}
	rl.logger.Warningf(format, v...)
}

func (rl *rateLimited) IsLogging(level Level) bool {
	return rl.logger.IsLogging(level)
}

// RateLimited returns a Logger that forwards to logger no more than once
// per every; the rest of a burst is dropped silently.
func RateLimited(logger Logger, every time.Duration) Logger {
	return &rateLimited{
		logger: logger,
		limit:  rate.NewLimiter(rate.Every(every), 1),
	}
}
