// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package stream

import (
	"code.hybscloud.com/iox"
	"go.uber.org/zap"
)

// streamConfig collects NewStream's functional options. The stream core
// crosses no process boundary, so there is no config file or environment
// to load — just the options idiom.
type streamConfig struct {
	logger      *zap.Logger
	sinkBackoff iox.Backoff
}

func defaultStreamConfig() streamConfig {
	return streamConfig{logger: zap.NewNop()}
}

// Option configures a Stream at construction.
type Option func(*streamConfig)

// WithLogger attaches a structured logger for lane/stream lifecycle
// transitions. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *streamConfig) { c.logger = l }
}

// WithSinkBackoff seeds the backoff profile a Stream recommends to callers
// constructing completion sinks for items submitted on it, via
// [Stream.SinkBackoff]. The stream itself never blocks; this only governs
// how CompletionSink.AwaitWithBackoff retries once a caller passes it in.
// CompletionSink.Await always starts from a zero-value backoff.
func WithSinkBackoff(seed iox.Backoff) Option {
	return func(c *streamConfig) { c.sinkBackoff = seed }
}
