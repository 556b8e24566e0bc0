// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package flow

import (
	"log/slog"

	"github.com/gogpu/gridflow/grid"
)

// Option configures a Builder during creation.
//
// Example:
//
//	b := flow.NewBuilder(group.ID(),
//	    flow.WithLabel("deferred"),
//	    flow.WithGroup(group),
//	)
type Option func(*options)

type options struct {
	label              string
	strictDepthStencil bool
	group              *grid.Group
	logger             *slog.Logger
}

// WithLabel sets a debug label carried into the finished Flow.
func WithLabel(label string) Option {
	return func(o *options) {
		o.label = label
	}
}

// WithStrictDepthStencil makes the depth/stencil attachment use the same
// exclusive bound as color hazards: a task then always runs strictly after
// the previous user of its depth/stencil grid.
func WithStrictDepthStencil() Option {
	return func(o *options) {
		o.strictDepthStencil = true
	}
}

// WithGroup lets the builder look up grid declarations. Registration then
// fails for ids the group never declared, bindings are checked against the
// grid kind, and grid node sketches carry format and load/store operations.
// The group id must equal the builder's group id.
func WithGroup(g *grid.Group) Option {
	return func(o *options) {
		o.group = g
	}
}

// WithLogger overrides the shared gridflow logger for this builder.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
