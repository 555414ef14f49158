package aacenc

import "go.uber.org/zap"

// Option configures an Encoder.
type Option func(*Encoder)

// WithTransformFactory sets the factory used by Initialize to create the transform.
func WithTransformFactory(f TransformFactory) Option {
	return func(e *Encoder) {
		e.factory = f
	}
}

// WithLogger sets the session logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Encoder) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithMetrics attaches Prometheus collectors to the session.
func WithMetrics(m *Metrics) Option {
	return func(e *Encoder) {
		e.metrics = m
	}
}

// WithName sets the name attached to every log line of the session.
func WithName(name string) Option {
	return func(e *Encoder) {
		if name != "" {
			e.name = name
		}
	}
}
