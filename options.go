package catx

import (
	"io"
	"log/slog"
)

// runConfig holds configuration for a Run.
type runConfig struct {
	types      []string
	include    []string
	paths      []string
	expansions bool
	logger     *slog.Logger
}

// Option configures Run.
type Option func(*runConfig)

// WithTypes sets the extension allow-set. Default: DefaultTypes.
func WithTypes(types ...string) Option {
	return func(cfg *runConfig) {
		cfg.types = types
	}
}

// WithInclude restricts loading to the named catalog files (e.g. "01.cat";
// the ".cat" suffix may be omitted). Relative order among the included set
// still governs override resolution.
func WithInclude(names ...string) Option {
	return func(cfg *runConfig) {
		cfg.include = names
	}
}

// WithPaths restricts extraction to the named virtual paths.
func WithPaths(paths ...string) Option {
	return func(cfg *runConfig) {
		cfg.paths = paths
	}
}

// WithExpansions enables discovery of expansion archive pairs. They are
// appended after the base set, so expansion content overrides base content.
func WithExpansions(enabled bool) Option {
	return func(cfg *runConfig) {
		cfg.expansions = enabled
	}
}

// WithLogger sets the logger for run diagnostics. Default: discard.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *runConfig) {
		cfg.logger = logger
	}
}

func (cfg *runConfig) log() *slog.Logger {
	if cfg.logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return cfg.logger
}
