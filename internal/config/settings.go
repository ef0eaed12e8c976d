package config

import "runtime"

// DefaultStoreDir is where runs are persisted when no store path is given.
const DefaultStoreDir = ".modelbench"

// RunSettings holds CLI settings that are not part of the benchmark file.
type RunSettings struct {
	storePath   string
	inMemory    bool
	outputPath  string
	format      string
	verbose     bool
	concurrency int
}

// Option configures RunSettings.
type Option func(*RunSettings)

// NewRunSettings applies opts over the defaults.
func NewRunSettings(opts ...Option) *RunSettings {
	s := &RunSettings{
		storePath:   DefaultStoreDir,
		format:      "text",
		concurrency: runtime.GOMAXPROCS(0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func WithStorePath(path string) Option {
	return func(s *RunSettings) {
		s.storePath = path
	}
}

// WithInMemoryStore keeps runs only for the lifetime of the process.
func WithInMemoryStore(v bool) Option {
	return func(s *RunSettings) {
		s.inMemory = v
	}
}

func WithOutputPath(path string) Option {
	return func(s *RunSettings) {
		s.outputPath = path
	}
}

func WithFormat(format string) Option {
	return func(s *RunSettings) {
		s.format = format
	}
}

func WithVerbose(v bool) Option {
	return func(s *RunSettings) {
		s.verbose = v
	}
}

// WithConcurrency bounds how many benchmark files run at once. Values
// below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(s *RunSettings) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

func (s *RunSettings) StorePath() string  { return s.storePath }
func (s *RunSettings) InMemory() bool     { return s.inMemory }
func (s *RunSettings) OutputPath() string { return s.outputPath }
func (s *RunSettings) Format() string     { return s.format }
func (s *RunSettings) Verbose() bool      { return s.verbose }
func (s *RunSettings) Concurrency() int   { return s.concurrency }
