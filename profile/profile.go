package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`

// Options holds the parameters of a profiling run.
type Options struct {
	Mode  string
	Dir   string
	Quiet bool
}

// Option modifies the [Options] of a profiling run.
type Option func(Options) Options

// WithMode sets the profiling mode. See [Modes].
func WithMode(mode string) Option {
	return func(o Options) Options {
		o.Mode = mode

		return o
	}
}

// WithDir sets the directory receiving profile data.
func WithDir(dir string) Option {
	return func(o Options) Options {
		o.Dir = dir

		return o
	}
}

// WithQuiet suppresses the profiler's own log output.
func WithQuiet(quiet bool) Option {
	return func(o Options) Options {
		o.Quiet = quiet

		return o
	}
}

// Stopper stops a running profiler and flushes its data.
type Stopper interface{ Stop() }

// Start begins profiling with the given options.
//
// Start returns a no-op [Stopper] when the mode is empty or unsupported, or
// when the binary was built without the pprof tag. Stop is always safely
// callable.
func Start(opts ...Option) Stopper {
	o := apply(Options{}, opts...)

	if o.Mode == "" || !Enabled() {
		return ignore{}
	}

	return start(o)
}

func apply(o Options, opts ...Option) Options {
	for _, opt := range opts {
		if opt != nil {
			o = opt(o)
		}
	}

	return o
}

type ignore struct{}

func (ignore) Stop() {}
