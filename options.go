package rex

// CompileOptions configures Compile. The zero value is not meant to be
// used directly; call Compile with Options, which applies defaults first.
type CompileOptions struct {
	// MaxRepeatLength bounds both the min and max of any {m,n} repetition,
	// guarding against compile-time memory blowup. Default 1000.
	MaxRepeatLength int
}

// Option mutates a CompileOptions during Compile.
type Option func(*CompileOptions)

// WithMaxRepeatLength overrides the default repetition-count ceiling.
func WithMaxRepeatLength(n int) Option {
	return func(o *CompileOptions) {
		o.MaxRepeatLength = n
	}
}

func defaultCompileOptions() CompileOptions {
	return CompileOptions{MaxRepeatLength: 1000}
}

func resolveOptions(opts []Option) CompileOptions {
	o := defaultCompileOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
