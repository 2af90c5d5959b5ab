// Package options implements the generic functional-option machinery used by
// the public packages. Each public package declares its own option alias
// (e.g. message.Option = options.Option[*config]) and exposes With* factory
// functions built on New and NoError.
package options

// Option configures a target of type T. Applying an option may fail, which
// lets With* constructors validate their arguments lazily.
type Option[T any] interface {
	apply(T) error
}

// fn adapts a plain function to the Option interface.
type fn[T any] func(T) error

func (f fn[T]) apply(target T) error {
	return f(target)
}

// New wraps a fallible configuration function as an Option.
func New[T any](f func(T) error) Option[T] {
	return fn[T](f)
}

// NoError wraps an infallible configuration function as an Option.
func NoError[T any](f func(T)) Option[T] {
	return fn[T](func(target T) error {
		f(target)
		return nil
	})
}

// Apply runs each option against target in order, stopping at the first error.
func Apply[T any](target T, opts ...Option[T]) error {
	for _, opt := range opts {
		if err := opt.apply(target); err != nil {
			return err
		}
	}

	return nil
}
