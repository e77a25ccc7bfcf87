package pulse

// Channel is a stream paired with an opaque source handle: the thing
// values originate from. Reception logic is untouched by source rebinding.
type Channel[S, P any] struct {
	Stream[P]
	source S
}

func NewChannel[S, P any](source S, stream Stream[P]) Channel[S, P] {
	return Channel[S, P]{Stream: stream, source: source}
}

func (c Channel[S, P]) Source() S {
	return c.source
}

// Resource rebinds the channel's source through rebind, keeping the same
// reception. The source type may change.
func Resource[S, T, P any](c Channel[S, P], rebind func(S) T) Channel[T, P] {
	return NewChannel(rebind(c.source), c.Stream)
}

// Desource erases the source handle.
func (c Channel[S, P]) Desource() Channel[struct{}, P] {
	return NewChannel(struct{}{}, c.Stream)
}
