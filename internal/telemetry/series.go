package telemetry

// DefaultWindow is the number of samples kept per chart channel.
const DefaultWindow = 10

// Series is a fixed-capacity sliding window. It is full from construction
// (pre-filled with the zero value) and every Push evicts the oldest sample.
// A Series is owned by a single writer and is not safe for concurrent use.
type Series[T any] struct {
	data []T
	head int // index of the oldest sample
}

// NewSeries creates a window of the given capacity. A capacity <= 0 uses
// DefaultWindow.
func NewSeries[T any](capacity int) *Series[T] {
	if capacity <= 0 {
		capacity = DefaultWindow
	}
	return &Series[T]{data: make([]T, capacity)}
}

// Push appends v as the newest sample, dropping the oldest.
func (s *Series[T]) Push(v T) {
	s.data[s.head] = v
	s.head = (s.head + 1) % len(s.data)
}

// Values returns a copy of the window in chronological order (oldest first).
func (s *Series[T]) Values() []T {
	out := make([]T, len(s.data))
	for i := range out {
		out[i] = s.data[(s.head+i)%len(s.data)]
	}
	return out
}

// Last returns the newest sample.
func (s *Series[T]) Last() T {
	return s.data[(s.head-1+len(s.data))%len(s.data)]
}

// Len returns the number of samples, which always equals Cap.
func (s *Series[T]) Len() int {
	return len(s.data)
}

// Cap returns the window capacity.
func (s *Series[T]) Cap() int {
	return len(s.data)
}
