package source

// WindowSource exposes length bytes of a parent source starting at offset.
type WindowSource struct {
	parent RandomAccessSource
	offset int64
	length int64
	owns   bool
}

// NewWindowSource returns a window onto parent. Closing the window closes
// the parent.
func NewWindowSource(parent RandomAccessSource, offset, length int64) *WindowSource {
	if rest := parent.Length() - offset; length > rest {
		length = rest
	}
	if length < 0 {
		length = 0
	}
	return &WindowSource{parent: parent, offset: offset, length: length, owns: true}
}

// borrowedWindow returns a window that leaves the parent open on Close.
func borrowedWindow(parent RandomAccessSource, offset, length int64) *WindowSource {
	w := NewWindowSource(parent, offset, length)
	w.owns = false
	return w
}

// Get returns the byte at position within the window, or EOF.
func (w *WindowSource) Get(position int64) (int, error) {
	if position < 0 {
		return EOF, ErrInvalidPosition
	}
	if position >= w.length {
		return EOF, nil
	}
	return w.parent.Get(w.offset + position)
}

// GetRange reads up to length bytes of the window starting at position.
func (w *WindowSource) GetRange(position int64, b []byte, off, length int) (int, error) {
	if err := checkRange(position, b, off, length); err != nil {
		return EOF, err
	}
	if position >= w.length {
		return EOF, nil
	}
	if remaining := w.length - position; int64(length) > remaining {
		length = int(remaining)
	}
	return w.parent.GetRange(w.offset+position, b, off, length)
}

// Length returns the window size.
func (w *WindowSource) Length() int64 {
	return w.length
}

// Close closes the parent if the window owns it.
func (w *WindowSource) Close() error {
	if !w.owns {
		return nil
	}
	return w.parent.Close()
}
