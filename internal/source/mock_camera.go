package source

// MockCamera is a Camera that serves pre-generated synthetic frames,
// cycling through them on successive reads. Used when no hardware camera
// is available and in tests.
type MockCamera struct {
	frames []*Frame
	index  int
	opened bool
}

// NewMockCamera creates a mock camera with a small set of uniform test
// frames (640x480, 3 channels).
func NewMockCamera() *MockCamera {
	m := &MockCamera{}
	m.generateTestFrames()
	return m
}

func (m *MockCamera) generateTestFrames() {
	const (
		width    = 640
		height   = 480
		channels = 3
	)
	// Uniform frames at a few brightness levels so consecutive reads vary.
	for _, level := range []byte{20, 20, 20} {
		pixels := make([]byte, width*height*channels)
		for i := range pixels {
			pixels[i] = level
		}
		m.frames = append(m.frames, &Frame{
			Width:    width,
			Height:   height,
			Channels: channels,
			Pixels:   pixels,
		})
	}
}

// Open marks the mock as ready. The index is ignored.
func (m *MockCamera) Open(_ int) error {
	m.opened = true
	return nil
}

// IsOpened reports whether Open was called.
func (m *MockCamera) IsOpened() bool {
	return m.opened
}

// Read returns the next synthetic frame, wrapping around at the end.
func (m *MockCamera) Read() (*Frame, error) {
	if !m.opened {
		return nil, ErrNotReady
	}
	frame := m.frames[m.index%len(m.frames)]
	m.index++
	return frame, nil
}

// Release marks the mock as closed.
func (m *MockCamera) Release() {
	m.opened = false
}

// Backend names the mock backend.
func (m *MockCamera) Backend() string {
	return "mock"
}
