package source

import (
	"fmt"

	"github.com/rs/zerolog"

	"sensoragent/internal/logger"
)

// Frame is one captured image: interleaved 8-bit samples, Channels per pixel.
type Frame struct {
	Width    int
	Height   int
	Channels int
	Pixels   []byte
}

// Camera abstracts a frame-capture device so the camera source can be tested
// without hardware.
type Camera interface {
	// Open prepares the device with the given index. Returns an error if
	// the device cannot be opened.
	Open(index int) error

	// IsOpened reports whether the device is ready to produce frames.
	IsOpened() bool

	// Read captures one frame.
	Read() (*Frame, error)

	// Release frees the device. Safe to call when never opened.
	Release()

	// Backend names the capture backend, for logging.
	Backend() string
}

// CameraSource derives numeric readings from camera frames: dimensions,
// channel count, and mean brightness.
type CameraSource struct {
	cam Camera
	log zerolog.Logger
}

// NewCameraSource wraps an opened (or openable) camera as a data source.
func NewCameraSource(cam Camera, log zerolog.Logger) *CameraSource {
	return &CameraSource{
		cam: cam,
		log: logger.WithComponent(log, "camera-source"),
	}
}

// ReadAll captures a frame and reduces it to readings. An unopened camera
// yields frame_status 0 rather than an error, so the payload still reports
// the device state to the collector.
func (s *CameraSource) ReadAll() (Readings, error) {
	if !s.cam.IsOpened() {
		s.log.Warn().Msg("Camera not opened, reporting frame_status=0")
		return Readings{"frame_status": 0}, nil
	}

	frame, err := s.cam.Read()
	if err != nil {
		return nil, fmt.Errorf("camera read failed: %w", err)
	}

	return Readings{
		"frame_status": 1,
		"frame_width":  float64(frame.Width),
		"frame_height": float64(frame.Height),
		"channels":     float64(frame.Channels),
		"brightness":   meanBrightness(frame),
	}, nil
}

// meanBrightness averages all samples in the frame. For multi-channel
// frames this is a rough luma proxy, which is all the collector needs.
func meanBrightness(f *Frame) float64 {
	if len(f.Pixels) == 0 {
		return 0
	}
	var sum uint64
	for _, p := range f.Pixels {
		sum += uint64(p)
	}
	return float64(sum) / float64(len(f.Pixels))
}
