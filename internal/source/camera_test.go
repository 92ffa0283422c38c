package source

import (
	"testing"

	"sensoragent/internal/logger"
)

func TestCameraSource_HappyPath(t *testing.T) {
	cam := NewMockCamera()
	if err := cam.Open(0); err != nil {
		t.Fatalf("open failed: %v", err)
	}

	src := NewCameraSource(cam, logger.Nop())
	readings, err := src.ReadAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := map[string]float64{
		"frame_status": 1,
		"frame_width":  640,
		"frame_height": 480,
		"channels":     3,
		"brightness":   20,
	}
	for name, value := range want {
		if got := readings[name]; got != value {
			t.Errorf("%s = %v, want %v", name, got, value)
		}
	}
}

func TestCameraSource_NotOpened(t *testing.T) {
	src := NewCameraSource(NewMockCamera(), logger.Nop())

	readings, err := src.ReadAll()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := readings["frame_status"]; got != 0 {
		t.Errorf("frame_status = %v, want 0", got)
	}
	if len(readings) != 1 {
		t.Errorf("expected only frame_status, got %v", readings)
	}
}

func TestMockCamera_Lifecycle(t *testing.T) {
	cam := NewMockCamera()
	if cam.IsOpened() {
		t.Error("fresh camera must not be opened")
	}

	if _, err := cam.Read(); err == nil {
		t.Error("read before open must fail")
	}

	if err := cam.Open(0); err != nil {
		t.Fatalf("open failed: %v", err)
	}
	if !cam.IsOpened() {
		t.Error("camera must be opened")
	}

	frame, err := cam.Read()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if frame.Width != 640 || frame.Height != 480 || frame.Channels != 3 {
		t.Errorf("frame = %dx%dx%d", frame.Width, frame.Height, frame.Channels)
	}
	if len(frame.Pixels) != 640*480*3 {
		t.Errorf("pixel buffer = %d bytes", len(frame.Pixels))
	}

	cam.Release()
	if cam.IsOpened() {
		t.Error("released camera must not be opened")
	}
}
