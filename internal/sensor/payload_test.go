package sensor

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"sensoragent/internal/config"
	"sensoragent/internal/source"
)

var payloadTestTime = time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)

func decodePayload(t *testing.T, data []byte) Payload {
	t.Helper()
	if len(data) == 0 || data[len(data)-1] != '\n' {
		t.Fatal("payload must be newline-terminated")
	}
	var p Payload
	if err := json.Unmarshal(bytes.TrimRight(data, "\n"), &p); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	return p
}

func TestBuildPayload_ConfiguredUnitWins(t *testing.T) {
	cfg := config.SensorConfig{
		SensorID:        "cam-1",
		IntervalSeconds: 1,
		Units:           map[string]string{"frame_width": "px"},
	}

	data, err := buildPayload(cfg, source.Readings{"frame_width": 640.0}, payloadTestTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	p := decodePayload(t, data)
	r, ok := p.Readings["frame_width"]
	if !ok {
		t.Fatal("missing frame_width reading")
	}
	if r.Value != 640.0 {
		t.Errorf("value = %v, want 640.0", r.Value)
	}
	if r.Unit != "px" {
		t.Errorf("unit = %q, want %q (configured override)", r.Unit, "px")
	}
}

func TestBuildPayload_UnitInference(t *testing.T) {
	tests := []struct {
		metric string
		want   string
	}{
		{"frame_width", "pixels"},
		{"frame_height", "pixels"},
		{"channels", "count"},
		{"payload_bytes", "bytes"},
		{"frame_size", "bytes"},
		{"brightness", "intensity"},
		{"mean_luma", "intensity"},
		{"foo", "unknown"},
	}

	cfg := config.SensorConfig{SensorID: "s", IntervalSeconds: 1}
	for _, tt := range tests {
		t.Run(tt.metric, func(t *testing.T) {
			data, err := buildPayload(cfg, source.Readings{tt.metric: 1.0}, payloadTestTime)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			p := decodePayload(t, data)
			if got := p.Readings[tt.metric].Unit; got != tt.want {
				t.Errorf("unit for %q = %q, want %q", tt.metric, got, tt.want)
			}
		})
	}
}

func TestBuildPayload_RoundsValues(t *testing.T) {
	cfg := config.SensorConfig{SensorID: "s", IntervalSeconds: 1}
	data, err := buildPayload(cfg, source.Readings{"temperature": 21.123456}, payloadTestTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := decodePayload(t, data)
	if got := p.Readings["temperature"].Value; got != 21.123 {
		t.Errorf("value = %v, want 21.123", got)
	}
}

func TestBuildPayload_MetadataOmittedWhenEmpty(t *testing.T) {
	cfg := config.SensorConfig{SensorID: "s", IntervalSeconds: 1}
	data, err := buildPayload(cfg, source.Readings{"v": 1}, payloadTestTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(bytes.TrimRight(data, "\n"), &raw); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if _, present := raw["metadata"]; present {
		t.Error("empty metadata must be omitted from the payload")
	}

	cfg.Metadata = map[string]string{"environment": "unit-test"}
	data, err = buildPayload(cfg, source.Readings{"v": 1}, payloadTestTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := decodePayload(t, data)
	if p.Metadata["environment"] != "unit-test" {
		t.Errorf("metadata = %v, want environment=unit-test", p.Metadata)
	}
}

func TestBuildPayload_Timestamp(t *testing.T) {
	cfg := config.SensorConfig{SensorID: "s", IntervalSeconds: 1}
	data, err := buildPayload(cfg, source.Readings{"v": 1}, payloadTestTime)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	p := decodePayload(t, data)
	if p.TimestampMS != payloadTestTime.UnixMilli() {
		t.Errorf("timestamp_ms = %d, want %d", p.TimestampMS, payloadTestTime.UnixMilli())
	}
}
