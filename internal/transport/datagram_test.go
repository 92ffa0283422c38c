package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"sensoragent/internal/logger"
)

func startDatagramServer(t *testing.T) (port int, pc net.PacketConn) {
	t.Helper()
	pc, err := net.ListenPacket("udp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to listen: %v", err)
	}
	t.Cleanup(func() { pc.Close() })
	return pc.LocalAddr().(*net.UDPAddr).Port, pc
}

func TestDatagram_EstablishAndSend(t *testing.T) {
	port, pc := startDatagramServer(t)

	d := NewDatagram("127.0.0.1", port, logger.Nop())
	if err := d.Establish(context.Background()); err != nil {
		t.Fatalf("establish failed: %v", err)
	}
	defer d.Close()

	if !d.IsEstablished() {
		t.Fatal("expected established connection")
	}

	payload := []byte(`{"sensor_id":"s1"}` + "\n")
	n, err := d.SendAll(payload)
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if n != len(payload) {
		t.Fatalf("expected %d bytes sent, got %d", len(payload), n)
	}

	buf := make([]byte, 2048)
	pc.SetReadDeadline(time.Now().Add(2 * time.Second))
	rn, _, err := pc.ReadFrom(buf)
	if err != nil {
		t.Fatalf("peer read failed: %v", err)
	}
	if string(buf[:rn]) != string(payload) {
		t.Errorf("peer observed %q, want %q", buf[:rn], payload)
	}
}

func TestDatagram_EachSendIsOneDatagram(t *testing.T) {
	port, pc := startDatagramServer(t)

	d := NewDatagram("127.0.0.1", port, logger.Nop())
	if err := d.Establish(context.Background()); err != nil {
		t.Fatalf("establish failed: %v", err)
	}
	defer d.Close()

	const count = 5
	sent := make(map[string]bool, count)
	for i := 0; i < count; i++ {
		payload := fmt.Sprintf("payload-%d\n", i)
		sent[payload] = true
		if _, err := d.SendAll([]byte(payload)); err != nil {
			t.Fatalf("send %d failed: %v", i, err)
		}
	}

	// Each send must arrive as exactly one datagram with exact content.
	buf := make([]byte, 2048)
	for i := 0; i < count; i++ {
		pc.SetReadDeadline(time.Now().Add(2 * time.Second))
		rn, _, err := pc.ReadFrom(buf)
		if err != nil {
			t.Fatalf("peer read %d failed: %v", i, err)
		}
		got := string(buf[:rn])
		if !sent[got] {
			t.Errorf("peer observed unexpected datagram %q", got)
		}
		delete(sent, got)
	}
	if len(sent) != 0 {
		t.Errorf("%d datagrams never observed by peer", len(sent))
	}
}

func TestDatagram_SendBeforeEstablish(t *testing.T) {
	d := NewDatagram("127.0.0.1", 9000, logger.Nop())

	n, err := d.SendAll([]byte("data"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if n != 0 {
		t.Errorf("expected 0 bytes sent, got %d", n)
	}
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("expected ErrNotConnected, got %v", err)
	}
}

func TestDatagram_EstablishIsIdempotent(t *testing.T) {
	port, _ := startDatagramServer(t)

	d := NewDatagram("127.0.0.1", port, logger.Nop())
	if err := d.Establish(context.Background()); err != nil {
		t.Fatalf("establish failed: %v", err)
	}
	defer d.Close()

	first := d.conn
	if err := d.Establish(context.Background()); err != nil {
		t.Fatalf("second establish failed: %v", err)
	}
	if d.conn != first {
		t.Error("second establish must be a no-op")
	}
}

func TestDatagram_CloseIsIdempotent(t *testing.T) {
	port, _ := startDatagramServer(t)

	d := NewDatagram("127.0.0.1", port, logger.Nop())
	if err := d.Close(); err != nil {
		t.Fatalf("close on fresh connection: %v", err)
	}

	if err := d.Establish(context.Background()); err != nil {
		t.Fatalf("establish failed: %v", err)
	}
	for i := 0; i < 3; i++ {
		if err := d.Close(); err != nil {
			t.Fatalf("close #%d returned error: %v", i+1, err)
		}
		if d.IsEstablished() {
			t.Fatalf("close #%d left connection established", i+1)
		}
	}
}

func TestDatagram_ResolveFailure(t *testing.T) {
	d := NewDatagram("host.invalid", 9000, logger.Nop())
	if err := d.Establish(context.Background()); err == nil {
		d.Close()
		t.Fatal("expected resolution failure")
	}
}
