package transport

import (
	"bytes"
	"testing"
	"time"
)

func TestPipe_InjectNotify(t *testing.T) {
	p := NewPipe()
	p.Inject([]byte{0x7E, 0x00})

	select {
	case <-p.DataReady():
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("expected data ready notification")
	}
	if got := p.ReadAvailable(); !bytes.Equal(got, []byte{0x7E, 0x00}) {
		t.Fatalf("unexpected bytes: % X", got)
	}
	if got := p.ReadAvailable(); len(got) != 0 {
		t.Fatalf("expected drained buffer, got % X", got)
	}
}

func TestPipe_SuppressedNotify(t *testing.T) {
	p := NewPipe()
	p.SuppressNotifications(true)
	p.Inject([]byte{0x01})

	select {
	case <-p.DataReady():
		t.Fatalf("notification delivered while suppressed")
	case <-time.After(20 * time.Millisecond):
	}
	// 直接等待不受抑制影响
	if !p.WaitForDataReady(20 * time.Millisecond) {
		t.Fatalf("WaitForDataReady should see buffered bytes")
	}
}

func TestPipe_WriteWhileDisconnected(t *testing.T) {
	p := NewPipe()
	p.SetConnected(false)
	if _, err := p.Write([]byte{0x7E}); err != ErrNotConnected {
		t.Fatalf("expected ErrNotConnected, got %v", err)
	}
	if len(p.Writes()) != 0 {
		t.Fatalf("disconnected write must not be captured")
	}
}
