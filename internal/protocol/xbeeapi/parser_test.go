package xbeeapi

import (
	"bytes"
	"testing"
)

func TestFeed_ExactFrame(t *testing.T) {
	d := NewStreamDecoder(APIMode)
	raw := []byte{0x7E, 0x00, 0x02, 0x8A, 0x06, 0x6F}
	frames := d.Feed(raw)
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	if !bytes.Equal(frames[0], raw) {
		t.Fatalf("unexpected frame: % X", frames[0])
	}
	if d.Pending() != 0 {
		t.Fatalf("buffer not empty: %d bytes left", d.Pending())
	}
}

func TestFeed_SplitDelivery(t *testing.T) {
	d := NewStreamDecoder(APIMode)
	raw := []byte{0x7E, 0x00, 0x02, 0x8A, 0x06, 0x6F}
	if frames := d.Feed(raw[:4]); len(frames) != 0 {
		t.Fatalf("expected no frame after partial feed, got %d", len(frames))
	}
	frames := d.Feed(raw[4:])
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame after completion, got %d", len(frames))
	}
	if !bytes.Equal(frames[0], raw) {
		t.Fatalf("unexpected frame: % X", frames[0])
	}
}

func TestFeed_GarbagePrefix(t *testing.T) {
	d := NewStreamDecoder(APIMode)
	frames := d.Feed([]byte{0x01, 0x02, 0x7E, 0x00, 0x02, 0x90, 0xAB, 0x39})
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	want := []byte{0x7E, 0x00, 0x02, 0x90, 0xAB, 0x39}
	if !bytes.Equal(frames[0], want) {
		t.Fatalf("unexpected frame: % X", frames[0])
	}
}

func TestFeed_ConcatenatedFrames(t *testing.T) {
	d := NewStreamDecoder(APIMode)
	a := []byte{0x7E, 0x00, 0x02, 0x8A, 0x06, 0x6F}
	b := []byte{0x7E, 0x00, 0x02, 0x8A, 0x00, 0x75}
	frames := d.Feed(append(append([]byte{}, a...), b...))
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	if !bytes.Equal(frames[0], a) || !bytes.Equal(frames[1], b) {
		t.Fatalf("unexpected frames: % X / % X", frames[0], frames[1])
	}
}

func TestFeed_TrailingBytesKept(t *testing.T) {
	d := NewStreamDecoder(APIMode)
	full := []byte{0x7E, 0x00, 0x02, 0x8A, 0x06, 0x6F, 0x7E, 0x00}
	frames := d.Feed(full)
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}
	if d.Pending() != 2 {
		t.Fatalf("expected 2 pending bytes, got %d", d.Pending())
	}
}

func TestFeed_Transparent(t *testing.T) {
	d := NewStreamDecoder(TransparentMode)
	if frames := d.Feed([]byte("OK")); len(frames) != 0 {
		t.Fatalf("expected no payload before terminator, got %d", len(frames))
	}
	frames := d.Feed([]byte{LineTerminator})
	if len(frames) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(frames))
	}
	if !bytes.Equal(frames[0], []byte{'O', 'K', LineTerminator}) {
		t.Fatalf("unexpected payload: % X", frames[0])
	}
	if d.Pending() != 0 {
		t.Fatalf("buffer not cleared: %d bytes left", d.Pending())
	}
}

func TestFeed_TransparentMidStream(t *testing.T) {
	d := NewStreamDecoder(TransparentMode)
	// CR 出现在中间不触发：仅缓冲区末字节为 CR 时整段发出
	frames := d.Feed(append(append([]byte("A"), LineTerminator), 'B'))
	if len(frames) != 0 {
		t.Fatalf("expected no payload, got %d", len(frames))
	}
	frames = d.Feed([]byte{LineTerminator})
	if len(frames) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(frames))
	}
	if d.Pending() != 0 {
		t.Fatalf("buffer not cleared")
	}
}
