package xbeeapi

import (
	"bytes"
	"errors"
	"testing"
)

func makeATResponse(frameID uint8, cmd string, status CommandStatus, data []byte) []byte {
	payload := append([]byte{byte(FrameTypeATCommandResponse), frameID, cmd[0], cmd[1], byte(status)}, data...)
	return wrapAPI(payload)
}

func TestBuildATCommand(t *testing.T) {
	raw, err := BuildATCommand(1, CmdAP, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []byte{0x7E, 0x00, 0x04, 0x08, 0x01, 0x41, 0x50, 0x65}
	if !bytes.Equal(raw, want) {
		t.Fatalf("unexpected frame: % X", raw)
	}
}

func TestBuildATCommand_BadCode(t *testing.T) {
	if _, err := BuildATCommand(1, "APX", nil); !errors.Is(err, ErrBadCommand) {
		t.Fatalf("expected ErrBadCommand, got %v", err)
	}
}

func TestDecodeATCommandResponse(t *testing.T) {
	raw := makeATResponse(0x07, CmdDH, StatusOK, []byte{0xAB, 0xCD})
	rep, err := DecodeATCommandResponse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.FrameID != 0x07 || rep.Command != CmdDH || !rep.Ok() {
		t.Fatalf("unexpected response: %+v", rep)
	}
	if !bytes.Equal(rep.Data, []byte{0xAB, 0xCD}) {
		t.Fatalf("unexpected data: % X", rep.Data)
	}
}

func TestDecodeATCommandResponse_TrailingBytes(t *testing.T) {
	// 同步路径会把缓冲区内的全部字节一次取走，声明长度之外允许有余量
	raw := append(makeATResponse(0x01, CmdHV, StatusOK, []byte{0x00, 0x17}), 0x7E, 0x00)
	rep, err := DecodeATCommandResponse(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.Command != CmdHV {
		t.Fatalf("unexpected command: %s", rep.Command)
	}
}

func TestDecodeATCommandResponse_BadChecksum(t *testing.T) {
	raw := makeATResponse(0x01, CmdDL, StatusOK, nil)
	raw[len(raw)-1] ^= 0xFF
	if _, err := DecodeATCommandResponse(raw); !errors.Is(err, ErrBadChecksum) {
		t.Fatalf("expected ErrBadChecksum, got %v", err)
	}
}

func TestDecodeATCommandResponse_EmptyPayload(t *testing.T) {
	// 声明长度为 0，空载荷的校验和恰为 0xFF，带一个尾随字节
	raw := []byte{0x7E, 0x00, 0x00, 0xFF, 0x42}
	if _, err := DecodeATCommandResponse(raw); !errors.Is(err, ErrShortFrame) {
		t.Fatalf("expected ErrShortFrame, got %v", err)
	}
	if _, err := DecodeModemStatus(raw); !errors.Is(err, ErrShortFrame) {
		t.Fatalf("expected ErrShortFrame, got %v", err)
	}
}

func TestDecodeATCommandResponse_WrongType(t *testing.T) {
	raw := wrapAPI([]byte{byte(FrameTypeModemStatus), 0x00})
	if _, err := DecodeATCommandResponse(raw); !errors.Is(err, ErrWrongType) {
		t.Fatalf("expected ErrWrongType, got %v", err)
	}
}

func TestDecodeModemStatus(t *testing.T) {
	raw := wrapAPI([]byte{byte(FrameTypeModemStatus), 0x06})
	st, err := DecodeModemStatus(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Status != 0x06 {
		t.Fatalf("unexpected status: 0x%02X", st.Status)
	}
}

func TestDecodeTransmitStatus(t *testing.T) {
	raw := wrapAPI([]byte{byte(FrameTypeTransmitStatus), 0x12, 0x7D, 0x84, 0x02, 0x00, 0x01})
	st, err := DecodeTransmitStatus(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.FrameID != 0x12 || st.DestAddr16 != 0x7D84 || st.RetryCount != 2 {
		t.Fatalf("unexpected status: %+v", st)
	}
	if !st.Delivered() {
		t.Fatalf("expected delivered")
	}
}

func TestDecodeReceivePacket(t *testing.T) {
	payload := []byte{byte(FrameTypeReceivePacket),
		0x00, 0x13, 0xA2, 0x00, 0x40, 0x52, 0x2B, 0xAA, // addr64
		0x7D, 0x84, // addr16
		0x01,             // options
		0x52, 0x78, 0x44, // data "RxD"
	}
	pkt, err := DecodeReceivePacket(wrapAPI(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pkt.SourceAddr64 != 0x0013A20040522BAA || pkt.SourceAddr16 != 0x7D84 {
		t.Fatalf("unexpected addresses: %+v", pkt)
	}
	if string(pkt.Data) != "RxD" {
		t.Fatalf("unexpected data: %q", pkt.Data)
	}
}

func TestDecodeRemoteATCommandResponse(t *testing.T) {
	payload := []byte{byte(FrameTypeRemoteATCommandResponse), 0x55,
		0x00, 0x13, 0xA2, 0x00, 0x40, 0x52, 0x2B, 0xAA,
		0x7D, 0x84,
		'S', 'L',
		0x00,
		0x40, 0x52, 0x2B, 0xAA,
	}
	rep, err := DecodeRemoteATCommandResponse(wrapAPI(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rep.FrameID != 0x55 || rep.Command != "SL" || rep.Status != StatusOK {
		t.Fatalf("unexpected response: %+v", rep)
	}
}

func TestDecodeNodeIdentification(t *testing.T) {
	payload := []byte{byte(FrameTypeNodeIdentification),
		0x00, 0x13, 0xA2, 0x00, 0x40, 0x52, 0x2B, 0xAA, // sender64
		0x7D, 0x84, // sender16
		0x02,       // options
		0x7D, 0x84, // remote16
		0x00, 0x13, 0xA2, 0x00, 0x40, 0x52, 0x2B, 0xAA, // remote64
		'N', 'O', 'D', 'E', 0x00, // NI + NUL
		0xFF, 0xFE, // parent16
		0x01,       // device type
		0x01,       // source event
		0xC1, 0x05, // profile
		0x10, 0x1E, // manufacturer
	}
	ni, err := DecodeNodeIdentification(wrapAPI(payload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ni.NodeIdentifier != "NODE" || ni.ParentAddr16 != 0xFFFE || ni.ProfileID != 0xC105 {
		t.Fatalf("unexpected frame: %+v", ni)
	}
}

func TestParseNodeDiscovery(t *testing.T) {
	data := []byte{
		0x7D, 0x84, // MY
		0x00, 0x13, 0xA2, 0x00, // SH
		0x40, 0x52, 0x2B, 0xAA, // SL
		'R', 'E', 'M', 'O', 'T', 'E', 0x00,
		0xFF, 0xFE, // parent
		0x01,       // device type
		0x00,       // status
		0xC1, 0x05, // profile
		0x10, 0x1E, // manufacturer
	}
	n, err := ParseNodeDiscovery(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n.NodeIdentifier != "REMOTE" || n.Addr16 != 0x7D84 {
		t.Fatalf("unexpected node: %+v", n)
	}
	if n.Addr64() != 0x0013A20040522BAA {
		t.Fatalf("unexpected addr64: %016X", n.Addr64())
	}
}

func TestParseNodeDiscovery_EndMarker(t *testing.T) {
	n, err := ParseNodeDiscovery(nil)
	if err != nil || n != nil {
		t.Fatalf("expected nil, nil for empty data, got %+v, %v", n, err)
	}
}

func TestBuildTransmitRequest(t *testing.T) {
	raw := BuildTransmitRequest(0x01, BroadcastAddr64, UnknownAddr16, 0x00, 0x00, []byte("TX"))
	if TypeOf(raw) != FrameTypeTransmitRequest {
		t.Fatalf("unexpected type: %v", TypeOf(raw))
	}
	n := int(raw[2])
	if Checksum(raw[3:3+n]) != raw[3+n] {
		t.Fatalf("checksum mismatch: % X", raw)
	}
}
