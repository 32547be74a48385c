package xbeeapi

import (
	"encoding/binary"
	"errors"
)

var (
	ErrShortFrame   = errors.New("short frame")
	ErrInvalidStart = errors.New("invalid start delimiter")
	ErrBadChecksum  = errors.New("bad checksum")
	ErrWrongType    = errors.New("wrong frame type")
)

// payloadOf 校验帧结构并返回载荷（type 起至校验和前）。
// 仅按低字节长度取载荷，声明长度之后允许存在多余字节：
// 同步路径一次性取走读缓冲，响应之后可能跟有其它帧的字节。
func payloadOf(raw []byte) ([]byte, error) {
	if len(raw) < headerLen+1+checksumLen {
		return nil, ErrShortFrame
	}
	if raw[0] != StartDelimiter {
		return nil, ErrInvalidStart
	}
	n := int(raw[2])
	// 载荷至少要容纳类型标识，声明长度为 0 的帧直接拒绝
	if n < 1 {
		return nil, ErrShortFrame
	}
	if len(raw) < headerLen+n+checksumLen {
		return nil, ErrShortFrame
	}
	payload := raw[headerLen : headerLen+n]
	if Checksum(payload) != raw[headerLen+n] {
		return nil, ErrBadChecksum
	}
	return payload, nil
}

// DecodeATCommandResponse 解码 AT 命令响应帧 (0x88)
func DecodeATCommandResponse(raw []byte) (*ATCommandResponse, error) {
	p, err := payloadOf(raw)
	if err != nil {
		return nil, err
	}
	if FrameType(p[0]) != FrameTypeATCommandResponse {
		return nil, ErrWrongType
	}
	if len(p) < 5 {
		return nil, ErrShortFrame
	}
	return &ATCommandResponse{
		FrameID: p[1],
		Command: string(p[2:4]),
		Status:  CommandStatus(p[4]),
		Data:    p[5:],
	}, nil
}

// DecodeModemStatus 解码调制解调器状态帧 (0x8A)
func DecodeModemStatus(raw []byte) (*ModemStatus, error) {
	p, err := payloadOf(raw)
	if err != nil {
		return nil, err
	}
	if FrameType(p[0]) != FrameTypeModemStatus {
		return nil, ErrWrongType
	}
	if len(p) < 2 {
		return nil, ErrShortFrame
	}
	return &ModemStatus{Status: p[1]}, nil
}

// DecodeTransmitStatus 解码发送状态帧 (0x8B)
func DecodeTransmitStatus(raw []byte) (*TransmitStatus, error) {
	p, err := payloadOf(raw)
	if err != nil {
		return nil, err
	}
	if FrameType(p[0]) != FrameTypeTransmitStatus {
		return nil, ErrWrongType
	}
	if len(p) < 7 {
		return nil, ErrShortFrame
	}
	return &TransmitStatus{
		FrameID:         p[1],
		DestAddr16:      binary.BigEndian.Uint16(p[2:4]),
		RetryCount:      p[4],
		DeliveryStatus:  p[5],
		DiscoveryStatus: p[6],
	}, nil
}

// DecodeReceivePacket 解码接收指示帧 (0x90)
func DecodeReceivePacket(raw []byte) (*ReceivePacket, error) {
	p, err := payloadOf(raw)
	if err != nil {
		return nil, err
	}
	if FrameType(p[0]) != FrameTypeReceivePacket {
		return nil, ErrWrongType
	}
	if len(p) < 12 {
		return nil, ErrShortFrame
	}
	return &ReceivePacket{
		SourceAddr64: binary.BigEndian.Uint64(p[1:9]),
		SourceAddr16: binary.BigEndian.Uint16(p[9:11]),
		Options:      p[11],
		Data:         p[12:],
	}, nil
}

// DecodeExplicitRxIndicator 解码显式寻址接收指示帧 (0x91)
func DecodeExplicitRxIndicator(raw []byte) (*ExplicitRxIndicator, error) {
	p, err := payloadOf(raw)
	if err != nil {
		return nil, err
	}
	if FrameType(p[0]) != FrameTypeExplicitRxIndicator {
		return nil, ErrWrongType
	}
	if len(p) < 18 {
		return nil, ErrShortFrame
	}
	return &ExplicitRxIndicator{
		SourceAddr64:   binary.BigEndian.Uint64(p[1:9]),
		SourceAddr16:   binary.BigEndian.Uint16(p[9:11]),
		SourceEndpoint: p[11],
		DestEndpoint:   p[12],
		ClusterID:      binary.BigEndian.Uint16(p[13:15]),
		ProfileID:      binary.BigEndian.Uint16(p[15:17]),
		Options:        p[17],
		Data:           p[18:],
	}, nil
}

// DecodeNodeIdentification 解码节点标识指示帧 (0x95)。
// NI 字符串以 NUL 结尾，其后为父节点地址与设备描述字段。
func DecodeNodeIdentification(raw []byte) (*NodeIdentification, error) {
	p, err := payloadOf(raw)
	if err != nil {
		return nil, err
	}
	if FrameType(p[0]) != FrameTypeNodeIdentification {
		return nil, ErrWrongType
	}
	if len(p) < 23 {
		return nil, ErrShortFrame
	}
	ni := &NodeIdentification{
		SenderAddr64: binary.BigEndian.Uint64(p[1:9]),
		SenderAddr16: binary.BigEndian.Uint16(p[9:11]),
		Options:      p[11],
		RemoteAddr16: binary.BigEndian.Uint16(p[12:14]),
		RemoteAddr64: binary.BigEndian.Uint64(p[14:22]),
	}
	// NUL 结尾的 NI 字符串
	off := 22
	end := off
	for end < len(p) && p[end] != 0x00 {
		end++
	}
	if end >= len(p) {
		return nil, ErrShortFrame
	}
	ni.NodeIdentifier = string(p[off:end])
	off = end + 1
	if off+8 > len(p) {
		return nil, ErrShortFrame
	}
	ni.ParentAddr16 = binary.BigEndian.Uint16(p[off : off+2])
	ni.DeviceType = p[off+2]
	ni.SourceEvent = p[off+3]
	ni.ProfileID = binary.BigEndian.Uint16(p[off+4 : off+6])
	ni.ManufacturerID = binary.BigEndian.Uint16(p[off+6 : off+8])
	return ni, nil
}

// DecodeRemoteATCommandResponse 解码远程 AT 命令响应帧 (0x97)
func DecodeRemoteATCommandResponse(raw []byte) (*RemoteATCommandResponse, error) {
	p, err := payloadOf(raw)
	if err != nil {
		return nil, err
	}
	if FrameType(p[0]) != FrameTypeRemoteATCommandResponse {
		return nil, ErrWrongType
	}
	if len(p) < 15 {
		return nil, ErrShortFrame
	}
	return &RemoteATCommandResponse{
		FrameID:      p[1],
		SourceAddr64: binary.BigEndian.Uint64(p[2:10]),
		SourceAddr16: binary.BigEndian.Uint16(p[10:12]),
		Command:      string(p[12:14]),
		Status:       CommandStatus(p[14]),
		Data:         p[15:],
	}, nil
}
