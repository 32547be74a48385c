package xbeeapi

import (
	"encoding/binary"
	"errors"
)

var (
	// ErrBadCommand AT 命令码必须为两个 ASCII 字符
	ErrBadCommand = errors.New("bad at command code")
)

// 广播与未知地址
const (
	BroadcastAddr64 uint64 = 0x000000000000FFFF
	UnknownAddr16   uint16 = 0xFFFE
)

// wrapAPI 将载荷（type 起）封装为完整 API 帧：
// 0x7E | lenHi | lenLo | payload.. | checksum
func wrapAPI(payload []byte) []byte {
	frame := make([]byte, 0, headerLen+len(payload)+checksumLen)
	frame = append(frame, StartDelimiter)
	frame = append(frame, byte(len(payload)>>8), byte(len(payload)&0xFF))
	frame = append(frame, payload...)
	frame = append(frame, Checksum(payload))
	return frame
}

// BuildATCommand 构造本地 AT 命令帧 (0x08)。
// param 为空表示查询，非空表示设置（数值参数按十进制文本编码由调用方负责）。
func BuildATCommand(frameID uint8, cmd string, param []byte) ([]byte, error) {
	return buildATFrame(FrameTypeATCommand, frameID, cmd, param)
}

// BuildATCommandQueue 构造排队 AT 命令帧 (0x09)，参数暂存不立即生效
func BuildATCommandQueue(frameID uint8, cmd string, param []byte) ([]byte, error) {
	return buildATFrame(FrameTypeATCommandQueue, frameID, cmd, param)
}

func buildATFrame(t FrameType, frameID uint8, cmd string, param []byte) ([]byte, error) {
	if len(cmd) != 2 {
		return nil, ErrBadCommand
	}
	payload := make([]byte, 0, 4+len(param))
	payload = append(payload, byte(t), frameID, cmd[0], cmd[1])
	payload = append(payload, param...)
	return wrapAPI(payload), nil
}

// BuildTransmitRequest 构造发送请求帧 (0x10)
func BuildTransmitRequest(frameID uint8, dest64 uint64, dest16 uint16, radius, options uint8, data []byte) []byte {
	payload := make([]byte, 0, 14+len(data))
	payload = append(payload, byte(FrameTypeTransmitRequest), frameID)
	payload = binary.BigEndian.AppendUint64(payload, dest64)
	payload = binary.BigEndian.AppendUint16(payload, dest16)
	payload = append(payload, radius, options)
	payload = append(payload, data...)
	return wrapAPI(payload)
}

// BuildExplicitAddressingCommand 构造显式寻址发送帧 (0x11)
func BuildExplicitAddressingCommand(frameID uint8, dest64 uint64, dest16 uint16,
	srcEndpoint, destEndpoint uint8, clusterID, profileID uint16,
	radius, options uint8, data []byte,
) []byte {
	payload := make([]byte, 0, 20+len(data))
	payload = append(payload, byte(FrameTypeExplicitAddressingCommand), frameID)
	payload = binary.BigEndian.AppendUint64(payload, dest64)
	payload = binary.BigEndian.AppendUint16(payload, dest16)
	payload = append(payload, srcEndpoint, destEndpoint)
	payload = binary.BigEndian.AppendUint16(payload, clusterID)
	payload = binary.BigEndian.AppendUint16(payload, profileID)
	payload = append(payload, radius, options)
	payload = append(payload, data...)
	return wrapAPI(payload)
}

// BuildRemoteATCommand 构造远程 AT 命令请求帧 (0x17)
func BuildRemoteATCommand(frameID uint8, dest64 uint64, dest16 uint16, options uint8, cmd string, param []byte) ([]byte, error) {
	if len(cmd) != 2 {
		return nil, ErrBadCommand
	}
	payload := make([]byte, 0, 15+len(param))
	payload = append(payload, byte(FrameTypeRemoteATCommandRequest), frameID)
	payload = binary.BigEndian.AppendUint64(payload, dest64)
	payload = binary.BigEndian.AppendUint16(payload, dest16)
	payload = append(payload, options, cmd[0], cmd[1])
	payload = append(payload, param...)
	return wrapAPI(payload), nil
}
