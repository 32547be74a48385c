package xbeeapi

import "fmt"

// TypeOf 读取一帧原始数据的类型标识（固定偏移 3）。
// 数据不足时返回 0。
func TypeOf(raw []byte) FrameType {
	if len(raw) < headerLen+1 {
		return 0
	}
	return FrameType(raw[headerLen])
}

// String 返回帧类型的可读名称，未知类型以十六进制表示
func (t FrameType) String() string {
	switch t {
	case FrameTypeATCommand:
		return "at_command"
	case FrameTypeATCommandQueue:
		return "at_command_queue"
	case FrameTypeTransmitRequest:
		return "transmit_request"
	case FrameTypeExplicitAddressingCommand:
		return "explicit_addressing_command"
	case FrameTypeRemoteATCommandRequest:
		return "remote_at_command_request"
	case FrameTypeATCommandResponse:
		return "at_command_response"
	case FrameTypeModemStatus:
		return "modem_status"
	case FrameTypeTransmitStatus:
		return "transmit_status"
	case FrameTypeReceivePacket:
		return "receive_packet"
	case FrameTypeExplicitRxIndicator:
		return "explicit_rx_indicator"
	case FrameTypeNodeIdentification:
		return "node_identification"
	case FrameTypeRemoteATCommandResponse:
		return "remote_at_command_response"
	}
	return fmt.Sprintf("unknown(0x%02X)", uint8(t))
}

// String 返回命令状态的可读名称
func (s CommandStatus) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusError:
		return "error"
	case StatusInvalidCommand:
		return "invalid_command"
	case StatusInvalidParameter:
		return "invalid_parameter"
	}
	return fmt.Sprintf("status(0x%02X)", uint8(s))
}

// ATCommandResponse AT 命令响应帧 (0x88)
// 载荷布局：type | frameId | cmd[2] | status | data..
type ATCommandResponse struct {
	FrameID uint8
	Command string
	Status  CommandStatus
	Data    []byte
}

// Ok 命令是否执行成功
func (r *ATCommandResponse) Ok() bool { return r.Status == StatusOK }

// ModemStatus 调制解调器状态帧 (0x8A)
type ModemStatus struct {
	Status uint8
}

// TransmitStatus 发送状态帧 (0x8B)
type TransmitStatus struct {
	FrameID         uint8
	DestAddr16      uint16
	RetryCount      uint8
	DeliveryStatus  uint8
	DiscoveryStatus uint8
}

// Delivered 载荷是否送达（delivery status 为 0）
func (s *TransmitStatus) Delivered() bool { return s.DeliveryStatus == 0x00 }

// ReceivePacket 接收指示帧 (0x90)
type ReceivePacket struct {
	SourceAddr64 uint64
	SourceAddr16 uint16
	Options      uint8
	Data         []byte
}

// ExplicitRxIndicator 显式寻址接收指示帧 (0x91)
type ExplicitRxIndicator struct {
	SourceAddr64   uint64
	SourceAddr16   uint16
	SourceEndpoint uint8
	DestEndpoint   uint8
	ClusterID      uint16
	ProfileID      uint16
	Options        uint8
	Data           []byte
}

// NodeIdentification 节点标识指示帧 (0x95)
type NodeIdentification struct {
	SenderAddr64   uint64
	SenderAddr16   uint16
	Options        uint8
	RemoteAddr16   uint16
	RemoteAddr64   uint64
	NodeIdentifier string
	ParentAddr16   uint16
	DeviceType     uint8
	SourceEvent    uint8
	ProfileID      uint16
	ManufacturerID uint16
}

// RemoteATCommandResponse 远程 AT 命令响应帧 (0x97)
type RemoteATCommandResponse struct {
	FrameID      uint8
	SourceAddr64 uint64
	SourceAddr16 uint16
	Command      string
	Status       CommandStatus
	Data         []byte
}
