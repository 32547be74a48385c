package driver

import (
	"go.uber.org/zap"

	"github.com/taoyao-code/xbee-link/internal/protocol/xbeeapi"
)

// EventType 驱动对外发布的事件类型
type EventType string

const (
	EventCommandResponse       EventType = "command_response"
	EventModemStatus           EventType = "modem_status"
	EventTransmitStatus        EventType = "transmit_status"
	EventReceivePacket         EventType = "receive_packet"
	EventExplicitRxIndicator   EventType = "explicit_rx_indicator"
	EventNodeIdentification    EventType = "node_identification"
	EventRemoteCommandResponse EventType = "remote_command_response"
	EventPropertyChanged       EventType = "property_changed"
	EventNodeDiscovered        EventType = "node_discovered"
	EventRawLine               EventType = "raw_line"
)

// PropertyChange 单个寻址属性的变更
type PropertyChange struct {
	Name  string
	Value uint32 // NI 之外的属性取值
	Text  string // NI 的文本值
}

// Event 驱动事件。Type 决定哪个载荷字段有效，每帧恰好产生一个事件。
type Event struct {
	Type EventType

	Response       *xbeeapi.ATCommandResponse
	Modem          *xbeeapi.ModemStatus
	Transmit       *xbeeapi.TransmitStatus
	Receive        *xbeeapi.ReceivePacket
	ExplicitRx     *xbeeapi.ExplicitRxIndicator
	Identification *xbeeapi.NodeIdentification
	RemoteResponse *xbeeapi.RemoteATCommandResponse
	Property       *PropertyChange
	Node           *xbeeapi.Node
	Raw            []byte
}

// EventSink 事件接收方，由上层实现
type EventSink interface {
	HandleEvent(ev Event)
}

// EventSinkFunc 函数适配器
type EventSinkFunc func(ev Event)

// HandleEvent 实现 EventSink
func (f EventSinkFunc) HandleEvent(ev Event) { f(ev) }

// emitter 统一事件发送：sink 缺失时记录并丢弃
type emitter struct {
	sink EventSink
	log  *zap.Logger
}

func (e *emitter) emit(ev Event) {
	if e.sink == nil {
		e.log.Debug("event sink not configured, event dropped",
			zap.String("event_type", string(ev.Type)))
		return
	}
	e.sink.HandleEvent(ev)
}
