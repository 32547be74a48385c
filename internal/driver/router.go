package driver

import (
	"go.uber.org/zap"

	"github.com/taoyao-code/xbee-link/internal/metrics"
	"github.com/taoyao-code/xbee-link/internal/protocol/xbeeapi"
)

// Router 帧分发器：按偏移 3 的类型标识解码一帧并恰好发出一个事件。
// AT 命令响应在发出通用事件之前先经属性处理；未知类型记录后丢弃，
// 不影响缓冲区状态。
type Router struct {
	store *PropertyStore
	em    *emitter
	log   *zap.Logger
	m     *metrics.AppMetrics
}

// NewRouter 创建帧分发器
func NewRouter(store *PropertyStore, sink EventSink, log *zap.Logger, m *metrics.AppMetrics) *Router {
	return &Router{
		store: store,
		em:    &emitter{sink: sink, log: log},
		log:   log,
		m:     m,
	}
}

// Route 分发一帧原始数据
func (r *Router) Route(raw []byte) {
	t := xbeeapi.TypeOf(raw)
	switch t {
	case xbeeapi.FrameTypeATCommandResponse:
		rep, err := xbeeapi.DecodeATCommandResponse(raw)
		if err != nil {
			r.decodeFailed(t, raw, err)
			return
		}
		r.routed(t)
		r.handleATResponse(rep)

	case xbeeapi.FrameTypeModemStatus:
		st, err := xbeeapi.DecodeModemStatus(raw)
		if err != nil {
			r.decodeFailed(t, raw, err)
			return
		}
		r.routed(t)
		r.em.emit(Event{Type: EventModemStatus, Modem: st})

	case xbeeapi.FrameTypeTransmitStatus:
		st, err := xbeeapi.DecodeTransmitStatus(raw)
		if err != nil {
			r.decodeFailed(t, raw, err)
			return
		}
		r.routed(t)
		r.em.emit(Event{Type: EventTransmitStatus, Transmit: st})

	case xbeeapi.FrameTypeReceivePacket:
		pkt, err := xbeeapi.DecodeReceivePacket(raw)
		if err != nil {
			r.decodeFailed(t, raw, err)
			return
		}
		r.routed(t)
		r.em.emit(Event{Type: EventReceivePacket, Receive: pkt})

	case xbeeapi.FrameTypeExplicitRxIndicator:
		ind, err := xbeeapi.DecodeExplicitRxIndicator(raw)
		if err != nil {
			r.decodeFailed(t, raw, err)
			return
		}
		r.routed(t)
		r.em.emit(Event{Type: EventExplicitRxIndicator, ExplicitRx: ind})

	case xbeeapi.FrameTypeNodeIdentification:
		ni, err := xbeeapi.DecodeNodeIdentification(raw)
		if err != nil {
			r.decodeFailed(t, raw, err)
			return
		}
		r.routed(t)
		r.em.emit(Event{Type: EventNodeIdentification, Identification: ni})

	case xbeeapi.FrameTypeRemoteATCommandResponse:
		rep, err := xbeeapi.DecodeRemoteATCommandResponse(raw)
		if err != nil {
			r.decodeFailed(t, raw, err)
			return
		}
		r.routed(t)
		r.em.emit(Event{Type: EventRemoteCommandResponse, RemoteResponse: rep})

	default:
		r.m.UnknownFrames.Inc()
		r.log.Warn("unknown frame type, discarded",
			zap.String("type", t.String()),
			zap.Binary("frame", raw))
	}
}

// handleATResponse AT 命令响应处理：
// 成功状态才更新属性；ND 响应交节点发现解析器；未识别命令码仅告警。
// 任何情况下都会发出通用的 command_response 事件。
func (r *Router) handleATResponse(rep *xbeeapi.ATCommandResponse) {
	if rep.Ok() {
		switch {
		case rep.Command == xbeeapi.CmdND:
			node, err := xbeeapi.ParseNodeDiscovery(rep.Data)
			if err != nil {
				r.log.Warn("node discovery payload parse failed", zap.Error(err))
			} else if node != nil {
				r.em.emit(Event{Type: EventNodeDiscovered, Node: node})
			}

		case isAddressingProperty(rep.Command):
			change, ok := r.store.Apply(rep)
			if ok {
				r.m.PropertyUpdates.Inc()
				r.em.emit(Event{Type: EventPropertyChanged, Property: &change})
			} else {
				// 转换失败，旧值保留
				r.log.Warn("property value conversion failed, keeping previous",
					zap.String("command", rep.Command),
					zap.Binary("data", rep.Data))
			}

		default:
			r.log.Warn("unhandled at command code",
				zap.String("command", rep.Command))
		}
	} else {
		r.log.Debug("at command reported failure status",
			zap.String("command", rep.Command),
			zap.String("status", rep.Status.String()))
	}
	r.em.emit(Event{Type: EventCommandResponse, Response: rep})
}

func (r *Router) routed(t xbeeapi.FrameType) {
	r.m.FramesRouted.WithLabelValues(t.String()).Inc()
}

func (r *Router) decodeFailed(t xbeeapi.FrameType, raw []byte, err error) {
	r.m.FrameDecodeErrs.WithLabelValues(t.String()).Inc()
	r.log.Warn("frame decode failed",
		zap.String("type", t.String()),
		zap.Binary("frame", raw),
		zap.Error(err))
}
