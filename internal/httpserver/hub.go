package httpserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/taoyao-code/xbee-link/internal/driver"
)

// wsFrame WebSocket 客户端收到的事件帧
type wsFrame struct {
	Type  string `json:"type"`
	Event any    `json:"event,omitempty"`
	Stamp int64  `json:"stamp"` // Unix ms
}

type wsClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub 把驱动事件扇出到所有 WebSocket 客户端。
// 实现 driver.EventSink，可直接作为驱动的事件接收方。
type Hub struct {
	log      *zap.Logger
	upgrader websocket.Upgrader

	mu      sync.RWMutex
	clients map[*wsClient]struct{}
}

// NewHub 创建空的事件扇出中心
func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		log:     log,
		clients: make(map[*wsClient]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// HandleEvent 实现 driver.EventSink：序列化事件并广播。
// 慢客户端直接跳过，不阻塞驱动事件循环。
func (h *Hub) HandleEvent(ev driver.Event) {
	data, err := json.Marshal(wsFrame{
		Type:  string(ev.Type),
		Event: eventPayload(ev),
		Stamp: time.Now().UnixMilli(),
	})
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- data:
		default:
		}
	}
}

// eventPayload 取事件中有效的载荷字段
func eventPayload(ev driver.Event) any {
	switch ev.Type {
	case driver.EventCommandResponse:
		return ev.Response
	case driver.EventModemStatus:
		return ev.Modem
	case driver.EventTransmitStatus:
		return ev.Transmit
	case driver.EventReceivePacket:
		return ev.Receive
	case driver.EventExplicitRxIndicator:
		return ev.ExplicitRx
	case driver.EventNodeIdentification:
		return ev.Identification
	case driver.EventRemoteCommandResponse:
		return ev.RemoteResponse
	case driver.EventPropertyChanged:
		return ev.Property
	case driver.EventNodeDiscovered:
		return ev.Node
	case driver.EventRawLine:
		return string(ev.Raw)
	}
	return nil
}

// ClientCount 当前连接的客户端数
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeWS 升级为 WebSocket 连接并注册客户端
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	c := &wsClient{conn: conn, send: make(chan []byte, 64)}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	total := len(h.clients)
	h.mu.Unlock()
	h.log.Info("websocket client connected", zap.Int("total", total))

	go func() {
		defer conn.Close()
		for msg := range c.send {
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		}
	}()

	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.clients, c)
			total := len(h.clients)
			h.mu.Unlock()
			close(c.send)
			h.log.Info("websocket client disconnected", zap.Int("total", total))
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
