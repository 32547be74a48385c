package driver

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/taoyao-code/xbee-link/internal/metrics"
	"github.com/taoyao-code/xbee-link/internal/protocol/xbeeapi"
)

func newTestRouter(sink EventSink) (*Router, *PropertyStore, *metrics.AppMetrics) {
	store := NewPropertyStore()
	m := metrics.NewAppMetrics(prometheus.NewRegistry())
	return NewRouter(store, sink, zap.NewNop(), m), store, m
}

func deviceFrame(frameType byte, rest ...byte) []byte {
	payload := append([]byte{frameType}, rest...)
	frame := []byte{xbeeapi.StartDelimiter, 0x00, byte(len(payload))}
	frame = append(frame, payload...)
	return append(frame, xbeeapi.Checksum(payload))
}

func TestRouterUnknownTypeDiscarded(t *testing.T) {
	var got []Event
	r, _, m := newTestRouter(EventSinkFunc(func(ev Event) { got = append(got, ev) }))

	r.Route(deviceFrame(0x42, 0x01, 0x02))

	assert.Empty(t, got)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.UnknownFrames))
}

func TestRouterDecodeFailureCounted(t *testing.T) {
	var got []Event
	r, _, m := newTestRouter(EventSinkFunc(func(ev Event) { got = append(got, ev) }))

	// 载荷过短的接收包：类型可辨，解码失败
	r.Route(deviceFrame(byte(xbeeapi.FrameTypeReceivePacket), 0x01, 0x02))

	assert.Empty(t, got)
	typ := xbeeapi.FrameTypeReceivePacket.String()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.FrameDecodeErrs.WithLabelValues(typ)))
}

func TestRouterModemStatus(t *testing.T) {
	var got []Event
	r, _, _ := newTestRouter(EventSinkFunc(func(ev Event) { got = append(got, ev) }))

	r.Route(deviceFrame(byte(xbeeapi.FrameTypeModemStatus), 0x06))

	require.Len(t, got, 1)
	require.Equal(t, EventModemStatus, got[0].Type)
	assert.Equal(t, uint8(0x06), got[0].Modem.Status)
}

func TestRouterFailedATResponseSkipsStore(t *testing.T) {
	var got []Event
	r, store, _ := newTestRouter(EventSinkFunc(func(ev Event) { got = append(got, ev) }))

	frame := atResponseFrame(3, xbeeapi.CmdDH, 0x01, []byte{0xAB})
	r.Route(frame)

	// 失败状态不更新缓存，但通用响应事件仍然发出
	_, found := store.Get(xbeeapi.CmdDH)
	assert.False(t, found)
	require.Len(t, got, 1)
	assert.Equal(t, EventCommandResponse, got[0].Type)
}

func TestRouterNodeDiscovery(t *testing.T) {
	var got []Event
	r, _, _ := newTestRouter(EventSinkFunc(func(ev Event) { got = append(got, ev) }))

	data := []byte{
		0x12, 0x34, // MY
		0x00, 0x13, 0xA2, 0x00, // SH
		0x40, 0x01, 0x02, 0x03, // SL
		'N', '1', 0x00, // NI
		0xFF, 0xFE, // parent
		0x01,       // device type
		0x00,       // source event
		0xC1, 0x05, // profile
		0x10, 0x1E, // manufacturer
	}
	r.Route(atResponseFrame(2, xbeeapi.CmdND, 0x00, data))

	require.Len(t, got, 2)
	require.Equal(t, EventNodeDiscovered, got[0].Type)
	assert.Equal(t, "N1", got[0].Node.NodeIdentifier)
	assert.Equal(t, uint64(0x0013A20040010203), got[0].Node.Addr64())
	assert.Equal(t, EventCommandResponse, got[1].Type)
}
