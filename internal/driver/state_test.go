package driver

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taoyao-code/xbee-link/internal/protocol/xbeeapi"
)

func atResponse(cmd string, data []byte) *xbeeapi.ATCommandResponse {
	return &xbeeapi.ATCommandResponse{FrameID: 1, Command: cmd, Status: xbeeapi.StatusOK, Data: data}
}

func TestStoreApplyNumeric(t *testing.T) {
	s := NewPropertyStore()

	change, ok := s.Apply(atResponse(xbeeapi.CmdDH, []byte{0x00, 0x00, 0xAB, 0xCD}))
	require.True(t, ok)
	assert.Equal(t, xbeeapi.CmdDH, change.Name)
	assert.Equal(t, uint32(0xABCD), change.Value)

	v, found := s.Get(xbeeapi.CmdDH)
	require.True(t, found)
	assert.Equal(t, uint32(0xABCD), v)
}

func TestStoreApplyNIText(t *testing.T) {
	s := NewPropertyStore()

	change, ok := s.Apply(atResponse(xbeeapi.CmdNI, []byte("ROUTER-7")))
	require.True(t, ok)
	assert.Equal(t, "ROUTER-7", change.Text)
	assert.Equal(t, "ROUTER-7", s.NI())
}

func TestStoreConversionFailureKeepsOldValue(t *testing.T) {
	s := NewPropertyStore()
	_, ok := s.Apply(atResponse(xbeeapi.CmdDL, []byte{0x12, 0x34}))
	require.True(t, ok)

	// 超过 32 位的数据无法转换，旧值保留
	_, ok = s.Apply(atResponse(xbeeapi.CmdDL, []byte{0x01, 0x02, 0x03, 0x04, 0x05}))
	assert.False(t, ok)

	v, found := s.Get(xbeeapi.CmdDL)
	require.True(t, found)
	assert.Equal(t, uint32(0x1234), v)
}

func TestStoreIgnoresUnmanagedCommand(t *testing.T) {
	s := NewPropertyStore()
	_, ok := s.Apply(atResponse(xbeeapi.CmdAP, []byte{0x01}))
	assert.False(t, ok)
	assert.Empty(t, s.Snapshot())
}

func TestStoreLastWriteWins(t *testing.T) {
	s := NewPropertyStore()
	s.Apply(atResponse(xbeeapi.CmdMY, []byte{0x00, 0x01}))
	s.Apply(atResponse(xbeeapi.CmdMY, []byte{0x00, 0x02}))

	v, _ := s.Get(xbeeapi.CmdMY)
	assert.Equal(t, uint32(2), v)
}

func TestStoreSerialNumber(t *testing.T) {
	s := NewPropertyStore()
	s.Apply(atResponse(xbeeapi.CmdSH, []byte{0x00, 0x13, 0xA2, 0x00}))
	s.Apply(atResponse(xbeeapi.CmdSL, []byte{0x40, 0x8B, 0x12, 0x34}))

	assert.Equal(t, uint64(0x0013A200408B1234), s.SerialNumber())
}

func TestStoreSnapshot(t *testing.T) {
	s := NewPropertyStore()
	s.Apply(atResponse(xbeeapi.CmdDH, []byte{0x00}))
	s.Apply(atResponse(xbeeapi.CmdNI, []byte("N1")))

	snap := s.Snapshot()
	assert.Equal(t, uint32(0), snap[xbeeapi.CmdDH])
	assert.Equal(t, "N1", snap[xbeeapi.CmdNI])
}
