package driver

import (
	"encoding/hex"
	"strconv"
	"sync"

	"github.com/taoyao-code/xbee-link/internal/protocol/xbeeapi"
)

// addressingProperties 状态存储覆盖的寻址属性全集
var addressingProperties = []string{
	xbeeapi.CmdDH, xbeeapi.CmdDL, xbeeapi.CmdMY, xbeeapi.CmdMP, xbeeapi.CmdNC,
	xbeeapi.CmdSH, xbeeapi.CmdSL, xbeeapi.CmdNI, xbeeapi.CmdSE, xbeeapi.CmdDE,
	xbeeapi.CmdCI, xbeeapi.CmdTO, xbeeapi.CmdNP, xbeeapi.CmdDD, xbeeapi.CmdCR,
}

// PropertyStore 设备寻址属性缓存：每属性一个当前值，后写覆盖。
// 只由成功的 AT 命令响应更新，是连接期间唯一跨调用存活的设备状态。
type PropertyStore struct {
	mu     sync.RWMutex
	values map[string]uint32
	ni     string
}

// NewPropertyStore 创建空的属性缓存
func NewPropertyStore() *PropertyStore {
	return &PropertyStore{values: make(map[string]uint32)}
}

// isAddressingProperty 命令码是否属于受管属性
func isAddressingProperty(cmd string) bool {
	for _, p := range addressingProperties {
		if p == cmd {
			return true
		}
	}
	return false
}

// Apply 用一条成功的 AT 命令响应更新缓存。
// 数值属性按响应数据的十六进制大端整数解释，NI 按文本解释。
// 转换失败保留旧值并返回 false；未知命令码同样返回 false。
func (s *PropertyStore) Apply(rep *xbeeapi.ATCommandResponse) (PropertyChange, bool) {
	if !isAddressingProperty(rep.Command) {
		return PropertyChange{}, false
	}
	if rep.Command == xbeeapi.CmdNI {
		text := string(rep.Data)
		s.mu.Lock()
		s.ni = text
		s.mu.Unlock()
		return PropertyChange{Name: rep.Command, Text: text}, true
	}
	v, err := parseHexUint(rep.Data)
	if err != nil {
		return PropertyChange{}, false
	}
	s.mu.Lock()
	s.values[rep.Command] = v
	s.mu.Unlock()
	return PropertyChange{Name: rep.Command, Value: v}, true
}

// parseHexUint 把响应数据字节解释为十六进制大端整数
func parseHexUint(data []byte) (uint32, error) {
	v, err := strconv.ParseUint(hex.EncodeToString(data), 16, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}

// Get 返回数值属性的当前值
func (s *PropertyStore) Get(name string) (uint32, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.values[name]
	return v, ok
}

// NI 返回节点标识文本
func (s *PropertyStore) NI() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ni
}

// SerialNumber 返回 SH/SL 组合的 64 位序列号
func (s *PropertyStore) SerialNumber() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return uint64(s.values[xbeeapi.CmdSH])<<32 | uint64(s.values[xbeeapi.CmdSL])
}

// Snapshot 导出全部已知属性（HTTP 状态接口使用）
func (s *PropertyStore) Snapshot() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]any, len(s.values)+1)
	for k, v := range s.values {
		out[k] = v
	}
	if s.ni != "" {
		out[xbeeapi.CmdNI] = s.ni
	}
	return out
}
