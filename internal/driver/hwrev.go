package driver

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// HardwareTable 可接受的硬件版本表。
// HV 返回值的高字节是硬件系列号，低字节是版本修订，只按系列号判定。
type HardwareTable struct {
	Series map[uint32]string `yaml:"series"`
}

// DefaultHardwareTable 内置默认：Series 1 家族
func DefaultHardwareTable() *HardwareTable {
	return &HardwareTable{Series: map[uint32]string{
		0x17: "XBee Series 1",
		0x18: "XBee Series 1 Pro",
	}}
}

// LoadHardwareTable 从 YAML 文件加载硬件版本表
func LoadHardwareTable(path string) (*HardwareTable, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read hardware table: %w", err)
	}
	var t HardwareTable
	if err := yaml.Unmarshal(b, &t); err != nil {
		return nil, fmt.Errorf("parse hardware table: %w", err)
	}
	if len(t.Series) == 0 {
		return nil, fmt.Errorf("hardware table %s: no series entries", path)
	}
	return &t, nil
}

// Accepted 判定硬件版本是否受支持（成员测试）
func (t *HardwareTable) Accepted(hv uint32) bool {
	series := hv >> 8
	if series == 0 {
		series = hv
	}
	_, ok := t.Series[series]
	return ok
}

// Name 返回系列名称，未知返回空串
func (t *HardwareTable) Name(hv uint32) string {
	series := hv >> 8
	if series == 0 {
		series = hv
	}
	return t.Series[series]
}
