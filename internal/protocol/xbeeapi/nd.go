package xbeeapi

import "encoding/binary"

// Node ND 节点发现响应中描述的一个远端节点
type Node struct {
	Addr16         uint16
	SerialHigh     uint32
	SerialLow      uint32
	NodeIdentifier string
	ParentAddr16   uint16
	DeviceType     uint8
	Status         uint8
	ProfileID      uint16
	ManufacturerID uint16
}

// Addr64 返回 64 位序列号地址
func (n *Node) Addr64() uint64 {
	return uint64(n.SerialHigh)<<32 | uint64(n.SerialLow)
}

// ParseNodeDiscovery 解析 ND 命令响应的数据段。
// 布局：MY[2] | SH[4] | SL[4] | NI(NUL结尾) | parent[2] | deviceType | status | profile[2] | manufacturer[2]
// 空数据段（发现结束标记）返回 nil, nil。
func ParseNodeDiscovery(data []byte) (*Node, error) {
	if len(data) == 0 {
		return nil, nil
	}
	if len(data) < 11 {
		return nil, ErrShortFrame
	}
	n := &Node{
		Addr16:     binary.BigEndian.Uint16(data[0:2]),
		SerialHigh: binary.BigEndian.Uint32(data[2:6]),
		SerialLow:  binary.BigEndian.Uint32(data[6:10]),
	}
	off := 10
	end := off
	for end < len(data) && data[end] != 0x00 {
		end++
	}
	if end >= len(data) {
		return nil, ErrShortFrame
	}
	n.NodeIdentifier = string(data[off:end])
	off = end + 1
	if off+8 > len(data) {
		return nil, ErrShortFrame
	}
	n.ParentAddr16 = binary.BigEndian.Uint16(data[off : off+2])
	n.DeviceType = data[off+2]
	n.Status = data[off+3]
	n.ProfileID = binary.BigEndian.Uint16(data[off+4 : off+6])
	n.ManufacturerID = binary.BigEndian.Uint16(data[off+6 : off+8])
	return n, nil
}
