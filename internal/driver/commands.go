package driver

import (
	"strconv"

	"github.com/taoyao-code/xbee-link/internal/protocol/xbeeapi"
)

// 访问器层：原始驱动的寻址属性读写接口。
// 数值参数按十进制文本编码，NI 按原始文本；全部走异步路径，
// 实际值以随后到达的 AT 命令响应（property_changed 事件）为准。

// LoadAddressingProperties 批量查询全部寻址属性
func (d *Driver) LoadAddressingProperties() {
	for _, cmd := range addressingProperties {
		_ = d.SendATCommandAsync(cmd, nil)
	}
}

// QueryProperty 查询单个属性
func (d *Driver) QueryProperty(cmd string) error {
	return d.SendATCommandAsync(cmd, nil)
}

func (d *Driver) setNumeric(cmd string, v uint64) error {
	return d.SendATCommandAsync(cmd, []byte(strconv.FormatUint(v, 10)))
}

// SetDH 设置目标地址高32位
func (d *Driver) SetDH(v uint32) error { return d.setNumeric(xbeeapi.CmdDH, uint64(v)) }

// SetDL 设置目标地址低32位
func (d *Driver) SetDL(v uint32) error { return d.setNumeric(xbeeapi.CmdDL, uint64(v)) }

// SetMY 设置16位网络地址
func (d *Driver) SetMY(v uint16) error { return d.setNumeric(xbeeapi.CmdMY, uint64(v)) }

// SetMP 设置父节点16位地址
func (d *Driver) SetMP(v uint16) error { return d.setNumeric(xbeeapi.CmdMP, uint64(v)) }

// SetNI 设置节点标识文本
func (d *Driver) SetNI(ni string) error { return d.SendATCommandAsync(xbeeapi.CmdNI, []byte(ni)) }

// SetSE 设置源端点
func (d *Driver) SetSE(v uint8) error { return d.setNumeric(xbeeapi.CmdSE, uint64(v)) }

// SetDE 设置目标端点
func (d *Driver) SetDE(v uint8) error { return d.setNumeric(xbeeapi.CmdDE, uint64(v)) }

// SetCI 设置 Cluster ID
func (d *Driver) SetCI(v uint8) error { return d.setNumeric(xbeeapi.CmdCI, uint64(v)) }

// SetTO 设置传输选项
func (d *Driver) SetTO(v uint8) error { return d.setNumeric(xbeeapi.CmdTO, uint64(v)) }

// SetNP 设置最大载荷字节数
func (d *Driver) SetNP(v uint8) error { return d.setNumeric(xbeeapi.CmdNP, uint64(v)) }

// SetDD 设置设备类型标识
func (d *Driver) SetDD(v uint16) error { return d.setNumeric(xbeeapi.CmdDD, uint64(v)) }

// SetCR 设置 PAN 冲突阈值
func (d *Driver) SetCR(v uint8) error { return d.setNumeric(xbeeapi.CmdCR, uint64(v)) }

// DiscoverNodes 发起节点发现，结果经 node_discovered 事件上报
func (d *Driver) DiscoverNodes() error {
	return d.SendATCommandAsync(xbeeapi.CmdND, nil)
}

// Broadcast 向广播地址发送数据
func (d *Driver) Broadcast(data []byte) {
	raw := xbeeapi.BuildTransmitRequest(d.nextFrameID(),
		xbeeapi.BroadcastAddr64, xbeeapi.UnknownAddr16, 0x00, 0x00, data)
	d.sendAsync(raw)
}

// Unicast 向指定 64 位地址发送数据
func (d *Driver) Unicast(addr64 uint64, data []byte) {
	raw := xbeeapi.BuildTransmitRequest(d.nextFrameID(),
		addr64, xbeeapi.UnknownAddr16, 0x00, 0x00, data)
	d.sendAsync(raw)
}

// SendRemoteATCommandAsync 向远端节点异步发送 AT 命令
func (d *Driver) SendRemoteATCommandAsync(addr64 uint64, cmd string, param []byte) error {
	raw, err := xbeeapi.BuildRemoteATCommand(d.nextFrameID(),
		addr64, xbeeapi.UnknownAddr16, 0x02, cmd, param)
	if err != nil {
		return err
	}
	d.sendAsync(raw)
	return nil
}
