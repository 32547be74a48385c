package xbeeapi

// 线路常量
// API 帧布局：0x7E | lenHi | lenLo | type | payload.. | checksum
// 透传模式：任意字节流，以 CR(13) 结尾为一条
const (
	StartDelimiter = 0x7E
	LineTerminator = 0x0D

	// 帧头开销：起始符(1) + 长度(2)，校验和(1) 在载荷之后
	headerLen   = 3
	checksumLen = 1
)

// FrameType API 帧类型标识（偏移 3 处的单字节）
type FrameType uint8

const (
	// 下行（主机 -> 模块）
	FrameTypeATCommand                 FrameType = 0x08
	FrameTypeATCommandQueue            FrameType = 0x09
	FrameTypeTransmitRequest           FrameType = 0x10
	FrameTypeExplicitAddressingCommand FrameType = 0x11
	FrameTypeRemoteATCommandRequest    FrameType = 0x17

	// 上行（模块 -> 主机）
	FrameTypeATCommandResponse        FrameType = 0x88
	FrameTypeModemStatus              FrameType = 0x8A
	FrameTypeTransmitStatus           FrameType = 0x8B
	FrameTypeReceivePacket            FrameType = 0x90
	FrameTypeExplicitRxIndicator      FrameType = 0x91
	FrameTypeNodeIdentification       FrameType = 0x95
	FrameTypeRemoteATCommandResponse  FrameType = 0x97
)

// CommandStatus AT 命令响应状态
type CommandStatus uint8

const (
	StatusOK               CommandStatus = 0x00
	StatusError            CommandStatus = 0x01
	StatusInvalidCommand   CommandStatus = 0x02
	StatusInvalidParameter CommandStatus = 0x03
)

// 寻址相关 AT 命令码（两字符 ASCII）
const (
	CmdDH = "DH" // 目标地址高32位
	CmdDL = "DL" // 目标地址低32位
	CmdMY = "MY" // 16位网络地址
	CmdMP = "MP" // 父节点16位地址
	CmdNC = "NC" // 剩余子节点数
	CmdSH = "SH" // 序列号高32位
	CmdSL = "SL" // 序列号低32位
	CmdNI = "NI" // 节点标识字符串
	CmdSE = "SE" // 源端点
	CmdDE = "DE" // 目标端点
	CmdCI = "CI" // Cluster ID
	CmdTO = "TO" // 传输选项
	CmdNP = "NP" // 最大载荷字节数
	CmdDD = "DD" // 设备类型标识
	CmdCR = "CR" // PAN 冲突阈值
)

// 启动握手与发现使用的命令码
const (
	CmdAP = "AP" // API 工作模式
	CmdHV = "HV" // 硬件版本
	CmdND = "ND" // 节点发现
)

// APModeUnescaped 期望的工作模式：API 模式（无转义字符）
const APModeUnescaped = 1

// Checksum XBee API 校验和：0xFF 减去载荷（type 起至 payload 止）字节和的低8位
func Checksum(payload []byte) uint8 {
	var sum uint8
	for _, b := range payload {
		sum += b
	}
	return 0xFF - sum
}
