package xbeeapi

// OperatingMode 帧同步模式，连接期间固定不变
type OperatingMode uint8

const (
	// TransparentMode 透传模式：按 CR 结尾切分
	TransparentMode OperatingMode = iota
	// APIMode API 模式：0x7E 起始符 + 长度字段定界
	APIMode
)

// String 返回模式名称
func (m OperatingMode) String() string {
	if m == TransparentMode {
		return "transparent"
	}
	return "api"
}

// StreamDecoder 处理半包/粘包的流式解码器。
// 输入为串口到达的字节流，输出为零或多帧完整原始数据。
//
// API 模式下帧总长取自偏移 2 的低字节长度（+4 覆盖起始符、双字节长度
// 与校验和）。高字节长度不参与定界，载荷超过 255 字节的帧无法正确切分，
// 属沿用的已知局限（见 DESIGN.md）。
type StreamDecoder struct {
	mode OperatingMode
	buf  []byte
}

// NewStreamDecoder 创建指定模式的流式解码器
func NewStreamDecoder(mode OperatingMode) *StreamDecoder {
	return &StreamDecoder{mode: mode}
}

// Mode 返回解码器的帧同步模式
func (d *StreamDecoder) Mode() OperatingMode { return d.mode }

// Pending 返回缓冲区中尚未定界的字节数
func (d *StreamDecoder) Pending() int { return len(d.buf) }

// Feed 追加数据并尽可能解出多帧。
// 透传模式：整段缓冲以 CR 结尾时作为一条载荷发出（含结尾符）并清空缓冲。
// API 模式：丢弃起始符之前的无效前缀；长度不足的半帧保留等待后续数据，
// 不设超时。本层不校验校验和，由各帧解码器负责。
func (d *StreamDecoder) Feed(p []byte) [][]byte {
	if len(p) == 0 {
		return nil
	}
	d.buf = append(d.buf, p...)

	if d.mode == TransparentMode {
		if d.buf[len(d.buf)-1] != LineTerminator {
			return nil
		}
		line := d.buf
		d.buf = nil
		return [][]byte{line}
	}

	var frames [][]byte
	for {
		// 同步到起始符
		for len(d.buf) > 0 && d.buf[0] != StartDelimiter {
			d.buf = d.buf[1:]
		}
		if len(d.buf) < headerLen {
			return frames
		}
		total := int(d.buf[2]) + headerLen + checksumLen
		if len(d.buf) < total {
			// 半帧，等待更多字节
			return frames
		}
		frame := make([]byte, total)
		copy(frame, d.buf[:total])
		d.buf = d.buf[total:]
		frames = append(frames, frame)
	}
}

// Reset 清空缓冲区
func (d *StreamDecoder) Reset() { d.buf = nil }
