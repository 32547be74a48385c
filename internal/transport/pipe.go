package transport

import (
	"sync"
	"time"
)

// Pipe 内存管道 Transport，用于测试与回环演示。
// Inject 模拟设备侧下发字节；OnWrite 钩子可按写入内容编排应答。
type Pipe struct {
	mu         sync.Mutex
	rbuf       []byte
	writes     [][]byte
	suppressed bool
	connected  bool
	onWrite    func([]byte)

	dataC    chan struct{}
	arrivalC chan struct{}
}

// NewPipe 创建已连接状态的内存管道
func NewPipe() *Pipe {
	return &Pipe{
		connected: true,
		dataC:     make(chan struct{}, 1),
		arrivalC:  make(chan struct{}, 1),
	}
}

// Inject 模拟设备发送字节到主机侧
func (p *Pipe) Inject(b []byte) {
	p.mu.Lock()
	p.rbuf = append(p.rbuf, b...)
	suppressed := p.suppressed
	p.mu.Unlock()

	select {
	case p.arrivalC <- struct{}{}:
	default:
	}
	if !suppressed {
		select {
		case p.dataC <- struct{}{}:
		default:
		}
	}
}

// OnWrite 安装写入钩子，在每次 Write 时以写入内容调用
func (p *Pipe) OnWrite(fn func([]byte)) {
	p.mu.Lock()
	p.onWrite = fn
	p.mu.Unlock()
}

// Writes 返回按序捕获的全部写入
func (p *Pipe) Writes() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([][]byte, len(p.writes))
	copy(out, p.writes)
	return out
}

// SetConnected 切换连接状态（模拟拔线）
func (p *Pipe) SetConnected(on bool) {
	p.mu.Lock()
	p.connected = on
	p.mu.Unlock()
}

// Connected 连接状态
func (p *Pipe) Connected() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connected
}

// Write 捕获写入并触发 OnWrite 钩子
func (p *Pipe) Write(b []byte) (int, error) {
	p.mu.Lock()
	if !p.connected {
		p.mu.Unlock()
		return 0, ErrNotConnected
	}
	dup := make([]byte, len(b))
	copy(dup, b)
	p.writes = append(p.writes, dup)
	fn := p.onWrite
	p.mu.Unlock()
	if fn != nil {
		fn(dup)
	}
	return len(b), nil
}

// Flush 无输出缓冲，直接成功
func (p *Pipe) Flush() error { return nil }

// WaitForWriteComplete 内存写入即完成
func (p *Pipe) WaitForWriteComplete(time.Duration) bool { return true }

// WaitForDataReady 限时等待注入数据
func (p *Pipe) WaitForDataReady(timeout time.Duration) bool {
	p.mu.Lock()
	n := len(p.rbuf)
	p.mu.Unlock()
	if n > 0 {
		return true
	}
	select {
	case <-p.arrivalC:
		return true
	case <-time.After(timeout):
		return false
	}
}

// ReadAvailable 取走当前缓冲的全部字节
func (p *Pipe) ReadAvailable() []byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	b := p.rbuf
	p.rbuf = nil
	return b
}

// SuppressNotifications 抑制/恢复 DataReady 通知
func (p *Pipe) SuppressNotifications(on bool) {
	p.mu.Lock()
	p.suppressed = on
	p.mu.Unlock()
}

// DataReady 异步数据到达信号
func (p *Pipe) DataReady() <-chan struct{} { return p.dataC }

// Close 断开管道
func (p *Pipe) Close() error {
	p.SetConnected(false)
	return nil
}
