package transport

import (
	"fmt"
	"sync"
	"time"

	"go.bug.st/serial"
	"go.uber.org/zap"
)

// SerialConfig 串口配置。默认 9600-8N1 无流控。
type SerialConfig struct {
	Path        string        `mapstructure:"path"`
	BaudRate    int           `mapstructure:"baudRate"`
	ReadTimeout time.Duration `mapstructure:"readTimeout"`
}

const (
	defaultBaudRate = 9600
	// 读循环的单次阻塞上限，决定关闭响应速度
	readPollTimeout = 50 * time.Millisecond
)

// SerialPort 基于 go.bug.st/serial 的 Transport 实现。
// 独立读协程把到达字节搬入内部缓冲，并在未被抑制时向 DataReady
// 通道发送边沿触发的通知。
type SerialPort struct {
	cfg  SerialConfig
	log  *zap.Logger
	port serial.Port

	mu         sync.Mutex
	rbuf       []byte
	suppressed bool
	connected  bool

	dataC    chan struct{} // 对外异步通知（可被抑制）
	arrivalC chan struct{} // 内部到达信号（WaitForDataReady 专用）
	done     chan struct{}
	wg       sync.WaitGroup
}

// OpenSerial 打开串口并启动读循环
func OpenSerial(cfg SerialConfig, log *zap.Logger) (*SerialPort, error) {
	if cfg.BaudRate <= 0 {
		cfg.BaudRate = defaultBaudRate
	}
	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(cfg.Path, mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", cfg.Path, err)
	}
	if err := port.SetReadTimeout(readPollTimeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("set read timeout: %w", err)
	}

	t := &SerialPort{
		cfg:       cfg,
		log:       log,
		port:      port,
		connected: true,
		dataC:     make(chan struct{}, 1),
		arrivalC:  make(chan struct{}, 1),
		done:      make(chan struct{}),
	}
	t.wg.Add(1)
	go t.readLoop()
	log.Info("serial port opened",
		zap.String("path", cfg.Path),
		zap.Int("baud", cfg.BaudRate))
	return t, nil
}

func (t *SerialPort) readLoop() {
	defer t.wg.Done()
	buf := make([]byte, 256)
	for {
		select {
		case <-t.done:
			return
		default:
		}
		n, err := t.port.Read(buf)
		if err != nil {
			select {
			case <-t.done:
			default:
				t.log.Warn("serial read error", zap.Error(err))
			}
			return
		}
		if n == 0 {
			continue
		}
		t.deliver(buf[:n])
	}
}

func (t *SerialPort) deliver(p []byte) {
	t.mu.Lock()
	t.rbuf = append(t.rbuf, p...)
	suppressed := t.suppressed
	t.mu.Unlock()

	select {
	case t.arrivalC <- struct{}{}:
	default:
	}
	if !suppressed {
		select {
		case t.dataC <- struct{}{}:
		default:
		}
	}
}

// Connected 串口是否打开
func (t *SerialPort) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connected
}

// Write 写入字节
func (t *SerialPort) Write(p []byte) (int, error) {
	if !t.Connected() {
		return 0, ErrNotConnected
	}
	return t.port.Write(p)
}

// Flush 等待输出缓冲写入线路
func (t *SerialPort) Flush() error {
	if !t.Connected() {
		return ErrNotConnected
	}
	return t.port.Drain()
}

// WaitForWriteComplete 限时等待输出写完
func (t *SerialPort) WaitForWriteComplete(timeout time.Duration) bool {
	doneC := make(chan error, 1)
	go func() { doneC <- t.port.Drain() }()
	select {
	case err := <-doneC:
		return err == nil
	case <-time.After(timeout):
		return false
	}
}

// WaitForDataReady 限时等待首字节到达；缓冲区已有数据时立即返回
func (t *SerialPort) WaitForDataReady(timeout time.Duration) bool {
	if t.buffered() > 0 {
		return true
	}
	select {
	case <-t.arrivalC:
		return true
	case <-time.After(timeout):
		return false
	case <-t.done:
		return false
	}
}

func (t *SerialPort) buffered() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rbuf)
}

// ReadAvailable 取走当前缓冲的全部字节
func (t *SerialPort) ReadAvailable() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	p := t.rbuf
	t.rbuf = nil
	return p
}

// SuppressNotifications 抑制/恢复 DataReady 通知
func (t *SerialPort) SuppressNotifications(on bool) {
	t.mu.Lock()
	t.suppressed = on
	t.mu.Unlock()
}

// DataReady 异步数据到达信号
func (t *SerialPort) DataReady() <-chan struct{} { return t.dataC }

// Close 关闭串口并停止读循环
func (t *SerialPort) Close() error {
	t.mu.Lock()
	if !t.connected {
		t.mu.Unlock()
		return nil
	}
	t.connected = false
	t.mu.Unlock()
	close(t.done)
	err := t.port.Close()
	t.wg.Wait()
	t.log.Info("serial port closed", zap.String("path", t.cfg.Path))
	return err
}
