// Package driver 实现 XBee 射频模块的 API 模式驱动核心：
// 事件循环 + 流式解帧 + 帧分发、命令会话（异步/同步）与启动握手。
package driver

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/taoyao-code/xbee-link/internal/metrics"
	"github.com/taoyao-code/xbee-link/internal/protocol/xbeeapi"
	"github.com/taoyao-code/xbee-link/internal/transport"
)

// Config 驱动配置
type Config struct {
	// Mode 帧同步模式，连接期间固定
	Mode xbeeapi.OperatingMode
	// WriteTimeout 同步路径等待写完成的上限
	WriteTimeout time.Duration
	// ReadTimeout 同步路径等待首字节的上限
	ReadTimeout time.Duration
	// AsyncRateLimit 异步命令限速（条/秒），0 表示不限。
	// 低波特率下保护模块 UART 缓冲。
	AsyncRateLimit float64
	// AsyncRateBurst 限速桶容量
	AsyncRateBurst int
	// Hardware 可接受的硬件版本表，nil 使用内置默认
	Hardware *HardwareTable
}

const (
	defaultWriteTimeout = 100 * time.Millisecond
	defaultReadTimeout  = 1000 * time.Millisecond
)

// Driver XBee 驱动。事件循环由传输层的数据到达通知驱动，
// 单协程消费，按到达顺序处理；同步命令是唯一的挂起点。
type Driver struct {
	tr     transport.Transport
	dec    *xbeeapi.StreamDecoder
	router *Router
	store  *PropertyStore
	hw     *HardwareTable
	em     *emitter
	log    *zap.Logger
	m      *metrics.AppMetrics

	limiter      *rate.Limiter
	writeTimeout time.Duration
	readTimeout  time.Duration

	// opMu 串行化所有出站操作；同步命令全程持有，
	// 嵌套的同步调用（在事件回调内再发起）会死锁，设计上不支持。
	opMu sync.Mutex

	idMu    sync.Mutex
	frameID uint8

	done chan struct{}
	wg   sync.WaitGroup
}

// New 创建驱动。sink 可为 nil（事件丢弃仅记录）。
func New(tr transport.Transport, sink EventSink, cfg Config, log *zap.Logger, m *metrics.AppMetrics) *Driver {
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaultWriteTimeout
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}
	hw := cfg.Hardware
	if hw == nil {
		hw = DefaultHardwareTable()
	}
	store := NewPropertyStore()
	d := &Driver{
		tr:           tr,
		dec:          xbeeapi.NewStreamDecoder(cfg.Mode),
		store:        store,
		hw:           hw,
		router:       NewRouter(store, sink, log, m),
		em:           &emitter{sink: sink, log: log},
		log:          log,
		m:            m,
		writeTimeout: cfg.WriteTimeout,
		readTimeout:  cfg.ReadTimeout,
		frameID:      1,
		done:         make(chan struct{}),
	}
	if cfg.AsyncRateLimit > 0 {
		burst := cfg.AsyncRateBurst
		if burst <= 0 {
			burst = 1
		}
		d.limiter = rate.NewLimiter(rate.Limit(cfg.AsyncRateLimit), burst)
	}
	return d
}

// Store 返回设备属性缓存
func (d *Driver) Store() *PropertyStore { return d.store }

// Mode 返回帧同步模式
func (d *Driver) Mode() xbeeapi.OperatingMode { return d.dec.Mode() }

// Start 启动事件循环
func (d *Driver) Start() {
	d.wg.Add(1)
	go d.run()
	d.log.Info("driver started", zap.String("mode", d.dec.Mode().String()))
}

func (d *Driver) run() {
	defer d.wg.Done()
	for {
		select {
		case <-d.done:
			return
		case <-d.tr.DataReady():
			d.pump()
		}
	}
}

// pump 消费一次数据到达通知：取走全部已到字节并分发解出的帧
func (d *Driver) pump() {
	data := d.tr.ReadAvailable()
	if len(data) == 0 {
		return
	}
	d.m.BytesReceived.Add(float64(len(data)))
	for _, frame := range d.dec.Feed(data) {
		if d.dec.Mode() == xbeeapi.TransparentMode {
			d.em.emit(Event{Type: EventRawLine, Raw: frame})
			continue
		}
		d.router.Route(frame)
	}
}

// Close 停止事件循环。传输通道由其创建方负责关闭。
func (d *Driver) Close() error {
	select {
	case <-d.done:
		return nil
	default:
	}
	close(d.done)
	d.wg.Wait()
	d.log.Info("driver stopped")
	return nil
}
