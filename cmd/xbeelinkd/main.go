package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/xbee-link/internal/config"
	"github.com/taoyao-code/xbee-link/internal/driver"
	"github.com/taoyao-code/xbee-link/internal/httpserver"
	"github.com/taoyao-code/xbee-link/internal/logging"
	"github.com/taoyao-code/xbee-link/internal/metrics"
	"github.com/taoyao-code/xbee-link/internal/protocol/xbeeapi"
	"github.com/taoyao-code/xbee-link/internal/transport"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// 1) 加载配置
	cfg, err := cfgpkg.Load(*configPath)
	if err != nil {
		panic(err)
	}

	// 2) 初始化日志
	logger, err := logging.InitLogger(cfg.Logging)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)
	log := zap.L()

	// 3) 指标注册与处理器
	reg := metrics.NewRegistry()
	appMetrics := metrics.NewAppMetrics(reg)
	metricsHandler := metrics.Handler(reg)

	// 4) 串口连接
	port, err := transport.OpenSerial(transport.SerialConfig{
		Path:     cfg.Serial.Path,
		BaudRate: cfg.Serial.BaudRate,
	}, log)
	if err != nil {
		log.Fatal("open serial port failed",
			zap.String("path", cfg.Serial.Path), zap.Error(err))
	}
	defer port.Close()

	// 5) 驱动核心。事件扇出到 WebSocket 客户端。
	hub := httpserver.NewHub(log)
	mode := xbeeapi.APIMode
	if cfg.Driver.Mode == "transparent" {
		mode = xbeeapi.TransparentMode
	}
	var hwTable *driver.HardwareTable
	if cfg.Driver.HardwareTable != "" {
		hwTable, err = driver.LoadHardwareTable(cfg.Driver.HardwareTable)
		if err != nil {
			log.Fatal("load hardware table failed", zap.Error(err))
		}
	}
	dev := driver.New(port, hub, driver.Config{
		Mode:           mode,
		WriteTimeout:   cfg.Driver.WriteTimeout,
		ReadTimeout:    cfg.Driver.ReadTimeout,
		AsyncRateLimit: cfg.Driver.AsyncRateLimit,
		AsyncRateBurst: cfg.Driver.AsyncRateBurst,
		Hardware:       hwTable,
	}, log, appMetrics)

	// 6) 启动握手：确认 API 模式与硬件版本
	if cfg.Driver.StartupCheck && mode == xbeeapi.APIMode {
		if err := dev.StartupCheck(); err != nil {
			log.Fatal("startup check failed", zap.Error(err))
		}
	}

	dev.Start()
	defer dev.Close()

	if cfg.Driver.LoadProperties && mode == xbeeapi.APIMode {
		dev.LoadAddressingProperties()
	}

	// 7) HTTP 服务
	metricsPath := ""
	if cfg.Metrics.Enable {
		metricsPath = cfg.Metrics.Path
	} else {
		metricsHandler = nil
	}
	httpSrv := httpserver.New(cfg.HTTP, dev, hub, metricsPath, metricsHandler,
		port.Connected)

	go func() {
		if err := httpSrv.Start(); err != nil {
			log.Error("http server error", zap.Error(err))
		}
	}()
	log.Info("xbee-link started",
		zap.String("serial", cfg.Serial.Path),
		zap.Int("baud", cfg.Serial.BaudRate),
		zap.String("mode", mode.String()),
		zap.String("http", cfg.HTTP.Addr))

	// 信号处理，优雅关闭
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpSrv.Shutdown(ctx)
}
