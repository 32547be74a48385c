package httpserver

import (
	"context"
	"encoding/hex"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	cfgpkg "github.com/taoyao-code/xbee-link/internal/config"
	"github.com/taoyao-code/xbee-link/internal/driver"
	"github.com/taoyao-code/xbee-link/internal/protocol/xbeeapi"
)

// Device 驱动对 HTTP 层暴露的操作面
type Device interface {
	Store() *driver.PropertyStore
	SendATCommandAsync(cmd string, param []byte) error
	SendATCommandSync(cmd string, param []byte) (*xbeeapi.ATCommandResponse, error)
	Broadcast(data []byte)
	Unicast(addr64 uint64, data []byte)
	DiscoverNodes() error
	LoadAddressingProperties()
}

// Server HTTP 服务封装
type Server struct {
	srv *http.Server
	dev Device
	hub *Hub
}

// New 创建并配置 Gin + HTTP Server：健康检查、指标、设备 API 与事件流
func New(cfg cfgpkg.HTTPConfig, dev Device, hub *Hub, metricsPath string, metricsHandler http.Handler, readyFn func() bool) *Server {
	s := &Server{dev: dev, hub: hub}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	r.GET("/readyz", func(c *gin.Context) {
		if readyFn == nil || readyFn() {
			c.String(http.StatusOK, "ready")
			return
		}
		c.String(http.StatusServiceUnavailable, "not-ready")
	})
	if metricsPath == "" {
		metricsPath = "/metrics"
	}
	if metricsHandler != nil {
		r.GET(metricsPath, gin.WrapH(metricsHandler))
	}

	api := r.Group("/api/v1")
	api.GET("/device", s.getDevice)
	api.POST("/device/refresh", s.refreshDevice)
	api.POST("/command", s.postCommand)
	api.POST("/command/sync", s.postCommandSync)
	api.POST("/transmit", s.postTransmit)
	api.POST("/discover", s.postDiscover)

	if hub != nil {
		r.GET("/ws", func(c *gin.Context) {
			hub.ServeWS(c.Writer, c.Request)
		})
	}

	s.srv = &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// getDevice 返回属性缓存快照
func (s *Server) getDevice(c *gin.Context) {
	store := s.dev.Store()
	c.JSON(http.StatusOK, gin.H{
		"properties":   store.Snapshot(),
		"serialNumber": strconv.FormatUint(store.SerialNumber(), 16),
		"ni":           store.NI(),
	})
}

// refreshDevice 触发一轮寻址属性查询
func (s *Server) refreshDevice(c *gin.Context) {
	s.dev.LoadAddressingProperties()
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

type commandRequest struct {
	Command string `json:"command" binding:"required,len=2"`
	// Param 十六进制编码的参数字节，可空
	Param string `json:"param"`
}

func (r *commandRequest) paramBytes() ([]byte, error) {
	if r.Param == "" {
		return nil, nil
	}
	return hex.DecodeString(r.Param)
}

// postCommand 异步下发 AT 命令
func (s *Server) postCommand(c *gin.Context) {
	var req commandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	param, err := req.paramBytes()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "param must be hex encoded"})
		return
	}
	if err := s.dev.SendATCommandAsync(req.Command, param); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

// postCommandSync 同步下发 AT 命令并返回模块响应
func (s *Server) postCommandSync(c *gin.Context) {
	var req commandRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	param, err := req.paramBytes()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "param must be hex encoded"})
		return
	}
	rep, err := s.dev.SendATCommandSync(req.Command, param)
	if errors.Is(err, driver.ErrNoResponse) {
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "no response from radio"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"command": rep.Command,
		"status":  rep.Status.String(),
		"data":    hex.EncodeToString(rep.Data),
	})
}

type transmitRequest struct {
	// Dest64 十六进制 64 位地址；空表示广播
	Dest64 string `json:"dest64"`
	// Data 十六进制编码的载荷
	Data string `json:"data" binding:"required"`
}

// postTransmit 发送数据帧（单播或广播）
func (s *Server) postTransmit(c *gin.Context) {
	var req transmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	data, err := hex.DecodeString(req.Data)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "data must be hex encoded"})
		return
	}
	if req.Dest64 == "" {
		s.dev.Broadcast(data)
	} else {
		addr, err := strconv.ParseUint(req.Dest64, 16, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "dest64 must be a hex address"})
			return
		}
		s.dev.Unicast(addr, data)
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

// postDiscover 发起节点发现，结果走事件流
func (s *Server) postDiscover(c *gin.Context) {
	if err := s.dev.DiscoverNodes(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"status": "accepted"})
}

// Start 启动 HTTP 服务（阻塞）
func (s *Server) Start() error {
	return s.srv.ListenAndServe()
}

// Shutdown 优雅关闭
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
