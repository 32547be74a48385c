package driver

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/taoyao-code/xbee-link/internal/protocol/xbeeapi"
)

// ErrNoResponse 同步命令在读窗口内未收到任何字节
var ErrNoResponse = errors.New("no response within read window")

// nextFrameID 分配下一个关联标识。取值范围 [1,254]，到顶回绕到 1；
// 0 与 255 保留不用。计数器与传输状态无关，总是前进。
func (d *Driver) nextFrameID() uint8 {
	d.idMu.Lock()
	defer d.idMu.Unlock()
	id := d.frameID
	if d.frameID >= 254 {
		d.frameID = 1
	} else {
		d.frameID++
	}
	return id
}

// SendATCommandAsync 异步发送本地 AT 命令：发完即忘。
// 传输不可写时记录并丢弃，不排队不重试。
func (d *Driver) SendATCommandAsync(cmd string, param []byte) error {
	raw, err := xbeeapi.BuildATCommand(d.nextFrameID(), cmd, param)
	if err != nil {
		return err
	}
	d.sendAsync(raw)
	return nil
}

// SendATCommandQueueAsync 异步发送排队 AT 命令（参数暂存不生效）
func (d *Driver) SendATCommandQueueAsync(cmd string, param []byte) error {
	raw, err := xbeeapi.BuildATCommandQueue(d.nextFrameID(), cmd, param)
	if err != nil {
		return err
	}
	d.sendAsync(raw)
	return nil
}

// sendAsync 异步写出一帧已编码数据
func (d *Driver) sendAsync(raw []byte) {
	if d.limiter != nil {
		_ = d.limiter.Wait(context.Background())
	}
	d.opMu.Lock()
	defer d.opMu.Unlock()

	if !d.tr.Connected() {
		d.m.CommandsDropped.Inc()
		d.log.Warn("cannot write to transport, command dropped",
			zap.Binary("frame", raw))
		return
	}
	if _, err := d.tr.Write(raw); err != nil {
		d.m.CommandsDropped.Inc()
		d.log.Warn("transport write failed, command dropped", zap.Error(err))
		return
	}
	if err := d.tr.Flush(); err != nil {
		d.log.Warn("transport flush failed", zap.Error(err))
	}
	d.m.CommandsSent.WithLabelValues("async").Inc()
	d.log.Debug("frame transmitted", zap.Binary("frame", raw))
}

// SendATCommandSync 同步发送本地 AT 命令并等待响应。
// 调用期间抑制传输层的异步数据通知，事件循环静默，避免解帧路径
// 抢走本次应答的字节；随后等待写完成与首字节，再一次性取走当前
// 已到达的全部字节作为响应解码。
//
// 窗口内无字节返回 ErrNoResponse；响应状态由调用方自行检查。
// 该路径有意绕过流式解帧，不区分粘包/半包（见 DESIGN.md）。
func (d *Driver) SendATCommandSync(cmd string, param []byte) (*xbeeapi.ATCommandResponse, error) {
	raw, err := xbeeapi.BuildATCommand(d.nextFrameID(), cmd, param)
	if err != nil {
		return nil, err
	}

	d.opMu.Lock()
	defer d.opMu.Unlock()

	d.tr.SuppressNotifications(true)
	defer d.tr.SuppressNotifications(false)

	if _, err := d.tr.Write(raw); err != nil {
		return nil, err
	}
	if err := d.tr.Flush(); err != nil {
		d.log.Warn("transport flush failed", zap.Error(err))
	}
	if !d.tr.WaitForWriteComplete(d.writeTimeout) {
		d.log.Debug("write completion wait timed out",
			zap.Duration("timeout", d.writeTimeout))
	}
	d.m.CommandsSent.WithLabelValues("sync").Inc()

	if !d.tr.WaitForDataReady(d.readTimeout) {
		d.m.SyncTimeouts.Inc()
		d.log.Debug("no response", zap.String("command", cmd))
		return nil, ErrNoResponse
	}
	reply := d.tr.ReadAvailable()
	if len(reply) == 0 {
		d.m.SyncTimeouts.Inc()
		return nil, ErrNoResponse
	}
	return xbeeapi.DecodeATCommandResponse(reply)
}
