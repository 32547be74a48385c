package driver

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/taoyao-code/xbee-link/internal/protocol/xbeeapi"
)

var (
	// ErrWrongAPMode AP 查询返回非期望模式且纠正失败
	ErrWrongAPMode = errors.New("radio not in api mode and corrective set failed")
	// ErrUnsupportedHardware 硬件版本不在可接受集合中
	ErrUnsupportedHardware = errors.New("unsupported hardware revision")
)

// StartupCheck 连接建立后的两步同步握手：
//  1. 查询 AP 工作模式，期望为 API 无转义（AP=1）；不符则同步纠正，
//     纠正命令必须成功。
//  2. 查询 HV 硬件版本，对可接受版本集合做成员测试。
//
// 整体结果是两步的与。任一步无响应、失败状态或数值解析失败即告失败，
// 不重试。
func (d *Driver) StartupCheck() error {
	if err := d.checkAPMode(); err != nil {
		return err
	}
	return d.checkHardware()
}

func (d *Driver) checkAPMode() error {
	rep, err := d.SendATCommandSync(xbeeapi.CmdAP, nil)
	if err != nil {
		return fmt.Errorf("query AP: %w", err)
	}
	if !rep.Ok() {
		return fmt.Errorf("query AP: status %s", rep.Status)
	}
	mode, err := parseHexUint(rep.Data)
	if err != nil {
		return fmt.Errorf("query AP: parse value: %w", err)
	}
	if mode == xbeeapi.APModeUnescaped {
		d.log.Info("radio in api mode without escaping")
		return nil
	}

	d.log.Info("radio not in expected api mode, forcing AP=1",
		zap.Uint32("current", mode))
	rep, err = d.SendATCommandSync(xbeeapi.CmdAP, []byte("1"))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrWrongAPMode, err)
	}
	if !rep.Ok() {
		return fmt.Errorf("%w: status %s", ErrWrongAPMode, rep.Status)
	}
	d.log.Info("radio switched to api mode")
	return nil
}

func (d *Driver) checkHardware() error {
	rep, err := d.SendATCommandSync(xbeeapi.CmdHV, nil)
	if err != nil {
		return fmt.Errorf("query HV: %w", err)
	}
	if !rep.Ok() {
		return fmt.Errorf("query HV: status %s", rep.Status)
	}
	hv, err := parseHexUint(rep.Data)
	if err != nil {
		return fmt.Errorf("query HV: parse value: %w", err)
	}
	if !d.hw.Accepted(hv) {
		return fmt.Errorf("%w: 0x%04X", ErrUnsupportedHardware, hv)
	}
	d.log.Info("hardware revision accepted",
		zap.Uint32("hv", hv),
		zap.String("series", d.hw.Name(hv)))
	return nil
}
