// Package transport 定义驱动与字节传输通道之间的边界。
// 核心层只依赖“写字节、读取已到达字节、数据到达通知、限时等待”，
// 具体串口实现与测试用内存管道均实现同一接口。
package transport

import (
	"errors"
	"time"
)

var (
	// ErrNotConnected 通道未打开时的写入错误
	ErrNotConnected = errors.New("transport not connected")
)

// Transport 字节传输通道
type Transport interface {
	// Connected 通道是否已打开可用
	Connected() bool

	// Write 写入字节；通道未打开时返回 ErrNotConnected
	Write(p []byte) (int, error)

	// Flush 等待输出缓冲写出
	Flush() error

	// WaitForWriteComplete 阻塞至输出写完或超时，返回是否按时完成
	WaitForWriteComplete(timeout time.Duration) bool

	// WaitForDataReady 阻塞至有数据可读或超时，返回是否有数据。
	// 不受 SuppressNotifications 影响：同步路径靠它直接等待。
	WaitForDataReady(timeout time.Duration) bool

	// ReadAvailable 一次性取走当前已到达的全部字节
	ReadAvailable() []byte

	// SuppressNotifications 暂停/恢复 DataReady 通道上的异步通知。
	// 暂停期间到达的数据不补发通知，恢复后由下一批数据触发。
	SuppressNotifications(on bool)

	// DataReady 异步“数据到达”信号，由事件循环消费
	DataReady() <-chan struct{}

	// Close 关闭通道
	Close() error
}
