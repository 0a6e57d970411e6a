//go:build linux && cgo

// Package sdshim 提供 libsystemd (sd-bus / sd-journal) 的最小绑定层
//
// 本包刻意保持低层: 每个导出函数直接透传到对应的原生调用,
// 原生返回码原样返回(负值为错误, 不做任何转换), 也不增加缓冲、
// 重试或并发保护。句柄的生命周期规则由 libsystemd 决定:
//   - 每次成功 open 必须配对恰好一次 close/unref
//   - 重复释放或释放后使用属于调用方错误, 本层不做防护
//   - 同一句柄不可多线程并发使用, 串行化由调用方负责
//
// 安全封装(错误转换、借用数据复制)由上层调用方构建, 见 internal/sysd。
package sdshim

/*
#cgo linux LDFLAGS: -lsystemd

#include <stdlib.h>
#include <systemd/sd-bus.h>
#include <systemd/sd-journal.h>
*/
import "C"

import "unsafe"

// 不透明句柄类型
//
// 仅作为原生指针的载体在调用间传递, 本层绝不解引用。
// Message 由总线连接产生, 当前操作集尚未直接使用, 仅声明类型。
type (
	Bus     unsafe.Pointer // sd_bus*
	Message unsafe.Pointer // sd_bus_message*
	Journal unsafe.Pointer // sd_journal*
)

// CString 指向 C 堆上以 NUL 结尾的字符串
//
// 由属性查询等调用返回, 归调用方所有, 用完必须经 FreeString 释放。
// 底层是原始指针, 不能挂方法, 读取内容用包级函数 GoString。
type CString unsafe.Pointer

// GoString 读取 C 字符串内容(复制为 Go 字符串), 空指针返回 ""
func GoString(s CString) string {
	if s == nil {
		return ""
	}
	return C.GoString((*C.char)(s))
}

// BusError 与原生 sd_bus_error 布局一致, 可按地址直接传给原生调用
//
// 零值即 SD_BUS_ERROR_NULL, 在栈上声明后传入即可。
// name/message 字符串归 libsystemd 所有; need_free 非零时
// 必须通过 BusErrorFree 释放, 为零时 BusErrorFree 是空操作。
type BusError C.sd_bus_error

// Name 返回错误名(如 org.freedesktop.DBus.Error.ServiceUnknown), 未设置时为 ""
func (e *BusError) Name() string {
	if e == nil || e.name == nil {
		return ""
	}
	return C.GoString(e.name)
}

// Message 返回人类可读的错误描述, 未设置时为 ""
func (e *BusError) Message() string {
	if e == nil || e.message == nil {
		return ""
	}
	return C.GoString(e.message)
}

// NeedFree 报告描述符是否持有需要释放的堆内存
func (e *BusError) NeedFree() bool {
	return e != nil && e.need_free != 0
}

// 日志打开标志, 原样转发给 sd_journal_open
const (
	JournalLocalOnly   = int(C.SD_JOURNAL_LOCAL_ONLY)
	JournalRuntimeOnly = int(C.SD_JOURNAL_RUNTIME_ONLY)
	JournalSystem      = int(C.SD_JOURNAL_SYSTEM)
	JournalCurrentUser = int(C.SD_JOURNAL_CURRENT_USER)
)
