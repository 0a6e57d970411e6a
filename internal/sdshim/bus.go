//go:build linux && cgo

package sdshim

/*
#cgo linux LDFLAGS: -lsystemd

#include <stdlib.h>
#include <systemd/sd-bus.h>
*/
import "C"

import "unsafe"

// BusOpenSystem 连接系统级总线
//
// 成功时通过 bus 写回新句柄并返回非负值, 失败返回负的原生错误码。
func BusOpenSystem(bus *Bus) int {
	return int(C.sd_bus_open_system((**C.sd_bus)(unsafe.Pointer(bus))))
}

// BusUnref 递减总线连接的引用计数
//
// 底层资源被完全释放时返回 nil, 否则原样返回句柄。
// 文档化的用法是一次 open 配对一次 unref。
func BusUnref(bus Bus) Bus {
	return Bus(unsafe.Pointer(C.sd_bus_unref((*C.sd_bus)(bus))))
}

// BusGetPropertyString 同步读取一个字符串类型的总线属性
//
// 成功返回非负状态和新分配的 C 堆字符串, 调用方用完必须 FreeString;
// 失败返回负状态, 若 e 非空则被填入错误描述符(之后应 BusErrorFree)。
// 调用阻塞直至总线应答, 无法中途取消。
func BusGetPropertyString(bus Bus, destination, path, iface, member string, e *BusError) (CString, int) {
	cDest := C.CString(destination)
	cPath := C.CString(path)
	cIface := C.CString(iface)
	cMember := C.CString(member)
	defer func() {
		C.free(unsafe.Pointer(cDest))
		C.free(unsafe.Pointer(cPath))
		C.free(unsafe.Pointer(cIface))
		C.free(unsafe.Pointer(cMember))
	}()

	var ret *C.char
	r := C.sd_bus_get_property_string((*C.sd_bus)(bus),
		cDest, cPath, cIface, cMember,
		(*C.sd_bus_error)(e), &ret)
	return CString(unsafe.Pointer(ret)), int(r)
}

// BusErrorFree 释放错误描述符引用的堆内存
//
// 描述符未持有堆内存(need_free 为零)时是空操作, 可放心无条件调用。
func BusErrorFree(e *BusError) {
	if e == nil {
		return
	}
	C.sd_bus_error_free((*C.sd_bus_error)(e))
}

// FreeString 释放属性查询返回的堆字符串, 空指针是空操作
func FreeString(s CString) {
	C.free(unsafe.Pointer(s))
}
