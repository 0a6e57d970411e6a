//go:build !linux || !cgo

package sdshim

import "unsafe"

// 非 Linux 或禁用 cgo 时的占位实现: 仅保证本包可编译,
// 所有操作返回 -ENOSYS。libsystemd 只存在于 Linux。

const errNoSys = -38 // -ENOSYS

type (
	Bus     unsafe.Pointer
	Message unsafe.Pointer
	Journal unsafe.Pointer
)

type CString unsafe.Pointer

func GoString(s CString) string { return "" }

type BusError struct{}

func (e *BusError) Name() string { return "" }

func (e *BusError) Message() string { return "" }

func (e *BusError) NeedFree() bool { return false }

const (
	JournalLocalOnly   = 0
	JournalRuntimeOnly = 0
	JournalSystem      = 0
	JournalCurrentUser = 0
)

func BusOpenSystem(bus *Bus) int { return errNoSys }

func BusUnref(bus Bus) Bus { return nil }

func BusGetPropertyString(bus Bus, destination, path, iface, member string, e *BusError) (CString, int) {
	return nil, errNoSys
}

func BusErrorFree(e *BusError) {}

func FreeString(s CString) {}

func JournalOpen(j *Journal, flags int) int { return errNoSys }

func JournalClose(j Journal) {}

func JournalAddMatch(j Journal, data []byte) int { return errNoSys }

func JournalSeekTail(j Journal) int { return errNoSys }

func JournalPrevious(j Journal) int { return errNoSys }

func JournalNext(j Journal) int { return errNoSys }

func JournalGetData(j Journal, field string) ([]byte, int) { return nil, errNoSys }
