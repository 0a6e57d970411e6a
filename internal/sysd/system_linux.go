//go:build linux && cgo

package sysd

import (
	"fmt"
	"syscall"

	"github.com/lichenhao96/network-ambulance/internal/sdshim"
)

// statusErr 将负的原生状态码包装为携带 errno 的 Go 错误
func statusErr(op string, r int) error {
	return fmt.Errorf("%s: %w", op, syscall.Errno(-r))
}

// UnitActiveState 读取单元的 ActiveState 属性(active/inactive/failed 等)
func (System) UnitActiveState(unit string) (string, error) {
	var bus sdshim.Bus
	if r := sdshim.BusOpenSystem(&bus); r < 0 {
		return "", statusErr("open system bus", r)
	}
	defer sdshim.BusUnref(bus)

	var e sdshim.BusError
	s, r := sdshim.BusGetPropertyString(bus,
		"org.freedesktop.systemd1", unitObjectPath(unit),
		"org.freedesktop.systemd1.Unit", "ActiveState", &e)
	if r < 0 {
		msg := e.Message()
		sdshim.BusErrorFree(&e)
		if msg != "" {
			return "", fmt.Errorf("get ActiveState of %s: %s: %w", unit, msg, syscall.Errno(-r))
		}
		return "", statusErr("get ActiveState of "+unit, r)
	}
	defer sdshim.FreeString(s)
	return sdshim.GoString(s), nil
}

// RecentUnitEntries 返回单元最近的日志记录, 从新到旧, 至多 max 条
func (System) RecentUnitEntries(unit string, max int) ([]Entry, error) {
	var j sdshim.Journal
	if r := sdshim.JournalOpen(&j, sdshim.JournalLocalOnly); r < 0 {
		return nil, statusErr("open journal", r)
	}
	defer sdshim.JournalClose(j)

	if r := sdshim.JournalAddMatch(j, []byte("_SYSTEMD_UNIT="+unit)); r < 0 {
		return nil, statusErr("add journal match for "+unit, r)
	}
	if r := sdshim.JournalSeekTail(j); r < 0 {
		return nil, statusErr("seek journal tail", r)
	}

	entries := make([]Entry, 0, max)
	for len(entries) < max {
		r := sdshim.JournalPrevious(j)
		if r < 0 {
			return entries, statusErr("advance journal cursor", r)
		}
		if r == 0 {
			break
		}

		// 借用数据仅在下一次游标移动前有效, 立即复制
		var ent Entry
		if data, r := sdshim.JournalGetData(j, "MESSAGE"); r >= 0 {
			ent.Message, _ = fieldValue(data, "MESSAGE")
		}
		if data, r := sdshim.JournalGetData(j, "PRIORITY"); r >= 0 {
			ent.Priority, _ = fieldValue(data, "PRIORITY")
		}
		if data, r := sdshim.JournalGetData(j, "_SOURCE_REALTIME_TIMESTAMP"); r >= 0 {
			ent.Timestamp, _ = fieldValue(data, "_SOURCE_REALTIME_TIMESTAMP")
		}
		entries = append(entries, ent)
	}
	return entries, nil
}
