//go:build linux && cgo

package sdshim

/*
#cgo linux LDFLAGS: -lsystemd

#include <stdlib.h>
#include <systemd/sd-journal.h>
*/
import "C"

import "unsafe"

// JournalOpen 打开日志读取器
//
// flags 为 Journal* 标志的按位或, 原样转发。成功时通过 j 写回句柄,
// 失败返回负的原生错误码。每次成功打开必须配对一次 JournalClose。
func JournalOpen(j *Journal, flags int) int {
	return int(C.sd_journal_open((**C.sd_journal)(unsafe.Pointer(j)), C.int(flags)))
}

// JournalClose 关闭日志读取器, 每个句柄只能关闭一次
func JournalClose(j Journal) {
	C.sd_journal_close((*C.sd_journal)(j))
}

// JournalAddMatch 追加一条过滤表达式(FIELD=value 形式的原始字节)
//
// 多条 match 的与/或组合规则由 libsystemd 定义, 本层不做解释。
// 应在定位调用之前添加。
func JournalAddMatch(j Journal, data []byte) int {
	var p unsafe.Pointer
	if len(data) > 0 {
		p = unsafe.Pointer(&data[0])
	}
	return int(C.sd_journal_add_match((*C.sd_journal)(j), p, C.size_t(len(data))))
}

// JournalSeekTail 将游标定位到最新条目之后, 供逆序遍历使用
func JournalSeekTail(j Journal) int {
	return int(C.sd_journal_seek_tail((*C.sd_journal)(j)))
}

// JournalPrevious 向旧方向移动一条记录
//
// 返回正值表示到达一条记录, 0 表示该方向已无记录, 负值为错误。
func JournalPrevious(j Journal) int {
	return int(C.sd_journal_previous((*C.sd_journal)(j)))
}

// JournalNext 向新方向移动一条记录, 返回值语义同 JournalPrevious
func JournalNext(j Journal) int {
	return int(C.sd_journal_next((*C.sd_journal)(j)))
}

// JournalGetData 读取当前记录中指定字段的原始值
//
// 返回的字节切片是日志内部缓冲区的借用视图, 不做复制,
// 仅在下一次 Next/Previous/Seek 之前有效; 需要保留时调用方自行复制。
// 仅在游标成功定位到记录后调用才有意义。
func JournalGetData(j Journal, field string) ([]byte, int) {
	cField := C.CString(field)
	defer C.free(unsafe.Pointer(cField))

	var data unsafe.Pointer
	var length C.size_t
	r := int(C.sd_journal_get_data((*C.sd_journal)(j), cField, &data, &length))
	if r < 0 || data == nil {
		return nil, r
	}
	return unsafe.Slice((*byte)(data), int(length)), r
}
