// Package sysd 在 sdshim 之上构建安全的调用方层
//
// sdshim 刻意不做的事情在这里完成: 负状态码转换为 Go 错误,
// open 与 close 严格配对, 借用的日志数据在游标移动前复制。
package sysd

import "errors"

// ErrNotSupported 表示当前平台没有 libsystemd 可用
var ErrNotSupported = errors.New("systemd is not available on this platform")

// Entry 一条日志记录的复制快照, 与日志内部缓冲区无引用关系
type Entry struct {
	Message   string `json:"message"`
	Priority  string `json:"priority,omitempty"`
	Timestamp string `json:"timestamp,omitempty"` // 源时间戳(微秒), 字段缺失时为空
}

// System 通过系统总线与本机日志读取 systemd 状态
type System struct{}

// unitObjectPath 计算单元对象在总线上的路径
func unitObjectPath(unit string) string {
	return "/org/freedesktop/systemd1/unit/" + busLabelEscape(unit)
}

// busLabelEscape 按 systemd 的对象路径规则转义单元名
//
// 字母数字保留, 其余字节转义为 _xx; 首字符为数字时同样转义,
// 空串转义为单个 "_"。
func busLabelEscape(s string) string {
	if s == "" {
		return "_"
	}
	const hex = "0123456789abcdef"
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		plain := c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
		if plain && !(i == 0 && c >= '0' && c <= '9') {
			out = append(out, c)
			continue
		}
		out = append(out, '_', hex[c>>4], hex[c&0xf])
	}
	return string(out)
}

// fieldValue 从 FIELD=value 形式的日志数据中取出值部分
func fieldValue(data []byte, field string) (string, bool) {
	if len(data) < len(field)+1 {
		return "", false
	}
	if string(data[:len(field)]) != field || data[len(field)] != '=' {
		return "", false
	}
	return string(data[len(field)+1:]), true
}
