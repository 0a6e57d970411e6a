//go:build !linux || !cgo

package sysd

// 非 Linux 或禁用 cgo 时的占位实现, 调用方应将其视为信息缺失而非故障

func (System) UnitActiveState(unit string) (string, error) {
	return "", ErrNotSupported
}

func (System) RecentUnitEntries(unit string, max int) ([]Entry, error) {
	return nil, ErrNotSupported
}
