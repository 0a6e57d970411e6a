package diag

import (
	"fmt"
	"net"
)

// checkInterfaces 枚举网络接口及其地址
func (r *Runner) checkInterfaces() InterfacesResult {
	ifaces, err := net.Interfaces()
	if err != nil {
		return InterfacesResult{Error: fmt.Sprintf("list interfaces: %v", err)}
	}

	result := InterfacesResult{
		Interfaces: make([]InterfaceInfo, 0, len(ifaces)),
	}
	upNonLoopback := false
	for _, iface := range ifaces {
		info := InterfaceInfo{
			Name:     iface.Name,
			MTU:      iface.MTU,
			Up:       iface.Flags&net.FlagUp != 0,
			Loopback: iface.Flags&net.FlagLoopback != 0,
			Flags:    iface.Flags.String(),
		}
		if addrs, err := iface.Addrs(); err == nil {
			for _, addr := range addrs {
				info.Addresses = append(info.Addresses, addr.String())
			}
		}
		if info.Up && !info.Loopback {
			upNonLoopback = true
		}
		result.Interfaces = append(result.Interfaces, info)
	}

	// 至少存在一个启用的非回环接口才算健康
	result.OK = upNonLoopback
	return result
}
