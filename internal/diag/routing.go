package diag

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
)

const procNetRoute = "/proc/net/route"

// checkRouting 检查内核路由表是否存在默认路由
func (r *Runner) checkRouting() RoutingResult {
	f, err := os.Open(procNetRoute)
	if err != nil {
		return RoutingResult{Error: fmt.Sprintf("read routing table: %v", err)}
	}
	defer f.Close()

	gateway, count, err := parseRoutes(f)
	if err != nil {
		return RoutingResult{Error: err.Error()}
	}
	return RoutingResult{
		OK:             gateway != "",
		DefaultGateway: gateway,
		RouteCount:     count,
	}
}

// parseRoutes 解析 /proc/net/route, 返回默认网关与路由条数
//
// 每行字段: Iface Destination Gateway Flags ...;
// Destination 为 00000000 的行是默认路由, Gateway 为小端序十六进制 IPv4。
func parseRoutes(r io.Reader) (gateway string, count int, err error) {
	scanner := bufio.NewScanner(r)
	first := true
	for scanner.Scan() {
		if first {
			// 表头
			first = false
			continue
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) < 3 {
			continue
		}
		count++
		if fields[1] != "00000000" || gateway != "" {
			continue
		}
		ip, perr := parseHexIPv4(fields[2])
		if perr != nil {
			return "", count, fmt.Errorf("parse gateway %q: %w", fields[2], perr)
		}
		gateway = ip
	}
	if serr := scanner.Err(); serr != nil {
		return "", count, fmt.Errorf("scan routing table: %w", serr)
	}
	return gateway, count, nil
}

// parseHexIPv4 将小端序十六进制地址(如 0100A8C0)转为点分十进制
func parseHexIPv4(s string) (string, error) {
	raw, err := hex.DecodeString(s)
	if err != nil || len(raw) != 4 {
		return "", fmt.Errorf("not a hex IPv4 address")
	}
	return net.IPv4(raw[3], raw[2], raw[1], raw[0]).String(), nil
}
