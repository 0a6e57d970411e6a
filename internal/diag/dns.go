package diag

import (
	"bufio"
	"context"
	"io"
	"net"
	"os"
	"strings"
	"time"
)

const resolvConfPath = "/etc/resolv.conf"

// checkDNS 探测域名解析链路
func (r *Runner) checkDNS(ctx context.Context) DNSResult {
	result := DNSResult{
		Nameservers: systemNameservers(),
		Lookups:     make([]LookupResult, 0, len(r.opts.DNSProbes)),
	}

	// systemd-resolved 的状态只作参考, 读取失败不影响诊断结论
	if state, err := r.sys.UnitActiveState("systemd-resolved.service"); err == nil {
		result.ResolvedUnit = state
	}

	resolver := &net.Resolver{}
	ok := true
	for _, name := range r.opts.DNSProbes {
		result.Lookups = append(result.Lookups, lookupOne(ctx, resolver, name, r.opts.Timeout))
		if !result.Lookups[len(result.Lookups)-1].OK {
			ok = false
		}
	}
	result.OK = ok
	return result
}

// lookupOne 解析单个域名并记录耗时
func lookupOne(ctx context.Context, resolver *net.Resolver, name string, timeout time.Duration) LookupResult {
	lctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	addrs, err := resolver.LookupHost(lctx, name)
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		return LookupResult{Name: name, DurationMs: elapsed, Error: err.Error()}
	}
	return LookupResult{Name: name, OK: true, DurationMs: elapsed, Addresses: addrs}
}

// systemNameservers 读取 /etc/resolv.conf 中配置的域名服务器
func systemNameservers() []string {
	f, err := os.Open(resolvConfPath)
	if err != nil {
		return nil
	}
	defer f.Close()
	return parseNameservers(f)
}

// parseNameservers 从 resolv.conf 内容中提取 nameserver 行
func parseNameservers(r io.Reader) []string {
	var servers []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[0] == "nameserver" {
			servers = append(servers, fields[1])
		}
	}
	return servers
}
