package diag

import (
	"context"
	"net"
	"strconv"
	"time"
)

// checkConnectivity 对配置的端点做 TCP 握手探测
func (r *Runner) checkConnectivity(ctx context.Context) ConnectivityResult {
	result := ConnectivityResult{
		Probes: make([]ProbeResult, 0, len(r.opts.Endpoints)),
	}

	if state, err := r.sys.UnitActiveState("NetworkManager.service"); err == nil {
		result.NetworkManagerUnit = state
	}
	result.RecentErrors = r.recentNetworkErrors()

	ok := true
	for _, endpoint := range r.opts.Endpoints {
		probe := dialProbe(ctx, endpoint, r.opts.Timeout)
		result.Probes = append(result.Probes, probe)
		if !probe.OK {
			ok = false
		}
	}
	result.OK = ok
	return result
}

// dialProbe 对单个端点做一次 TCP 连接并测量时延
func dialProbe(ctx context.Context, endpoint string, timeout time.Duration) ProbeResult {
	dctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	dialer := &net.Dialer{}
	start := time.Now()
	conn, err := dialer.DialContext(dctx, "tcp", endpoint)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return ProbeResult{Endpoint: endpoint, LatencyMs: latency, Error: err.Error()}
	}
	conn.Close()
	return ProbeResult{Endpoint: endpoint, OK: true, LatencyMs: latency}
}

// recentNetworkErrors 从日志中提取 NetworkManager 最近的高优先级消息
//
// 日志不可用(非 Linux、无权限)时返回空, 不视为诊断失败。
func (r *Runner) recentNetworkErrors() []string {
	entries, err := r.sys.RecentUnitEntries("NetworkManager.service", r.opts.JournalEntries)
	if err != nil {
		return nil
	}

	var msgs []string
	for _, e := range entries {
		if e.Message == "" || e.Priority == "" {
			continue
		}
		// syslog 优先级: 0..3 为 err 及以上
		p, err := strconv.Atoi(e.Priority)
		if err != nil || p > 3 {
			continue
		}
		msgs = append(msgs, e.Message)
	}
	return msgs
}
