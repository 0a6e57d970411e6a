package diag

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lichenhao96/network-ambulance/internal/sysd"
)

// fakeSystemd 测试用的 SystemdSource 替身
type fakeSystemd struct {
	states  map[string]string
	entries []sysd.Entry
	err     error
}

func (f *fakeSystemd) UnitActiveState(unit string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.states[unit], nil
}

func (f *fakeSystemd) RecentUnitEntries(unit string, max int) ([]sysd.Entry, error) {
	if f.err != nil {
		return nil, f.err
	}
	if len(f.entries) > max {
		return f.entries[:max], nil
	}
	return f.entries, nil
}

// localListener 启动一个本地 TCP 监听, 作为连通性探测目标
func localListener(t *testing.T) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { ln.Close() })
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()
	return ln.Addr().String()
}

func TestRunnerRun(t *testing.T) {
	sys := &fakeSystemd{
		states: map[string]string{
			"systemd-resolved.service": "active",
			"NetworkManager.service":   "active",
		},
		entries: []sysd.Entry{
			{Message: "link down", Priority: "3"},
			{Message: "routine message", Priority: "6"},
		},
	}
	r := NewRunner(Options{
		Version:   "1.2.3",
		DNSProbes: []string{"localhost"},
		Endpoints: []string{localListener(t)},
		Timeout:   3 * time.Second,
	}, sys, nil)

	report := r.Run(context.Background())

	assert.Equal(t, "1.2.3", report.Version)
	assert.Equal(t, ToolName, report.Tool)

	require.Len(t, report.DNS.Lookups, 1)
	assert.True(t, report.DNS.Lookups[0].OK, "localhost should resolve")
	assert.Equal(t, "active", report.DNS.ResolvedUnit)

	require.Len(t, report.Connectivity.Probes, 1)
	assert.True(t, report.Connectivity.Probes[0].OK)
	assert.True(t, report.Connectivity.OK)
	assert.Equal(t, "active", report.Connectivity.NetworkManagerUnit)
	// 只有优先级 err 及以上的消息进入 recent_errors
	assert.Equal(t, []string{"link down"}, report.Connectivity.RecentErrors)

	assert.True(t, report.Interfaces.OK || len(report.Interfaces.Interfaces) > 0)
}

func TestRunnerRun_SystemdUnavailable(t *testing.T) {
	// systemd 不可用时诊断照常进行, 相关字段留空
	sys := &fakeSystemd{err: sysd.ErrNotSupported}
	r := NewRunner(Options{
		Version:   "1.2.3",
		DNSProbes: []string{"localhost"},
		Endpoints: []string{localListener(t)},
		Timeout:   3 * time.Second,
	}, sys, nil)

	report := r.Run(context.Background())

	assert.Empty(t, report.DNS.ResolvedUnit)
	assert.Empty(t, report.Connectivity.NetworkManagerUnit)
	assert.Nil(t, report.Connectivity.RecentErrors)
	require.Len(t, report.Connectivity.Probes, 1)
	assert.True(t, report.Connectivity.Probes[0].OK)
}

func TestDialProbe_Refused(t *testing.T) {
	// 先占用端口再关闭, 得到一个大概率无人监听的地址
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	ln.Close()

	probe := dialProbe(context.Background(), addr, 2*time.Second)
	assert.False(t, probe.OK)
	assert.NotEmpty(t, probe.Error)
}

func TestCheckInterfaces(t *testing.T) {
	r := NewRunner(Options{}, &fakeSystemd{}, nil)
	result := r.checkInterfaces()

	require.NotEmpty(t, result.Interfaces, "expected at least the loopback interface")
	hasLoopback := false
	for _, iface := range result.Interfaces {
		if iface.Loopback {
			hasLoopback = true
			assert.NotEmpty(t, iface.Name)
		}
	}
	assert.True(t, hasLoopback, "expected a loopback interface")
}

func TestRecentNetworkErrors_Filtering(t *testing.T) {
	sys := &fakeSystemd{
		entries: []sysd.Entry{
			{Message: "fatal fault", Priority: "2"},
			{Message: "plain error", Priority: "3"},
			{Message: "warning only", Priority: "4"},
			{Message: "no priority"},
			{Priority: "0"},
		},
	}
	r := NewRunner(Options{}, sys, nil)

	msgs := r.recentNetworkErrors()
	assert.Equal(t, []string{"fatal fault", "plain error"}, msgs)
}
