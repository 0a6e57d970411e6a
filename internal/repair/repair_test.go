package repair

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lichenhao96/network-ambulance/internal/diag"
)

// fakeRunner 记录被调用的命令并按前缀返回预设结果
type fakeRunner struct {
	calls []string
	fail  map[string]string // 命令前缀 -> 错误输出
}

func (f *fakeRunner) run(ctx context.Context, name string, args ...string) (string, error) {
	call := name + " " + strings.Join(args, " ")
	f.calls = append(f.calls, call)
	for prefix, out := range f.fail {
		if strings.HasPrefix(call, prefix) {
			return out, errors.New("exit status 1")
		}
	}
	return "", nil
}

func newTestRunner(fake *fakeRunner) *Runner {
	r := NewRunner("1.2.3", nil)
	r.run = fake.run
	return r
}

func TestValidTarget(t *testing.T) {
	for _, target := range []string{TargetDNS, TargetInterface, TargetRouting, TargetAll} {
		assert.True(t, ValidTarget(target), target)
	}
	assert.False(t, ValidTarget(""))
	assert.False(t, ValidTarget("everything"))
}

func TestRepair_UnknownTarget(t *testing.T) {
	r := newTestRunner(&fakeRunner{})
	_, err := r.Repair(context.Background(), "bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}

func TestRepair_DNS(t *testing.T) {
	fake := &fakeRunner{}
	r := newTestRunner(fake)

	report, err := r.Repair(context.Background(), TargetDNS)
	require.NoError(t, err)

	assert.Equal(t, "1.2.3", report.Version)
	assert.Equal(t, diag.ToolName, report.Tool)

	assert.False(t, report.DNSRepair.Skipped)
	assert.True(t, report.DNSRepair.OK)
	require.Len(t, report.DNSRepair.Actions, 2)

	// 未选中的段保持 skipped
	assert.True(t, report.InterfaceRepair.Skipped)
	assert.True(t, report.RoutingRepair.Skipped)

	require.Len(t, fake.calls, 2)
	assert.Equal(t, "resolvectl flush-caches", fake.calls[0])
	assert.Equal(t, "systemctl try-restart systemd-resolved.service", fake.calls[1])
}

func TestRepair_DNSFailure(t *testing.T) {
	fake := &fakeRunner{fail: map[string]string{
		"resolvectl": "Failed to connect to resolver",
	}}
	r := newTestRunner(fake)

	report, err := r.Repair(context.Background(), TargetDNS)
	require.NoError(t, err)

	assert.False(t, report.DNSRepair.OK)
	require.Len(t, report.DNSRepair.Actions, 2)
	assert.False(t, report.DNSRepair.Actions[0].OK)
	assert.Equal(t, "Failed to connect to resolver", report.DNSRepair.Actions[0].Detail)
	// 第一条失败不阻止后续动作
	assert.True(t, report.DNSRepair.Actions[1].OK)
}

func TestRepair_Routing(t *testing.T) {
	fake := &fakeRunner{}
	r := newTestRunner(fake)

	report, err := r.Repair(context.Background(), TargetRouting)
	require.NoError(t, err)

	assert.True(t, report.DNSRepair.Skipped)
	assert.True(t, report.InterfaceRepair.Skipped)
	assert.False(t, report.RoutingRepair.Skipped)
	assert.True(t, report.RoutingRepair.OK)
	require.Len(t, fake.calls, 1)
	assert.Equal(t, "ip route flush cache", fake.calls[0])
}

func TestRepair_All(t *testing.T) {
	fake := &fakeRunner{}
	r := newTestRunner(fake)

	report, err := r.Repair(context.Background(), TargetAll)
	require.NoError(t, err)

	assert.False(t, report.DNSRepair.Skipped)
	assert.False(t, report.InterfaceRepair.Skipped)
	assert.False(t, report.RoutingRepair.Skipped)
	// 接口段依赖主机状态, 只断言其余两段
	assert.True(t, report.DNSRepair.OK)
	assert.True(t, report.RoutingRepair.OK)
}

func TestFold(t *testing.T) {
	assert.True(t, fold([]ActionResult{{OK: true}, {OK: true}}).OK)
	assert.False(t, fold([]ActionResult{{OK: true}, {OK: false}}).OK)
	assert.True(t, fold(nil).OK)
}
