//go:build unix

package bridge

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend 生成一个代替后端可执行文件的 shell 脚本
func fakeBackend(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "backend")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755))
	return path
}

const diagnoseJSON = `{"version":"1.2.3","tool":"network-ambulance-go",` +
	`"dns":{"ok":true},"routing":{"ok":true},` +
	`"connectivity":{"ok":false},"interfaces":{"ok":true}}`

func TestDiagnose(t *testing.T) {
	c := NewClient(fakeBackend(t, `
[ "$1" = "diagnose" ] || exit 2
[ "$2" = "--json" ] || exit 2
printf '%s' '`+diagnoseJSON+`'
`))

	result, err := c.Diagnose(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", result.Version)
	assert.Equal(t, "network-ambulance-go", result.Tool)
	assert.JSONEq(t, `{"ok":true}`, string(result.DNS))
	assert.JSONEq(t, `{"ok":false}`, string(result.Connectivity))
}

func TestDiagnose_BackendFailure(t *testing.T) {
	c := NewClient(fakeBackend(t, `
echo "resolver unreachable" >&2
exit 1
`))

	_, err := c.Diagnose(context.Background())
	require.Error(t, err)
	// 非零退出时标准错误内容成为错误消息
	assert.Contains(t, err.Error(), "resolver unreachable")
}

func TestDiagnose_MalformedOutput(t *testing.T) {
	c := NewClient(fakeBackend(t, `printf 'not json'`))

	_, err := c.Diagnose(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse diagnostic output")
}

func TestRepair(t *testing.T) {
	c := NewClient(fakeBackend(t, `
[ "$1" = "repair" ] || exit 2
[ "$2" = "dns" ] || exit 2
[ "$3" = "--json" ] || exit 2
printf '%s' '{"version":"1.2.3","tool":"network-ambulance-go","dns_repair":{"ok":true},"interface_repair":{"skipped":true,"ok":false},"routing_repair":{"skipped":true,"ok":false}}'
`))

	result, err := c.Repair(context.Background(), "dns")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3", result.Version)
	assert.JSONEq(t, `{"ok":true}`, string(result.DNSRepair))
}

func TestRepair_UnknownTarget(t *testing.T) {
	c := NewClient("/nonexistent")
	_, err := c.Repair(context.Background(), "everything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "everything")
}

func TestDiagnose_MissingBinary(t *testing.T) {
	c := NewClient(filepath.Join(t.TempDir(), "missing"))
	_, err := c.Diagnose(context.Background())
	assert.Error(t, err)
}

func TestPlatformInfo(t *testing.T) {
	assert.NotEmpty(t, PlatformInfo())
}
