// Package bridge 封装桌面端与诊断后端之间的子进程边界
//
// 桌面端不直接链接后端, 而是以子进程方式调用后端可执行文件
// (diagnose --json / repair <target> --json), 从标准输出读取单个
// JSON 文档; 退出码非零视为失败, 标准错误内容作为错误消息上报。
package bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// DiagnosticResult 诊断文档的顶层结构, 各段保持原始 JSON 交给界面渲染
type DiagnosticResult struct {
	Version      string          `json:"version"`
	Tool         string          `json:"tool"`
	DNS          json.RawMessage `json:"dns"`
	Routing      json.RawMessage `json:"routing"`
	Connectivity json.RawMessage `json:"connectivity"`
	Interfaces   json.RawMessage `json:"interfaces"`
}

// RepairResult 修复文档的顶层结构
type RepairResult struct {
	Version         string          `json:"version"`
	Tool            string          `json:"tool"`
	DNSRepair       json.RawMessage `json:"dns_repair"`
	InterfaceRepair json.RawMessage `json:"interface_repair"`
	RoutingRepair   json.RawMessage `json:"routing_repair"`
}

// 受支持的修复目标
var repairTargets = map[string]bool{
	"dns":       true,
	"interface": true,
	"routing":   true,
	"all":       true,
}

// Client 调用诊断后端可执行文件
type Client struct {
	BinaryPath string        // 后端可执行文件路径
	Timeout    time.Duration // 单次调用超时
}

// NewClient 创建后端调用客户端
func NewClient(binaryPath string) *Client {
	return &Client{
		BinaryPath: binaryPath,
		Timeout:    60 * time.Second,
	}
}

// Diagnose 运行一次诊断并解析结果文档
func (c *Client) Diagnose(ctx context.Context) (*DiagnosticResult, error) {
	out, err := c.invoke(ctx, "diagnose", "--json")
	if err != nil {
		return nil, err
	}
	result := &DiagnosticResult{}
	if err := json.Unmarshal(out, result); err != nil {
		return nil, fmt.Errorf("parse diagnostic output: %w", err)
	}
	return result, nil
}

// Repair 针对指定目标运行修复并解析结果文档
func (c *Client) Repair(ctx context.Context, target string) (*RepairResult, error) {
	if !repairTargets[target] {
		return nil, fmt.Errorf("unknown repair target %q", target)
	}
	out, err := c.invoke(ctx, "repair", target, "--json")
	if err != nil {
		return nil, err
	}
	result := &RepairResult{}
	if err := json.Unmarshal(out, result); err != nil {
		return nil, fmt.Errorf("parse repair output: %w", err)
	}
	return result, nil
}

// invoke 运行后端子进程, 返回其标准输出
func (c *Client) invoke(ctx context.Context, args ...string) ([]byte, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.BinaryPath, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("backend failed: %s", msg)
		}
		return nil, fmt.Errorf("backend failed: %w", err)
	}
	return stdout.Bytes(), nil
}

// CheckPrivileges 报告当前进程是否具有 root 权限(修复操作的前提)
func CheckPrivileges() bool {
	return os.Geteuid() == 0
}

// PlatformInfo 返回当前平台标识
func PlatformInfo() string {
	return runtime.GOOS
}
