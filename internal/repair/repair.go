// Package repair 实现网络修复引擎
//
// 产出与桌面端约定的单个 JSON 文档, 顶层结构为
// {version, tool, dns_repair, interface_repair, routing_repair}。
// 修复动作通过系统工具(resolvectl / ip)执行, 需要 root 权限,
// 权限检查由调用方(命令入口或桌面端)完成。
package repair

import (
	"context"
	"fmt"
	"net"
	"os/exec"
	"strings"

	"go.uber.org/zap"

	"github.com/lichenhao96/network-ambulance/internal/diag"
	"github.com/lichenhao96/network-ambulance/internal/log"
)

// 修复目标
const (
	TargetDNS       = "dns"
	TargetInterface = "interface"
	TargetRouting   = "routing"
	TargetAll       = "all"
)

// ValidTarget 报告 target 是否为受支持的修复目标
func ValidTarget(target string) bool {
	switch target {
	case TargetDNS, TargetInterface, TargetRouting, TargetAll:
		return true
	}
	return false
}

// Report 一次修复的结果文档
type Report struct {
	Version         string  `json:"version"`
	Tool            string  `json:"tool"`
	DNSRepair       Section `json:"dns_repair"`
	InterfaceRepair Section `json:"interface_repair"`
	RoutingRepair   Section `json:"routing_repair"`
}

// Section 单个修复段, 未被选中的目标标记为 skipped
type Section struct {
	Skipped bool           `json:"skipped,omitempty"`
	OK      bool           `json:"ok"`
	Actions []ActionResult `json:"actions,omitempty"`
}

// ActionResult 单个修复动作的执行结果
type ActionResult struct {
	Action string `json:"action"`
	OK     bool   `json:"ok"`
	Detail string `json:"detail,omitempty"`
}

// CommandRunner 执行一条系统命令并返回合并输出, 便于测试替换
type CommandRunner func(ctx context.Context, name string, args ...string) (string, error)

// execRunner 默认的命令执行器
func execRunner(ctx context.Context, name string, args ...string) (string, error) {
	out, err := exec.CommandContext(ctx, name, args...).CombinedOutput()
	return strings.TrimSpace(string(out)), err
}

// Runner 执行一次修复
type Runner struct {
	version string
	run     CommandRunner
	logger  *log.Logger
}

// NewRunner 创建修复执行器
func NewRunner(version string, logger *log.Logger) *Runner {
	return &Runner{version: version, run: execRunner, logger: logger}
}

// Repair 针对指定目标执行修复并汇总为一份文档
func (r *Runner) Repair(ctx context.Context, target string) (*Report, error) {
	if !ValidTarget(target) {
		return nil, fmt.Errorf("unknown repair target %q (expected dns, interface, routing or all)", target)
	}

	report := &Report{
		Version:         r.version,
		Tool:            diag.ToolName,
		DNSRepair:       Section{Skipped: true},
		InterfaceRepair: Section{Skipped: true},
		RoutingRepair:   Section{Skipped: true},
	}

	if target == TargetDNS || target == TargetAll {
		report.DNSRepair = r.repairDNS(ctx)
	}
	if target == TargetInterface || target == TargetAll {
		report.InterfaceRepair = r.repairInterfaces(ctx)
	}
	if target == TargetRouting || target == TargetAll {
		report.RoutingRepair = r.repairRouting(ctx)
	}

	if r.logger != nil {
		r.logger.Info("repair finished",
			zap.String("target", target),
			zap.Bool("dns_ok", report.DNSRepair.OK),
			zap.Bool("interface_ok", report.InterfaceRepair.OK),
			zap.Bool("routing_ok", report.RoutingRepair.OK),
		)
	}
	return report, nil
}

// action 执行一条命令并折叠为动作结果
func (r *Runner) action(ctx context.Context, name string, args ...string) ActionResult {
	label := name + " " + strings.Join(args, " ")
	out, err := r.run(ctx, name, args...)
	if err != nil {
		detail := err.Error()
		if out != "" {
			detail = out
		}
		return ActionResult{Action: label, Detail: detail}
	}
	return ActionResult{Action: label, OK: true, Detail: out}
}

// repairDNS 清空解析缓存并重启 systemd-resolved
func (r *Runner) repairDNS(ctx context.Context) Section {
	actions := []ActionResult{
		r.action(ctx, "resolvectl", "flush-caches"),
		r.action(ctx, "systemctl", "try-restart", "systemd-resolved.service"),
	}
	return fold(actions)
}

// repairInterfaces 启用处于 down 状态的非回环接口
func (r *Runner) repairInterfaces(ctx context.Context) Section {
	ifaces, err := net.Interfaces()
	if err != nil {
		return Section{Actions: []ActionResult{{
			Action: "list interfaces",
			Detail: err.Error(),
		}}}
	}

	var actions []ActionResult
	for _, iface := range ifaces {
		if iface.Flags&net.FlagLoopback != 0 || iface.Flags&net.FlagUp != 0 {
			continue
		}
		actions = append(actions, r.action(ctx, "ip", "link", "set", iface.Name, "up"))
	}
	if len(actions) == 0 {
		return Section{OK: true, Actions: []ActionResult{{
			Action: "inspect interfaces",
			OK:     true,
			Detail: "all non-loopback interfaces already up",
		}}}
	}
	return fold(actions)
}

// repairRouting 刷新内核路由缓存
func (r *Runner) repairRouting(ctx context.Context) Section {
	actions := []ActionResult{
		r.action(ctx, "ip", "route", "flush", "cache"),
	}
	return fold(actions)
}

// fold 汇总动作列表, 全部成功时整段才算成功
func fold(actions []ActionResult) Section {
	ok := true
	for _, a := range actions {
		if !a.OK {
			ok = false
		}
	}
	return Section{OK: ok, Actions: actions}
}
