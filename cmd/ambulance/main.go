// Package main 是网络急救后端的入口点
//
// 后端负责网络诊断与修复, 供桌面端以子进程方式调用:
//   - ambulance diagnose --json: 输出诊断文档
//   - ambulance repair <target> --json: 输出修复文档
//
// 采用 Go + libsystemd 混合架构:
//   - internal/sdshim: sd-bus / sd-journal 的 cgo 绑定层
//   - Go 主程序: 诊断逻辑、修复动作、配置与日志
//
// JSON 文档写标准输出, 日志与错误一律写标准错误。
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/lichenhao96/network-ambulance/internal/config"
	"github.com/lichenhao96/network-ambulance/internal/diag"
	"github.com/lichenhao96/network-ambulance/internal/log"
	"github.com/lichenhao96/network-ambulance/internal/repair"
)

// 版本信息 (由编译时注入)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

const defaultConfigPath = "/etc/network-ambulance/backend.yaml"

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: %s <command> [flags]

Commands:
  diagnose            运行网络诊断
  repair <target>     运行网络修复 (target: dns, interface, routing, all)
  version             显示版本信息

Flags:
  --config <path>     配置文件路径 (默认 %s)
  --json              以 JSON 输出结果文档
`, os.Args[0], defaultConfigPath)
}

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "diagnose":
		os.Exit(runDiagnose(os.Args[2:]))
	case "repair":
		os.Exit(runRepair(os.Args[2:]))
	case "version", "--version", "-version":
		fmt.Printf("network-ambulance %s (commit: %s, built: %s)\n", Version, GitCommit, BuildTime)
	case "help", "--help", "-h":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

// commonFlags 解析子命令共有的参数
func commonFlags(name string, args []string) (configPath string, jsonOut bool, ok bool) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	cfg := fs.String("config", defaultConfigPath, "配置文件路径")
	jsonFlag := fs.Bool("json", false, "以 JSON 输出结果文档")
	if err := fs.Parse(args); err != nil {
		return "", false, false
	}
	return *cfg, *jsonFlag, true
}

// setup 加载配置并初始化日志, 返回就绪的 Logger
func setup(configPath string) (*config.Config, *log.Logger, error) {
	cfg, err := config.LoadAndValidate(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	cfg.EnsureAgentID()

	if err := log.Init(log.LogConfig{
		Level:      cfg.Log.Level,
		Output:     cfg.Log.Output,
		FilePath:   cfg.Log.FilePath,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
	}); err != nil {
		return nil, nil, fmt.Errorf("initialize logger: %w", err)
	}

	logger := log.Global()
	logger.Info("backend starting",
		zap.String("version", Version),
		zap.String("commit", GitCommit),
		zap.String("instance", cfg.Agent.ID),
	)
	return cfg, logger, nil
}

// signalContext 创建随 SIGINT/SIGTERM 取消的上下文
func signalContext(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal, aborting", zap.String("signal", sig.String()))
		cancel()
	}()
	return ctx, cancel
}

func runDiagnose(args []string) int {
	configPath, jsonOut, ok := commonFlags("diagnose", args)
	if !ok {
		return 2
	}

	cfg, logger, err := setup(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		return 1
	}
	defer logger.Sync()

	ctx, cancel := signalContext(logger)
	defer cancel()

	runner := diag.NewRunner(diag.Options{
		Version:        Version,
		DNSProbes:      cfg.Diag.DNSProbes,
		Endpoints:      cfg.Diag.Endpoints,
		Timeout:        cfg.Diag.Timeout(),
		JournalEntries: cfg.Diag.JournalEntries,
	}, nil, logger.WithModule("diag"))

	report := runner.Run(ctx)

	if jsonOut {
		if err := json.NewEncoder(os.Stdout).Encode(report); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode report: %v\n", err)
			return 1
		}
		return 0
	}
	printDiagnoseText(report)
	return 0
}

func runRepair(args []string) int {
	if len(args) == 0 || len(args[0]) == 0 || args[0][0] == '-' {
		fmt.Fprintln(os.Stderr, "repair requires a target: dns, interface, routing or all")
		return 2
	}
	target := args[0]

	configPath, jsonOut, ok := commonFlags("repair", args[1:])
	if !ok {
		return 2
	}

	// 修复动作改写系统状态, 必须以 root 运行
	if os.Geteuid() != 0 {
		fmt.Fprintln(os.Stderr, "repair operations require root privileges")
		return 1
	}

	_, logger, err := setup(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start: %v\n", err)
		return 1
	}
	defer logger.Sync()

	ctx, cancel := signalContext(logger)
	defer cancel()

	report, err := repair.NewRunner(Version, logger.WithModule("repair")).Repair(ctx, target)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Repair failed: %v\n", err)
		return 1
	}

	if jsonOut {
		if err := json.NewEncoder(os.Stdout).Encode(report); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to encode report: %v\n", err)
			return 1
		}
		return 0
	}
	printRepairText(report)
	return 0
}

// printDiagnoseText 输出人类可读的诊断摘要
func printDiagnoseText(report *diag.Report) {
	status := func(ok bool) string {
		if ok {
			return "ok"
		}
		return "FAILED"
	}

	fmt.Printf("network-ambulance %s\n\n", report.Version)
	fmt.Printf("DNS          %s", status(report.DNS.OK))
	if report.DNS.ResolvedUnit != "" {
		fmt.Printf(" (systemd-resolved: %s)", report.DNS.ResolvedUnit)
	}
	fmt.Println()
	for _, l := range report.DNS.Lookups {
		if l.OK {
			fmt.Printf("  %-24s %4d ms  %v\n", l.Name, l.DurationMs, l.Addresses)
		} else {
			fmt.Printf("  %-24s failed: %s\n", l.Name, l.Error)
		}
	}

	fmt.Printf("Routing      %s", status(report.Routing.OK))
	if report.Routing.DefaultGateway != "" {
		fmt.Printf(" (gateway %s, %d routes)", report.Routing.DefaultGateway, report.Routing.RouteCount)
	}
	fmt.Println()

	fmt.Printf("Connectivity %s\n", status(report.Connectivity.OK))
	for _, p := range report.Connectivity.Probes {
		if p.OK {
			fmt.Printf("  %-24s %4d ms\n", p.Endpoint, p.LatencyMs)
		} else {
			fmt.Printf("  %-24s failed: %s\n", p.Endpoint, p.Error)
		}
	}
	for _, msg := range report.Connectivity.RecentErrors {
		fmt.Printf("  journal: %s\n", msg)
	}

	fmt.Printf("Interfaces   %s\n", status(report.Interfaces.OK))
	for _, i := range report.Interfaces.Interfaces {
		state := "down"
		if i.Up {
			state = "up"
		}
		fmt.Printf("  %-12s %-4s mtu %-5d %v\n", i.Name, state, i.MTU, i.Addresses)
	}
}

// printRepairText 输出人类可读的修复摘要
func printRepairText(report *repair.Report) {
	section := func(name string, s repair.Section) {
		if s.Skipped {
			fmt.Printf("%-16s skipped\n", name)
			return
		}
		status := "ok"
		if !s.OK {
			status = "FAILED"
		}
		fmt.Printf("%-16s %s\n", name, status)
		for _, a := range s.Actions {
			mark := "+"
			if !a.OK {
				mark = "!"
			}
			fmt.Printf("  %s %s", mark, a.Action)
			if a.Detail != "" {
				fmt.Printf(" (%s)", a.Detail)
			}
			fmt.Println()
		}
	}

	fmt.Printf("network-ambulance %s\n\n", report.Version)
	section("dns_repair", report.DNSRepair)
	section("interface_repair", report.InterfaceRepair)
	section("routing_repair", report.RoutingRepair)
}
