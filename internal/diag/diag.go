package diag

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/lichenhao96/network-ambulance/internal/log"
	"github.com/lichenhao96/network-ambulance/internal/sysd"
)

// 工具标识, 写入诊断与修复文档的 tool 字段
const ToolName = "network-ambulance-go"

// SystemdSource 提供 systemd 单元状态与日志, 便于测试替换
type SystemdSource interface {
	UnitActiveState(unit string) (string, error)
	RecentUnitEntries(unit string, max int) ([]sysd.Entry, error)
}

// Options 诊断参数
type Options struct {
	Version        string        // 写入文档的版本号
	DNSProbes      []string      // 解析探测域名
	Endpoints      []string      // TCP 连通性探测端点 (host:port)
	Timeout        time.Duration // 单项探测超时
	JournalEntries int           // 从日志提取的最近记录条数
}

// Runner 执行一次完整诊断
type Runner struct {
	opts   Options
	sys    SystemdSource
	logger *log.Logger
}

// NewRunner 创建诊断执行器, 缺省参数在此补齐
func NewRunner(opts Options, sys SystemdSource, logger *log.Logger) *Runner {
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.JournalEntries <= 0 {
		opts.JournalEntries = 20
	}
	if len(opts.DNSProbes) == 0 {
		opts.DNSProbes = []string{"example.com", "one.one.one.one"}
	}
	if len(opts.Endpoints) == 0 {
		opts.Endpoints = []string{"1.1.1.1:443", "8.8.8.8:53"}
	}
	if sys == nil {
		sys = sysd.System{}
	}
	return &Runner{opts: opts, sys: sys, logger: logger}
}

// Run 并行执行四个诊断段并汇总为一份文档
func (r *Runner) Run(ctx context.Context) *Report {
	start := time.Now()
	report := &Report{
		Version: r.opts.Version,
		Tool:    ToolName,
	}

	var wg sync.WaitGroup
	wg.Add(4)
	go func() {
		defer wg.Done()
		report.DNS = r.checkDNS(ctx)
	}()
	go func() {
		defer wg.Done()
		report.Routing = r.checkRouting()
	}()
	go func() {
		defer wg.Done()
		report.Connectivity = r.checkConnectivity(ctx)
	}()
	go func() {
		defer wg.Done()
		report.Interfaces = r.checkInterfaces()
	}()
	wg.Wait()

	if r.logger != nil {
		r.logger.Info("diagnostics finished",
			zap.Bool("dns_ok", report.DNS.OK),
			zap.Bool("routing_ok", report.Routing.OK),
			zap.Bool("connectivity_ok", report.Connectivity.OK),
			zap.Bool("interfaces_ok", report.Interfaces.OK),
			zap.Duration("elapsed", time.Since(start)),
		)
	}
	return report
}
