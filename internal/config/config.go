// Package config 提供诊断后端的配置管理功能
package config

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"
)

// Config 定义后端的完整配置结构
type Config struct {
	Agent AgentConfig `mapstructure:"agent"`
	Diag  DiagConfig  `mapstructure:"diag"`
	Log   LogConfig   `mapstructure:"log"`
}

// AgentConfig 实例基础配置
type AgentConfig struct {
	ID   string `mapstructure:"id"`   // 实例唯一标识, 为空时自动生成
	Name string `mapstructure:"name"` // 实例名称
}

// DiagConfig 诊断参数配置
type DiagConfig struct {
	DNSProbes      []string `mapstructure:"dns_probes"`      // 解析探测域名
	Endpoints      []string `mapstructure:"endpoints"`       // TCP 探测端点 (host:port)
	TimeoutSeconds int      `mapstructure:"timeout_seconds"` // 单项探测超时(秒)
	JournalEntries int      `mapstructure:"journal_entries"` // 提取的日志记录条数
}

// Timeout 以 time.Duration 返回单项探测超时
func (d DiagConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutSeconds) * time.Second
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`       // 日志级别: debug, info, warn, error
	Output     string `mapstructure:"output"`      // 输出方式: console, file, both
	FilePath   string `mapstructure:"file_path"`   // 日志文件路径
	MaxSizeMB  int    `mapstructure:"max_size_mb"` // 单文件最大大小(MB)
	MaxBackups int    `mapstructure:"max_backups"` // 最大保留文件数
}

// Validate 验证配置的有效性
func (c *Config) Validate() error {
	if c.Diag.TimeoutSeconds <= 0 {
		return errors.New("diag.timeout_seconds must be greater than 0")
	}
	if c.Diag.TimeoutSeconds > 300 {
		return errors.New("diag.timeout_seconds must be less than or equal to 300")
	}
	if c.Diag.JournalEntries <= 0 || c.Diag.JournalEntries > 1000 {
		return errors.New("diag.journal_entries must be in range 1..1000")
	}

	for _, endpoint := range c.Diag.Endpoints {
		if _, _, err := net.SplitHostPort(endpoint); err != nil {
			return fmt.Errorf("diag.endpoints: %q is not host:port", endpoint)
		}
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if c.Log.Level != "" && !validLevels[c.Log.Level] {
		return errors.New("log.level must be one of: debug, info, warn, error")
	}

	validOutputs := map[string]bool{
		"console": true,
		"file":    true,
		"both":    true,
	}
	if c.Log.Output != "" && !validOutputs[c.Log.Output] {
		return errors.New("log.output must be one of: console, file, both")
	}

	return nil
}

// EnsureAgentID 在实例 ID 为空时生成一个
func (c *Config) EnsureAgentID() string {
	if c.Agent.ID == "" {
		c.Agent.ID = uuid.NewString()
	}
	return c.Agent.ID
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Agent: AgentConfig{
			ID:   "",
			Name: "network-ambulance",
		},
		Diag: DiagConfig{
			DNSProbes:      []string{"example.com", "one.one.one.one"},
			Endpoints:      []string{"1.1.1.1:443", "8.8.8.8:53"},
			TimeoutSeconds: 5,
			JournalEntries: 20,
		},
		Log: LogConfig{
			Level:      "info",
			Output:     "console",
			FilePath:   "/var/log/network-ambulance/backend.log",
			MaxSizeMB:  50,
			MaxBackups: 3,
		},
	}
}
