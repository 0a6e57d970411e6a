// Package diag 实现网络诊断引擎
//
// 产出与桌面端约定的单个 JSON 文档, 顶层结构为
// {version, tool, dns, routing, connectivity, interfaces}。
package diag

// Report 一次完整诊断的结果文档
type Report struct {
	Version      string             `json:"version"`
	Tool         string             `json:"tool"`
	DNS          DNSResult          `json:"dns"`
	Routing      RoutingResult      `json:"routing"`
	Connectivity ConnectivityResult `json:"connectivity"`
	Interfaces   InterfacesResult   `json:"interfaces"`
}

// DNSResult 域名解析诊断
type DNSResult struct {
	OK           bool           `json:"ok"`
	Nameservers  []string       `json:"nameservers"`
	ResolvedUnit string         `json:"resolved_unit,omitempty"` // systemd-resolved 的 ActiveState
	Lookups      []LookupResult `json:"lookups"`
}

// LookupResult 单个探测域名的解析结果
type LookupResult struct {
	Name       string   `json:"name"`
	OK         bool     `json:"ok"`
	DurationMs int64    `json:"duration_ms"`
	Addresses  []string `json:"addresses,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// RoutingResult 路由表诊断
type RoutingResult struct {
	OK             bool   `json:"ok"`
	DefaultGateway string `json:"default_gateway,omitempty"`
	RouteCount     int    `json:"route_count"`
	Error          string `json:"error,omitempty"`
}

// ConnectivityResult 外部连通性诊断
type ConnectivityResult struct {
	OK                 bool          `json:"ok"`
	Probes             []ProbeResult `json:"probes"`
	NetworkManagerUnit string        `json:"network_manager_unit,omitempty"` // NetworkManager 的 ActiveState
	RecentErrors       []string      `json:"recent_errors,omitempty"`        // 日志中最近的高优先级消息
}

// ProbeResult 单个 TCP 探测端点的结果
type ProbeResult struct {
	Endpoint  string `json:"endpoint"`
	OK        bool   `json:"ok"`
	LatencyMs int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// InterfacesResult 网络接口枚举
type InterfacesResult struct {
	OK         bool            `json:"ok"`
	Interfaces []InterfaceInfo `json:"interfaces"`
	Error      string          `json:"error,omitempty"`
}

// InterfaceInfo 单个网络接口的状态
type InterfaceInfo struct {
	Name      string   `json:"name"`
	MTU       int      `json:"mtu"`
	Up        bool     `json:"up"`
	Loopback  bool     `json:"loopback"`
	Flags     string   `json:"flags"`
	Addresses []string `json:"addresses,omitempty"`
}
