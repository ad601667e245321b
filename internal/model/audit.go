package model

import (
	"time"
)

// AuditLog 代表一次完整的操作审计记录
type AuditLog struct {
	ID        string `json:"id"`         // 请求 ID (UUID)
	EntityID  string `json:"entity_id"`  // 请求涉及的实体，可为空
	Method    string `json:"method"`     // HTTP 方法
	Path      string `json:"path"`       // 请求路径
	IP        string `json:"ip"`         // 客户端 IP
	UserAgent string `json:"user_agent"` // 客户端 UA

	RequestBody  string `json:"request_body"` // 脱敏后
	StatusCode   int    `json:"status_code"`
	ResponseBody string `json:"response_body"`
	LatencyMs    int64  `json:"latency_ms"`

	// 业务上下文，例如评估结果、风险等级
	Context map[string]interface{} `json:"context"`

	CreatedAt time.Time `json:"created_at"`
}
