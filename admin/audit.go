package admin

import (
	"github.com/google/uuid"

	"github.com/huykn/cache-admin/cache"
)

// AuditLogger records administrative actions. Recording is a non-critical
// side effect by contract: implementations never return an error and never
// let a failure escape to the caller.
type AuditLogger interface {
	// Record logs an administrative action by a principal.
	Record(principal, action, detail string)
}

// LogAuditor writes audit records through a Logger, tagging each record with
// a unique ID. A panicking logger is contained here.
type LogAuditor struct {
	logger cache.Logger
}

// NewLogAuditor creates a new log-backed auditor.
func NewLogAuditor(logger cache.Logger) *LogAuditor {
	if logger == nil {
		logger = cache.NewNoOpLogger()
	}
	return &LogAuditor{logger: logger}
}

// Record logs an administrative action. Never fails.
func (a *LogAuditor) Record(principal, action, detail string) {
	defer func() {
		_ = recover()
	}()

	if principal == "" {
		principal = "LocalAdmin"
	}
	a.logger.Info("audit",
		"id", uuid.NewString(),
		"principal", principal,
		"action", action,
		"detail", detail,
	)
}
