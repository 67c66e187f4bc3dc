package services

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"haushaltsbuch/internal/logger"
)

func TestAuditService_Log(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	restore := logger.Replace(zap.New(core))
	defer restore()

	svc := NewAuditService()
	svc.Log("u-1", "DELETE_CATEGORY", "category", "Food", "10.0.0.1", map[string]interface{}{"updated": 2})
	svc.Log("u-1", "DELETE_LINE", "line", "l1", "10.0.0.1", nil)

	entries := logs.FilterMessage("audit").All()
	if len(entries) != 2 {
		t.Fatalf("expected 2 audit entries, got %d", len(entries))
	}
	first := entries[0].ContextMap()
	if first["action"] != "DELETE_CATEGORY" || first["resource_id"] != "Food" || first["user_id"] != "u-1" {
		t.Errorf("unexpected fields %v", first)
	}
	if first["changes"] != `{"updated":2}` {
		t.Errorf("unexpected changes %v", first["changes"])
	}
	if got := entries[1].ContextMap()["changes"]; got != "{}" {
		t.Errorf("expected empty changes, got %v", got)
	}
}
