package otel

import (
	"context"
	"testing"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"zync/backend/internal/audit/domain"
)

// recordCapture stores the last Record passed to Emit for assertion.
type recordCapture struct {
	rec otellog.Record
	n   int
}

func (r *recordCapture) Emit(ctx context.Context, rec otellog.Record) {
	r.rec = rec
	r.n++
}

func attributes(rec otellog.Record) map[string]string {
	attrs := make(map[string]string)
	rec.WalkAttributes(func(kv otellog.KeyValue) bool {
		attrs[kv.Key] = kv.Value.AsString()
		return true
	})
	return attrs
}

func TestNewAuditEmitter_NilProvider_ReturnsNoop(t *testing.T) {
	em := NewAuditEmitter(nil)
	if err := em.Emit(context.Background(), &domain.AuditLog{ID: "a"}); err != nil {
		t.Errorf("noop Emit: %v", err)
	}
}

func TestNewAuditEmitter_Provider(t *testing.T) {
	provider := sdklog.NewLoggerProvider()
	defer func() { _ = provider.Shutdown(context.Background()) }()
	em := NewAuditEmitter(provider)
	if err := em.Emit(context.Background(), nil); err != nil {
		t.Errorf("Emit(ctx, nil): %v", err)
	}
	if err := em.Emit(context.Background(), &domain.AuditLog{ID: "a", Action: "token_issued"}); err != nil {
		t.Errorf("Emit: %v", err)
	}
}

func TestEmit_AttributeAndBodyMapping(t *testing.T) {
	cap := &recordCapture{}
	at := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	entry := &domain.AuditLog{
		ID: "a-1", UserID: "7", Action: "token_issued", Resource: "status_token",
		IP: "10.0.0.1", Metadata: `{"challenge_id":3}`, CreatedAt: at,
	}
	if err := NewAuditEmitterWithLogger(cap).Emit(context.Background(), entry); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	rec := cap.rec
	if got := rec.Body().AsString(); got != entry.Metadata {
		t.Errorf("body = %q, want %q", got, entry.Metadata)
	}
	if !rec.Timestamp().Equal(at) {
		t.Errorf("timestamp = %v, want %v", rec.Timestamp(), at)
	}
	if rec.EventName() != "token_issued" {
		t.Errorf("event name = %q", rec.EventName())
	}
	want := map[string]string{
		"audit.id": "a-1", "action": "token_issued", "resource": "status_token",
		"user_id": "7", "client_ip": "10.0.0.1",
	}
	attrs := attributes(rec)
	for k, v := range want {
		if attrs[k] != v {
			t.Errorf("attr %q = %q, want %q", k, attrs[k], v)
		}
	}
}

func TestEmit_SparseEntry(t *testing.T) {
	cap := &recordCapture{}
	before := time.Now().UTC()
	if err := NewAuditEmitterWithLogger(cap).Emit(context.Background(), &domain.AuditLog{Action: "config_saved"}); err != nil {
		t.Fatalf("Emit: %v", err)
	}
	rec := cap.rec
	if !rec.Body().Empty() {
		t.Error("body should be empty when metadata is empty")
	}
	if rec.Timestamp().Before(before) {
		t.Errorf("timestamp = %v, want >= %v", rec.Timestamp(), before)
	}
	attrs := attributes(rec)
	if _, ok := attrs["user_id"]; ok {
		t.Error("user_id should not be set")
	}
	if _, ok := attrs["client_ip"]; ok {
		t.Error("client_ip should not be set")
	}
}
