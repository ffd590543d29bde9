package otel

import (
	"context"
	"time"

	otellog "go.opentelemetry.io/otel/log"
	sdklog "go.opentelemetry.io/otel/sdk/log"

	"zync/backend/internal/audit"
	"zync/backend/internal/audit/domain"
)

const instrumentationName = "zync.audit"

// recordEmitter is the part of otellog.Logger the emitter needs.
type recordEmitter interface {
	Emit(ctx context.Context, rec otellog.Record)
}

// NewAuditEmitter returns an audit.Emitter that sends audit events as OTel log records.
// If provider is nil, returns a no-op emitter.
func NewAuditEmitter(provider *sdklog.LoggerProvider) audit.Emitter {
	if provider == nil {
		return noopEmitter{}
	}
	return &otelEmitter{logger: provider.Logger(instrumentationName)}
}

// NewAuditEmitterWithLogger wraps an existing record emitter.
func NewAuditEmitterWithLogger(logger recordEmitter) audit.Emitter {
	return &otelEmitter{logger: logger}
}

type noopEmitter struct{}

func (noopEmitter) Emit(context.Context, *domain.AuditLog) error { return nil }

type otelEmitter struct {
	logger recordEmitter
}

// Emit converts the audit entry to an OTel log record. Metadata becomes the body.
func (e *otelEmitter) Emit(ctx context.Context, entry *domain.AuditLog) error {
	if entry == nil {
		return nil
	}
	rec := otellog.Record{}
	rec.SetSeverity(otellog.SeverityInfo)
	rec.SetEventName(entry.Action)
	if !entry.CreatedAt.IsZero() {
		rec.SetTimestamp(entry.CreatedAt)
	} else {
		rec.SetTimestamp(time.Now().UTC())
	}
	if entry.Metadata != "" {
		rec.SetBody(otellog.StringValue(entry.Metadata))
	}
	rec.AddAttributes(
		otellog.String("audit.id", entry.ID),
		otellog.String("action", entry.Action),
		otellog.String("resource", entry.Resource),
	)
	if entry.UserID != "" {
		rec.AddAttributes(otellog.String("user_id", entry.UserID))
	}
	if entry.IP != "" {
		rec.AddAttributes(otellog.String("client_ip", entry.IP))
	}
	e.logger.Emit(ctx, rec)
	return nil
}
