// Package audit records token issuance and configuration changes.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-hclog"

	"zync/backend/internal/audit/domain"
	auditrepo "zync/backend/internal/audit/repository"
)

// SystemUserID is recorded for events with no authenticated caller (e.g. the startup override).
const SystemUserID = "_system"

// IPExtractor returns the client IP from the request context.
type IPExtractor func(context.Context) string

// Emitter forwards audit events to an external sink such as an OTel log pipeline.
type Emitter interface {
	Emit(ctx context.Context, entry *domain.AuditLog) error
}

// AuditLogger writes a single audit event. LogEvent is best-effort: failures are logged and do not affect the caller.
type AuditLogger interface {
	LogEvent(ctx context.Context, userID, action, resource, metadata string)
}

// Logger implements AuditLogger using the audit repository, an optional emitter and an optional IP extractor.
type Logger struct {
	repo        auditrepo.Repository
	emitter     Emitter
	ipExtractor IPExtractor
	logger      hclog.Logger
}

// NewLogger returns an AuditLogger that persists to repo. emitter and ipExtractor may be nil;
// without an extractor IP is recorded as "unknown".
func NewLogger(repo auditrepo.Repository, emitter Emitter, ipExtractor IPExtractor, logger hclog.Logger) *Logger {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Logger{repo: repo, emitter: emitter, ipExtractor: ipExtractor, logger: logger.Named("audit")}
}

// LogEvent writes one audit log entry.
func (l *Logger) LogEvent(ctx context.Context, userID, action, resource, metadata string) {
	if l.repo == nil && l.emitter == nil {
		return
	}
	ip := "unknown"
	if l.ipExtractor != nil {
		ip = l.ipExtractor(ctx)
	}
	if userID == "" {
		userID = SystemUserID
	}
	entry := &domain.AuditLog{
		ID:        uuid.New().String(),
		UserID:    userID,
		Action:    action,
		Resource:  resource,
		IP:        ip,
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if l.repo != nil {
		if err := l.repo.Create(ctx, entry); err != nil {
			l.logger.Warn("failed to log event", "action", action, "resource", resource, "error", err)
		}
	}
	if l.emitter != nil {
		if err := l.emitter.Emit(ctx, entry); err != nil {
			l.logger.Warn("failed to emit event", "action", action, "resource", resource, "error", err)
		}
	}
}

// Nop returns an AuditLogger that discards events.
func Nop() AuditLogger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) LogEvent(context.Context, string, string, string, string) {}
