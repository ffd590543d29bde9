package audit

import (
	"context"
	"errors"
	"testing"

	"zync/backend/internal/audit/domain"
)

// mockAuditRepo implements audit repository interface for tests.
type mockAuditRepo struct {
	entries   []*domain.AuditLog
	createErr error
}

func (m *mockAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

// mockEmitter records emitted entries.
type mockEmitter struct {
	entries []*domain.AuditLog
	err     error
}

func (m *mockEmitter) Emit(ctx context.Context, entry *domain.AuditLog) error {
	m.entries = append(m.entries, entry)
	return m.err
}

func TestLogger_LogEvent_Success(t *testing.T) {
	repo := &mockAuditRepo{}
	em := &mockEmitter{}
	ipExtractor := func(ctx context.Context) string {
		return "192.168.1.1"
	}
	logger := NewLogger(repo, em, ipExtractor, nil)

	logger.LogEvent(context.Background(), "user-1", ActionTokenIssued, "user_token", `{"challenge_id":3}`)

	if len(repo.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(repo.entries))
	}
	entry := repo.entries[0]
	if entry.UserID != "user-1" {
		t.Errorf("user_id = %q, want %q", entry.UserID, "user-1")
	}
	if entry.Action != ActionTokenIssued {
		t.Errorf("action = %q, want %q", entry.Action, ActionTokenIssued)
	}
	if entry.Resource != "user_token" {
		t.Errorf("resource = %q, want %q", entry.Resource, "user_token")
	}
	if entry.IP != "192.168.1.1" {
		t.Errorf("ip = %q, want %q", entry.IP, "192.168.1.1")
	}
	if entry.Metadata != `{"challenge_id":3}` {
		t.Errorf("metadata = %q", entry.Metadata)
	}
	if entry.ID == "" {
		t.Error("entry ID should be set")
	}
	if entry.CreatedAt.IsZero() {
		t.Error("entry CreatedAt should be set")
	}
	if len(em.entries) != 1 || em.entries[0] != entry {
		t.Errorf("emitter entries = %v, want the persisted entry", em.entries)
	}
}

func TestLogger_LogEvent_NilIPExtractor(t *testing.T) {
	repo := &mockAuditRepo{}
	NewLogger(repo, nil, nil, nil).LogEvent(context.Background(), "user-1", "action", "resource", "")

	if len(repo.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(repo.entries))
	}
	if repo.entries[0].IP != "unknown" {
		t.Errorf("ip = %q, want %q", repo.entries[0].IP, "unknown")
	}
}

func TestLogger_LogEvent_SystemUser(t *testing.T) {
	repo := &mockAuditRepo{}
	NewLogger(repo, nil, nil, nil).LogEvent(context.Background(), "", ActionConfigOverride, ResourceConfig, "")

	if len(repo.entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(repo.entries))
	}
	if repo.entries[0].UserID != SystemUserID {
		t.Errorf("user_id = %q, want %q", repo.entries[0].UserID, SystemUserID)
	}
}

func TestLogger_LogEvent_Failures(t *testing.T) {
	repo := &mockAuditRepo{createErr: errors.New("database error")}
	em := &mockEmitter{err: errors.New("collector down")}

	// Best-effort: the emitter still runs after a repo failure.
	NewLogger(repo, em, nil, nil).LogEvent(context.Background(), "user-1", "action", "resource", "")
	if len(em.entries) != 1 {
		t.Errorf("emitter entries = %d, want 1", len(em.entries))
	}
}

func TestLogger_LogEvent_NilSinks(t *testing.T) {
	NewLogger(nil, nil, nil, nil).LogEvent(context.Background(), "user-1", "action", "resource", "")
	Nop().LogEvent(context.Background(), "user-1", "action", "resource", "")
}
