package migrate

import (
	"errors"
	"net/url"
	"testing"
)

func TestRun_EmptyDSN(t *testing.T) {
	for _, dsn := range []string{"", "   "} {
		if err := Run(dsn, "up"); err == nil {
			t.Errorf("Run(%q) should return error", dsn)
		}
	}
}

func TestRun_InvalidDirection(t *testing.T) {
	for _, direction := range []string{"", "invalid", "UP", "Up", "both"} {
		if err := Run("postgres://localhost/test", direction); err == nil {
			t.Errorf("Run with direction %q should return error", direction)
		}
	}
}

func TestRun_InvalidDSN(t *testing.T) {
	testCases := []struct {
		name string
		dsn  string
	}{
		{"invalid format", "invalid-dsn"},
		{"missing driver", "://localhost/test"},
		{"wrong scheme", "mysql://localhost/test"},
		{"spaces", "postgres://localhost with spaces/test"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := Run(tc.dsn, "up")
			if err == nil {
				t.Errorf("Run with invalid DSN %q should return error", tc.dsn)
			}
			if errors.Is(err, ErrNoChange) {
				t.Error("Run should not return ErrNoChange")
			}
		})
	}
}

func TestWithMigrationsTable(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{"adds table", "postgres://u:p@db:5432/ctfd?sslmode=disable", MigrationsTable},
		{"postgresql scheme", "postgresql://db/ctfd", MigrationsTable},
		{"keeps explicit", "postgres://db/ctfd?x-migrations-table=custom", "custom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := WithMigrationsTable(tt.dsn)
			if err != nil {
				t.Fatalf("WithMigrationsTable: %v", err)
			}
			u, err := url.Parse(got)
			if err != nil {
				t.Fatalf("parse %q: %v", got, err)
			}
			if u.Query().Get("x-migrations-table") != tt.want {
				t.Errorf("x-migrations-table = %q, want %q", u.Query().Get("x-migrations-table"), tt.want)
			}
		})
	}

	got, _ := WithMigrationsTable("postgres://u:p@db:5432/ctfd?sslmode=disable")
	if u, _ := url.Parse(got); u.Query().Get("sslmode") != "disable" {
		t.Errorf("sslmode dropped: %q", got)
	}
}
