package repository

import (
	"context"
	"sync"
	"testing"

	"zync/backend/internal/zyncconfig/domain"
)

func TestMemoryRepository_GetEmpty(t *testing.T) {
	got, err := NewMemoryRepository().Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != nil {
		t.Errorf("Get = %+v, want nil", got)
	}
}

func TestMemoryRepository_PutCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	c := &domain.Config{DeployerURL: "A", JWTSecret: "B"}
	if err := repo.Put(ctx, c); err != nil {
		t.Fatalf("Put: %v", err)
	}
	c.DeployerURL = "mutated"

	got, _ := repo.Get(ctx)
	if got.DeployerURL != "A" {
		t.Errorf("DeployerURL = %q, want A", got.DeployerURL)
	}
	got.JWTSecret = "mutated"
	again, _ := repo.Get(ctx)
	if again.JWTSecret != "B" {
		t.Errorf("JWTSecret = %q, want B", again.JWTSecret)
	}
}

func TestMemoryRepository_ConcurrentPut(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryRepository()
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.Put(ctx, &domain.Config{DeployerURL: "A", JWTSecret: "B"})
			_, _ = repo.Get(ctx)
		}()
	}
	wg.Wait()
	got, _ := repo.Get(ctx)
	if got == nil || got.DeployerURL != "A" {
		t.Errorf("Get = %+v", got)
	}
}
