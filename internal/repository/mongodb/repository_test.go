package mongodb

import (
	"context"
	"testing"
	"time"
)

func TestNewMongoDBRepository_UnreachableServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	repo, err := NewMongoDBRepository(ctx, "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=200&connectTimeoutMS=200", "ricemill", nil)
	if err == nil {
		_ = repo.Close(context.Background())
		t.Fatal("Expected an error for an unreachable server")
	}
	if repo != nil {
		t.Errorf("Expected no repository on failure, got %+v", repo)
	}
}
