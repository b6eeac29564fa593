package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"taskshare/internal/repository"
)

func TestCreateRepository(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("HOME", tmpDir)
	t.Setenv("TASKSHARE_DB_DIR", filepath.Join(tmpDir, "data"))

	loader := NewLoader()
	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("Failed to load configuration: %v", err)
	}

	repo, err := CreateRepository(context.Background(), cfg)
	if err != nil {
		t.Fatalf("CreateRepository() error = %v", err)
	}
	defer repo.Close()

	if _, err := os.Stat(cfg.GetDatabasePath()); err != nil {
		t.Errorf("database file was not created: %v", err)
	}

	task := &repository.TaskRecord{OwnerID: "alice", Title: "Test Task"}
	if err := repo.CreateTask(context.Background(), task); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}

	tasks, err := repo.ListOwnedTasks(context.Background(), "alice", repository.Order{})
	if err != nil {
		t.Fatalf("ListOwnedTasks() error = %v", err)
	}
	if len(tasks) != 1 {
		t.Errorf("ListOwnedTasks() returned %d tasks, want 1", len(tasks))
	}
}

func TestCreateRepository_UnknownDriver(t *testing.T) {
	cfg := NewConfig()
	cfg.Database.Driver = "mongo"

	if _, err := CreateRepository(context.Background(), cfg); err == nil {
		t.Error("CreateRepository() should reject unknown drivers")
	}
}

func TestCreateTestRepository(t *testing.T) {
	repo, err := CreateTestRepository()
	if err != nil {
		t.Fatalf("CreateTestRepository() error = %v", err)
	}
	defer repo.Close()

	if err := repo.CreateTask(context.Background(), &repository.TaskRecord{OwnerID: "alice", Title: "Test Task"}); err != nil {
		t.Fatalf("CreateTask() error = %v", err)
	}
}
