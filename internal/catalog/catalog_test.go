package catalog

import (
	"os"
	"path/filepath"
	"testing"
)

func setupTestCatalog(t *testing.T) (*Catalog, func()) {
	t.Helper()

	tmpDir, err := os.MkdirTemp("", "collab-catalog-test-*")
	if err != nil {
		t.Fatalf("Failed to create temp dir: %v", err)
	}

	dbPath := filepath.Join(tmpDir, "test.db")
	cat, err := New(dbPath)
	if err != nil {
		os.RemoveAll(tmpDir)
		t.Fatalf("Failed to create catalog: %v", err)
	}

	cleanup := func() {
		cat.Close()
		os.RemoveAll(tmpDir)
	}

	return cat, cleanup
}

func TestCatalogCreation(t *testing.T) {
	cat, cleanup := setupTestCatalog(t)
	defer cleanup()

	if cat == nil {
		t.Fatal("Catalog should not be nil")
	}
}

func TestProjectOperations(t *testing.T) {
	cat, cleanup := setupTestCatalog(t)
	defer cleanup()

	err := cat.CreateProject("test-project")
	if err != nil {
		t.Fatalf("Failed to create project: %v", err)
	}

	project, err := cat.GetProject("test-project")
	if err != nil {
		t.Fatalf("Failed to get project: %v", err)
	}
	if project == nil {
		t.Fatal("Project should exist")
	}
	if project.ID != "test-project" {
		t.Errorf("Expected project ID 'test-project', got '%s'", project.ID)
	}

	// Creating the same id again is a no-op
	if err := cat.CreateProject("test-project"); err != nil {
		t.Fatalf("Re-creating a project should not fail: %v", err)
	}

	project, err = cat.GetProject("non-existent")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if project != nil {
		t.Error("Non-existent project should return nil")
	}
}

func TestListProjects(t *testing.T) {
	cat, cleanup := setupTestCatalog(t)
	defer cleanup()

	for i := 0; i < 5; i++ {
		if err := cat.CreateProject("project-" + string(rune('a'+i))); err != nil {
			t.Fatalf("Failed to create project: %v", err)
		}
	}

	projects, err := cat.ListProjects(10, 0)
	if err != nil {
		t.Fatalf("Failed to list projects: %v", err)
	}
	if len(projects) != 5 {
		t.Errorf("Expected 5 projects, got %d", len(projects))
	}

	projects, err = cat.ListProjects(2, 0)
	if err != nil {
		t.Fatalf("Failed to list projects: %v", err)
	}
	if len(projects) != 2 {
		t.Errorf("Expected 2 projects with limit, got %d", len(projects))
	}

	projects, err = cat.ListProjects(2, 4)
	if err != nil {
		t.Fatalf("Failed to list projects: %v", err)
	}
	if len(projects) != 1 {
		t.Errorf("Expected 1 project with offset, got %d", len(projects))
	}
}

func TestTouchCreatesRow(t *testing.T) {
	cat, cleanup := setupTestCatalog(t)
	defer cleanup()

	if err := cat.Touch("touched-project"); err != nil {
		t.Fatalf("Failed to touch project: %v", err)
	}

	project, err := cat.GetProject("touched-project")
	if err != nil {
		t.Fatalf("Failed to get project: %v", err)
	}
	if project == nil {
		t.Fatal("Touch should create the project row")
	}
}

func TestStats(t *testing.T) {
	cat, cleanup := setupTestCatalog(t)
	defer cleanup()

	for i := 0; i < 3; i++ {
		if err := cat.CreateProject("stats-project-" + string(rune('a'+i))); err != nil {
			t.Fatalf("Failed to create project: %v", err)
		}
	}

	stats, err := cat.GetStats()
	if err != nil {
		t.Fatalf("Failed to get stats: %v", err)
	}

	if stats["project_count"].(int) != 3 {
		t.Errorf("Expected 3 projects, got %v", stats["project_count"])
	}
}
