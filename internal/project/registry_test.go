package project

import (
	"sync"
	"testing"
)

func TestRegistryGetOrCreate(t *testing.T) {
	reg := NewRegistry()

	first := reg.Get("project-a")
	if first == nil {
		t.Fatal("Coordinator should not be nil")
	}

	second := reg.Get("project-a")
	if first != second {
		t.Error("Should return the same coordinator instance")
	}

	other := reg.Get("project-b")
	if first == other {
		t.Error("Different projects should have different coordinators")
	}
}

func TestRegistryProjectsAreIsolated(t *testing.T) {
	reg := NewRegistry()

	a := reg.Get("project-a")
	b := reg.Get("project-b")

	if _, err := a.ApplyUpdate(Update{TextSize: strPtr("large")}, "Amy"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if b.Snapshot().TextSize != "medium" {
		t.Error("Mutating one project must not leak into another")
	}
}

func TestRegistryCount(t *testing.T) {
	reg := NewRegistry()

	if reg.Count() != 0 {
		t.Errorf("Expected 0 projects, got %d", reg.Count())
	}

	reg.Get("project-a")
	reg.Get("project-b")
	reg.Get("project-a")

	if reg.Count() != 2 {
		t.Errorf("Expected 2 projects, got %d", reg.Count())
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	reg := NewRegistry()

	var wg sync.WaitGroup
	coords := make([]*Coordinator, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			coords[i] = reg.Get("shared")
		}(i)
	}
	wg.Wait()

	for i := 1; i < 50; i++ {
		if coords[i] != coords[0] {
			t.Fatal("Concurrent Get should converge on one coordinator")
		}
	}
	if reg.Count() != 1 {
		t.Errorf("Expected 1 project, got %d", reg.Count())
	}
}
