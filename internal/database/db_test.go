package database

import (
	"path/filepath"
	"testing"
	"time"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestRunLifecycle(t *testing.T) {
	db := newTestDB(t)

	run := &SyncRun{
		ID:             "run-1",
		StartedAt:      time.Now().UTC().Truncate(time.Second),
		DryRun:         false,
		OffersEnabled:  true,
		PublishEnabled: true,
		Status:         "running",
	}
	if err := db.CreateRun(run); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}

	got, err := db.GetRun("run-1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Status != "running" || got.CompletedAt != nil {
		t.Fatalf("fresh run = %+v", got)
	}
	if !got.OffersEnabled || !got.PublishEnabled || got.DryRun {
		t.Errorf("flags = %+v", got)
	}

	now := time.Now().UTC().Truncate(time.Second)
	run.CompletedAt = &now
	run.ProductsTotal = 10
	run.ItemsUpserted = 7
	run.ItemsSkipped = 2
	run.OffersProcessed = 7
	run.OffersPublished = 5
	run.ItemsFailed = 1
	run.Status = "partial"
	if err := db.CompleteRun(run); err != nil {
		t.Fatalf("CompleteRun: %v", err)
	}

	got, err = db.GetRun("run-1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Status != "partial" {
		t.Errorf("status = %q", got.Status)
	}
	if got.CompletedAt == nil {
		t.Fatal("completed_at not persisted")
	}
	if got.ProductsTotal != 10 || got.ItemsUpserted != 7 || got.ItemsSkipped != 2 {
		t.Errorf("counters = %+v", got)
	}
	if got.OffersProcessed != 7 || got.OffersPublished != 5 || got.ItemsFailed != 1 {
		t.Errorf("offer counters = %+v", got)
	}
}

func TestRunFailureMessagePersisted(t *testing.T) {
	db := newTestDB(t)

	run := &SyncRun{ID: "run-2", StartedAt: time.Now(), Status: "running"}
	if err := db.CreateRun(run); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	now := time.Now()
	run.CompletedAt = &now
	run.Status = "failed"
	run.ErrorMessage = "fetch woo products: status 500"
	if err := db.CompleteRun(run); err != nil {
		t.Fatalf("CompleteRun: %v", err)
	}

	got, err := db.GetRun("run-2")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got.Status != "failed" || got.ErrorMessage != "fetch woo products: status 500" {
		t.Errorf("run = %+v", got)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	db1, err := Open(path)
	if err != nil {
		t.Fatalf("first Open: %v", err)
	}
	if err := db1.CreateRun(&SyncRun{ID: "run-1", StartedAt: time.Now(), Status: "running"}); err != nil {
		t.Fatalf("CreateRun: %v", err)
	}
	db1.Close()

	db2, err := Open(path)
	if err != nil {
		t.Fatalf("second Open: %v", err)
	}
	defer db2.Close()
	if _, err := db2.GetRun("run-1"); err != nil {
		t.Fatalf("existing rows survive reopen: %v", err)
	}
}
