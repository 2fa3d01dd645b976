package jobstore_test

import (
	"context"
	"testing"
	"time"

	"lutforge/internal/jobstore"
	"lutforge/internal/testsupport"
)

func TestSaveAndGetRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	rec := &jobstore.Record{
		ID:         "job-1",
		SourcePath: "/media/clip.mov",
		OutputPath: "/out/clip-high.mp4",
		Quality:    "high",
		State:      "idle",
	}
	if err := store.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if rec.CreatedAt.IsZero() || rec.UpdatedAt.IsZero() {
		t.Fatal("Save did not stamp timestamps")
	}

	got, err := store.Get(ctx, "job-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.SourcePath != rec.SourcePath || got.Quality != "high" || got.State != "idle" {
		t.Fatalf("round trip mismatch: %+v", got)
	}
	if !got.CreatedAt.Equal(rec.CreatedAt) {
		t.Fatalf("created at: got %v want %v", got.CreatedAt, rec.CreatedAt)
	}
}

func TestSaveUpsertsExistingRecord(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	rec := &jobstore.Record{ID: "job-1", SourcePath: "/a.mov", Quality: "low", State: "idle"}
	if err := store.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	rec.State = "completed"
	rec.Progress = 1
	rec.ProcessedFrames = 240
	if err := store.Save(ctx, rec); err != nil {
		t.Fatalf("Save (update): %v", err)
	}

	got, err := store.Get(ctx, "job-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.State != "completed" || got.Progress != 1 || got.ProcessedFrames != 240 {
		t.Fatalf("upsert mismatch: %+v", got)
	}

	records, err := store.List(ctx, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("record count after upsert: got %d want 1", len(records))
	}
}

func TestSaveRequiresID(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if err := store.Save(context.Background(), &jobstore.Record{}); err == nil {
		t.Fatal("expected error for record without id")
	}
}

func TestUpdateProgress(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	rec := &jobstore.Record{ID: "job-1", SourcePath: "/a.mov", Quality: "medium", State: "idle"}
	if err := store.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := store.UpdateProgress(ctx, "job-1", "reading", 0.5, 120, 2, ""); err != nil {
		t.Fatalf("UpdateProgress: %v", err)
	}
	got, err := store.Get(ctx, "job-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.State != "reading" || got.Progress != 0.5 || got.ProcessedFrames != 120 || got.DroppedFrames != 2 {
		t.Fatalf("progress update mismatch: %+v", got)
	}

	if err := store.UpdateProgress(ctx, "job-1", "failed", 0, 120, 2, "decoder exited"); err != nil {
		t.Fatalf("UpdateProgress (failed): %v", err)
	}
	got, err = store.Get(ctx, "job-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.State != "failed" || got.Progress != 0 || got.ErrorMessage != "decoder exited" {
		t.Fatalf("failure update mismatch: %+v", got)
	}
}

func TestListNewestFirstWithLimit(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i, id := range []string{"job-a", "job-b", "job-c"} {
		rec := &jobstore.Record{
			ID:         id,
			SourcePath: "/" + id + ".mov",
			Quality:    "medium",
			State:      "completed",
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.Save(ctx, rec); err != nil {
			t.Fatalf("Save %s: %v", id, err)
		}
	}

	records, err := store.List(ctx, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("limit: got %d records want 2", len(records))
	}
	if records[0].ID != "job-c" || records[1].ID != "job-b" {
		t.Fatalf("order: got %q %q want job-c job-b", records[0].ID, records[1].ID)
	}
}

func TestGetUnknownJob(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	if _, err := store.Get(context.Background(), "missing"); err == nil {
		t.Fatal("expected error for unknown job")
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first := testsupport.MustOpenStore(t, cfg)
	rec := &jobstore.Record{ID: "job-1", SourcePath: "/a.mov", Quality: "low", State: "completed"}
	if err := first.Save(context.Background(), rec); err != nil {
		t.Fatalf("Save: %v", err)
	}
	first.Close()

	second, err := jobstore.Open(cfg.Paths.StateDir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer second.Close()
	if _, err := second.Get(context.Background(), "job-1"); err != nil {
		t.Fatalf("Get after reopen: %v", err)
	}
}
