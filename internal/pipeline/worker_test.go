package pipeline

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dgallion1/docchunk/chunker"
)

func testWorker() *Worker {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewWorker(log, chunker.Config{ChunkSize: 200, OverlapWidth: 1}, nil, false)
}

func newTestJob(filename string) *Job {
	return &Job{
		ID:        NewJobID(),
		Status:    StatusQueued,
		Phase:     "queued",
		Filename:  filename,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}

func TestWorker_ProcessMarkdown(t *testing.T) {
	job := newTestJob("doc.md")
	job.SetFileData([]byte("# Title\n\nSome body text for the document.\n\n- item one\n- item two\n"))

	testWorker().Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("status = %q, errors = %v", snap.Status, snap.Progress.Errors)
	}
	if snap.Title != "doc" {
		t.Errorf("title = %q, want %q", snap.Title, "doc")
	}
	chunks := job.Chunks()
	if len(chunks) == 0 || snap.Progress.TotalChunks != len(chunks) {
		t.Errorf("chunk accounting wrong: %d stored, %d reported", len(chunks), snap.Progress.TotalChunks)
	}
	if job.ContentHash == "" {
		t.Error("content hash should be recorded")
	}
}

func TestWorker_ProcessUnsupported(t *testing.T) {
	job := newTestJob("spreadsheet.xlsx")
	job.SetFileData([]byte("whatever"))

	testWorker().Process(context.Background(), job)

	if job.Snapshot().Status != StatusFailed {
		t.Fatalf("unsupported format should fail, got %q", job.Snapshot().Status)
	}
}

func TestWorker_ProcessEmptyDocument(t *testing.T) {
	job := newTestJob("empty.txt")
	job.SetFileData([]byte("\n\n\n"))

	testWorker().Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusFailed {
		t.Fatalf("empty document should fail, got %q", snap.Status)
	}
	if len(snap.Progress.Errors) == 0 {
		t.Error("failure should record an error")
	}
}

func TestWorker_PerJobOverrides(t *testing.T) {
	job := newTestJob("doc.txt")
	job.ChunkSize = 5
	job.SetFileData([]byte("first paragraph with several words in it\n\nsecond paragraph with several words too\n"))

	testWorker().Process(context.Background(), job)

	snap := job.Snapshot()
	if snap.Status != StatusCompleted {
		t.Fatalf("status = %q, errors = %v", snap.Status, snap.Progress.Errors)
	}
	if snap.Progress.TotalChunks < 2 {
		t.Errorf("a 5-token budget should split the paragraphs, got %d chunks", snap.Progress.TotalChunks)
	}
}
