package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dgallion1/listtree/internal/config"
	"github.com/dgallion1/listtree/internal/outline"
	"github.com/dgallion1/listtree/internal/stats"
)

func testConfig() config.Config {
	return config.Config{
		WorkerCount:  2,
		MaxQueueSize: 8,
		JobTTL:       time.Hour,
		StatsWindow:  time.Hour,
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitDone(t *testing.T, job *Job) JobSnapshot {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		snap := job.Snapshot()
		if snap.Status.Done() {
			return snap
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("job %s did not finish", job.ID)
	return JobSnapshot{}
}

func TestOrchestrator_ProcessesJobs(t *testing.T) {
	st := stats.NewParseStats(time.Hour)
	o := NewOrchestrator(testConfig(), st, discardLogger())
	o.Start(context.Background())
	defer o.Stop()

	good := NewJob("plan.txt", []byte("- A\n - B\n- C"), outline.DefaultOptions())
	bad := NewJob("image.png", []byte("x"), outline.DefaultOptions())
	broken := NewJob("bad.txt", []byte("- \xff"), outline.DefaultOptions())
	for _, j := range []*Job{good, bad, broken} {
		if err := o.Submit(j); err != nil {
			t.Fatalf("submit %s: %v", j.Filename, err)
		}
	}

	snap := waitDone(t, good)
	if snap.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s (%v)", snap.Status, snap.Summary.Errors)
	}
	if snap.Summary.Nodes != 3 || snap.Title != "plan" {
		t.Errorf("unexpected result summary %+v title %q", snap.Summary, snap.Title)
	}
	if o.GetJob(good.ID).Result() == nil {
		t.Error("expected stored result")
	}

	for _, j := range []*Job{bad, broken} {
		if snap := waitDone(t, j); snap.Status != StatusFailed || len(snap.Summary.Errors) == 0 {
			t.Errorf("%s: expected failure with errors, got %+v", j.Filename, snap)
		}
	}

	if got := st.Snapshot(); got.Count != 1 || got.Nodes != 3 {
		t.Errorf("expected one recorded parse of 3 nodes, got %+v", got)
	}
}

func TestOrchestrator_QueueFull(t *testing.T) {
	cfg := testConfig()
	cfg.MaxQueueSize = 1
	// Not started: nothing drains the queue.
	o := NewOrchestrator(cfg, nil, discardLogger())

	if err := o.Submit(NewJob("a.txt", nil, outline.Options{})); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	second := NewJob("b.txt", nil, outline.Options{})
	if err := o.Submit(second); !errors.Is(err, ErrQueueFull) {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
	if snap := second.Snapshot(); snap.Status != StatusFailed || snap.Phase != "queue_full" {
		t.Errorf("expected failed/queue_full, got %s/%s", snap.Status, snap.Phase)
	}
	if o.QueueDepth() != 1 {
		t.Errorf("expected queue depth 1, got %d", o.QueueDepth())
	}
}

func TestOrchestrator_StopDrainsAndRejects(t *testing.T) {
	o := NewOrchestrator(testConfig(), nil, discardLogger())
	o.Start(context.Background())

	var jobs []*Job
	for range 5 {
		j := NewJob("x.list", []byte("- a\n - b"), outline.DefaultOptions())
		if err := o.Submit(j); err != nil {
			t.Fatal(err)
		}
		jobs = append(jobs, j)
	}
	o.Stop()
	o.Stop()

	for _, j := range jobs {
		if s := j.Snapshot().Status; s != StatusCompleted {
			t.Errorf("expected queued job to finish before Stop returns, got %s", s)
		}
	}
	if err := o.Submit(NewJob("late.txt", nil, outline.Options{})); !errors.Is(err, ErrStopped) {
		t.Errorf("expected ErrStopped, got %v", err)
	}
}

func TestWorker_CanceledContext(t *testing.T) {
	w := NewWorker(nil, discardLogger(), false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	job := NewJob("a.txt", []byte("- a"), outline.DefaultOptions())
	w.Process(ctx, job)
	if snap := job.Snapshot(); snap.Status != StatusFailed || snap.Phase != "canceled" {
		t.Errorf("expected failed/canceled, got %s/%s", snap.Status, snap.Phase)
	}
}
