package cron

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/casaflow/casaflow-backend/pkg/logger"
)

type stubLock struct {
	held     bool
	acquires int
	releases int
}

func (l *stubLock) Acquire(context.Context) (bool, error) {
	l.acquires++
	if l.held {
		return false, nil
	}
	l.held = true
	return true, nil
}

func (l *stubLock) Release(context.Context) error {
	l.releases++
	l.held = false
	return nil
}

type countingJob struct {
	name string
	err  error
	runs int
}

func (j *countingJob) Name() string { return j.name }

func (j *countingJob) Run(context.Context) error {
	j.runs++
	return j.err
}

func newCronService(t *testing.T, lock Lock, jobs ...Job) *Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Logger:   logger.New(logger.Options{ServiceName: "cron-test", Output: io.Discard}),
		Registry: NewRegistry(jobs...),
		Lock:     lock,
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	return svc
}

func TestCycleRunsEveryJobDespiteFailures(t *testing.T) {
	failing := &countingJob{name: "failing", err: errors.New("boom")}
	trailing := &countingJob{name: "trailing"}
	lock := &stubLock{}
	svc := newCronService(t, lock, failing, trailing)

	if err := svc.cycle(context.Background()); err != nil {
		t.Fatalf("cycle: %v", err)
	}
	if failing.runs != 1 || trailing.runs != 1 {
		t.Fatalf("expected both jobs to run once, got %d and %d", failing.runs, trailing.runs)
	}
	if lock.releases != 1 {
		t.Fatalf("expected lock released once, got %d", lock.releases)
	}
}

func TestCycleSkipsWhenLockHeldElsewhere(t *testing.T) {
	job := &countingJob{name: "only"}
	lock := &stubLock{held: true}
	svc := newCronService(t, lock, job)

	if err := svc.cycle(context.Background()); err != nil {
		t.Fatalf("cycle: %v", err)
	}
	if job.runs != 0 {
		t.Fatalf("job ran %d times under a foreign lock", job.runs)
	}
	if lock.releases != 0 {
		t.Fatalf("released a lock it never held")
	}
}

func TestNewServiceDefaultsInterval(t *testing.T) {
	svc := newCronService(t, &stubLock{})
	if svc.interval != 24*time.Hour {
		t.Fatalf("unexpected default interval %s", svc.interval)
	}
}
