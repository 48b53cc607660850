package utils

import (
	"context"
	"syscall"
	"testing"
	"time"
)

func TestShutdownManagerRunsTasksAndReleasesWait(t *testing.T) {
	ctx, manager := NewShutdownManager(context.Background())

	ran := make([]int, 0, 2)
	manager.Register(func(ctx context.Context) error {
		ran = append(ran, 1)
		return nil
	})
	manager.Register(func(ctx context.Context) error {
		ran = append(ran, 2)
		return nil
	})

	manager.StartListening()
	if err := syscall.Kill(syscall.Getpid(), syscall.SIGTERM); err != nil {
		t.Fatalf("failed to signal self: %v", err)
	}

	waited := make(chan struct{})
	go func() {
		manager.Wait()
		close(waited)
	}()

	select {
	case <-waited:
	case <-time.After(5 * time.Second):
		t.Fatal("Wait did not return after SIGTERM")
	}

	select {
	case <-ctx.Done():
	default:
		t.Error("server context was not cancelled")
	}

	if len(ran) != 2 || ran[0] != 1 || ran[1] != 2 {
		t.Errorf("tasks ran out of order: %v", ran)
	}
}
