package utils

import (
	"context"
	"log"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

const shutdownTimeout = 15 * time.Second

// ShutdownManager coordinates graceful teardown of the desk servers. A
// SIGINT or SIGTERM cancels the server context, then every registered
// task runs against a shared deadline. Wait blocks main until that is
// done, so the process exits by returning instead of calling os.Exit.
type ShutdownManager struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu    sync.Mutex
	tasks []func(context.Context) error
}

func NewShutdownManager(parent context.Context) (context.Context, *ShutdownManager) {
	ctx, cancel := context.WithCancel(parent)
	return ctx, &ShutdownManager{
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// Register adds a teardown task. Tasks run in registration order, so
// outer layers (HTTP servers) should register after the stores they use.
func (m *ShutdownManager) Register(task func(context.Context) error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, task)
}

func (m *ShutdownManager) StartListening() {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("Received %v, shutting down", sig)
		m.cancel()

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		m.mu.Lock()
		tasks := m.tasks
		m.mu.Unlock()

		for _, task := range tasks {
			if err := task(ctx); err != nil {
				log.Printf("Shutdown task failed: %v", err)
			}
		}
		close(m.done)
	}()
}

// Wait blocks until every registered task has run after a signal.
func (m *ShutdownManager) Wait() {
	<-m.done
	log.Println("Shutdown complete")
}
