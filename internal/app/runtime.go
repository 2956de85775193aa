package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Runtime runs the profile feed and the HTTP server of a Container.
type Runtime struct {
	container *Container
	logger    *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func (c *Container) NewRuntime() (*Runtime, error) {
	if c == nil || c.Server == nil || c.Feed == nil {
		return nil, fmt.Errorf("runtime dependencies not initialized")
	}
	return &Runtime{container: c, logger: c.Logger}, nil
}

// Start blocks until the server stops or fails.
func (r *Runtime) Start(ctx context.Context) error {
	feedCtx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := r.container.Feed.Run(feedCtx); err != nil && !errors.Is(err, context.Canceled) {
			r.logger.Error("Profile feed stopped", zap.Error(err))
		}
	}()

	return r.container.Server.ListenAndServe()
}

// Shutdown drains chat sessions, stops the feed and releases infrastructure.
func (r *Runtime) Shutdown(ctx context.Context) error {
	err := r.container.Server.Shutdown(ctx)

	if r.cancel != nil {
		r.cancel()
	}
	r.wg.Wait()

	r.container.Close()
	return err
}
