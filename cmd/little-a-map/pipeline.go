// SPDX-License-Identifier: MIT

package main

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// runWorkers drains tasks across n concurrent workers, calling fn for each
// one. It mirrors the teacher's buildSiteFiles channel-of-tasks pattern
// (cmd/qrank-builder/build.go): an errgroup.WithContext supplies
// cancellation, and each worker's loop selects on the group context so a
// sibling's fatal error stops new tasks from starting without killing
// in-flight ones mid-write.
func runWorkers[T any](ctx context.Context, n int, tasks <-chan T, fn func(context.Context, T) error) error {
	group, groupCtx := errgroup.WithContext(ctx)
	for i := 0; i < n; i++ {
		group.Go(func() error {
			for {
				select {
				case <-groupCtx.Done():
					return groupCtx.Err()
				case t, more := <-tasks:
					if !more {
						return nil
					}
					if err := fn(groupCtx, t); err != nil {
						return err
					}
				}
			}
		})
	}
	return group.Wait()
}
