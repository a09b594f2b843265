// Package publishers holds what the outbox publishers share. Each publisher
// lives in its own subpackage and is run by the cronjob runner.
package publishers

import (
	"context"
	"errors"

	"isdialogmote/internal/cronjob"
)

// DefaultBatchSize bounds how many outbox rows one run picks up.
const DefaultBatchSize = 100

// ErrHeldBack is reported for items skipped because an earlier item with the
// same key failed in this run.
var ErrHeldBack = errors.New("held back behind an earlier failure with the same key")

// Process hands each item to handle in order, oldest first as listed. A
// failing item is reported to failed and skipped; it stays in the outbox for
// the next run. Cancelling ctx stops the batch between items, never inside
// one.
func Process[T any](ctx context.Context, items []T, handle func(ctx context.Context, item T) error, failed func(item T, err error)) cronjob.Result {
	var res cronjob.Result
	itemCtx := context.WithoutCancel(ctx)
	for _, item := range items {
		if ctx.Err() != nil {
			break
		}
		if err := handle(itemCtx, item); err != nil {
			res.Failed++
			if failed != nil {
				failed(item, err)
			}
			continue
		}
		res.Updated++
	}
	return res
}

// ProcessInKeyOrder is Process for outboxes whose consumers rely on per-key
// order. After an item fails, later items with the same key are counted as
// failed with ErrHeldBack and left for the next run.
func ProcessInKeyOrder[T any, K comparable](ctx context.Context, items []T, key func(T) K, handle func(ctx context.Context, item T) error, failed func(item T, err error)) cronjob.Result {
	blocked := make(map[K]struct{})
	return Process(ctx, items, func(ctx context.Context, item T) error {
		k := key(item)
		if _, ok := blocked[k]; ok {
			return ErrHeldBack
		}
		if err := handle(ctx, item); err != nil {
			blocked[k] = struct{}{}
			return err
		}
		return nil
	}, failed)
}
