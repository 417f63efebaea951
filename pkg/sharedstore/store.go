// Package sharedstore abstracts the real-time shared record store the group
// coordination services sit on: whole-record writes, whole-record snapshot
// subscriptions, no deltas.
package sharedstore

import (
	"context"
	"encoding/json"
	"errors"
)

// ErrNotFound reports that no record exists at the requested path.
var ErrNotFound = errors.New("sharedstore: record not found")

// SnapshotFunc receives the full record stored at a path every time it is
// written. Snapshots are delivered in arrival order.
type SnapshotFunc func(raw json.RawMessage)

// Store is the shared-state collaborator: write whole records, read them
// back, and subscribe to snapshot pushes. Subscribe delivers the record as it
// stands at subscription time (when one exists) before any change pushes.
type Store interface {
	Write(ctx context.Context, path string, value any) error
	Read(ctx context.Context, path string, out any) error
	Delete(ctx context.Context, path string) error
	List(ctx context.Context) ([]string, error)
	Subscribe(ctx context.Context, path string, fn SnapshotFunc) (func(), error)
	Ping(ctx context.Context) error
}
