// Package leaderelection answers "is this replica the leader right now?" for
// the cronjob runner. Every implementation is read-only from the caller's
// point of view and cheap enough to ask on each tick.
package leaderelection

import "context"

// Static always gives the same answer. Used for single-replica and local runs.
type Static bool

func (s Static) IsLeader(context.Context) (bool, error) {
	return bool(s), nil
}
