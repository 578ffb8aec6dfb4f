package publish

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"trailpost/internal/models"
	"trailpost/internal/store"
)

// TerminalState is where the deletion chain stopped.
type TerminalState string

const (
	// StateNotOwned means no user_routes document carries the title; nothing
	// was deleted.
	StateNotOwned TerminalState = "not_owned"
	// StateDeletedLocalOnly means the viewed copy is gone but no
	// cross-collection copy was removed (none existed, the query failed, or
	// every per-match delete failed).
	StateDeletedLocalOnly TerminalState = "deleted_local_only"
	// StateDeletedBoth means the viewed copy and every title match in the
	// other collection were removed.
	StateDeletedBoth TerminalState = "deleted_both"
	// StateFailed means the ownership check or the local delete errored and
	// the chain halted before reaching the other collection.
	StateFailed TerminalState = "failed"
)

// Result reports the outcome of one deletion chain.
type Result struct {
	State TerminalState
	// Err is set for StateFailed, and for StateDeletedLocalOnly when the
	// cross-collection query errored.
	Err error
	// OtherDeleted / OtherFailed count the per-match deletes of step 4.
	OtherDeleted int
	OtherFailed  int
}

// Reconciler removes a route from both collections using the title as the
// join key: there is no stored cross-reference between the two copies, so
// every title match in the other collection is treated as "the" public copy.
// With duplicated titles that deletes all of them; documented, not prevented.
type Reconciler struct {
	Store store.Client
}

func NewReconciler(st store.Client) *Reconciler {
	return &Reconciler{Store: st}
}

// Delete runs the chain for the record the detail view was opened from:
// ownership check, local delete by id, title query in the other collection,
// then one independent delete per match. Steps run strictly in order and a
// step failure halts the chain; only step 4's per-match deletes continue
// past individual failures. Nothing is retried and nothing rolls back.
func (r *Reconciler) Delete(ctx context.Context, viewedCollection, id, title string) Result {
	// Step 1: the route is only deletable if its title appears in
	// user_routes, that standing in for "the user created it".
	owned, err := r.Store.QueryByField(ctx, store.CollectionUser, models.FieldTitle, title)
	if err != nil {
		logrus.WithError(err).Warn("could not validate route ownership")
		return Result{State: StateFailed, Err: fmt.Errorf("check ownership: %w", err)}
	}
	if len(owned) == 0 {
		logrus.WithField("title", title).Info("route not owned, cannot delete")
		return Result{State: StateNotOwned}
	}

	// Step 2: delete the viewed copy by its own id.
	if err := r.Store.Delete(ctx, viewedCollection, id); err != nil {
		logrus.WithError(err).WithField("collection", viewedCollection).
			Error("failed to delete route")
		return Result{State: StateFailed, Err: fmt.Errorf("delete local copy: %w", err)}
	}
	logrus.WithFields(logrus.Fields{"collection": viewedCollection, "id": id}).
		Info("route deleted")

	// Step 3: find the copies in the other collection by title.
	other := store.OtherCollection(viewedCollection)
	matches, err := r.Store.QueryByField(ctx, other, models.FieldTitle, title)
	if err != nil {
		logrus.WithError(err).WithField("collection", other).
			Error("failed to query other collection")
		return Result{
			State: StateDeletedLocalOnly,
			Err:   fmt.Errorf("query %s: %w", other, err),
		}
	}
	if len(matches) == 0 {
		logrus.WithField("collection", other).Info("no matching route in other collection")
		return Result{State: StateDeletedLocalOnly}
	}

	// Step 4: one delete per match. Failures are independent: one failing
	// match neither stops the rest nor restores the step 2 delete.
	res := Result{}
	for _, doc := range matches {
		if err := r.Store.Delete(ctx, other, doc.ID); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"collection": other, "id": doc.ID,
			}).Error("failed to delete route from other collection")
			res.OtherFailed++
			continue
		}
		logrus.WithFields(logrus.Fields{"collection": other, "id": doc.ID}).
			Info("route deleted from other collection")
		res.OtherDeleted++
	}

	if res.OtherDeleted == 0 {
		res.State = StateDeletedLocalOnly
	} else {
		res.State = StateDeletedBoth
	}
	return res
}
