package publish

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trailpost/internal/models"
	"trailpost/internal/store"
)

func seed(t *testing.T, st store.Client, collection, title string) string {
	t.Helper()
	rec := canonical(t, title)
	id, err := st.Create(context.Background(), collection, rec)
	require.NoError(t, err)
	return id
}

func TestDeleteRemovesBothCopies(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	userID := seed(t, st, store.CollectionUser, "jupiter bowl")
	communityID := seed(t, st, store.CollectionCommunity, "jupiter bowl")

	res := NewReconciler(st).Delete(ctx, store.CollectionUser, userID, "Jupiter Bowl")
	assert.Equal(t, StateDeletedBoth, res.State)
	assert.NoError(t, res.Err)
	assert.Equal(t, 1, res.OtherDeleted)
	assert.Zero(t, res.OtherFailed)

	_, err := st.Get(ctx, store.CollectionUser, userID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.Get(ctx, store.CollectionCommunity, communityID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteFromCommunityViewAlsoRemovesUserCopy(t *testing.T) {
	// The viewed collection may be either of the pair; the "other" one is
	// derived, not hardcoded.
	ctx := context.Background()
	st := store.NewMemory()
	userID := seed(t, st, store.CollectionUser, "jupiter bowl")
	communityID := seed(t, st, store.CollectionCommunity, "jupiter bowl")

	res := NewReconciler(st).Delete(ctx, store.CollectionCommunity, communityID, "Jupiter Bowl")
	assert.Equal(t, StateDeletedBoth, res.State)

	_, err := st.Get(ctx, store.CollectionUser, userID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeleteNotOwned(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	// Route exists only in the community collection: someone else's.
	communityID := seed(t, st, store.CollectionCommunity, "jupiter bowl")

	res := NewReconciler(st).Delete(ctx, store.CollectionCommunity, communityID, "Jupiter Bowl")
	assert.Equal(t, StateNotOwned, res.State)

	// No mutation happened.
	_, err := st.Get(ctx, store.CollectionCommunity, communityID)
	assert.NoError(t, err)
}

func TestDeletePrivateRouteIsLocalOnly(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemory()
	userID := seed(t, st, store.CollectionUser, "secret stash")

	res := NewReconciler(st).Delete(ctx, store.CollectionUser, userID, "Secret Stash")
	assert.Equal(t, StateDeletedLocalOnly, res.State)
	assert.NoError(t, res.Err)
	assert.Zero(t, res.OtherDeleted)
}

func TestDeleteOwnershipQueryFailureHaltsChain(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	userID := seed(t, mem, store.CollectionUser, "jupiter bowl")
	st := &faultClient{Client: mem, failQueryIn: store.CollectionUser}

	res := NewReconciler(st).Delete(ctx, store.CollectionUser, userID, "Jupiter Bowl")
	assert.Equal(t, StateFailed, res.State)
	assert.ErrorIs(t, res.Err, errInjected)

	// Halted before any delete.
	_, err := mem.Get(ctx, store.CollectionUser, userID)
	assert.NoError(t, err)
}

func TestDeleteLocalFailureHaltsBeforeOtherCollection(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	userID := seed(t, mem, store.CollectionUser, "jupiter bowl")
	communityID := seed(t, mem, store.CollectionCommunity, "jupiter bowl")
	st := &faultClient{Client: mem, failDeleteID: userID}

	res := NewReconciler(st).Delete(ctx, store.CollectionUser, userID, "Jupiter Bowl")
	assert.Equal(t, StateFailed, res.State)
	assert.ErrorIs(t, res.Err, errInjected)

	// The community copy was never touched.
	_, err := mem.Get(ctx, store.CollectionCommunity, communityID)
	assert.NoError(t, err)
}

func TestDeleteCrossQueryFailureReportsLocalOnly(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	userID := seed(t, mem, store.CollectionUser, "jupiter bowl")
	seed(t, mem, store.CollectionCommunity, "jupiter bowl")
	st := &faultClient{Client: mem, failQueryIn: store.CollectionCommunity}

	res := NewReconciler(st).Delete(ctx, store.CollectionUser, userID, "Jupiter Bowl")
	assert.Equal(t, StateDeletedLocalOnly, res.State)
	assert.ErrorIs(t, res.Err, errInjected)

	// The local delete is not rolled back by the later failure.
	_, err := mem.Get(ctx, store.CollectionUser, userID)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestDeletePerMatchFailuresAreIndependent(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	userID := seed(t, mem, store.CollectionUser, "jupiter bowl")
	badID := seed(t, mem, store.CollectionCommunity, "jupiter bowl")
	goodID := seed(t, mem, store.CollectionCommunity, "jupiter bowl")
	st := &faultClient{Client: mem, failDeleteID: badID}

	res := NewReconciler(st).Delete(ctx, store.CollectionUser, userID, "Jupiter Bowl")
	// One match failed, the other was still attempted and removed.
	assert.Equal(t, StateDeletedBoth, res.State)
	assert.Equal(t, 1, res.OtherDeleted)
	assert.Equal(t, 1, res.OtherFailed)

	_, err := mem.Get(ctx, store.CollectionCommunity, goodID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = mem.Get(ctx, store.CollectionCommunity, badID)
	assert.NoError(t, err)
}

func TestDeleteDuplicateTitlesRemovesEveryMatch(t *testing.T) {
	// Title is the only join key, so every same-titled community copy goes.
	ctx := context.Background()
	st := store.NewMemory()
	userID := seed(t, st, store.CollectionUser, "jupiter bowl")
	seed(t, st, store.CollectionCommunity, "jupiter bowl")
	seed(t, st, store.CollectionCommunity, "jupiter bowl")

	res := NewReconciler(st).Delete(ctx, store.CollectionUser, userID, "Jupiter Bowl")
	assert.Equal(t, StateDeletedBoth, res.State)
	assert.Equal(t, 2, res.OtherDeleted)

	docs, err := st.QueryByField(ctx, store.CollectionCommunity, models.FieldTitle, "Jupiter Bowl")
	require.NoError(t, err)
	assert.Empty(t, docs)
}
