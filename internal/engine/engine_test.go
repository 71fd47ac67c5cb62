package engine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todosync/internal/engine"
	"todosync/internal/status"
	"todosync/internal/store"
	"todosync/internal/testutil"
	"todosync/internal/transport"
)

func newEngine(t *testing.T) (*engine.Engine, *testutil.FakeTransport) {
	t.Helper()
	tp := testutil.NewFakeTransport()
	return engine.New(tp, store.New(), nil), tp
}

func TestFetchListsPopulatesMirror(t *testing.T) {
	eng, tp := newEngine(t)
	tp.SeedList("l1", "inbox")
	tp.SeedList("l2", "work")
	tp.SeedItem(transport.Item{ID: "i1", ListID: "l1", Title: "a"})

	require.NoError(t, eng.FetchLists(context.Background()))
	eng.Wait()

	lists := eng.Store().Lists()
	require.Len(t, lists, 2)
	assert.Equal(t, "inbox", lists[0].Title)

	items, ok := eng.Store().Items("l1")
	require.True(t, ok)
	require.Len(t, items, 1)
	assert.Equal(t, "a", items[0].Title)

	app := eng.App()
	assert.Equal(t, status.Succeeded, app.Status)
	assert.Empty(t, app.LastError)
}

func TestFetchListsNetworkFailure(t *testing.T) {
	eng, tp := newEngine(t)
	tp.Fail(testutil.OpGetLists, errors.New("connection refused"))

	err := eng.FetchLists(context.Background())

	var oe *engine.OpError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, engine.KindNetwork, oe.Kind)

	app := eng.App()
	assert.Equal(t, status.Failed, app.Status)
	assert.Equal(t, "connection refused", app.LastError)
	assert.Empty(t, eng.Store().Lists())
}

func TestFetchListsRejectionUsesFirstMessage(t *testing.T) {
	eng, tp := newEngine(t)
	tp.Reject(testutil.OpGetLists, testutil.Rejection{Messages: []string{"first", "second"}})

	err := eng.FetchLists(context.Background())

	var oe *engine.OpError
	require.ErrorAs(t, err, &oe)
	assert.Equal(t, engine.KindApplication, oe.Kind)
	assert.Equal(t, "first", eng.App().LastError)
}

func TestRejectionWithoutMessageFallsBack(t *testing.T) {
	eng, tp := newEngine(t)
	tp.Reject(testutil.OpGetLists, testutil.Rejection{})

	err := eng.FetchLists(context.Background())

	require.Error(t, err)
	assert.Equal(t, "Some error occurred", eng.App().LastError)
}

func TestChildFetchFailureDoesNotAbortSiblings(t *testing.T) {
	eng, tp := newEngine(t)
	tp.SeedList("l1", "inbox")
	tp.SeedList("l2", "work")
	tp.SeedItem(transport.Item{ID: "i1", ListID: "l2", Title: "b"})
	tp.Fail(testutil.OpGetItems, errors.New("boom"))

	require.NoError(t, eng.FetchLists(context.Background()))
	eng.Wait()

	// Both lists survive; the item failure lands in the global channel.
	assert.Len(t, eng.Store().Lists(), 2)
	assert.Equal(t, status.Failed, eng.App().Status)
	assert.Equal(t, "boom", eng.App().LastError)
}

// The parent fetch resolves its own status before the child item fetches
// start, so a failing child lands after the parent's succeeded write and is
// never overwritten by it.
func TestChildFailureIsNotOverwrittenByParent(t *testing.T) {
	eng, tp := newEngine(t)
	tp.SeedList("l1", "inbox")
	tp.Fail(testutil.OpGetItems, errors.New("boom"))
	entered, release := tp.Gate(testutil.OpGetItems)

	require.NoError(t, eng.FetchLists(context.Background()))
	<-entered

	// The child is held at the gate, so its failure cannot have been
	// recorded yet, and the parent's own resolution already happened.
	assert.NotEqual(t, status.Failed, eng.App().Status)
	assert.Empty(t, eng.App().LastError)

	close(release)
	eng.Wait()

	app := eng.App()
	assert.Equal(t, status.Failed, app.Status)
	assert.Equal(t, "boom", app.LastError)
}

func TestCreateListPrependsServerEntity(t *testing.T) {
	eng, tp := newEngine(t)
	tp.SeedList("l1", "inbox")
	require.NoError(t, eng.FetchLists(context.Background()))
	eng.Wait()

	require.NoError(t, eng.CreateList(context.Background(), "new"))

	lists := eng.Store().Lists()
	require.Len(t, lists, 2)
	assert.Equal(t, "new", lists[0].Title)
	assert.NotEmpty(t, lists[0].ID)

	items, ok := eng.Store().Items(lists[0].ID)
	require.True(t, ok)
	assert.Empty(t, items)
}

func TestCreateListRejectionLeavesMirror(t *testing.T) {
	eng, tp := newEngine(t)
	tp.SeedList("l1", "inbox")
	require.NoError(t, eng.FetchLists(context.Background()))
	eng.Wait()
	tp.Reject(testutil.OpCreateList, testutil.Rejection{Messages: []string{"quota exceeded"}})

	err := eng.CreateList(context.Background(), "new")

	require.Error(t, err)
	assert.Len(t, eng.Store().Lists(), 1)
	assert.Equal(t, "quota exceeded", eng.App().LastError)
}

func TestRemoveListFailureMarksEntity(t *testing.T) {
	eng, tp := newEngine(t)
	tp.SeedList("l1", "inbox")
	require.NoError(t, eng.FetchLists(context.Background()))
	eng.Wait()
	tp.Fail(testutil.OpDeleteList, errors.New("boom"))

	err := eng.RemoveList(context.Background(), "l1")

	require.Error(t, err)
	l, ok := eng.Store().ListByID("l1")
	require.True(t, ok)
	assert.Equal(t, status.Failed, l.EntityStatus)
}

func TestRemoveListCascades(t *testing.T) {
	eng, tp := newEngine(t)
	tp.SeedList("l1", "inbox")
	tp.SeedItem(transport.Item{ID: "i1", ListID: "l1", Title: "a"})
	require.NoError(t, eng.FetchLists(context.Background()))
	eng.Wait()

	require.NoError(t, eng.RemoveList(context.Background(), "l1"))

	assert.Empty(t, eng.Store().Lists())
	_, ok := eng.Store().Items("l1")
	assert.False(t, ok)
}

func TestCreateItemPrepends(t *testing.T) {
	eng, tp := newEngine(t)
	tp.SeedList("l1", "inbox")
	tp.SeedItem(transport.Item{ID: "i1", ListID: "l1", Title: "old"})
	require.NoError(t, eng.FetchLists(context.Background()))
	eng.Wait()

	require.NoError(t, eng.CreateItem(context.Background(), "l1", "new"))

	items, _ := eng.Store().Items("l1")
	require.Len(t, items, 2)
	assert.Equal(t, "new", items[0].Title)
}

func TestCreateItemFieldRejectionLeavesGlobalError(t *testing.T) {
	eng, tp := newEngine(t)
	tp.SeedList("l1", "inbox")
	require.NoError(t, eng.FetchLists(context.Background()))
	eng.Wait()
	tp.Reject(testutil.OpCreateItem, testutil.Rejection{
		Messages:     []string{"title too long"},
		FieldsErrors: []transport.FieldError{{Field: "title", Error: "too long"}},
	})

	err := eng.CreateItem(context.Background(), "l1", "new")

	require.True(t, engine.IsFieldScoped(err))
	fes := engine.FieldErrors(err)
	require.Len(t, fes, 1)
	assert.Equal(t, "title", fes[0].Field)

	// Field-scoped rejections stay out of the global channel.
	app := eng.App()
	assert.Equal(t, status.Failed, app.Status)
	assert.Empty(t, app.LastError)
}

func TestUpdateItemOverlaysPatch(t *testing.T) {
	eng, tp := newEngine(t)
	tp.SeedList("l1", "inbox")
	tp.SeedItem(transport.Item{ID: "i1", ListID: "l1", Title: "a", Priority: transport.PriorityHigh})
	require.NoError(t, eng.FetchLists(context.Background()))
	eng.Wait()

	st := transport.StatusCompleted
	require.NoError(t, eng.UpdateItem(context.Background(), "l1", "i1", transport.ItemPatch{Status: &st}))

	got, ok := eng.Store().ItemByID("l1", "i1")
	require.True(t, ok)
	assert.Equal(t, transport.StatusCompleted, got.Status)
	// Unpatched fields are carried over, not zeroed.
	assert.Equal(t, "a", got.Title)
	assert.Equal(t, transport.PriorityHigh, got.Priority)
}

func TestUpdateItemAbsentFailsBeforeTransport(t *testing.T) {
	eng, tp := newEngine(t)
	tp.SeedList("l1", "inbox")
	require.NoError(t, eng.FetchLists(context.Background()))
	eng.Wait()

	title := "x"
	err := eng.UpdateItem(context.Background(), "l1", "ghost", transport.ItemPatch{Title: &title})

	require.True(t, engine.IsPrecondition(err))
	assert.Equal(t, status.Failed, eng.App().Status)
	assert.Contains(t, eng.App().LastError, "ghost")
}

// An update in flight loses the race to a removal of the same item. The
// update's confirmation must not re-insert the item.
func TestUpdateRemoveRaceDoesNotResurrect(t *testing.T) {
	eng, tp := newEngine(t)
	tp.SeedList("l1", "inbox")
	tp.SeedItem(transport.Item{ID: "i1", ListID: "l1", Title: "task A"})
	tp.SeedItem(transport.Item{ID: "i2", ListID: "l1", Title: "task B"})
	require.NoError(t, eng.FetchLists(context.Background()))
	eng.Wait()

	entered, release := tp.Gate(testutil.OpUpdateItem)
	updateDone := make(chan error, 1)
	st := transport.StatusCompleted
	go func() {
		updateDone <- eng.UpdateItem(context.Background(), "l1", "i1", transport.ItemPatch{Status: &st})
	}()
	<-entered

	require.NoError(t, eng.RemoveItem(context.Background(), "l1", "i1"))

	close(release)
	require.NoError(t, <-updateDone)

	_, ok := eng.Store().ItemByID("l1", "i1")
	assert.False(t, ok)
	items, _ := eng.Store().Items("l1")
	require.Len(t, items, 1)
	assert.Equal(t, "i2", items[0].ID)
}

func TestInitializeProbeSuccess(t *testing.T) {
	eng, _ := newEngine(t)

	require.NoError(t, eng.Initialize(context.Background()))

	app := eng.App()
	assert.True(t, app.Initialized)
	assert.True(t, app.LoggedIn)
	assert.Equal(t, status.Succeeded, app.Status)
}

func TestInitializeProbeRejectionIsSilent(t *testing.T) {
	eng, tp := newEngine(t)
	tp.Reject(testutil.OpProbeSession, testutil.Rejection{Messages: []string{"not authorized"}})

	err := eng.Initialize(context.Background())

	require.Error(t, err)
	app := eng.App()
	assert.True(t, app.Initialized)
	assert.False(t, app.LoggedIn)
	// A probe rejection is the normal logged-out answer, not an error
	// worth surfacing.
	assert.Equal(t, status.Idle, app.Status)
	assert.Empty(t, app.LastError)
}

func TestInitializeProbeNetworkFailureIsRecorded(t *testing.T) {
	eng, tp := newEngine(t)
	tp.Fail(testutil.OpProbeSession, errors.New("timeout"))

	err := eng.Initialize(context.Background())

	require.Error(t, err)
	app := eng.App()
	assert.True(t, app.Initialized)
	assert.False(t, app.LoggedIn)
	assert.Equal(t, status.Failed, app.Status)
	assert.Equal(t, "timeout", app.LastError)
}

func TestLoginSuccess(t *testing.T) {
	eng, _ := newEngine(t)

	err := eng.Login(context.Background(), transport.LoginParams{Email: "a@b.c", Password: "pw"})

	require.NoError(t, err)
	assert.True(t, eng.App().LoggedIn)
}

func TestLoginFieldRejection(t *testing.T) {
	eng, tp := newEngine(t)
	tp.Reject(testutil.OpLogin, testutil.Rejection{
		FieldsErrors: []transport.FieldError{{Field: "email", Error: "invalid email"}},
	})

	err := eng.Login(context.Background(), transport.LoginParams{Email: "bad", Password: "pw"})

	require.True(t, engine.IsFieldScoped(err))
	assert.False(t, eng.App().LoggedIn)
	assert.Empty(t, eng.App().LastError)
}

func TestLogoutClearsMirrorAndSession(t *testing.T) {
	eng, tp := newEngine(t)
	tp.SeedList("l1", "inbox")
	tp.SeedItem(transport.Item{ID: "i1", ListID: "l1", Title: "a"})
	require.NoError(t, eng.Login(context.Background(), transport.LoginParams{Email: "a@b.c", Password: "pw"}))
	require.NoError(t, eng.FetchLists(context.Background()))
	eng.Wait()

	require.NoError(t, eng.Logout(context.Background()))

	assert.False(t, eng.App().LoggedIn)
	assert.Empty(t, eng.Store().Lists())
	assert.Empty(t, eng.Store().ItemKeys())
}

func TestLogoutFailureKeepsMirror(t *testing.T) {
	eng, tp := newEngine(t)
	tp.SeedList("l1", "inbox")
	require.NoError(t, eng.Login(context.Background(), transport.LoginParams{Email: "a@b.c", Password: "pw"}))
	require.NoError(t, eng.FetchLists(context.Background()))
	eng.Wait()
	tp.Fail(testutil.OpLogout, errors.New("boom"))

	err := eng.Logout(context.Background())

	require.Error(t, err)
	assert.True(t, eng.App().LoggedIn)
	assert.Len(t, eng.Store().Lists(), 1)
}

func TestClearError(t *testing.T) {
	eng, tp := newEngine(t)
	tp.Fail(testutil.OpGetLists, errors.New("boom"))
	require.Error(t, eng.FetchLists(context.Background()))
	require.NotEmpty(t, eng.App().LastError)

	eng.ClearError()

	assert.Empty(t, eng.App().LastError)
}

func TestChangeFilterIsLocalOnly(t *testing.T) {
	eng, tp := newEngine(t)
	tp.SeedList("l1", "inbox")
	require.NoError(t, eng.FetchLists(context.Background()))
	eng.Wait()
	before := eng.App().Status

	eng.ChangeFilter("l1", store.FilterActive)

	l, _ := eng.Store().ListByID("l1")
	assert.Equal(t, store.FilterActive, l.Filter)
	assert.Equal(t, before, eng.App().Status)
}
