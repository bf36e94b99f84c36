package services

import (
	"context"
	"energymon/internal/models"
	"energymon/internal/store"
	"energymon/internal/telegram"
	"energymon/internal/testutil"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func private(updateID, chatID int64, username string) telegram.Update {
	return telegram.Update{UpdateID: updateID, ChatID: chatID, ChatType: telegram.PrivateChat, Username: username}
}

func TestLoad_MissingRegistryIsEmpty(t *testing.T) {
	rs, _ := newRegistryService(store.NewMemoryDestination(), &testutil.MockTransport{})

	reg, err := rs.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, reg.Chats)
	assert.Equal(t, int64(0), reg.LastUpdateID)
}

func TestPoll_RegistersNewPrivateChats(t *testing.T) {
	dst := store.NewMemoryDestination()
	transport := &testutil.MockTransport{Updates: []telegram.Update{
		private(10, 111, "alice"),
		{UpdateID: 11, ChatID: -500, ChatType: "group"},
		private(12, 222, ""),
	}}
	rs, _ := newRegistryService(dst, transport)

	res, err := rs.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PollResult{Processed: 3, Registered: 2, Refreshed: 0, Cursor: 12}, res)

	reg, err := rs.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{111, 222}, reg.Targets())
	assert.Equal(t, int64(12), reg.LastUpdateID)
	assert.Equal(t, "alice", reg.Chats["111"].Username)
	assert.Equal(t, fixedNow, reg.Chats["111"].AddedAt)
	assert.Equal(t, fixedNow, reg.Chats["111"].LastActive)
}

func TestPoll_RefreshKeepsAddedAt(t *testing.T) {
	dst := store.NewMemoryDestination()
	added := fixedNow.Add(-48 * time.Hour)
	reg := models.NewRegistry()
	reg.Chats["111"] = models.ChatEntry{ChatID: 111, Username: "old", AddedAt: added, LastActive: added}
	reg.LastUpdateID = 5
	require.NoError(t, dst.SetDocument(context.Background(), "telegram/registry", reg.Document()))

	transport := &testutil.MockTransport{Updates: []telegram.Update{private(6, 111, "new")}}
	rs, _ := newRegistryService(dst, transport)

	res, err := rs.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, res.Refreshed)
	assert.Equal(t, 0, res.Registered)

	got, err := rs.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, added, got.Chats["111"].AddedAt)
	assert.Equal(t, fixedNow, got.Chats["111"].LastActive)
	assert.Equal(t, "new", got.Chats["111"].Username)
	assert.Equal(t, []int64{5}, transport.Fetches)
}

func TestPoll_CursorAdvancesOncePerBatch(t *testing.T) {
	dst := store.NewMemoryDestination()
	transport := &testutil.MockTransport{Updates: []telegram.Update{private(3, 1, ""), private(7, 2, ""), private(5, 3, "")}}
	rs, _ := newRegistryService(dst, transport)
	ctx := context.Background()

	res, err := rs.Poll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(7), res.Cursor)

	// nothing past the cursor: no write, cursor unchanged
	res, err = rs.Poll(ctx)
	require.NoError(t, err)
	assert.Equal(t, PollResult{Cursor: 7}, res)
	assert.Equal(t, []int64{0, 7}, transport.Fetches)
}

func TestPoll_NonPrivateOnlyStillAdvancesCursor(t *testing.T) {
	dst := store.NewMemoryDestination()
	transport := &testutil.MockTransport{Updates: []telegram.Update{{UpdateID: 20, ChatID: -1, ChatType: "supergroup"}}}
	rs, _ := newRegistryService(dst, transport)

	res, err := rs.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Registered)
	assert.Equal(t, int64(20), res.Cursor)

	reg, err := rs.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, reg.Chats)
	assert.Equal(t, int64(20), reg.LastUpdateID)
}

func TestPoll_NilFetchLeavesCursor(t *testing.T) {
	dst := store.NewMemoryDestination()
	rs, _ := newRegistryService(dst, &testutil.MockTransport{NilUpdates: true})

	res, err := rs.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Cursor)
	assert.Empty(t, dst.Paths())
}

func TestPoll_FetchError(t *testing.T) {
	dst := store.NewMemoryDestination()
	rs, _ := newRegistryService(dst, &testutil.MockTransport{FetchErr: errors.New("401 unauthorized")})

	_, err := rs.Poll(context.Background())
	assert.ErrorContains(t, err, "401 unauthorized")
	assert.Empty(t, dst.Paths())
}

// gatedTransport holds FetchUpdates until release is closed.
type gatedTransport struct {
	*testutil.MockTransport
	entered chan struct{}
	release chan struct{}
}

func (g *gatedTransport) FetchUpdates(ctx context.Context, sinceID int64, timeout int) ([]telegram.Update, error) {
	g.entered <- struct{}{}
	<-g.release
	return g.MockTransport.FetchUpdates(ctx, sinceID, timeout)
}

func TestPoll_ConcurrentCallerRejected(t *testing.T) {
	dst := store.NewMemoryDestination()
	inner := &testutil.MockTransport{Updates: []telegram.Update{private(4, 111, "alice")}}
	transport := &gatedTransport{MockTransport: inner, entered: make(chan struct{}, 1), release: make(chan struct{})}
	rs := NewRegistryService(testConfig(), dst, transport, &testutil.MockLogger{}, &testutil.MockMetrics{}).(*RegistryService)
	rs.now = func() time.Time { return fixedNow }

	type outcome struct {
		res PollResult
		err error
	}
	first := make(chan outcome, 1)
	go func() {
		res, err := rs.Poll(context.Background())
		first <- outcome{res, err}
	}()
	<-transport.entered

	_, err := rs.Poll(context.Background())
	assert.ErrorIs(t, err, ErrPollInProgress)

	close(transport.release)
	got := <-first
	require.NoError(t, got.err)
	assert.Equal(t, 1, got.res.Registered)
	assert.Equal(t, []int64{0}, inner.Fetches)

	// the guard is released once the first poll returns
	transport.entered = make(chan struct{}, 1)
	res, err := rs.Poll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Processed)
	assert.Equal(t, []int64{0, 4}, inner.Fetches)
}

func TestRemoveInactive(t *testing.T) {
	dst := store.NewMemoryDestination()
	reg := models.NewRegistry()
	reg.Chats["1"] = models.ChatEntry{ChatID: 1, LastActive: fixedNow.Add(-40 * 24 * time.Hour)}
	reg.Chats["2"] = models.ChatEntry{ChatID: 2, LastActive: fixedNow.Add(-time.Hour)}
	reg.Chats["3"] = models.ChatEntry{ChatID: 3, AddedAt: fixedNow.Add(-60 * 24 * time.Hour)}
	require.NoError(t, dst.SetDocument(context.Background(), "telegram/registry", reg.Document()))

	rs, logger := newRegistryService(dst, &testutil.MockTransport{})
	n, err := rs.RemoveInactive(context.Background(), 30*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, logger.Contains("info", "Removed 2 inactive chats"))

	got, err := rs.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{2}, got.Targets())
}

func TestRemoveInactive_NothingStale(t *testing.T) {
	rs, _ := newRegistryService(store.NewMemoryDestination(), &testutil.MockTransport{})

	n, err := rs.RemoveInactive(context.Background(), time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
