package txsync

import (
	"context"
	"errors"
	"testing"

	"finance-dashboard-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedFeed struct {
	pages   []models.SyncPage
	errAt   int // 1-based call that fails, 0 for none
	cursors []string
}

func (f *scriptedFeed) SyncTransactions(_ context.Context, _ string, cursor string) (*models.SyncPage, error) {
	f.cursors = append(f.cursors, cursor)
	call := len(f.cursors)
	if call == f.errAt {
		return nil, errors.New("feed unavailable")
	}
	page := f.pages[call-1]
	return &page, nil
}

func tx(id string) models.ExternalTransaction {
	return models.ExternalTransaction{Id: id}
}

func ids(txs []models.ExternalTransaction) []string {
	out := make([]string, len(txs))
	for i, t := range txs {
		out[i] = t.Id
	}
	return out
}

func TestSync_DrainsPagesInOrder(t *testing.T) {
	feed := &scriptedFeed{pages: []models.SyncPage{
		{Added: []models.ExternalTransaction{tx("A"), tx("B")}, NextCursor: "c1", HasMore: true},
		{Added: []models.ExternalTransaction{tx("C")}, NextCursor: "c2", HasMore: true},
		{NextCursor: "c3", HasMore: false},
	}}

	got, err := NewEngine(feed, 0).Sync(context.Background(), "token")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, ids(got))
	assert.Equal(t, []string{"", "c1", "c2"}, feed.cursors)
}

func TestSync_SinglePage(t *testing.T) {
	feed := &scriptedFeed{pages: []models.SyncPage{
		{Added: []models.ExternalTransaction{tx("A")}, HasMore: false},
	}}

	got, err := NewEngine(feed, 0).Sync(context.Background(), "token")
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, ids(got))
	assert.Len(t, feed.cursors, 1)
}

func TestSync_PageFailureFailsWhole(t *testing.T) {
	feed := &scriptedFeed{
		pages: []models.SyncPage{
			{Added: []models.ExternalTransaction{tx("A")}, NextCursor: "c1", HasMore: true},
			{},
		},
		errAt: 2,
	}

	got, err := NewEngine(feed, 0).Sync(context.Background(), "token")
	assert.Error(t, err)
	assert.Nil(t, got)
	assert.Contains(t, err.Error(), "sync page 2")
}

func TestSync_RestartsFromEmptyCursor(t *testing.T) {
	page := models.SyncPage{Added: []models.ExternalTransaction{tx("A")}, NextCursor: "c1"}
	feed := &scriptedFeed{pages: []models.SyncPage{page, page}}
	engine := NewEngine(feed, 0)

	_, err := engine.Sync(context.Background(), "token")
	require.NoError(t, err)
	_, err = engine.Sync(context.Background(), "token")
	require.NoError(t, err)

	assert.Equal(t, []string{"", ""}, feed.cursors)
}

func TestSync_PageLimit(t *testing.T) {
	more := models.SyncPage{NextCursor: "again", HasMore: true}
	feed := &scriptedFeed{pages: []models.SyncPage{more, more, more}}

	_, err := NewEngine(feed, 2).Sync(context.Background(), "token")
	assert.ErrorIs(t, err, ErrTooManyPages)
	assert.Len(t, feed.cursors, 2)
}

func TestPages_StopsWhenConsumerBreaks(t *testing.T) {
	more := models.SyncPage{NextCursor: "next", HasMore: true}
	feed := &scriptedFeed{pages: []models.SyncPage{more, more, more}}

	for _, err := range NewEngine(feed, 0).Pages(context.Background(), "token") {
		require.NoError(t, err)
		break
	}
	assert.Len(t, feed.cursors, 1)
}
