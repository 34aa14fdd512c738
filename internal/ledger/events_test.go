package ledger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truthledger/truthledger/internal/model"
)

func TestEventsOnePerSuccessfulOperation(t *testing.T) {
	e := newEngine(t)

	require.NoError(t, e.AirdropHash(owner, alice, 100))
	e.SetUserProfile(alice, 30, "Chicago", "USA")
	id, err := e.SubmitArticle(alice, "T", "Cat", "QmX", nil, "")
	require.NoError(t, err)
	require.NoError(t, e.EditArticle(alice, id, "QmNew"))
	_, err = e.Vote(bob, id, true, "ok")
	require.NoError(t, err)
	require.NoError(t, e.RetractArticle(alice, id))

	events := e.Events()
	require.Len(t, events, 6)

	types := make([]string, 0, len(events))
	for i, ev := range events {
		assert.Equal(t, uint64(i+1), ev.Seq)
		assert.NotEmpty(t, ev.ID)
		assert.False(t, ev.At.IsZero())
		types = append(types, ev.Type)
	}
	assert.Equal(t, []string{
		model.EventHashAirdropped,
		model.EventUserUpdated,
		model.EventArticleSubmitted,
		model.EventArticleEdited,
		model.EventVoted,
		model.EventArticleRetracted,
	}, types)

	edited := events[3]
	assert.Equal(t, alice, edited.Caller)
	assert.Equal(t, id, edited.ArticleID)
	assert.Equal(t, "QmNew", edited.Data["newContentRef"])
	assert.Equal(t, e.EditCost(), edited.Data["cost"])
}

func TestEventsSince(t *testing.T) {
	e := newEngine(t)

	require.NoError(t, e.AirdropHash(owner, alice, 1))
	require.NoError(t, e.AirdropHash(owner, alice, 2))
	require.NoError(t, e.AirdropHash(owner, alice, 3))

	assert.Len(t, e.EventsSince(0), 3)

	tail := e.EventsSince(2)
	require.Len(t, tail, 1)
	assert.Equal(t, uint64(3), tail[0].Seq)

	assert.Nil(t, e.EventsSince(3))
	assert.Nil(t, e.EventsSince(99))
}

func TestRejectedOperationsEmitNothing(t *testing.T) {
	e := newEngine(t)

	_, err := e.SubmitArticle(alice, "", "Cat", "QmX", nil, "")
	require.Error(t, err)
	assert.ErrorIs(t, e.AirdropHash(alice, bob, 5), ErrUnauthorized)
	_, err = e.Vote(bob, 1, true, "")
	require.Error(t, err)

	assert.Empty(t, e.Events())
}
