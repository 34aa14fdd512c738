// client_test.go
// +build !integration

package client

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/truthledger/truthledger/internal/api"
	"github.com/truthledger/truthledger/internal/ledger"
)

func TestClientAgainstAPIRouter(t *testing.T) {
	engine := ledger.New(ledger.Params{Owner: "0xowner"})
	srv := httptest.NewServer(api.New(engine, zap.NewNop().Sugar(), api.Options{}).Router())
	defer srv.Close()

	alice := Client{Addr: srv.URL, Caller: "0xalice"}
	bob := Client{Addr: srv.URL, Caller: "0xbob"}

	id, err := alice.SubmitArticle("Title A", "Tech", "QmHashA")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id)

	index, err := bob.Vote(id, true, "credible")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), index)

	a, err := bob.Article(id)
	require.NoError(t, err)
	assert.Equal(t, "Title A", a.Title)
	assert.Equal(t, int64(1), a.Score)
	assert.Equal(t, uint64(1), a.VoteCount)

	// Duplicate vote surfaces as an error, not a silent success.
	_, err = bob.Vote(id, false, "again")
	assert.Error(t, err)

	balance, err := alice.BalanceOf("0xalice")
	require.NoError(t, err)
	assert.Zero(t, balance)
}
