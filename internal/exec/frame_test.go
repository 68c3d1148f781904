package exec

import (
	"context"
	"testing"

	"github.com/NilFoundation/vvm/internal/db"
	"github.com/NilFoundation/vvm/internal/storage"
	"github.com/NilFoundation/vvm/internal/types"
	"github.com/stretchr/testify/require"
)

func TestCachedContract(t *testing.T) {
	t.Parallel()

	database, err := db.NewBadgerDbInMemory()
	require.NoError(t, err)
	defer database.Close()
	tx, err := database.CreateRwTx(context.Background())
	require.NoError(t, err)
	defer tx.Rollback()
	store := storage.NewStore(tx)

	account := types.HexToAddress("0x01")
	stored := &types.ContractInfo{TrieId: types.TrieId("trie"), PairCount: 7}
	require.NoError(t, store.WriteContract(account, stored))

	c := Cached(&types.ContractInfo{TrieId: types.TrieId("trie")})
	require.True(t, c.IsCached())

	c.invalidate()
	require.True(t, c.IsInvalidated())

	info, err := c.get(store, account)
	require.NoError(t, err)
	require.True(t, c.IsCached())
	require.Equal(t, uint32(7), info.PairCount)

	last, err := c.terminate(store, account)
	require.NoError(t, err)
	require.Equal(t, info, last)
	require.True(t, c.IsTerminated())
	require.Panics(t, func() { _, _ = c.get(store, account) })

	gone := CachedContract{state: stateInvalidated}
	require.Panics(t, func() { _, _ = gone.get(store, types.HexToAddress("0x02")) })
}
