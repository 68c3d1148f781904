package common

import (
	"bytes"
	"context"
	"encoding/binary"
	"fmt"

	"github.com/NilFoundation/vvm/internal/balances"
	"github.com/NilFoundation/vvm/internal/config"
	"github.com/NilFoundation/vvm/internal/db"
	"github.com/NilFoundation/vvm/internal/exec"
	"github.com/NilFoundation/vvm/internal/native"
	"github.com/NilFoundation/vvm/internal/storage"
	"github.com/NilFoundation/vvm/internal/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// Env is shared by all commands. It is filled from the persistent flags and the config file.
type Env struct {
	Config       *config.Config
	DB           *db.BadgerDBOptions
	Origin       types.Address
	Block        uint64
	Timestamp    uint64
	DebugMessage bool
	Metrics      *exec.MetricsHandler
}

// Session gives a command access to one read-write transaction of the database.
type Session struct {
	env *Env

	Store    *storage.Store
	Ledger   *balances.Ledger
	Loader   *native.Loader
	Registry *native.Registry
}

// Run opens the database and calls fn inside a single transaction, which is committed only if
// fn succeeds.
func (e *Env) Run(ctx context.Context, fn func(*Session) error) error {
	database, err := db.OpenBadgerDb(e.DB)
	if err != nil {
		return fmt.Errorf("failed to open database at %s: %w", e.DB.Path, err)
	}
	defer database.Close()

	tx, err := database.CreateRwTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	store := storage.NewStore(tx)
	registry := native.DefaultRegistry()
	session := &Session{
		env:      e,
		Store:    store,
		Ledger:   balances.NewLedger(store, e.Config.ExistentialDeposit),
		Loader:   native.NewLoader(store, registry, e.Config.MaxCodeSize, native.DefaultCacheSize),
		Registry: registry,
	}
	if err := fn(session); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Session) Config() *config.Config {
	return s.env.Config
}

func (s *Session) Origin() types.Address {
	return s.env.Origin
}

const (
	// GenesisTimestamp is the timestamp of block zero.
	GenesisTimestamp = 1_700_000_000
	// BlockInterval is the number of seconds between two blocks.
	BlockInterval = 6
)

// BlockTimestamp returns the configured timestamp, or the one the configured block would get
// if blocks were produced every BlockInterval seconds since GenesisTimestamp.
func (e *Env) BlockTimestamp() uint64 {
	if e.Timestamp != 0 {
		return e.Timestamp
	}
	return GenesisTimestamp + e.Block*BlockInterval
}

// Params returns the stack parameters for the configured block. The block randomness is
// derived from the block number, so runs against the same block are reproducible.
func (s *Session) Params() exec.Params {
	return exec.Params{
		Store:  s.Store,
		Ledger: s.Ledger,
		Loader: s.Loader,
		Config: s.env.Config,
		Block: exec.BlockContext{
			Number:     types.BlockNumber(s.env.Block),
			Timestamp:  s.env.BlockTimestamp(),
			RandomSeed: crypto.Keccak256Hash(binary.BigEndian.AppendUint64(nil, s.env.Block)),
		},
		Metrics: s.env.Metrics,
	}
}

// DebugBuffer returns nil unless debug messages were requested.
func (s *Session) DebugBuffer() *bytes.Buffer {
	if !s.env.DebugMessage {
		return nil
	}
	return new(bytes.Buffer)
}
