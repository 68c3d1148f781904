package native

import (
	"fmt"

	"github.com/NilFoundation/vvm/common/check"
	"github.com/NilFoundation/vvm/common/logging"
	"github.com/NilFoundation/vvm/internal/config"
	"github.com/NilFoundation/vvm/internal/exec"
	"github.com/NilFoundation/vvm/internal/gas"
	"github.com/NilFoundation/vvm/internal/storage"
	"github.com/NilFoundation/vvm/internal/types"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"
)

const DefaultCacheSize = 128

// Loader uploads native code into the store and loads it back as executables. Decoded code is
// kept in an LRU cache keyed by code hash; bookkeeping is always read from the store.
type Loader struct {
	store       *storage.Store
	registry    *Registry
	maxCodeSize uint32
	cache       *lru.Cache[common.Hash, entry]
	logger      zerolog.Logger
}

var _ exec.Loader = (*Loader)(nil)

func NewLoader(store *storage.Store, registry *Registry, maxCodeSize uint32, cacheSize int) *Loader {
	cache, err := lru.New[common.Hash, entry](cacheSize)
	check.PanicIfErr(err)

	return &Loader{
		store:       store,
		registry:    registry,
		maxCodeSize: maxCodeSize,
		cache:       cache,
		logger:      logging.NewLogger("native-loader"),
	}
}

// Upload stores code and returns its hash. Code without a registered implementation is
// rejected.
func (l *Loader) Upload(code []byte) (common.Hash, error) {
	if uint32(len(code)) > l.maxCodeSize {
		return common.Hash{}, types.NewVerboseError(
			types.ErrorCodeTooLarge, fmt.Sprintf("%d > %d", len(code), l.maxCodeSize))
	}
	hash := crypto.Keccak256Hash(code)
	e, err := l.registry.resolve(hash, code)
	if err != nil {
		return common.Hash{}, types.NewWrapError(types.ErrorCodeNotFound, err)
	}
	if err := l.store.PutCode(hash, code); err != nil {
		return common.Hash{}, err
	}
	l.cache.Add(hash, e)

	l.logger.Debug().
		Stringer(logging.FieldCodeHash, hash).
		Str("name", e.name).
		Msg("Code uploaded")
	return hash, nil
}

// FromStorage charges the load of the code to meter and returns the executable.
func (l *Loader) FromStorage(codeHash common.Hash, schedule *config.Schedule, meter *gas.Meter) (exec.Executable, error) {
	info, err := l.codeInfo(codeHash)
	if err != nil {
		return nil, err
	}
	if err := meter.Charge(schedule.CodeLoadPerByte * types.Gas(info.CodeLen)); err != nil {
		return nil, err
	}

	e, ok := l.cache.Get(codeHash)
	if !ok {
		code, err := l.store.LoadCode(codeHash)
		if err != nil {
			return nil, err
		}
		if code == nil {
			return nil, types.NewVerboseError(types.ErrorCodeNotFound, codeHash.Hex())
		}
		if e, err = l.registry.resolve(codeHash, code); err != nil {
			return nil, types.NewWrapError(types.ErrorCodeNotFound, err)
		}
		l.cache.Add(codeHash, e)
	}

	return &Executable{
		codeHash: codeHash,
		name:     e.name,
		codeLen:  info.CodeLen,
		refcount: info.Refcount,
		contract: e.contract,
	}, nil
}

func (l *Loader) AddUser(codeHash common.Hash) (uint32, error) {
	info, err := l.codeInfo(codeHash)
	if err != nil {
		return 0, err
	}
	info.Refcount++
	if err := l.store.WriteCodeInfo(codeHash, info); err != nil {
		return 0, err
	}
	return info.CodeLen, nil
}

// RemoveUser drops a user of the code. The code is deleted together with its last user.
func (l *Loader) RemoveUser(codeHash common.Hash) (uint32, error) {
	info, err := l.codeInfo(codeHash)
	if err != nil {
		return 0, err
	}
	if info.Refcount > 1 {
		info.Refcount--
		return info.CodeLen, l.store.WriteCodeInfo(codeHash, info)
	}

	l.logger.Debug().
		Stringer(logging.FieldCodeHash, codeHash).
		Msg("Code removed with its last user")
	return info.CodeLen, l.store.RemoveCode(codeHash)
}

func (l *Loader) codeInfo(codeHash common.Hash) (*types.CodeInfo, error) {
	info, err := l.store.LoadCodeInfo(codeHash)
	if err != nil {
		return nil, err
	}
	if info == nil {
		return nil, types.NewVerboseError(types.ErrorCodeNotFound, codeHash.Hex())
	}
	return info, nil
}
