package native

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/NilFoundation/vvm/internal/exec"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Contract is contract code implemented in Go. Deploy runs on instantiation, Call on every
// later call.
type Contract interface {
	Deploy(ext exec.Ext, input []byte) (exec.ExecReturnValue, error)
	Call(ext exec.Ext, input []byte) (exec.ExecReturnValue, error)
}

var codePrefix = []byte("vvm:native:")

// Code returns the code blob that binds to the contract registered under name.
func Code(name string) []byte {
	return append(append([]byte(nil), codePrefix...), name...)
}

func decodeCode(code []byte) (string, bool) {
	if !bytes.HasPrefix(code, codePrefix) {
		return "", false
	}
	return string(code[len(codePrefix):]), true
}

type entry struct {
	name     string
	contract Contract
}

// Registry maps code hashes to contract implementations.
type Registry struct {
	byHash map[common.Hash]entry
	byName map[string]common.Hash
}

func NewRegistry() *Registry {
	return &Registry{
		byHash: make(map[common.Hash]entry),
		byName: make(map[string]common.Hash),
	}
}

// DefaultRegistry holds the bundled contracts.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(CounterName, Counter{})
	r.MustRegister(ForwarderName, Forwarder{})
	r.MustRegister(SelfDestructName, SelfDestruct{})
	r.MustRegister(DeployerName, Deployer{})
	return r
}

// Register binds contract to the code blob of name and returns the code hash.
func (r *Registry) Register(name string, contract Contract) (common.Hash, error) {
	if _, ok := r.byName[name]; ok {
		return common.Hash{}, fmt.Errorf("contract %q is already registered", name)
	}
	hash := crypto.Keccak256Hash(Code(name))
	r.byHash[hash] = entry{name: name, contract: contract}
	r.byName[name] = hash
	return hash, nil
}

func (r *Registry) MustRegister(name string, contract Contract) common.Hash {
	hash, err := r.Register(name, contract)
	if err != nil {
		panic(err)
	}
	return hash
}

// Hash returns the code hash of the contract registered under name.
func (r *Registry) Hash(name string) (common.Hash, bool) {
	hash, ok := r.byName[name]
	return hash, ok
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// resolve binds a stored code blob to its implementation.
func (r *Registry) resolve(codeHash common.Hash, code []byte) (entry, error) {
	name, ok := decodeCode(code)
	if !ok {
		return entry{}, fmt.Errorf("code %s is not native code", codeHash)
	}
	e, ok := r.byHash[codeHash]
	if !ok || e.name != name {
		return entry{}, fmt.Errorf("no implementation of %q for code %s", name, codeHash)
	}
	return e, nil
}
