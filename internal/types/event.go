package types

import (
	"github.com/ethereum/go-ethereum/common"
)

type EventKind uint8

const (
	// EventInstantiated is deposited when a contract was constructed successfully.
	EventInstantiated EventKind = iota + 1
	// EventTerminated is deposited when a contract removed itself.
	EventTerminated
	// EventContractEmitted is deposited on behalf of contract code.
	EventContractEmitted
	// EventTransfer is deposited by the ledger for every non-zero transfer.
	EventTransfer
)

func (k EventKind) String() string {
	switch k {
	case EventInstantiated:
		return "Instantiated"
	case EventTerminated:
		return "Terminated"
	case EventContractEmitted:
		return "ContractEmitted"
	case EventTransfer:
		return "Transfer"
	}
	return "Unknown"
}

// Event is a record deposited during execution. Events of rolled back frames are discarded.
type Event struct {
	Kind EventKind
	// Account the event is about: the instantiated, terminated or emitting contract, or the
	// sender of a transfer.
	Account Address
	// Deployer for EventInstantiated, beneficiary for EventTerminated, recipient for
	// EventTransfer.
	Counterpart Address
	Amount      Value
	Topics      []common.Hash
	Data        []byte
}
