package db

const (
	// ContractInfoTable maps a contract address to its RLP-encoded types.ContractInfo.
	ContractInfoTable TableName = "ContractInfo"
	// ContractStorageTable maps trie id || storage key to the stored value.
	ContractStorageTable TableName = "ContractStorage"
	// BalanceTable maps an account address to its 32-byte big-endian balance.
	BalanceTable TableName = "Balance"
	// PristineCodeTable maps a code hash to the uploaded code blob.
	PristineCodeTable TableName = "PristineCode"
	// CodeInfoTable maps a code hash to its RLP-encoded types.CodeInfo.
	CodeInfoTable TableName = "CodeInfo"
	// GlobalsTable holds singletons, see the keys below.
	GlobalsTable TableName = "Globals"
)

// AccountCounterKey is the key of the account counter in GlobalsTable.
var AccountCounterKey = []byte("AccountCounter")
