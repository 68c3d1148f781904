package types

import "strconv"

var errorCodeNames = [...]string{
	ErrorSuccess:                   "Success",
	ErrorUnknown:                   "Unknown",
	ErrorOutOfGas:                  "OutOfGas",
	ErrorNotCallable:               "NotCallable",
	ErrorMaxCallDepthReached:       "MaxCallDepthReached",
	ErrorBelowSubsistenceThreshold: "BelowSubsistenceThreshold",
	ErrorTransferFailed:            "TransferFailed",
	ErrorTerminatedInConstructor:   "TerminatedInConstructor",
	ErrorNewContractNotFunded:      "NewContractNotFunded",
	ErrorReentranceDenied:          "ReentranceDenied",
	ErrorDuplicateContract:         "DuplicateContract",
	ErrorValueTooLarge:             "ValueTooLarge",
	ErrorCodeNotFound:              "CodeNotFound",
	ErrorCodeTooLarge:              "CodeTooLarge",
	ErrorRestorationUnsupported:    "RestorationUnsupported",
	ErrorInsufficientBalance:       "InsufficientBalance",
	ErrorExistentialDeposit:        "ExistentialDeposit",
	ErrorContractTrapped:           "ContractTrapped",
	ErrorInvalidInput:              "InvalidInput",
}

func (i ErrorCode) String() string {
	if int(i) < len(errorCodeNames) && errorCodeNames[i] != "" {
		return errorCodeNames[i]
	}
	return "ErrorCode(" + strconv.FormatUint(uint64(i), 10) + ")"
}
