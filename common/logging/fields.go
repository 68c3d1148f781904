package logging

const (
	// FieldError can be used instead of Err(err) if you have only the error message string.
	FieldError = "err"

	FieldComponent = "component"

	FieldAccountAddress = "accountAddress"
	FieldCaller         = "caller"
	FieldCodeHash       = "codeHash"
	FieldValue          = "value"

	FieldDepth      = "depth"
	FieldEntryPoint = "entryPoint"
	FieldPersist    = "persist"
	FieldGasLimit   = "gasLimit"
	FieldGasUsed    = "gasUsed"

	FieldBlockNumber = "blockNumber"
)
