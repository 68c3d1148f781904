package config

import "github.com/NilFoundation/vvm/internal/types"

// Schedule is the cost table of the host functions available to contract code. The engine
// itself only charges CodeLoadPerByte; executables charge the rest through Ext.GasMeter.
type Schedule struct {
	// Charged per byte of code when an executable is loaded.
	CodeLoadPerByte types.Gas `mapstructure:"code_load_per_byte" yaml:"code_load_per_byte"`
	// Charged by an executable for every unit of work it does on its own.
	Instruction types.Gas `mapstructure:"instruction" yaml:"instruction"`

	Call        types.Gas `mapstructure:"call" yaml:"call"`
	Instantiate types.Gas `mapstructure:"instantiate" yaml:"instantiate"`
	Terminate   types.Gas `mapstructure:"terminate" yaml:"terminate"`
	Transfer    types.Gas `mapstructure:"transfer" yaml:"transfer"`

	StorageRead         types.Gas `mapstructure:"storage_read" yaml:"storage_read"`
	StorageReadPerByte  types.Gas `mapstructure:"storage_read_per_byte" yaml:"storage_read_per_byte"`
	StorageWrite        types.Gas `mapstructure:"storage_write" yaml:"storage_write"`
	StorageWritePerByte types.Gas `mapstructure:"storage_write_per_byte" yaml:"storage_write_per_byte"`

	DepositEvent         types.Gas `mapstructure:"deposit_event" yaml:"deposit_event"`
	DepositEventPerTopic types.Gas `mapstructure:"deposit_event_per_topic" yaml:"deposit_event_per_topic"`
	DepositEventPerByte  types.Gas `mapstructure:"deposit_event_per_byte" yaml:"deposit_event_per_byte"`

	Random              types.Gas `mapstructure:"random" yaml:"random"`
	DebugMessagePerByte types.Gas `mapstructure:"debug_message_per_byte" yaml:"debug_message_per_byte"`
}

func DefaultSchedule() Schedule {
	return Schedule{
		CodeLoadPerByte:      4,
		Instruction:          8,
		Call:                 1_000,
		Instantiate:          5_000,
		Terminate:            2_000,
		Transfer:             500,
		StorageRead:          200,
		StorageReadPerByte:   1,
		StorageWrite:         1_000,
		StorageWritePerByte:  10,
		DepositEvent:         300,
		DepositEventPerTopic: 100,
		DepositEventPerByte:  2,
		Random:               100,
		DebugMessagePerByte:  1,
	}
}
