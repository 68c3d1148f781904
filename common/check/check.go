package check

import (
	"fmt"
)

// PanicIfNot panics on false.
// Use it in places where a violated condition means a bug in the code rather than bad input.
func PanicIfNot(flag bool) {
	if !flag {
		panic("requirement not met")
	}
}

// PanicIfNotf panics on false with the formatted message.
func PanicIfNotf(flag bool, format string, args ...any) {
	if !flag {
		panic(fmt.Sprintf(format, args...))
	}
}

// PanicIfErr panics if err is not nil.
func PanicIfErr(err error) {
	if err != nil {
		panic(err)
	}
}
