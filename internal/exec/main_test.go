package exec

import (
	"testing"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		goleak.IgnoreAnyFunction("github.com/NilFoundation/vvm/internal/db.runTxLeakChecker"),
	)
}
