package common

import (
	"bytes"
	"fmt"
	"io"

	"github.com/NilFoundation/vvm/internal/exec"
	"github.com/NilFoundation/vvm/internal/gas"
	"github.com/NilFoundation/vvm/internal/types"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// PrintResult writes the outcome of a stack run. A failed run is reported and returned as
// error.
func PrintResult(w io.Writer, ret exec.ExecReturnValue, err error, meter *gas.Meter, debug *bytes.Buffer) error {
	if debug != nil && debug.Len() > 0 {
		_, _ = fmt.Fprintf(w, "Debug message:\n%s\n", debug.String())
	}
	_, _ = fmt.Fprintf(w, "Gas used: %s\n", meter.Spent())

	if err != nil {
		_, _ = fmt.Fprintf(w, "Error: %s (code %d, %s)\n", err, types.GetErrorCode(err), exec.OriginOf(err))
		return err
	}
	if !ret.IsSuccess() {
		_, _ = fmt.Fprintln(w, "Reverted")
	}
	_, _ = fmt.Fprintf(w, "Output: %s\n", hexutil.Encode(ret.Data))
	return nil
}
