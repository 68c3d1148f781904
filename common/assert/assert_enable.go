//go:build assert

package assert

// Enable turns on the expensive invariant checks: leaked transactions and gas accounting of
// popped frames. Build with `-tags assert` in tests and debug binaries.
const Enable = true
