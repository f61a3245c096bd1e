package node

import "fmt"

// ProtocolViolation is the typed value carried by a panic raised when a
// peer's message violates the protocol in a way that, in production,
// would indicate Byzantine behavior or data corruption: a forged
// proposer, a bad signature, a proposal extending nothing known, or a
// vote for an unknown block. Callers that want to simulate a Byzantine
// node being halted (a test harness) can recover() and type-assert this
// value; normal operation lets it propagate and halt the node.
type ProtocolViolation struct {
	Reason string
}

func (e ProtocolViolation) Error() string {
	return fmt.Sprintf("protocol violation: %s", e.Reason)
}

// violate panics with a ProtocolViolation built from the given format.
// Used at every point spec.md §4.9 classifies as fatal.
func violate(format string, args ...any) {
	panic(ProtocolViolation{Reason: fmt.Sprintf(format, args...)})
}
