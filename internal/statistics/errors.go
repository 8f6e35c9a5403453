package statistics

import "fmt"

// BootstrapError reports a bootstrap run that did not produce a trustworthy
// replicate set, either because too many draws were degenerate or because
// the run was canceled. The replicates that did complete are still
// returned alongside it and support a best-effort standard error.
type BootstrapError struct {
	Requested int
	Usable    int
	Failed    int
	Aborted   bool
	Err       error
}

func (e *BootstrapError) Error() string {
	state := "finished"
	if e.Aborted {
		state = "aborted"
	}
	return fmt.Sprintf("bootstrap %s with %d usable of %d requested replicates (%d degenerate): %v",
		state, e.Usable, e.Requested, e.Failed, e.Err)
}

func (e *BootstrapError) Unwrap() error {
	return e.Err
}
