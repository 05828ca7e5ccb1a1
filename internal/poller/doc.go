// Package poller provides the HTTP fetch client used by initwait.
//
// This package is internal to initwait. [Client] issues a single GET per
// call and reports transport failures as data rather than as returned
// errors, so the caller's poll loop can classify them like any other
// outcome.
//
// Users of the initwait library should not need to interact with this
// package directly. The default fetcher is wired in by initwait.New.
package poller
