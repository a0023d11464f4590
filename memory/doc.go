// Package memory is a volatile, in-process Burrow backend: accounts,
// queues, and messages live in nested insertion-ordered maps for the
// lifetime of the process. It never blocks, so Process, EventRaised, and
// Cancel are no-ops.
//
// Import it for its side effect (registering itself as "memory"):
//
//	import _ "github.com/burrowdb/burrow-go/memory"
package memory
