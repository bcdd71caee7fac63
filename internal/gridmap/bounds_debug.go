//go:build gridmapdebug

package gridmap

// boundsChecks enables per-access index validation. Build with
// -tags gridmapdebug to turn it on.
const boundsChecks = true
