//go:build !gridmapdebug

package gridmap

const boundsChecks = false
