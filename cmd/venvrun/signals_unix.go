//go:build unix

package main

import (
	"os"
	"syscall"
)

// swallowed are the signals the launcher absorbs while the target runs.
var swallowed = []os.Signal{os.Interrupt, syscall.SIGTERM}
