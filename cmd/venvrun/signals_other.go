//go:build !unix

package main

import "os"

var swallowed = []os.Signal{os.Interrupt}
