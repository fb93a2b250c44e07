// Command dyntype inspects schema documents of dynamic device types: it
// prints layouts, emits device source, round trips values through a device
// arena and browses types interactively.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
