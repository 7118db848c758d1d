// cmd/taskhub/main.go
//
// Command taskhub serves and inspects the task tracker collections.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
