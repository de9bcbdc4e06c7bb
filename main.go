package main

import (
	"fmt"
	"os"
	"runtime/debug"

	"skyrng/cmd"
	"skyrng/internal/log"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			log.Error("PANIC recovered", "error", r, "stack", string(debug.Stack()))
			fmt.Fprintf(os.Stderr, "skyrng crashed: %v\n", r)
			os.Exit(1)
		}
	}()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
