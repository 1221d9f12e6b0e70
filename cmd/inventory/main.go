// Command inventory lists filesystem trees in the order a backup tool needs
// them: every directory before its contents, one line per object.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

const progName = "inventory"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "** %s: %v\n", progName, err)
		os.Exit(1)
	}
}
