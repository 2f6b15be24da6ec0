package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"

	"github.com/ava-labs/srccache/cmd"
)

func main() {
	srccache, err := cmd.New(afero.NewOsFs())
	if err != nil {
		fmt.Printf("Failed to initialize the srccache command %s.\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srccache.ExecuteContext(ctx); err != nil {
		fmt.Printf("Unexpected error %s.\n", err)
		stop()
		os.Exit(1)
	}
}
