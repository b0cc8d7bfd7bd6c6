package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/matzehuels/slicer/internal/cli"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	c := cli.New(os.Stdout, os.Stderr, cli.LogInfo)
	err := c.RootCommand().ExecuteContext(ctx)
	if err != nil && !cli.IsSilent(err) && cli.ExitCode(err) != cli.ExitCancelled {
		fmt.Fprintln(os.Stderr, err)
	}
	if code := cli.ExitCode(err); code != cli.ExitOK {
		cancel()
		os.Exit(code)
	}
}
