package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/arthur-debert/qcd/cmd/qcd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := qcd.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
