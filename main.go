package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"ecommerce_automation/presentation/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, os.Args[1:], cli.Options{})
	stop()
	os.Exit(code)
}
