package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/ougirez/coe-afectaciones/internal/commands"
	"github.com/ougirez/coe-afectaciones/internal/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err := commands.New().ExecuteContext(ctx)
	logger.Sync()
	stop()

	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, color.RedString("error: %s", err.Error()))
		os.Exit(1)
	}
}
