package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/doeshing/vibe-go/internal/infrastructure/cli"
	"github.com/doeshing/vibe-go/internal/infrastructure/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	env, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintln(os.Stderr, "warning: ignoring malformed environment:", err)
	}

	root := cli.NewRootCmd(cli.Options{Env: env, Verbose: env.Debug})
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
