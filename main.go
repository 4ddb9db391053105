package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"

	"casinobot/cmd"
	"casinobot/database"
)

func main() {
	// Handle graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if len(os.Args) > 1 {
		if err := runSubcommand(ctx, os.Args[1], os.Args[2:]); err != nil {
			log.Fatalf("%s failed: %v", os.Args[1], err)
		}
		return
	}

	// Run the application
	if err := cmd.Run(ctx); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func runSubcommand(ctx context.Context, name string, args []string) error {
	switch name {
	case "migrate":
		return handleMigrationCommand(args)
	case "adjust-balance":
		if len(args) != 2 {
			return fmt.Errorf("usage: casinobot adjust-balance <discord-id> <delta>")
		}
		return cmd.AdjustBalance(ctx, args[0], args[1])
	case "yoomoney-token":
		code := ""
		if len(args) > 0 {
			code = args[0]
		}
		return cmd.YooMoneyToken(ctx, code)
	default:
		return fmt.Errorf("unknown command: %s", name)
	}
}

func handleMigrationCommand(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: casinobot migrate [up|down|status] [args...]")
	}

	switch args[0] {
	case "up":
		return database.MigrateUp()
	case "down":
		steps := "1"
		if len(args) > 1 {
			steps = args[1]
		}
		return database.MigrateDown(steps)
	case "status":
		return database.MigrateStatus()
	default:
		return fmt.Errorf("unknown migration command: %s", args[0])
	}
}
