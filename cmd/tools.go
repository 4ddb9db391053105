package cmd

import (
	"context"
	"fmt"
	"strconv"

	log "github.com/sirupsen/logrus"

	"casinobot/config"
	"casinobot/database"
	"casinobot/events"
	"casinobot/infrastructure/yoomoney"
	"casinobot/repository"
	"casinobot/service"
)

// AdjustBalance applies an operator balance change from the command line
func AdjustBalance(ctx context.Context, discordIDArg, deltaArg string) error {
	discordID, err := strconv.ParseInt(discordIDArg, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid discord id %q: %w", discordIDArg, err)
	}
	delta, err := strconv.ParseInt(deltaArg, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", deltaArg, err)
	}

	cfg, err := config.LoadWithoutValidation()
	if err != nil {
		return err
	}
	ConfigureLogging(cfg)
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	db, err := database.NewConnection(ctx, database.ConstructDatabaseURL(cfg.DatabaseURL, cfg.DatabaseName))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	users := service.NewUserService(repository.NewUnitOfWorkFactory(db, events.NewBus()), service.NewUserLocks())
	user, err := users.AdjustBalance(ctx, discordID, delta, true)
	if err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"discordID":  discordID,
		"delta":      delta,
		"newBalance": user.Balance,
	}).Info("Balance adjusted")
	return nil
}

// YooMoneyToken exchanges an authorization code for a wallet access token.
// Without a code it prints the URL that grants one.
func YooMoneyToken(ctx context.Context, code string) error {
	cfg, err := config.LoadWithoutValidation()
	if err != nil {
		return err
	}
	ConfigureLogging(cfg)
	if cfg.YooMoneyClientID == "" || cfg.YooMoneyRedirectURI == "" {
		return fmt.Errorf("YOOMONEY_CLIENT_ID and YOOMONEY_REDIRECT_URI are required")
	}

	client := yoomoney.NewClient(cfg, nil)
	if code == "" {
		fmt.Println("Open this URL, approve access and rerun with the code from the redirect:")
		fmt.Println(client.AuthorizeURL())
		return nil
	}

	token, err := client.ExchangeToken(ctx, code)
	if err != nil {
		return err
	}
	fmt.Printf("YOOMONEY_ACCESS_TOKEN=%s\n", token)
	return nil
}
