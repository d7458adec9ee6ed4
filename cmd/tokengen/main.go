// Command tokengen issues bearer tokens accepted as operation origins.
package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/blogchain/internal/auth"
	"github.com/blogchain/internal/config"
	"github.com/blogchain/internal/models"
	"github.com/blogchain/pkg/logger"
)

func main() {
	var account string
	var ttl time.Duration
	flag.StringVar(&account, "account", "", "account the token signs for")
	flag.DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log := logger.New(config.LogConfig{Level: "info", Format: "pretty"})
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log := logger.New(cfg.Log)

	if account == "" {
		log.Fatal().Msg("-account is required")
	}

	a, err := auth.NewJWTAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.Issuer)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create authenticator")
	}

	token, err := a.Issue(models.AccountID(account), ttl)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to issue token")
	}
	fmt.Println(token)
}
