package main

import (
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/regalflowers/storefront-BE/api"
	"github.com/regalflowers/storefront-BE/internal/backend"
	"github.com/regalflowers/storefront-BE/internal/session"
	"github.com/regalflowers/storefront-BE/internal/util"
	"github.com/rs/zerolog"

	"github.com/rs/zerolog/log"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load configurations
	config, err := util.LoadConfig("./app.env")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config file 😣")
	}

	log.Info().Msg("configurations loaded successfully ✅")

	redisDb := redis.NewClient(&redis.Options{
		Addr:     config.RedisServerAddress,
		Password: "", // no password set
		DB:       0,  // use default DB
	})

	sessionStore := session.NewStore(redisDb)

	backendClient := backend.NewClient(config.BackendBaseURL, config.BackendTimeout)
	log.Info().Str("base_url", config.BackendBaseURL).Msg("commerce backend client created ✅")

	runHTTPServer(&config, sessionStore, backendClient)
}

func runHTTPServer(config *util.Config, sessionStore *session.Store, backendClient *backend.Client) {
	server, err := api.NewServer(config, sessionStore, backendClient)

	if err != nil {
		log.Fatal().Err(err).Msg("failed to create HTTP server 😣")
	}

	// The card gateway callback listens on its own port so the
	// shopper-facing API can stay behind the CORS policy.
	webhookRouter := server.SetupWebhookRouter()
	go func() {
		if err := webhookRouter.Run(config.WebhookServerAddress); err != nil {
			log.Fatal().Err(err).Msg("failed to start webhook server 😣")
		}
	}()

	err = server.Start(config.HTTPServerAddress)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to start HTTP server 😣")
	}
}
