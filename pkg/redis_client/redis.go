package redis_client

import (
	"context"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/travigo/journeyplanner/pkg/util"
)

// Client is nil until Connect succeeds, route caching is disabled without it
var Client *redis.Client

const defaultDatabase = 0

// Connect opens the redis connection when TRAVIGO_REDIS_ADDRESS is set
func Connect(ctx context.Context) error {
	env := util.GetEnvironmentVariables()

	address := env["TRAVIGO_REDIS_ADDRESS"]
	if address == "" {
		log.Info().Msg("TRAVIGO_REDIS_ADDRESS not set, route caching disabled")
		return nil
	}

	database := defaultDatabase
	if env["TRAVIGO_REDIS_DATABASE"] != "" {
		if n, err := strconv.Atoi(env["TRAVIGO_REDIS_DATABASE"]); err == nil {
			database = n
		} else {
			return err
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     address,
		Password: env["TRAVIGO_REDIS_PASSWORD"],
		DB:       database,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return err
	}

	Client = client

	log.Info().Str("address", address).Int("database", database).Msg("Connected to redis")

	return nil
}
