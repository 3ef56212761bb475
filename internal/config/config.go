package config

import (
	"os"
)

type Config struct {
	Port string

	// StorageBackend selects "postgres" or "memory".
	StorageBackend string

	PostgresAddress  string
	PostgresPort     string
	PostgresDB       string
	PostgresUsername string
	PostgresPassword string

	// AMQPAddress is empty when event publishing is disabled.
	AMQPAddress  string
	AMQPExchange string
	AMQPQueue    string
}

func ProcessEnvironmentVariables() (*Config, error) {
	// In all cases the default behavior should be for the docker compose setup
	env := Config{
		Port:             "9446",
		StorageBackend:   "postgres",
		PostgresAddress:  "localhost",
		PostgresPort:     "5433",
		PostgresDB:       "postgres",
		PostgresUsername: "postgres",
		PostgresPassword: "testpassword",
		AMQPExchange:     "ledger.events",
		AMQPQueue:        "ledger.rollover",
	}

	envPort := os.Getenv("PORT")
	envStorageBackend := os.Getenv("STORAGE_BACKEND")
	envPostgresAddress := os.Getenv("POSTGRES_ADDRESS")
	envPostgresPort := os.Getenv("POSTGRES_PORT")
	envPostgresDB := os.Getenv("POSTGRES_DB")
	envPostgresUsername := os.Getenv("POSTGRES_USERNAME")
	envPostgresPassword := os.Getenv("POSTGRES_PASSWORD")
	envAMQPAddress := os.Getenv("AMQP_ADDRESS")
	envAMQPExchange := os.Getenv("AMQP_EXCHANGE")
	envAMQPQueue := os.Getenv("AMQP_QUEUE")

	if len(envPort) != 0 {
		env.Port = envPort
	}

	if len(envStorageBackend) != 0 {
		env.StorageBackend = envStorageBackend
	}

	if len(envPostgresAddress) != 0 {
		env.PostgresAddress = envPostgresAddress
	}

	if len(envPostgresPort) != 0 {
		env.PostgresPort = envPostgresPort
	}

	if len(envPostgresDB) != 0 {
		env.PostgresDB = envPostgresDB
	}

	if len(envPostgresUsername) != 0 {
		env.PostgresUsername = envPostgresUsername
	}

	if len(envPostgresPassword) != 0 {
		env.PostgresPassword = envPostgresPassword
	}

	if len(envAMQPAddress) != 0 {
		env.AMQPAddress = envAMQPAddress
	}

	if len(envAMQPExchange) != 0 {
		env.AMQPExchange = envAMQPExchange
	}

	if len(envAMQPQueue) != 0 {
		env.AMQPQueue = envAMQPQueue
	}

	return &env, nil
}
