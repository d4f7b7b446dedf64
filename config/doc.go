// Package config loads and validates configuration.
//
// Viper reads a YAML file and the environment; an optional .env file is
// loaded through godotenv. Files are looked up in ./cmd/<service>/,
// ./config/ and the working directory unless an explicit path is given.
//
//	var cfg app.Config
//	err := config.LoadConfig("datafixture", &cfg, config.WithConfigFile(path))
//
// Every leaf field of the target struct can be overridden from the
// environment: database.dsn is read from DATAFIXTURE_DATABASE_DSN, then
// DATABASE_DSN.
package config
