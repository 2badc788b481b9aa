// Package config loads environment-driven configuration structs.
//
// It combines godotenv (so local development can keep settings in a .env
// file) with caarlos0/env struct tag parsing. Every Config struct in this
// module declares its settings with `env` and `envDefault` tags and is
// loaded through Load or MustLoad at process start.
package config
