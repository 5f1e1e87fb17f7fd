// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

/*
Package config provides centralized configuration management for Thrive.

Configuration is layered with Koanf v2: built-in defaults, then an optional
YAML file, then environment variables. Only mapped environment variables are
read, so unrelated variables never leak into the configuration.

# Configuration File

The file is taken from CONFIG_PATH, or else the first of config.yaml,
config.yml, /etc/thrive/config.yaml and /etc/thrive/config.yml that exists.

	database:
	  driver: duckdb
	  path: /data/thrive.duckdb
	engine:
	  model_dir: /data/models
	  clusters: 5
	retrain:
	  interval: 24h

# Environment Variables

Database (DatabaseConfig):
  - DATABASE_DRIVER: duckdb or postgres (default: duckdb)
  - DUCKDB_PATH: Database file path (default: /data/thrive.duckdb)
  - DUCKDB_MAX_MEMORY: DuckDB memory limit (default: 1GB)
  - DATABASE_URL: PostgreSQL connection string
  - DATABASE_MAX_CONNS: PostgreSQL pool size (default: 10)

Engine (EngineConfig):
  - THRIVE_MODEL_DIR: Artifact directory (default: /data/models)
  - THRIVE_SEED: Seed for every random draw (default: 42)
  - THRIVE_CLUSTERS: Number of location segments (default: 5)
  - THRIVE_PERSIST_RESULTS: Upsert recommendations (default: true)

Retrain (RetrainConfig):
  - RETRAIN_ENABLED, RETRAIN_INTERVAL (default: 24h), RETRAIN_ON_STARTUP

Server (ServerConfig):
  - HTTP_HOST, HTTP_PORT (default: 8080), CORS_ORIGINS (comma-separated)

Logging (LoggingConfig):
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json or console (default: json)
  - LOG_CALLER: Include caller info (default: false)
*/
package config
