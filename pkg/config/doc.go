// Package config loads environment driven configuration structs.
//
// It wraps github.com/joho/godotenv (optional .env files) and
// github.com/caarlos0/env/v11 (struct tag parsing). Each configuration type
// is parsed once per process and cached; later Load calls for the same type
// return the cached copy.
//
//	var cfg twofactor.Config
//	if err := config.Load(&cfg); err != nil {
//	    log.Fatal(err)
//	}
//
// Call LoadEnv before the first Load to read custom .env files; otherwise
// ./.env is read if present.
package config
