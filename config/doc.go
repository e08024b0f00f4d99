// Package config loads shopfront configuration from a YAML file and
// SHOPFRONT_ prefixed environment variables.
//
// Usage:
//
//	cfg, err := config.Load("./config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	addr := cfg.Server.Address()
//
// Environment variables override file values, with dots replaced by
// underscores:
//
//	SHOPFRONT_AUTH_JWT_ACCESS_SECRET=...
//	SHOPFRONT_DATA_MONGODB_URI=mongodb://localhost:27017
package config
