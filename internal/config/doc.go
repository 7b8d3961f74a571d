// Package config provides loading and environment overlay for the log
// ingestor's runtime configuration. It exposes a Default() baseline, file
// loading (JSON or YAML by extension), and a LOGINGESTOR_* env overlay.
//
// Example:
//
//	cfg, err := config.Load("/etc/logingestor.yaml")
//	if err != nil {
//	    cfg = config.Default()
//	}
//	config.FromEnv(&cfg)
package config
