// Package config provides configuration management for the warehouse.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application
// settings, divided into subsections:
//   - Pipeline: dataset paths, review limit, skip flags, reference date,
//     snapshot cache location
//   - Database / Postgres / Mongo: import target connections
//   - Storage: S3/MinIO credentials and bucket settings
//   - Server: snapshot report HTTP server settings
//   - Log: logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Pipeline.ReviewLimit)
package config
