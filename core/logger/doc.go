// Package logger provides a structured logging facility based on Zap.
//
// The logger is configured through logger.Config (level and encoding).
// CLI commands use the console encoding for readable output; the report
// server typically runs with json encoding for aggregation.
//
// # Usage
//
//	l, err := logger.New(&cfg.Log)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer l.Sync()
//	l.Info("snapshot built", zap.String("fingerprint", fp))
package logger
