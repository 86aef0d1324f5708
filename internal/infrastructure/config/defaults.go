package config

import "time"

const (
	DefaultShutdownTimeout = 10 * time.Second
	DefaultPGMaxConns      = 5
	DefaultPGMinConns      = 1
	DefaultPGReadyWait     = 15 * time.Second
	DefaultPGIdleTime      = 2 * time.Minute
	DefaultPGHealthCheck   = 30 * time.Second
)
