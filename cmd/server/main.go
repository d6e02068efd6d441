package main

import (
	_ "taskflow/docs"
	"taskflow/internal/config"
	"taskflow/internal/server"
)

// @title           Task Manager API
// @version         1.0
// @description     Task tracking with simulated email notifications on assignment and status changes.

// @host      localhost:5000
// @BasePath  /

// @schemes http
func main() {
	cfg := config.Load()
	logger := cfg.NewLogger()

	s, err := server.Init(cfg, logger)
	if err != nil {
		logger.Fatalf("❌ Server initialization failed: %v", err)
	}

	logger.Printf("📧 Email automation: %s", emailMode(cfg))
	s.Run()
}

func emailMode(cfg *config.Config) string {
	if cfg.EmailDelay > 0 {
		return "active, " + cfg.EmailDelay.String() + " simulated delivery"
	}
	return "active, instant delivery"
}
