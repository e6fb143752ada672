package commands

import (
	"context"
	"uwbtrack/config"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func RunInit(ctx context.Context, cfg *config.Config) {
	if err := cfg.Save(); err != nil {
		log.Fatalf("Failed to write config: %v", err)
	}
	log.Info("Wrote default config")
}
