package health

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hellofresh/health-go/v5"
	"github.com/hellofresh/health-go/v5/checks/postgres"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
	"github.com/warung-alinaldi/pos-backend/internal/config"
)

const Version = "1.0.0"

func NewHealthHandler(cfg *config.Config) (*health.Health, error) {
	checks := []health.Config{
		{
			Name:      "database",
			Timeout:   3 * time.Second,
			SkipOnErr: false,
			Check: postgres.New(postgres.Config{
				DSN: cfg.Database.GetDSN(),
			}),
		},
		{
			Name:      "redis",
			Timeout:   2 * time.Second,
			SkipOnErr: false,
			Check: healthRedis.New(healthRedis.Config{
				DSN: cfg.RedisConnect.GetDSN(),
			}),
		},
	}

	if cfg.Scanner.Device != "" {
		checks = append(checks, health.Config{
			Name:      "scanner",
			Timeout:   time.Second,
			SkipOnErr: true,
			Check:     DeviceCheck(cfg.Scanner.Device),
		})
	}

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    cfg.Otel.ServiceName,
			Version: Version,
		}),
		health.WithSystemInfo(),
		health.WithChecks(checks...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}

// DeviceCheck reports whether the scanner device node is present. A missing
// scanner degrades the terminal but keeps manual entry working.
func DeviceCheck(path string) health.CheckFunc {
	return func(context.Context) error {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("scanner device unavailable: %w", err)
		}

		if info.IsDir() {
			return fmt.Errorf("scanner device %s is a directory", path)
		}

		return nil
	}
}
