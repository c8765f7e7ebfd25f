package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/cetacean-eda/internal/domain"
)

// ObservationCleaner implements Transformer using the domain cleaning rules.
type ObservationCleaner struct {
	window domain.Window
	logger *slog.Logger
}

// NewCleaner creates an ObservationCleaner keeping years inside window.
func NewCleaner(window domain.Window, logger *slog.Logger) *ObservationCleaner {
	return &ObservationCleaner{
		window: window,
		logger: logger,
	}
}

func (c *ObservationCleaner) Transform(ctx context.Context, raw domain.RawTable) (domain.Table, domain.CleanStats, error) {
	if err := ctx.Err(); err != nil {
		return domain.Table{}, domain.CleanStats{}, err
	}

	cleaned, stats := domain.CleanTable(raw, c.window)

	for _, reason := range domain.DropReasons {
		if n := stats.Dropped[reason]; n > 0 {
			c.logger.Debug("rows dropped", "reason", reason, "rows", n)
		}
	}
	c.logger.Info("table cleaned",
		"loaded", stats.Loaded,
		"kept", stats.Kept,
		"dropped", stats.TotalDropped(),
		"window", []int{c.window.MinYear, c.window.MaxYear},
	)
	return cleaned, stats, nil
}
