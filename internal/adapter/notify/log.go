// Package notify delivers price-alert notifications.
package notify

import (
	"context"
	"log"

	"github.com/shopspring/decimal"

	"github.com/cardfolio/cardfolio-backend/internal/domain"
)

// LogSink writes alert notifications to the standard logger. It stands in
// for a push channel until one exists.
type LogSink struct{}

func NewLogSink() *LogSink {
	return &LogSink{}
}

func (s *LogSink) TargetReached(_ context.Context, h *domain.Holding, price decimal.Decimal) {
	target := "unset"
	if h.TargetAlertPrice != nil {
		target = h.TargetAlertPrice.String()
	}
	log.Printf("price alert: %q reached %s (target %s)", h.Name, price.String(), target)
}
