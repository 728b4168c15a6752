package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bundle-discount-layer/internal/domain"
	"bundle-discount-layer/internal/ports"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// AnalyticsService records storefront widget beacons
type AnalyticsService struct {
	repository ports.Repository
	metrics    ports.Metrics
	logger     zerolog.Logger
}

// NewAnalyticsService creates a new analytics service
func NewAnalyticsService(repository ports.Repository, metrics ports.Metrics, logger zerolog.Logger) *AnalyticsService {
	return &AnalyticsService{
		repository: repository,
		metrics:    metrics,
		logger:     logger,
	}
}

// Record validates and stores a widget beacon
func (s *AnalyticsService) Record(ctx context.Context, shop string, event domain.AnalyticsEvent) (*domain.AnalyticsEvent, error) {
	if !event.Type.IsKnown() {
		return nil, fmt.Errorf("unknown event type %q: %w", event.Type, domain.ErrInvalidEvent)
	}
	if strings.TrimSpace(event.BundleID) == "" {
		return nil, fmt.Errorf("bundle id is required: %w", domain.ErrInvalidEvent)
	}

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}
	event.Shop = shop

	if s.metrics != nil {
		s.metrics.WidgetEvent(string(event.Type))
	}

	if err := s.repository.LogAnalyticsEvent(ctx, &event); err != nil {
		s.logger.Error().Err(err).Str("shop", shop).Str("type", string(event.Type)).Msg("Failed to log analytics event")
		return nil, fmt.Errorf("failed to log analytics event: %w", err)
	}
	return &event, nil
}
