package application_test

import (
	"context"
	"testing"

	"bundle-discount-layer/internal/application"
	"bundle-discount-layer/internal/application/apptest"
	"bundle-discount-layer/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyticsService_Record(t *testing.T) {
	repo := apptest.NewRepository()
	metrics := apptest.NewMetrics()
	service := application.NewAnalyticsService(repo, metrics, zerolog.Nop())

	event, err := service.Record(context.Background(), testShop, domain.AnalyticsEvent{
		BundleID: "b1",
		Type:     domain.EventImpression,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, event.ID)
	assert.Equal(t, testShop, event.Shop)
	assert.False(t, event.OccurredAt.IsZero())
	require.Len(t, repo.Events, 1)
	assert.Equal(t, 1, metrics.Widget["impression"])
}

func TestAnalyticsService_RejectsInvalidEvents(t *testing.T) {
	repo := apptest.NewRepository()
	service := application.NewAnalyticsService(repo, nil, zerolog.Nop())

	_, err := service.Record(context.Background(), testShop, domain.AnalyticsEvent{BundleID: "b1", Type: "click"})
	assert.ErrorIs(t, err, domain.ErrInvalidEvent)

	_, err = service.Record(context.Background(), testShop, domain.AnalyticsEvent{Type: domain.EventAddToCart})
	assert.ErrorIs(t, err, domain.ErrInvalidEvent)

	assert.Empty(t, repo.Events)
}
