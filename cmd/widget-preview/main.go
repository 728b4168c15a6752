// Command widget-preview loads a bundle through the storefront app proxy and
// prints the widget markup a product page would mount.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"bundle-discount-layer/internal/application/widget"
	"bundle-discount-layer/internal/domain"
	"bundle-discount-layer/internal/infrastructure/storefront"
	"bundle-discount-layer/internal/ports"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type previewConfig struct {
	StoreURL  string
	ProxyPath string
	Shop      string
	BundleID  string
}

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		logger.Warn().Msg("No .env file found, using environment variables")
	}

	cfg := previewConfig{
		StoreURL:  os.Getenv("STOREFRONT_URL"),
		ProxyPath: os.Getenv("APP_PROXY_PATH"),
		Shop:      os.Getenv("SHOP_DOMAIN"),
		BundleID:  os.Getenv("BUNDLE_ID"),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdout, logger); err != nil {
		logger.Fatal().Err(err).Msg("Failed to preview widget")
	}
}

func run(ctx context.Context, cfg previewConfig, out io.Writer, logger zerolog.Logger) error {
	if cfg.BundleID == "" {
		return fmt.Errorf("BUNDLE_ID is required")
	}

	client, err := storefront.New(storefront.Config{
		StoreURL:  cfg.StoreURL,
		ProxyPath: cfg.ProxyPath,
		Shop:      cfg.Shop,
	})
	if err != nil {
		return fmt.Errorf("failed to create storefront client: %w", err)
	}

	session := widget.NewSession(cfg.BundleID, silentAnalytics{client}, logger)
	if !session.Load(ctx) {
		return fmt.Errorf("bundle %s could not be loaded", cfg.BundleID)
	}

	markup, err := session.Render()
	if err != nil {
		return fmt.Errorf("failed to render widget: %w", err)
	}

	preview := session.Preview()
	logger.Info().
		Str("bundle_id", cfg.BundleID).
		Str("original", preview.OriginalText).
		Str("total", preview.TotalText).
		Bool("discounted", preview.Discounted).
		Msg("Widget preview rendered")

	_, err = io.WriteString(out, markup+"\n")
	return err
}

// silentAnalytics keeps previews out of the merchant's widget analytics
type silentAnalytics struct {
	ports.StorefrontAPI
}

func (silentAnalytics) SendAnalytics(context.Context, domain.AnalyticsEvent) error {
	return nil
}
