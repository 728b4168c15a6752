package widget

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// InsertMode is where the widget goes relative to a located element
type InsertMode string

const (
	InsertBefore  InsertMode = "before"
	InsertAfter   InsertMode = "after"
	InsertPrepend InsertMode = "prepend"
	InsertAppend  InsertMode = "append"
)

// Target is one candidate mount point of the widget
type Target struct {
	Locator string
	Mode    InsertMode
}

// DefaultTargets covers the common theme layouts, most specific first
var DefaultTargets = []Target{
	{Locator: "[data-bundle-widget]", Mode: InsertAppend},
	{Locator: "form[action*='/cart/add']", Mode: InsertAfter},
	{Locator: ".product-form", Mode: InsertAfter},
	{Locator: ".product__info-container", Mode: InsertAppend},
	{Locator: ".product-single__meta", Mode: InsertAppend},
	{Locator: "main", Mode: InsertAppend},
}

// Document is the page the widget is mounted into
type Document interface {
	Exists(locator string) bool
	Insert(locator string, mode InsertMode, content string) error
	// Mutations signals changes to the page structure
	Mutations() <-chan struct{}
}

// InjectorConfig bounds how long the injector looks for a mount point
type InjectorConfig struct {
	MaxAttempts   int
	RetryDelay    time.Duration
	ObserveWindow time.Duration
}

// DefaultInjectorConfig returns the standard retry and observation bounds
func DefaultInjectorConfig() InjectorConfig {
	return InjectorConfig{
		MaxAttempts:   10,
		RetryDelay:    200 * time.Millisecond,
		ObserveWindow: 10 * time.Second,
	}
}

// Injector mounts content at the first matching target
type Injector struct {
	targets []Target
	config  InjectorConfig
	logger  zerolog.Logger
}

// NewInjector creates an injector over an ordered list of targets
func NewInjector(targets []Target, config InjectorConfig, logger zerolog.Logger) *Injector {
	if len(targets) == 0 {
		targets = DefaultTargets
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 1
	}
	return &Injector{
		targets: targets,
		config:  config,
		logger:  logger,
	}
}

// Inject retries a bounded number of times, then watches page mutations for
// the observation window. It gives up without an error when no target shows up.
func (i *Injector) Inject(ctx context.Context, doc Document, content string) (Target, bool) {
	for attempt := 1; attempt <= i.config.MaxAttempts; attempt++ {
		if target, ok := i.tryOnce(doc, content); ok {
			return target, true
		}
		if attempt == i.config.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return Target{}, false
		case <-time.After(i.config.RetryDelay):
		}
	}

	if i.config.ObserveWindow <= 0 {
		i.logger.Debug().Msg("No mount point found for bundle widget")
		return Target{}, false
	}

	window := time.NewTimer(i.config.ObserveWindow)
	defer window.Stop()

	mutations := doc.Mutations()
	for {
		select {
		case <-ctx.Done():
			return Target{}, false
		case <-window.C:
			i.logger.Debug().Msg("No mount point appeared for bundle widget")
			return Target{}, false
		case _, open := <-mutations:
			if !open {
				mutations = nil
				continue
			}
			if target, ok := i.tryOnce(doc, content); ok {
				return target, true
			}
		}
	}
}

func (i *Injector) tryOnce(doc Document, content string) (Target, bool) {
	for _, target := range i.targets {
		if !doc.Exists(target.Locator) {
			continue
		}
		if err := doc.Insert(target.Locator, target.Mode, content); err != nil {
			i.logger.Debug().Err(err).Str("locator", target.Locator).Msg("Failed to mount bundle widget")
			continue
		}
		return target, true
	}
	return Target{}, false
}
