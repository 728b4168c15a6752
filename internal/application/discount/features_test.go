package discount_test

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"bundle-discount-layer/internal/application/discount"
	"bundle-discount-layer/internal/domain"

	"github.com/cucumber/godog"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type checkoutTestContext struct {
	bundles  []domain.BundleConfig
	lines    []domain.CartLine
	subtotal decimal.Decimal
	result   domain.FunctionResult
}

func (c *checkoutTestContext) reset() {
	c.bundles = nil
	c.lines = nil
	c.subtotal = decimal.Zero
	c.result = domain.FunctionResult{}
}

func (c *checkoutTestContext) theShopHasBundles(table *godog.Table) error {
	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		if len(row.Cells) != 4 {
			return fmt.Errorf("expected 4 columns, got %d", len(row.Cells))
		}

		var products []domain.BundleProduct
		for _, entry := range strings.Split(row.Cells[3].Value, ",") {
			id, qty, ok := strings.Cut(strings.TrimSpace(entry), ":")
			if !ok {
				return fmt.Errorf("invalid product entry %q", entry)
			}
			products = append(products, product(id, qty))
		}

		c.bundles = append(c.bundles, bundle(
			strings.TrimSpace(row.Cells[0].Value),
			domain.PricingOption(row.Cells[1].Value),
			row.Cells[2].Value,
			products...,
		))
	}
	return nil
}

func (c *checkoutTestContext) aCartWithSubtotal(subtotal string, table *godog.Table) error {
	amount, err := decimal.NewFromString(subtotal)
	if err != nil {
		return err
	}
	c.subtotal = amount

	for i, row := range table.Rows {
		if i == 0 {
			continue
		}
		qty, err := strconv.Atoi(row.Cells[1].Value)
		if err != nil {
			return err
		}
		c.lines = append(c.lines, line(row.Cells[0].Value, qty))
	}
	return nil
}

func (c *checkoutTestContext) theCheckoutFunctionRuns() error {
	snapshot := domain.NewCartSnapshot(c.lines, c.subtotal)
	calculator := discount.NewCalculator(nil, zerolog.Nop())
	c.result = discount.NewSelector(calculator, zerolog.Nop()).SelectBest(c.bundles, snapshot, c.lines, c.subtotal)
	return nil
}

func (c *checkoutTestContext) noDiscountIsApplied() error {
	if !c.result.IsEmpty() {
		return fmt.Errorf("expected no discount, got %q", c.result.Discounts[0].BundleName)
	}
	return nil
}

func (c *checkoutTestContext) theDiscountOfIsApplied(name, amount string) error {
	if len(c.result.Discounts) != 1 {
		return fmt.Errorf("expected one discount, got %d", len(c.result.Discounts))
	}
	d := c.result.Discounts[0]
	if d.BundleName != name {
		return fmt.Errorf("expected bundle %q, got %q", name, d.BundleName)
	}
	if got := d.DiscountAmount.StringFixed(2); got != amount {
		return fmt.Errorf("expected amount %s, got %s", amount, got)
	}
	return nil
}

func (c *checkoutTestContext) theDiscountMessageIs(message string) error {
	if c.result.IsEmpty() {
		return errors.New("no discount applied")
	}
	if got := c.result.Discounts[0].Message; got != message {
		return fmt.Errorf("expected message %q, got %q", message, got)
	}
	return nil
}

func (c *checkoutTestContext) cartLinesAreTargeted(n int) error {
	if c.result.IsEmpty() {
		return errors.New("no discount applied")
	}
	if got := len(c.result.Discounts[0].Targets); got != n {
		return fmt.Errorf("expected %d targets, got %d", n, got)
	}
	return nil
}

func InitializeCheckoutScenario(ctx *godog.ScenarioContext) {
	tc := &checkoutTestContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		tc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^the shop has bundles$`, tc.theShopHasBundles)
	ctx.Step(`^a cart with subtotal (\d+\.\d+)$`, tc.aCartWithSubtotal)

	// When steps
	ctx.Step(`^the checkout function runs$`, tc.theCheckoutFunctionRuns)

	// Then steps
	ctx.Step(`^no discount is applied$`, tc.noDiscountIsApplied)
	ctx.Step(`^the "([^"]*)" discount of (\d+\.\d+) is applied$`, tc.theDiscountOfIsApplied)
	ctx.Step(`^the discount message is "([^"]*)"$`, tc.theDiscountMessageIs)
	ctx.Step(`^(\d+) cart lines are targeted$`, tc.cartLinesAreTargeted)
}

func TestCheckoutFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeCheckoutScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../../../features/checkout.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
