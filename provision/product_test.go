package provision_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/studiokit/entitlements/provision"
)

func intPtr(v int) *int { return &v }

func durPtr(d time.Duration) *time.Duration { return &d }

func timePtr(t time.Time) *time.Time { return &t }

func TestProduct_Validate(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("valid relative-duration product", func(t *testing.T) {
		t.Parallel()
		p := provision.Product{
			ID:          "prod_1",
			Category:    provision.CategoryMulti,
			UsageBudget: intPtr(10),
			Duration:    durPtr(90 * 24 * time.Hour),
		}
		assert.NoError(t, p.Validate(now))
	})

	t.Run("valid fixed-expiry product", func(t *testing.T) {
		t.Parallel()
		p := provision.Product{
			ID:        "prod_2",
			Category:  provision.CategoryUnlimited,
			ExpiresAt: timePtr(now.Add(30 * 24 * time.Hour)),
		}
		assert.NoError(t, p.Validate(now))
	})

	t.Run("unknown category rejected", func(t *testing.T) {
		t.Parallel()
		p := provision.Product{ID: "prod_3", Category: "vip", Duration: durPtr(time.Hour)}
		err := p.Validate(now)
		assert.ErrorIs(t, err, provision.ErrInvalidProductConfig)
		assert.Contains(t, err.Error(), "category")
	})

	t.Run("multi-pass without budget rejected", func(t *testing.T) {
		t.Parallel()
		p := provision.Product{
			ID:       "prod_4",
			Category: provision.CategoryMultiPass,
			Duration: durPtr(time.Hour),
		}
		err := p.Validate(now)
		assert.ErrorIs(t, err, provision.ErrInvalidProductConfig)
		assert.Contains(t, err.Error(), "usage budget")
	})

	t.Run("non-positive budget rejected", func(t *testing.T) {
		t.Parallel()
		p := provision.Product{
			ID:          "prod_5",
			Category:    provision.CategoryMulti,
			UsageBudget: intPtr(0),
			Duration:    durPtr(time.Hour),
		}
		assert.ErrorIs(t, p.Validate(now), provision.ErrInvalidProductConfig)
	})

	t.Run("fixed expiry in the past rejected", func(t *testing.T) {
		t.Parallel()
		p := provision.Product{
			ID:        "prod_6",
			Category:  provision.CategorySingle,
			ExpiresAt: timePtr(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)),
		}
		err := p.Validate(now)
		assert.ErrorIs(t, err, provision.ErrInvalidProductConfig)
		assert.Contains(t, err.Error(), "in the past")
	})

	t.Run("no validity policy rejected", func(t *testing.T) {
		t.Parallel()
		p := provision.Product{ID: "prod_7", Category: provision.CategorySingle}
		err := p.Validate(now)
		assert.ErrorIs(t, err, provision.ErrInvalidProductConfig)
		assert.Contains(t, err.Error(), "neither")
	})

	t.Run("non-positive duration rejected", func(t *testing.T) {
		t.Parallel()
		p := provision.Product{
			ID:       "prod_8",
			Category: provision.CategorySingle,
			Duration: durPtr(-time.Hour),
		}
		assert.ErrorIs(t, p.Validate(now), provision.ErrInvalidProductConfig)
	})

	t.Run("single does not require a budget", func(t *testing.T) {
		t.Parallel()
		p := provision.Product{
			ID:       "prod_9",
			Category: provision.CategorySingle,
			Duration: durPtr(time.Hour),
		}
		assert.NoError(t, p.Validate(now))
	})
}
