package provision_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studiokit/entitlements/provision"
)

func TestMapCategory(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		product       provision.Product
		wantKind      provision.Kind
		wantRemaining *int
	}{
		{
			name:          "single maps to single with one use",
			product:       provision.Product{Category: provision.CategorySingle},
			wantKind:      provision.KindSingle,
			wantRemaining: intPtr(1),
		},
		{
			name:          "multi-pass keeps its budget",
			product:       provision.Product{Category: provision.CategoryMultiPass, UsageBudget: intPtr(20)},
			wantKind:      provision.KindMultiPass,
			wantRemaining: intPtr(20),
		},
		{
			name:          "multi maps to clip-card with its budget",
			product:       provision.Product{Category: provision.CategoryMulti, UsageBudget: intPtr(10)},
			wantKind:      provision.KindClipCard,
			wantRemaining: intPtr(10),
		},
		{
			name:          "unlimited maps to monthly with no counter",
			product:       provision.Product{Category: provision.CategoryUnlimited},
			wantKind:      provision.KindMonthly,
			wantRemaining: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			kind, remaining := provision.MapCategory(tt.product)
			assert.Equal(t, tt.wantKind, kind)
			if tt.wantRemaining == nil {
				assert.Nil(t, remaining)
			} else {
				require.NotNil(t, remaining)
				assert.Equal(t, *tt.wantRemaining, *remaining)
			}
		})
	}

	t.Run("remaining does not alias the catalog value", func(t *testing.T) {
		t.Parallel()
		budget := 10
		p := provision.Product{Category: provision.CategoryMulti, UsageBudget: &budget}

		_, remaining := provision.MapCategory(p)
		require.NotNil(t, remaining)
		*remaining--
		assert.Equal(t, 10, budget)
	})
}
