package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestTotal_EmptyCartIsZero(t *testing.T) {
	t.Parallel()

	total, err := Total(nil, decimal.Zero)
	require.NoError(t, err)
	assert.True(t, total.IsZero(), "got %s", total)
}

func TestTotal_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		lines    []Line
		discount decimal.Decimal
		want     string
	}{
		{
			name:     "single line no discount",
			lines:    []Line{{ProductID: 1, Quantity: 3, UnitPrice: dec("10.50")}},
			discount: decimal.Zero,
			want:     "31.50",
		},
		{
			name: "two lines no discount",
			lines: []Line{
				{ProductID: 1, Quantity: 2, UnitPrice: dec("100")},
				{ProductID: 2, Quantity: 1, UnitPrice: dec("49.99")},
			},
			discount: decimal.Zero,
			want:     "249.99",
		},
		{
			name:     "loyalty discount below threshold",
			lines:    []Line{{ProductID: 1, Quantity: 1, UnitPrice: dec("1000")}},
			discount: dec("0.02"),
			want:     "980.00",
		},
		{
			name:     "exactly 5000 gets no volume reduction",
			lines:    []Line{{ProductID: 1, Quantity: 2, UnitPrice: dec("2500")}},
			discount: decimal.Zero,
			want:     "5000.00",
		},
		{
			name:     "just over 5000 gets the extra 5 percent",
			lines:    []Line{{ProductID: 1, Quantity: 1, UnitPrice: dec("5000.01")}},
			discount: decimal.Zero,
			want:     "4750.01",
		},
		{
			name:     "worked example from the order flow",
			lines:    []Line{{ProductID: 1, Quantity: 2, UnitPrice: dec("3000")}},
			discount: decimal.Zero,
			want:     "5700.00",
		},
		{
			name:     "loyalty then volume stack",
			lines:    []Line{{ProductID: 1, Quantity: 6, UnitPrice: dec("1000")}},
			discount: dec("0.02"),
			want:     "5586.00",
		},
		{
			name:     "full discount",
			lines:    []Line{{ProductID: 1, Quantity: 4, UnitPrice: dec("25")}},
			discount: dec("1"),
			want:     "0.00",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			total, err := Total(tt.lines, tt.discount)
			require.NoError(t, err)
			assert.True(t, dec(tt.want).Equal(total), "want %s, got %s", tt.want, total)
		})
	}
}

func TestTotal_InvalidDiscount(t *testing.T) {
	t.Parallel()

	lines := []Line{{ProductID: 1, Quantity: 1, UnitPrice: dec("10")}}

	for _, rate := range []string{"-0.01", "1.01"} {
		_, err := Total(lines, dec(rate))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidDiscount)
	}
}

func TestTotal_Idempotent(t *testing.T) {
	t.Parallel()

	lines := []Line{
		{ProductID: 1, Quantity: 3, UnitPrice: dec("19.99")},
		{ProductID: 2, Quantity: 7, UnitPrice: dec("4.25")},
	}

	first, err := Total(lines, dec("0.02"))
	require.NoError(t, err)
	second, err := Total(lines, dec("0.02"))
	require.NoError(t, err)

	assert.True(t, first.Equal(second))
}

func TestTotal_MonotonicInQuantity(t *testing.T) {
	t.Parallel()

	prev := decimal.Zero
	for qty := uint(1); qty <= 20; qty++ {
		total, err := Total([]Line{{ProductID: 1, Quantity: qty, UnitPrice: dec("300")}}, decimal.Zero)
		require.NoError(t, err)
		assert.True(t, total.GreaterThanOrEqual(prev), "qty %d: %s < %s", qty, total, prev)
		assert.False(t, total.IsNegative())
		prev = total
	}
}

func TestQualifiesForUpgrade(t *testing.T) {
	t.Parallel()

	assert.False(t, QualifiesForUpgrade(dec("5000")))
	assert.True(t, QualifiesForUpgrade(dec("5000.01")))
}
