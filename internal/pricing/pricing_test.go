package pricing

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimateMatchesTariff(t *testing.T) {
	distances := []float64{0, 1, 5.5, 10, 12.3, 250}

	for _, ht := range HouseTypes() {
		for _, km := range distances {
			got, err := Estimate(ht.ID, km)
			require.NoError(t, err)

			want := ht.BasePrice.Add(decimal.NewFromFloat(km).Mul(ht.RatePerKm))
			assert.True(t, got.Equal(want), "%s at %v km: got %s, want %s", ht.ID, km, got, want)
		}
	}
}

func TestEstimateExamples(t *testing.T) {
	got, err := Estimate(TwoBedroom, 10)
	require.NoError(t, err)
	assert.Equal(t, "65000", got.String())

	got, err = Estimate(OneBedroom, 12.3)
	require.NoError(t, err)
	assert.Equal(t, "54600", got.String())
	assert.Equal(t, 54600.0, got.InexactFloat64())
}

func TestEstimateErrors(t *testing.T) {
	_, err := Estimate("mansion", 10)
	assert.True(t, errors.Is(err, ErrUnknownHouseType))

	_, err = Estimate(Studio, -1)
	assert.True(t, errors.Is(err, ErrInvalidDistance))
}

func TestHouseTypesIsACopy(t *testing.T) {
	types := HouseTypes()
	require.Len(t, types, 4)
	types[0].Name = "changed"
	assert.Equal(t, "Bedsitter", Name(Bedsitter))
}

func TestFormatKES(t *testing.T) {
	tests := []struct {
		amount decimal.Decimal
		want   string
	}{
		{decimal.NewFromInt(54600), "Ksh 54,600"},
		{decimal.NewFromInt(1000000), "Ksh 1,000,000"},
		{decimal.NewFromInt(999), "Ksh 999"},
		{decimal.RequireFromString("1234.5"), "Ksh 1,234.50"},
		{decimal.Zero, "Ksh 0"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatKES(tt.amount))
	}
}

func TestEstimatedDurationHours(t *testing.T) {
	assert.Equal(t, 0, EstimatedDurationHours(0))
	assert.Equal(t, 1, EstimatedDurationHours(12.3))
	assert.Equal(t, 1, EstimatedDurationHours(30))
	assert.Equal(t, 2, EstimatedDurationHours(30.1))
}
