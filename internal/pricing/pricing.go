// Package pricing holds the house-type tariff table and the move price
// estimate derived from it.
package pricing

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// HouseType is one pricing tier.
type HouseType struct {
	ID          string
	Name        string
	Description string
	BasePrice   decimal.Decimal
	RatePerKm   decimal.Decimal
}

// House type ids.
const (
	Bedsitter  = "bedsitter"
	Studio     = "studio"
	OneBedroom = "one_bedroom"
	TwoBedroom = "two_bedroom"
)

var houseTypes = []HouseType{
	{Bedsitter, "Bedsitter", "Perfect for single room setups", decimal.NewFromInt(10000), decimal.NewFromInt(1000)},
	{Studio, "Studio", "Ideal for open-plan living", decimal.NewFromInt(20000), decimal.NewFromInt(1500)},
	{OneBedroom, "One Bedroom", "Suitable for small households", decimal.NewFromInt(30000), decimal.NewFromInt(2000)},
	{TwoBedroom, "Two Bedroom", "Great for families", decimal.NewFromInt(40000), decimal.NewFromInt(2500)},
}

// Errors returned by Estimate.
var (
	ErrUnknownHouseType = errors.New("unknown house type")
	ErrInvalidDistance  = errors.New("distance must be a non-negative number")
)

// HouseTypes returns the tiers in display order.
func HouseTypes() []HouseType {
	out := make([]HouseType, len(houseTypes))
	copy(out, houseTypes)
	return out
}

// Lookup returns the tier with the given id.
func Lookup(id string) (HouseType, bool) {
	for _, ht := range houseTypes {
		if ht.ID == id {
			return ht, true
		}
	}
	return HouseType{}, false
}

// Name returns the display name for a house type id, or the id itself.
func Name(id string) string {
	if ht, ok := Lookup(id); ok {
		return ht.Name
	}
	return id
}

// Estimate returns base + distance*rate for the house type, rounded to cents.
func Estimate(houseType string, distanceKm float64) (decimal.Decimal, error) {
	ht, ok := Lookup(houseType)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrUnknownHouseType, houseType)
	}
	if distanceKm < 0 || math.IsNaN(distanceKm) || math.IsInf(distanceKm, 0) {
		return decimal.Zero, ErrInvalidDistance
	}
	km := decimal.NewFromFloat(distanceKm)
	return ht.BasePrice.Add(km.Mul(ht.RatePerKm)).Round(2), nil
}

// EstimatedDurationHours is the rough driving time shown next to the route.
func EstimatedDurationHours(distanceKm float64) int {
	if distanceKm <= 0 {
		return 0
	}
	return int(math.Ceil(distanceKm / 30))
}

// FormatKES renders an amount as "Ksh 54,600" (cents only when non-zero).
func FormatKES(amount decimal.Decimal) string {
	return "Ksh " + groupThousands(amount.Round(2))
}

// FormatKESFloat is FormatKES for amounts decoded from the backend.
func FormatKESFloat(amount float64) string {
	return FormatKES(decimal.NewFromFloat(amount))
}

func groupThousands(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	whole, frac, _ := strings.Cut(s, ".")
	var b strings.Builder
	for i, c := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	if frac != "00" {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
