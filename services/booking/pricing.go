package booking

import (
	"math"

	"hotelbooking/models"
)

// TaxRatePercent is the fixed lodging tax applied to every stay.
const TaxRatePercent = 18

// Nights counts the nights in [checkIn, checkOut), rounding partial days up.
func Nights(checkIn, checkOut models.Date) int {
	return int(math.Ceil(checkOut.Sub(checkIn.Time).Hours() / 24))
}

// TaxFor applies TaxRatePercent to net, rounding half up to the cent.
func TaxFor(net models.Money) models.Money {
	return models.Money((int64(net)*TaxRatePercent + 50) / 100)
}

// ComputePricing returns the cost breakdown of a stay.
func ComputePricing(nightlyRate models.Money, checkIn, checkOut models.Date, roomsCount int) (models.Pricing, error) {
	if err := ValidateRange(checkIn, checkOut); err != nil {
		return models.Pricing{}, err
	}
	nights := Nights(checkIn, checkOut)
	if nights < 1 {
		return models.Pricing{}, ErrInvalidDateRange
	}
	if roomsCount < 1 {
		return models.Pricing{}, ErrInvalidRoomsCount
	}
	net := nightlyRate * models.Money(nights) * models.Money(roomsCount)
	tax := TaxFor(net)
	return models.Pricing{
		Nights:     nights,
		NetPrice:   net,
		TaxAmount:  tax,
		TotalPrice: net + tax,
	}, nil
}
