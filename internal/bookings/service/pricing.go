package service

import "math"

// priceTolerance absorbs rounding in client-side totals.
const priceTolerance = 0.01

// StayTotal is nights × (nightly rate + meal plan rate), rounded to cents.
func StayTotal(nights int, pricePerNight, mealPlanPrice float64) float64 {
	total := float64(nights) * (pricePerNight + mealPlanPrice)
	return math.Round(total*100) / 100
}

func pricesDiffer(a, b float64) bool {
	return math.Abs(a-b) > priceTolerance
}
