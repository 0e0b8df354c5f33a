package services

import "estatedesk-backend/internal/models"

const (
	PriceBelowAverage = "below_average"
	PriceAverage      = "average"
	PriceAboveAverage = "above_average"
)

// PriceCategory compares a property's price per sqft to the market average
// for similar properties. Within 10 percent counts as average.
func PriceCategory(pricePerSqft, avgPricePerSqft float64) string {
	if avgPricePerSqft == 0 {
		return PriceAverage
	}

	diff := (pricePerSqft - avgPricePerSqft) / avgPricePerSqft * 100
	if diff < 0 {
		diff = -diff
	}

	switch {
	case diff <= 10:
		return PriceAverage
	case pricePerSqft < avgPricePerSqft:
		return PriceBelowAverage
	default:
		return PriceAboveAverage
	}
}

// FacingMetrics scores a facing direction for the detail-page widget.
func FacingMetrics(direction models.FacingDirection) models.FacingWidgetData {
	scores := map[models.FacingDirection][3]int{
		// heat exposure, vastu compatibility, natural light intensity
		models.FacingNorth:     {30, 90, 60},
		models.FacingSouth:     {85, 70, 90},
		models.FacingEast:      {60, 95, 85},
		models.FacingWest:      {80, 65, 75},
		models.FacingNorthEast: {45, 100, 75},
		models.FacingNorthWest: {55, 75, 70},
		models.FacingSouthEast: {75, 85, 88},
		models.FacingSouthWest: {80, 80, 82},
	}

	s, ok := scores[direction]
	if !ok {
		s = [3]int{50, 50, 50}
	}

	return models.FacingWidgetData{
		Direction:             string(direction),
		HeatExposure:          s[0],
		VastuCompatibility:    s[1],
		NaturalLightIntensity: s[2],
	}
}
