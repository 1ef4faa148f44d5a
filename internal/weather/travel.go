package weather

// TravelOutlook classifies conditions at a travel destination.
type TravelOutlook string

const (
	TravelRain      TravelOutlook = "rain"
	TravelHot       TravelOutlook = "hot"
	TravelCold      TravelOutlook = "cold"
	TravelFavorable TravelOutlook = "favorable"
)

// TravelRecommendation is the advice shown for a destination.
type TravelRecommendation struct {
	Outlook TravelOutlook `json:"outlook"`
	Message string        `json:"message"`
}

// TravelAdvice picks a single recommendation for w. Precipitation takes
// precedence over temperature.
func TravelAdvice(w NormalizedWeather) TravelRecommendation {
	th := thresholdsFor(w.Units)

	switch {
	case w.Precipitation > 0:
		return TravelRecommendation{TravelRain, "Rain expected at destination. Consider bringing an umbrella."}
	case w.Temperature > th.travelHot:
		return TravelRecommendation{TravelHot, "Hot weather at destination. Stay hydrated and use sun protection."}
	case w.Temperature < th.travelCold:
		return TravelRecommendation{TravelCold, "Cold weather at destination. Dress warmly."}
	default:
		return TravelRecommendation{TravelFavorable, "Weather conditions are favorable for travel."}
	}
}
