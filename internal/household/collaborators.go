package household

import (
	"context"

	"github.com/roach88/hearth/internal/entity"
)

// WeatherSource fetches current conditions. It returns nil when no data is
// available; callers show "no weather" rather than failing.
type WeatherSource interface {
	Fetch(ctx context.Context, lat, lng float64) *WeatherSnapshot
}

// WeatherSnapshot is the subset of a forecast the household views use.
type WeatherSnapshot struct {
	TemperatureC  float64 `json:"temperature"`
	ApparentC     float64 `json:"apparentTemperature"`
	WindSpeedKmh  float64 `json:"windSpeed"`
	Humidity      float64 `json:"humidity"`
	Precipitation float64 `json:"precipitation"`
	WeatherCode   int     `json:"weatherCode"`
	IsDay         bool    `json:"isDay"`
}

// Description names the WMO weather code in German.
func (w WeatherSnapshot) Description() string {
	return DescribeWeatherCode(w.WeatherCode)
}

// DescribeWeatherCode maps a WMO weather interpretation code to a short
// German label.
func DescribeWeatherCode(code int) string {
	switch {
	case code == 0:
		return "Klar"
	case code == 1:
		return "Leicht bewölkt"
	case code == 2:
		return "Bewölkt"
	case code == 3:
		return "Bedeckt"
	case code >= 45 && code <= 48:
		return "Nebel"
	case code >= 51 && code <= 55:
		return "Nieselregen"
	case code >= 56 && code <= 57:
		return "Gefrierender Niesel"
	case code >= 61 && code <= 65:
		return "Regen"
	case code >= 66 && code <= 67:
		return "Gefrierender Regen"
	case code >= 71 && code <= 77:
		return "Schnee"
	case code >= 80 && code <= 82:
		return "Regenschauer"
	case code >= 85 && code <= 86:
		return "Schneeschauer"
	case code >= 95 && code <= 99:
		return "Gewitter"
	default:
		return "Wetter"
	}
}

// MealSuggester proposes a meal plan from free-text preferences. An empty
// result means no suggestion is available.
type MealSuggester interface {
	Suggest(ctx context.Context, preferences string) []entity.MealPlan
}

// Geocoder resolves a place name. It returns nil when nothing matches.
type Geocoder interface {
	Lookup(ctx context.Context, query string) *Place
}

type Place struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lng"`
}
