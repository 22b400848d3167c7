package household

import (
	"context"
	"slices"
	"strings"

	"github.com/roach88/hearth/internal/entity"
)

// ToggleWeatherFavorite removes every saved location named like loc, or
// saves loc if none is. It reports whether loc is now a favorite.
func (c *Controller) ToggleWeatherFavorite(loc entity.SavedLocation) bool {
	if loc.ID == "" {
		loc.ID = c.ids.NewID()
	}
	var removed []string
	c.update(func(s *State) {
		kept := make([]entity.SavedLocation, 0, len(s.WeatherFavorites))
		for _, f := range s.WeatherFavorites {
			if f.Name == loc.Name {
				removed = append(removed, f.ID)
				continue
			}
			kept = append(kept, f)
		}
		if len(removed) == 0 {
			kept = append(kept, loc)
		}
		s.WeatherFavorites = kept
	})

	if len(removed) == 0 {
		c.persist("add_weather_favorite", func(ctx context.Context) { c.cols.WeatherFavorites.Add(ctx, loc) })
		return true
	}
	slices.Sort(removed)
	for _, id := range slices.Compact(removed) {
		c.persist("delete_weather_favorite", func(ctx context.Context) { c.cols.WeatherFavorites.Delete(ctx, id) })
	}
	return false
}

// Weather fetches conditions for loc. It returns nil when no weather source
// is configured or the source has nothing.
func (c *Controller) Weather(ctx context.Context, loc entity.SavedLocation) *WeatherSnapshot {
	if c.weather == nil {
		return nil
	}
	w := c.weather.Fetch(ctx, loc.Lat, loc.Lng)
	if w == nil {
		c.logger.Info("weather unavailable", "location", loc.Name)
	}
	return w
}

// FindPlace resolves a free-text place name. It returns nil when no
// geocoder is configured, the query is blank or nothing matches.
func (c *Controller) FindPlace(ctx context.Context, query string) *Place {
	query = strings.TrimSpace(query)
	if c.places == nil || query == "" {
		return nil
	}
	return c.places.Lookup(ctx, query)
}
