package validation

import (
	"fmt"
	"strings"

	"github.com/arbovm/levenshtein"

	apperrors "github.com/anime-shed/moon-schumann-dashboard/internal/errors"
)

// maxCityDistance bounds the typo tolerance for city slugs
const maxCityDistance = 2

// CityResolver maps user supplied city names onto configured slugs
type CityResolver struct {
	slugs       []string
	defaultSlug string
}

// NewCityResolver creates a resolver over the configured slugs
func NewCityResolver(slugs []string, defaultSlug string) *CityResolver {
	normalized := make([]string, len(slugs))
	for i, s := range slugs {
		normalized[i] = normalizeCity(s)
	}
	return &CityResolver{slugs: normalized, defaultSlug: normalizeCity(defaultSlug)}
}

// Resolve returns the matching slug. An empty input selects the default city,
// near misses resolve to the closest slug, and anything else is a validation error.
func (r *CityResolver) Resolve(city string) (string, error) {
	city = normalizeCity(city)
	if city == "" {
		return r.defaultSlug, nil
	}

	best, bestDistance := "", maxCityDistance+1
	for _, slug := range r.slugs {
		if slug == city {
			return slug, nil
		}
		if d := levenshtein.Distance(city, slug); d < bestDistance {
			best, bestDistance = slug, d
		}
	}
	if best != "" {
		return best, nil
	}

	return "", apperrors.NewValidationError(fmt.Sprintf("unknown city %q", city), nil).
		WithDetails("available cities: " + strings.Join(r.slugs, ", "))
}

func normalizeCity(city string) string {
	city = strings.ToLower(strings.TrimSpace(city))
	return strings.Join(strings.Fields(city), "-")
}
