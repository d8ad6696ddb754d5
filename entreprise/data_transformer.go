package entreprise

import (
	"fmt"
	"math"
	"strings"
)

const earthRadiusKm = 6371.0

// CreatePappersURL returns the pappers.fr page of a company.
func CreatePappersURL(name, siren string) string {
	cleanName := strings.ToLower(strings.TrimSpace(name))
	cleanName = strings.ReplaceAll(cleanName, " ", "-")

	return fmt.Sprintf("https://www.pappers.fr/entreprise/%s-%s", cleanName, siren)
}

// Distance is the great-circle distance in km between two points.
func Distance(lat1, lon1, lat2, lon2 float64) float64 {
	lat1Rad := lat1 * math.Pi / 180.0
	lat2Rad := lat2 * math.Pi / 180.0
	deltaLat := (lat2 - lat1) * math.Pi / 180.0
	deltaLon := (lon2 - lon1) * math.Pi / 180.0

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

// DirectorNames returns the display names of the result managers, skipping
// entries without a name.
func DirectorNames(r *Result) []string {
	var names []string

	for _, d := range r.Dirigeants {
		if name := d.FullName(); name != "" {
			names = append(names, name)
		}
	}

	return names
}

// DisplayName prefers the shop sign matching the legal name, then the full name.
func DisplayName(r *Result) string {
	if r.Siege != nil {
		for _, enseigne := range r.Siege.ListeEnseignes {
			if enseigne != "" && strings.Contains(r.NomComplet, enseigne) {
				return enseigne
			}
		}
	}

	if r.NomComplet != "" {
		return r.NomComplet
	}

	return r.NomRaisonSociale
}
