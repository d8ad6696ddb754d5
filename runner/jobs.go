package runner

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	olc "github.com/google/open-location-code/go"

	"github.com/tpgainz/recherche-entreprises/entreprise"
)

const seedIDSeparator = "#!#"

// Seed is one request of a run. Exactly one of Search and Near is set.
type Seed struct {
	ID     string
	Search *entreprise.SearchQuery
	Near   *entreprise.GeoQuery
}

// ParseGeoCoordinates parses "lat,lon".
func ParseGeoCoordinates(s string) (lat, lon float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid geo coordinates: %s", s)
	}

	lat, err = strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid latitude: %w", err)
	}

	lon, err = strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid longitude: %w", err)
	}

	if lat < -90 || lat > 90 {
		return 0, 0, fmt.Errorf("invalid latitude: %f", lat)
	}

	if lon < -180 || lon > 180 {
		return 0, 0, fmt.Errorf("invalid longitude: %f", lon)
	}

	return lat, lon, nil
}

// DecodePlusCode returns the centre of a full Open Location Code.
func DecodePlusCode(code string) (lat, lon float64, err error) {
	code = strings.TrimSpace(code)

	if err := olc.CheckFull(code); err != nil {
		return 0, 0, fmt.Errorf("invalid plus code %q: %w", code, err)
	}

	area, err := olc.Decode(code)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid plus code %q: %w", code, err)
	}

	lat, lon = area.Center()

	return lat, lon, nil
}

// CreateSeeds reads one search per line. The terms become q, the other
// fields come from base. Blank lines are skipped; a line may end with
// "#!# id" to label its results.
func CreateSeeds(r io.Reader, base entreprise.SearchQuery) ([]Seed, error) {
	var seeds []Seed

	scanner := bufio.NewScanner(r)
	lineNo := 0

	for scanner.Scan() {
		lineNo++

		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}

		id := strconv.Itoa(lineNo)

		if before, after, ok := strings.Cut(query, seedIDSeparator); ok {
			query = strings.TrimSpace(before)
			if trimmed := strings.TrimSpace(after); trimmed != "" {
				id = trimmed
			}
		}

		if query == "" {
			continue
		}

		q := base
		q.Q = entreprise.Ptr(query)

		seeds = append(seeds, Seed{ID: id, Search: &q})
	}

	return seeds, scanner.Err()
}

// BuildSeeds returns the seeds of the run described by cfg. input is only
// read when cfg.InputFile is set.
func BuildSeeds(cfg *Config, input io.Reader) ([]Seed, error) {
	switch cfg.RunMode {
	case RunModeNearPoint:
		q := cfg.GeoQuery()
		return []Seed{{ID: "near", Near: &q}}, nil
	case RunModeSearch:
		base := cfg.SearchQuery()

		if cfg.InputFile == "" {
			return []Seed{{ID: "1", Search: &base}}, nil
		}

		base.Q = nil

		seeds, err := CreateSeeds(input, base)
		if err != nil {
			return nil, err
		}

		if cfg.Query != "" {
			q := cfg.SearchQuery()
			seeds = append([]Seed{{ID: "q", Search: &q}}, seeds...)
		}

		return seeds, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrInvalidRunMode, cfg.RunMode)
	}
}
