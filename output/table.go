package output

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/mattn/go-runewidth"

	"github.com/tpgainz/recherche-entreprises/entreprise"
)

type column struct {
	title string
	width int
}

var tableColumns = []column{
	{"SEED", 8},
	{"SIREN", 9},
	{"NOM", 40},
	{"COMMUNE", 24},
	{"NAF", 6},
	{"ETAT", 4},
}

var distanceColumn = column{"KM", 6}

// TableWriter prints results as fixed width text columns. Widths are
// measured with go-runewidth so accented names stay aligned.
type TableWriter struct {
	mu      sync.Mutex
	w       io.Writer
	columns []column
	header  bool

	center    bool
	centerLat float64
	centerLon float64
}

type TableOption func(*TableWriter)

// WithDistanceFrom adds a column with the distance between the
// establishment and the given point.
func WithDistanceFrom(lat, lon float64) TableOption {
	return func(t *TableWriter) {
		t.center = true
		t.centerLat = lat
		t.centerLon = lon
	}
}

func NewTableWriter(w io.Writer, opts ...TableOption) *TableWriter {
	t := &TableWriter{w: w}

	for _, opt := range opts {
		opt(t)
	}

	t.columns = append([]column(nil), tableColumns...)
	if t.center {
		t.columns = append(t.columns, distanceColumn)
	}

	return t
}

func (t *TableWriter) Write(_ context.Context, seedID string, resp *entreprise.Response) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	var sb strings.Builder

	if !t.header {
		titles := make([]string, len(t.columns))
		for i, c := range t.columns {
			titles[i] = c.title
		}

		sb.WriteString(t.row(titles))
		t.header = true
	}

	if resp.Failed() {
		sb.WriteString(fmt.Sprintf("! %s: HTTP %d: %s\n", seedID, resp.StatusCode, resp.Erreur))
		_, err := io.WriteString(t.w, sb.String())

		return err
	}

	for i := range resp.Results {
		sb.WriteString(t.row(t.cells(seedID, &resp.Results[i])))
	}

	sb.WriteString(fmt.Sprintf("# %s: page %d/%d, %d results\n", seedID, resp.Page, resp.TotalPages, resp.TotalResults))

	_, err := io.WriteString(t.w, sb.String())

	return err
}

func (t *TableWriter) cells(seedID string, r *entreprise.Result) []string {
	etab := establishment(r, t.center)

	commune := ""
	if etab != nil {
		commune = etab.LibelleCommune
	}

	cells := []string{seedID, r.Siren, entreprise.DisplayName(r), commune, r.ActivitePrincipale, r.EtatAdministratif}

	if t.center {
		dist := ""
		if etab != nil && (etab.Latitude != 0 || etab.Longitude != 0) {
			km := entreprise.Distance(t.centerLat, t.centerLon, etab.Latitude.Float64(), etab.Longitude.Float64())
			dist = fmt.Sprintf("%.2f", km)
		}

		cells = append(cells, dist)
	}

	return cells
}

// establishment returns the establishment shown for r. Near point searches
// show the matching establishment, other searches the head office.
func establishment(r *entreprise.Result, preferMatching bool) *entreprise.Etablissement {
	if preferMatching && len(r.MatchingEtablissements) > 0 {
		return &r.MatchingEtablissements[0]
	}

	if r.Siege != nil {
		return r.Siege
	}

	if len(r.MatchingEtablissements) > 0 {
		return &r.MatchingEtablissements[0]
	}

	return nil
}

func (t *TableWriter) row(cells []string) string {
	parts := make([]string, len(t.columns))

	for i, c := range t.columns {
		value := ""
		if i < len(cells) {
			value = strings.ReplaceAll(cells[i], "\n", " ")
		}

		value = runewidth.Truncate(value, c.width, "…")
		parts[i] = runewidth.FillRight(value, c.width)
	}

	return strings.TrimRight(strings.Join(parts, "  "), " ") + "\n"
}
