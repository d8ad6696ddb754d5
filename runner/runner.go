package runner

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/tpgainz/recherche-entreprises/entreprise"
)

const (
	RunModeSearch = iota + 1
	RunModeNearPoint
)

const (
	FormatTable = "table"
	FormatJSON  = "json"
)

var (
	ErrInvalidRunMode = errors.New("invalid run mode")
	ErrInvalidConfig  = errors.New("invalid configuration")
)

type Runner interface {
	Run(context.Context) error
	Close(context.Context) error
}

type Config struct {
	Query       string
	InputFile   string
	Near        string
	PlusCode    string
	Radius      float64
	Address     string
	AddressDept bool
	CodePostal  string
	Departement string
	Activite    string
	Etat        string
	Minimal     *bool
	Include     string
	Page        int
	PerPage     int
	SortBySize  bool
	Concurrency int
	Format      string
	Dsn         string
	BaseURL     string
	UserAgent   string
	Timeout     time.Duration
	Validate    bool
	LogLevel    string
	LogFormat   string
	RunMode     int

	// Lat and Lon are resolved from Near or PlusCode.
	Lat float64
	Lon float64
}

func envOrDefault(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return defaultValue
}

// ParseConfig parses the command line. Environment variables provide the
// defaults of -base-url, -dsn and -log-level.
func ParseConfig(args []string, output io.Writer) (*Config, error) {
	cfg := Config{}

	fs := flag.NewFlagSet("recherche-entreprises", flag.ContinueOnError)
	fs.SetOutput(output)

	var minimal bool

	fs.StringVar(&cfg.Query, "q", "", "search terms (name, address, managers, elected officials)")
	fs.StringVar(&cfg.InputFile, "input", "", "path to a file with one query per line, optionally suffixed with '#!# id'")
	fs.StringVar(&cfg.Near, "near", "", "search around coordinates (e.g. '48.86,2.35') using /near_point")
	fs.StringVar(&cfg.PlusCode, "plus-code", "", "search around the centre of an Open Location Code (e.g. '8FW4V75V+8Q')")
	fs.Float64Var(&cfg.Radius, "radius", 0, "near point search radius in km, at most 50 [default: API default]")
	fs.StringVar(&cfg.Address, "address", "", "free-text address, its postal code becomes the code_postal filter")
	fs.BoolVar(&cfg.AddressDept, "address-departement", false, "filter on the department of -address instead of its postal code")
	fs.StringVar(&cfg.CodePostal, "code-postal", "", "comma separated postal codes")
	fs.StringVar(&cfg.Departement, "departement", "", "comma separated department codes")
	fs.StringVar(&cfg.Activite, "activite", "", "comma separated NAF codes")
	fs.StringVar(&cfg.Etat, "etat", "", "administrative state of the legal unit: A or C")
	fs.BoolVar(&minimal, "minimal", false, "ask for a minimal response")
	fs.StringVar(&cfg.Include, "include", "", "secondary fields to include with -minimal (e.g. 'siege,complements')")
	fs.IntVar(&cfg.Page, "page", 0, "page number [default: API default]")
	fs.IntVar(&cfg.PerPage, "per-page", 0, "results per page, at most 25 [default: API default]")
	fs.BoolVar(&cfg.SortBySize, "sort-by-size", false, "sort results by workforce size")
	fs.IntVar(&cfg.Concurrency, "c", max(runtime.NumCPU()/2, 1), "number of concurrent requests [default: half of CPU cores]")
	fs.StringVar(&cfg.Format, "format", FormatTable, "output format: table or json")
	fs.StringVar(&cfg.Dsn, "dsn", envOrDefault("RECHERCHE_DSN", ""), "store results in a database: postgres:// DSN or SQLite file path")
	fs.StringVar(&cfg.BaseURL, "base-url", envOrDefault("RECHERCHE_BASE_URL", entreprise.DefaultBaseURL), "API base URL")
	fs.StringVar(&cfg.UserAgent, "user-agent", "recherche-entreprises-cli/1.0", "User-Agent header")
	fs.DurationVar(&cfg.Timeout, "timeout", 0, "per request timeout (e.g. '30s') [default: none]")
	fs.BoolVar(&cfg.Validate, "validate", false, "fail on responses that do not match the expected shape")
	fs.StringVar(&cfg.LogLevel, "log-level", envOrDefault("RECHERCHE_LOG_LEVEL", "info"), "log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFormat, "log-format", "console", "log format: console or json")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "minimal" {
			cfg.Minimal = &minimal
		}
	})

	if err := cfg.resolve(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) resolve() error {
	if c.Concurrency < 1 {
		return fmt.Errorf("%w: concurrency must be greater than 0", ErrInvalidConfig)
	}

	if c.Format != FormatTable && c.Format != FormatJSON {
		return fmt.Errorf("%w: unknown format %q", ErrInvalidConfig, c.Format)
	}

	if c.Near != "" && c.PlusCode != "" {
		return fmt.Errorf("%w: -near and -plus-code are mutually exclusive", ErrInvalidConfig)
	}

	if c.Etat != "" && c.Etat != string(entreprise.EtatActif) && c.Etat != string(entreprise.EtatCesse) {
		return fmt.Errorf("%w: -etat must be A or C", ErrInvalidConfig)
	}

	var err error

	switch {
	case c.Near != "":
		c.Lat, c.Lon, err = ParseGeoCoordinates(c.Near)
		c.RunMode = RunModeNearPoint
	case c.PlusCode != "":
		c.Lat, c.Lon, err = DecodePlusCode(c.PlusCode)
		c.RunMode = RunModeNearPoint
	default:
		c.RunMode = RunModeSearch
	}

	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if c.RunMode == RunModeNearPoint {
		if c.Query != "" || c.InputFile != "" {
			return fmt.Errorf("%w: -q and -input cannot be combined with a near point search", ErrInvalidConfig)
		}

		if c.Etat != "" || c.CodePostal != "" || c.Departement != "" || c.Address != "" {
			return fmt.Errorf("%w: -etat, -code-postal, -departement and -address cannot be combined with a near point search", ErrInvalidConfig)
		}

		return nil
	}

	if c.Address != "" {
		if err := c.resolveAddress(); err != nil {
			return err
		}
	}

	if c.Query == "" && c.InputFile == "" && !c.hasFilters() {
		return fmt.Errorf("%w: one of -q, -input, -near, -plus-code or a filter is required", ErrInvalidConfig)
	}

	return nil
}

// resolveAddress turns -address into a code_postal or departement filter.
func (c *Config) resolveAddress() error {
	var derived string

	if c.AddressDept {
		derived = entreprise.DepartmentFromAddress(c.Address)
	} else {
		derived = entreprise.PostalCodeFromAddress(c.Address)
	}

	if derived == "" {
		return fmt.Errorf("%w: no postal code found in -address %q", ErrInvalidConfig, c.Address)
	}

	switch {
	case c.AddressDept && c.Departement == "":
		c.Departement = derived
	case !c.AddressDept && c.CodePostal == "":
		c.CodePostal = derived
	}

	return nil
}

func (c *Config) hasFilters() bool {
	return c.CodePostal != "" || c.Departement != "" || c.Activite != "" || c.Etat != ""
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}

func optionalInt(v int) *int {
	if v == 0 {
		return nil
	}

	return &v
}

func optionalTrue(v bool) *bool {
	if !v {
		return nil
	}

	return &v
}

// SearchQuery returns the filters shared by every seed of a search run.
func (c *Config) SearchQuery() entreprise.SearchQuery {
	q := entreprise.SearchQuery{
		Q:                  optionalString(strings.TrimSpace(c.Query)),
		ActivitePrincipale: optionalString(c.Activite),
		CodePostal:         optionalString(c.CodePostal),
		Departement:        optionalString(c.Departement),
		Minimal:            c.Minimal,
		Include:            optionalString(c.Include),
		Page:               optionalInt(c.Page),
		PerPage:            optionalInt(c.PerPage),
		SortBySize:         optionalTrue(c.SortBySize),
	}

	if c.Etat != "" {
		q.EtatAdministratif = entreprise.Ptr(entreprise.EtatAdministratif(c.Etat))
	}

	return q
}

// GeoQuery returns the near point query of a RunModeNearPoint run.
func (c *Config) GeoQuery() entreprise.GeoQuery {
	q := entreprise.GeoQuery{
		Lat:                c.Lat,
		Lon:                c.Lon,
		ActivitePrincipale: optionalString(c.Activite),
		Minimal:            c.Minimal,
		Include:            optionalString(c.Include),
		Page:               optionalInt(c.Page),
		PerPage:            optionalInt(c.PerPage),
		SortBySize:         optionalTrue(c.SortBySize),
	}

	if c.Radius > 0 {
		q.Radius = entreprise.Ptr(c.Radius)
	}

	return q
}
