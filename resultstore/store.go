package resultstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/tpgainz/recherche-entreprises/entreprise"
)

var ErrEmptyDSN = errors.New("empty dsn")

type dialect int

const (
	dialectSQLite dialect = iota
	dialectPostgres
)

// Store keeps the last seen version of every company in a SQL database.
type Store struct {
	db      *sql.DB
	dialect dialect
	runID   string
	log     *zap.Logger
}

type Option func(*Store)

// WithRunID tags every row written by the store.
func WithRunID(id string) Option {
	return func(s *Store) {
		s.runID = id
	}
}

func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// Open connects to dsn and creates the companies table. postgres:// and
// postgresql:// URLs go through pgx, anything else is a SQLite file path.
func Open(ctx context.Context, dsn string, opts ...Option) (*Store, error) {
	if dsn == "" {
		return nil, ErrEmptyDSN
	}

	driver, d := "sqlite", dialectSQLite
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		driver, d = "pgx", dialectPostgres
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening %s database: %w", driver, err)
	}

	if d == dialectSQLite {
		// a second connection to :memory: would see an empty database
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db, dialect: d, log: zap.NewNop()}

	for _, opt := range opts {
		opt(s)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to %s database: %w", driver, err)
	}

	if _, err := db.ExecContext(ctx, createCompaniesTable); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating companies table: %w", err)
	}

	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) DB() *sql.DB {
	return s.db
}

type companyRow struct {
	Siren          string
	NomComplet     string
	Siret          string
	Adresse        string
	CodePostal     string
	LibelleCommune string
	Activite       string
	Etat           string
	Categorie      string
	DateCreation   string
	Dirigeants     string
	PappersURL     string
	Payload        []byte
}

func newCompanyRow(r *entreprise.Result) (companyRow, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return companyRow{}, fmt.Errorf("encoding %s: %w", r.Siren, err)
	}

	row := companyRow{
		Siren:        r.Siren,
		NomComplet:   entreprise.DisplayName(r),
		Activite:     r.ActivitePrincipale,
		Etat:         r.EtatAdministratif,
		Categorie:    r.CategorieEntreprise,
		DateCreation: r.DateCreation.String(),
		Dirigeants:   strings.Join(entreprise.DirectorNames(r), ", "),
		PappersURL:   entreprise.CreatePappersURL(entreprise.DisplayName(r), r.Siren),
		Payload:      payload,
	}

	if r.Siege != nil {
		row.Siret = r.Siege.Siret
		row.Adresse = r.Siege.Adresse
		row.CodePostal = r.Siege.CodePostal
		row.LibelleCommune = r.Siege.LibelleCommune
	}

	return row, nil
}

// Write upserts the results of resp. Responses carrying an API error are
// ignored.
func (s *Store) Write(ctx context.Context, seedID string, resp *entreprise.Response) error {
	if resp.Failed() || len(resp.Results) == 0 {
		return nil
	}

	rows := make([]companyRow, 0, len(resp.Results))

	for i := range resp.Results {
		if resp.Results[i].Siren == "" {
			continue
		}

		row, err := newCompanyRow(&resp.Results[i])
		if err != nil {
			return err
		}

		rows = append(rows, row)
	}

	return s.save(ctx, seedID, rows)
}

func (s *Store) save(ctx context.Context, seedID string, rows []companyRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		_ = tx.Rollback()
	}()

	stmt, err := tx.PrepareContext(ctx, s.rebind(upsertCompany))
	if err != nil {
		return fmt.Errorf("preparing upsert: %w", err)
	}

	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339)

	for _, row := range rows {
		_, err := stmt.ExecContext(ctx,
			row.Siren, row.NomComplet, row.Siret, row.Adresse, row.CodePostal,
			row.LibelleCommune, row.Activite, row.Etat, row.Categorie, row.DateCreation,
			row.Dirigeants, row.PappersURL, string(row.Payload), s.runID, seedID, now)
		if err != nil {
			return fmt.Errorf("saving %s: %w", row.Siren, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.log.Debug("companies saved", zap.String("seed", seedID), zap.Int("count", len(rows)))

	return nil
}

// Company is a stored row.
type Company struct {
	Siren          string
	NomComplet     string
	Siret          string
	CodePostal     string
	LibelleCommune string
	Etat           string
	Dirigeants     string
	PappersURL     string
	RunID          string
	QueryID        string
}

// Get returns the stored company with the given siren, or sql.ErrNoRows.
func (s *Store) Get(ctx context.Context, siren string) (Company, error) {
	var c Company

	err := s.db.QueryRowContext(ctx, s.rebind(selectCompany), siren).Scan(
		&c.Siren, &c.NomComplet, &c.Siret, &c.CodePostal, &c.LibelleCommune,
		&c.Etat, &c.Dirigeants, &c.PappersURL, &c.RunID, &c.QueryID)

	return c, err
}

// Payload returns the stored JSON of the company decoded back to a result.
func (s *Store) Payload(ctx context.Context, siren string) (*entreprise.Result, error) {
	var raw string

	if err := s.db.QueryRowContext(ctx, s.rebind(selectPayload), siren).Scan(&raw); err != nil {
		return nil, err
	}

	var r entreprise.Result
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, fmt.Errorf("decoding payload of %s: %w", siren, err)
	}

	return &r, nil
}

func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, countCompanies).Scan(&n)

	return n, err
}
