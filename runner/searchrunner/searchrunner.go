package searchrunner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/tpgainz/recherche-entreprises/entreprise"
	"github.com/tpgainz/recherche-entreprises/output"
	"github.com/tpgainz/recherche-entreprises/resultstore"
	"github.com/tpgainz/recherche-entreprises/runner"
)

// ResultWriter receives every decoded response of a run, including the
// ones carrying an API error. Implementations must be safe for concurrent
// use.
type ResultWriter interface {
	Write(ctx context.Context, seedID string, resp *entreprise.Response) error
}

type Option func(*searchRunner)

// WithOutput replaces stdout as the destination of the table or JSON lines.
func WithOutput(w io.Writer) Option {
	return func(r *searchRunner) {
		r.out = w
	}
}

// WithClient replaces the API client built from the configuration.
func WithClient(c *entreprise.Client) Option {
	return func(r *searchRunner) {
		r.client = c
	}
}

type searchRunner struct {
	cfg     *runner.Config
	log     *zap.Logger
	runID   string
	out     io.Writer
	client  *entreprise.Client
	store   *resultstore.Store
	writers []ResultWriter
}

func New(ctx context.Context, cfg *runner.Config, log *zap.Logger, opts ...Option) (runner.Runner, error) {
	if cfg.RunMode != runner.RunModeSearch && cfg.RunMode != runner.RunModeNearPoint {
		return nil, fmt.Errorf("%w: %d", runner.ErrInvalidRunMode, cfg.RunMode)
	}

	if log == nil {
		log = zap.NewNop()
	}

	ans := &searchRunner{
		cfg:   cfg,
		runID: uuid.New().String(),
		out:   os.Stdout,
	}

	for _, opt := range opts {
		opt(ans)
	}

	ans.log = log.With(zap.String("run_id", ans.runID))

	if ans.client == nil {
		ans.client = newClient(cfg, ans.log)
	}

	switch cfg.Format {
	case runner.FormatJSON:
		ans.writers = append(ans.writers, output.NewJSONWriter(ans.out))
	default:
		var tableOpts []output.TableOption
		if cfg.RunMode == runner.RunModeNearPoint {
			tableOpts = append(tableOpts, output.WithDistanceFrom(cfg.Lat, cfg.Lon))
		}

		ans.writers = append(ans.writers, output.NewTableWriter(ans.out, tableOpts...))
	}

	if cfg.Dsn != "" {
		store, err := resultstore.Open(ctx, cfg.Dsn,
			resultstore.WithRunID(ans.runID),
			resultstore.WithLogger(ans.log),
		)
		if err != nil {
			return nil, err
		}

		ans.store = store
		ans.writers = append(ans.writers, store)
	}

	return ans, nil
}

func newClient(cfg *runner.Config, log *zap.Logger) *entreprise.Client {
	opts := []entreprise.Option{entreprise.WithLogger(log)}

	if cfg.BaseURL != "" {
		opts = append(opts, entreprise.WithBaseURL(cfg.BaseURL))
	}

	if cfg.UserAgent != "" {
		opts = append(opts, entreprise.WithUserAgent(cfg.UserAgent))
	}

	if cfg.Validate {
		opts = append(opts, entreprise.WithValidation())
	}

	return entreprise.NewClient(opts...)
}

func (r *searchRunner) Run(ctx context.Context) error {
	seeds, err := r.seeds()
	if err != nil {
		return err
	}

	r.log.Info("starting run", zap.Int("seeds", len(seeds)), zap.Int("concurrency", r.cfg.Concurrency))

	var (
		mu   sync.Mutex
		errs []error
	)

	var g errgroup.Group

	g.SetLimit(r.cfg.Concurrency)

	for _, seed := range seeds {
		g.Go(func() error {
			if err := r.runSeed(ctx, seed); err != nil {
				r.log.Error("seed failed", zap.String("seed", seed.ID), zap.Error(err))

				mu.Lock()
				errs = append(errs, fmt.Errorf("seed %s: %w", seed.ID, err))
				mu.Unlock()
			}

			return nil
		})
	}

	_ = g.Wait()

	r.log.Info("run finished", zap.Int("seeds", len(seeds)), zap.Int("failed", len(errs)))

	return errors.Join(errs...)
}

func (r *searchRunner) seeds() ([]runner.Seed, error) {
	if r.cfg.InputFile == "" {
		return runner.BuildSeeds(r.cfg, nil)
	}

	f, err := os.Open(r.cfg.InputFile)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	return runner.BuildSeeds(r.cfg, f)
}

func (r *searchRunner) runSeed(ctx context.Context, seed runner.Seed) error {
	if r.cfg.Timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, r.cfg.Timeout)
		defer cancel()
	}

	start := time.Now()

	var (
		resp *entreprise.Response
		err  error
	)

	switch {
	case seed.Near != nil:
		resp, err = r.client.SearchNearPoint(ctx, *seed.Near)
	case seed.Search != nil:
		resp, err = r.client.Search(ctx, *seed.Search)
	default:
		return runner.ErrInvalidRunMode
	}

	if err != nil {
		return err
	}

	if resp.Failed() {
		r.log.Warn("api error",
			zap.String("seed", seed.ID),
			zap.Int("status", resp.StatusCode),
			zap.String("erreur", resp.Erreur),
		)
	} else {
		r.log.Info("seed done",
			zap.String("seed", seed.ID),
			zap.Int("results", len(resp.Results)),
			zap.Int("total_results", resp.TotalResults),
			zap.Duration("took", time.Since(start)),
		)
	}

	for _, w := range r.writers {
		if err := w.Write(ctx, seed.ID, resp); err != nil {
			return fmt.Errorf("writing results: %w", err)
		}
	}

	return nil
}

func (r *searchRunner) Close(context.Context) error {
	if r.store != nil {
		return r.store.Close()
	}

	return nil
}
