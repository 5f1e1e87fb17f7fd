// Thrive - Location Affordability and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/thrive

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/thrive/internal/config"
	"github.com/tomtom215/thrive/internal/logging"
	"github.com/tomtom215/thrive/internal/models"
	"github.com/tomtom215/thrive/internal/recommend"
	"github.com/tomtom215/thrive/internal/supervisor"
	"github.com/tomtom215/thrive/internal/supervisor/services"
	"github.com/tomtom215/thrive/internal/synthetic"
)

const usage = `usage: thrive <command> [flags]

commands:
  train [--synthetic] [--seed-db] [--seed-users N]
  affordability <location_id>
  recommend <user_id> [--limit N]
  serve
`

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// run dispatches a command and returns the process exit code. Results are
// written to stdout, usage and flag errors to stderr.
func run(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return exitUsage
	}

	ctx = logging.ContextWithNewCorrelationID(ctx)
	ctx = logging.ContextWithLogger(ctx, logging.WithComponent("cli"))
	logger := logging.CtxWith(ctx).Str("command", args[0]).Logger()

	switch args[0] {
	case "train":
		return runTrain(ctx, cfg, args[1:], stdout, stderr, logger)
	case "affordability":
		return runAffordability(ctx, cfg, args[1:], stdout, stderr, logger)
	case "recommend":
		return runRecommend(ctx, cfg, args[1:], stdout, stderr, logger)
	case "serve":
		return runServe(ctx, cfg, args[1:], stderr, logger)
	case "help", "-h", "--help":
		fmt.Fprint(stdout, usage)
		return exitOK
	default:
		fmt.Fprintf(stderr, "unknown command %q\n\n%s", args[0], usage)
		return exitUsage
	}
}

// errorOutput is printed to stdout when a command fails after its
// arguments were accepted.
type errorOutput struct {
	Error string `json:"error"`
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func writeJSON(w io.Writer, v interface{}, logger zerolog.Logger) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		logger.Error().Err(err).Msg("Failed to write output")
	}
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func fail(w io.Writer, err error, logger zerolog.Logger) int {
	logger.Error().Err(err).Msg("Command failed")
	writeJSON(w, errorOutput{Error: err.Error()}, logger)
	return exitError
}

// parseID parses a positive integer id argument.
func parseID(name, arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s %q: must be a positive integer", name, arg)
	}
	return id, nil
}

// parseFlags parses a subcommand's flags, allowing one positional argument
// before or after them. It returns the positional arguments.
func parseFlags(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		if fs.NArg() == 0 {
			return positional, nil
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
}

// trainOutput wraps the training report with where its locations came from.
type trainOutput struct {
	Source       string                   `json:"source"`
	SeededUsers  int                      `json:"seeded_users,omitempty"`
	Report       *recommend.TrainReport   `json:"report"`
	ModelContext recommend.ContextSummary `json:"model_context"`
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func runTrain(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer, logger zerolog.Logger) int {
	fs := flag.NewFlagSet("train", flag.ContinueOnError)
	fs.SetOutput(stderr)
	useSynthetic := fs.Bool("synthetic", false, "train on generated locations even if the store has enough")
	seedDB := fs.Bool("seed-db", false, "write generated locations and user profiles to the store")
	seedUsers := fs.Int("seed-users", 5, "number of generated user profiles written by --seed-db (ids 1..N)")
	if _, err := parseFlags(fs, args); err != nil {
		return exitUsage
	}

	a, err := newApp(ctx, cfg, logging.WithComponent("engine"))
	if err != nil {
		return fail(stdout, err, logger)
	}
	defer a.close()

	gen := synthetic.New(cfg.Engine.Seed)
	out := trainOutput{Source: "store"}

	var locs []models.Location
	if !*useSynthetic {
		locs, err = a.store.FetchLocations(ctx)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to fetch locations, using synthetic data")
		}
	}
	if *useSynthetic || len(locs) < cfg.Retrain.MinLocations {
		logger.Info().
			Int("stored", len(locs)).
			Int("synthetic", services.SyntheticLocations).
			Msg("Training on synthetic locations")
		locs = gen.Locations(services.SyntheticLocations)
		out.Source = "synthetic"

		if *seedDB {
			if err := a.store.SeedLocations(ctx, locs); err != nil {
				return fail(stdout, fmt.Errorf("seed locations: %w", err), logger)
			}
		}
	}

	if *seedDB {
		for id := int64(1); id <= int64(*seedUsers); id++ {
			p := gen.Profile()
			if err := a.store.SaveUserProfile(ctx, id, &p); err != nil {
				return fail(stdout, fmt.Errorf("seed profile for user %d: %w", id, err), logger)
			}
		}
		out.SeededUsers = *seedUsers
	}

	report, err := a.engine.Train(ctx, locs)
	if report == nil {
		return fail(stdout, err, logger)
	}
	out.Report = report
	out.ModelContext = a.engine.Context().Summary()
	writeJSON(stdout, out, logger)

	if err != nil {
		logger.Error().Err(err).Msg("One or more sub-models failed to train")
		return exitError
	}
	return exitOK
}

// affordabilityOutput is the result of thrive affordability.
type affordabilityOutput struct {
	LocationID            int64   `json:"location_id"`
	AffordabilityScore    float64 `json:"affordability_score"`
	AffordabilityCategory string  `json:"affordability_category"`
	Method                string  `json:"method"`
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func runAffordability(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer, logger zerolog.Logger) int {
	fs := flag.NewFlagSet("affordability", flag.ContinueOnError)
	fs.SetOutput(stderr)
	positional, err := parseFlags(fs, args)
	if err != nil {
		return exitUsage
	}
	if len(positional) != 1 {
		fmt.Fprint(stderr, "usage: thrive affordability <location_id>\n")
		return exitUsage
	}
	id, err := parseID("location id", positional[0])
	if err != nil {
		return fail(stdout, err, logger)
	}

	a, err := newApp(ctx, cfg, logging.WithComponent("engine"))
	if err != nil {
		return fail(stdout, err, logger)
	}
	defer a.close()

	locs, err := a.store.FetchLocations(ctx)
	if err != nil {
		return fail(stdout, fmt.Errorf("%w: %w", recommend.ErrDataUnavailable, err), logger)
	}
	if len(locs) == 0 {
		return fail(stdout, fmt.Errorf("%w: no locations stored", recommend.ErrDataUnavailable), logger)
	}

	idx := -1
	for i := range locs {
		if locs[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fail(stdout, fmt.Errorf("location %d: %w", id, recommend.ErrNotFound), logger)
	}

	res, err := a.engine.ScoreAffordability(ctx, locs)
	if err != nil {
		return fail(stdout, err, logger)
	}

	writeJSON(stdout, affordabilityOutput{
		LocationID:            id,
		AffordabilityScore:    res.Scores[idx],
		AffordabilityCategory: res.Categories[idx],
		Method:                string(res.Method),
	}, logger)
	return exitOK
}

// recommendationOutput is one ranked location in thrive recommend output.
type recommendationOutput struct {
	LocationID         int64   `json:"location_id"`
	City               string  `json:"city"`
	State              string  `json:"state"`
	MatchScore         float64 `json:"match_score"`
	AffordabilityScore float64 `json:"affordability_score"`
}

// recommendOutput is the result of thrive recommend.
type recommendOutput struct {
	Recommendations []recommendationOutput `json:"recommendations"`
	Mode            recommend.Mode         `json:"mode"`
	Cluster         *int                   `json:"cluster,omitempty"`
	FallbackReason  string                 `json:"fallback_reason,omitempty"`
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func runRecommend(ctx context.Context, cfg *config.Config, args []string, stdout, stderr io.Writer, logger zerolog.Logger) int {
	fs := flag.NewFlagSet("recommend", flag.ContinueOnError)
	fs.SetOutput(stderr)
	limit := fs.Int("limit", 10, "maximum number of recommendations (at least 1)")
	positional, err := parseFlags(fs, args)
	if err != nil {
		return exitUsage
	}
	if len(positional) != 1 {
		fmt.Fprint(stderr, "usage: thrive recommend <user_id> [--limit N]\n")
		return exitUsage
	}
	userID, err := parseID("user id", positional[0])
	if err != nil {
		return fail(stdout, err, logger)
	}
	if *limit < 1 {
		return fail(stdout, fmt.Errorf("invalid limit %d: must be a positive integer", *limit), logger)
	}

	a, err := newApp(ctx, cfg, logging.WithComponent("engine"))
	if err != nil {
		return fail(stdout, err, logger)
	}
	defer a.close()

	res, err := a.engine.RecommendForUser(ctx, userID, recommend.Options{Limit: *limit})
	if err != nil {
		var perr *recommend.PersistenceError
		if !errors.As(err, &perr) {
			return fail(stdout, err, logger)
		}
		logger.Warn().Err(err).
			Int("failed", len(perr.Failed)).
			Int("attempts", perr.Attempts).
			Msg("Recommendations computed but not all were saved")
	}

	out := recommendOutput{
		Recommendations: make([]recommendationOutput, 0, len(res.Items)),
		Mode:            res.Mode,
		FallbackReason:  res.FallbackReason,
	}
	if res.Cluster != recommend.NoCluster {
		c := res.Cluster
		out.Cluster = &c
	}
	for _, item := range res.Items {
		out.Recommendations = append(out.Recommendations, recommendationOutput{
			LocationID:         item.Location.ID,
			City:               item.Location.City,
			State:              item.Location.State,
			MatchScore:         item.MatchScore,
			AffordabilityScore: item.AffordabilityScore,
		})
	}
	writeJSON(stdout, out, logger)
	return exitOK
}

//nolint:gocritic // logger passed by value is acceptable for zerolog
func runServe(ctx context.Context, cfg *config.Config, args []string, stderr io.Writer, logger zerolog.Logger) int {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	if _, err := parseFlags(fs, args); err != nil {
		return exitUsage
	}

	a, err := newApp(ctx, cfg, logging.WithComponent("engine"))
	if err != nil {
		logger.Error().Err(err).Msg("Failed to initialize")
		return exitError
	}
	defer a.close()

	tree, err := buildTree(cfg, a)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to create supervisor tree")
		return exitError
	}

	logger.Info().
		Str("driver", cfg.Database.Driver).
		Bool("retrain", cfg.Retrain.Enabled).
		Bool("server", cfg.Server.Enabled).
		Str("mode", a.engine.Context().Mode().String()).
		Msg("Starting supervisor tree")

	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Msg("Supervisor tree stopped with error")
		return exitError
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logger.Warn().Str("service", svc.Name).Msg("Service did not stop within the shutdown timeout")
		}
	}
	logger.Info().Msg("Shutdown complete")
	return exitOK
}

// buildTree wires the store, retrain and HTTP services into a supervisor tree.
func buildTree(cfg *config.Config, a *app) (*supervisor.SupervisorTree, error) {
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return nil, err
	}

	tree.AddDataService(services.NewStoreService(a.store, services.StoreServiceConfig{},
		logging.WithComponent("store")))

	if cfg.Retrain.Enabled {
		tree.AddService(services.NewRetrainService(a.engine, a.store, services.RetrainServiceConfig{
			TrainOnStartup: cfg.Retrain.OnStartup,
			TrainInterval:  cfg.Retrain.Interval,
			MinLocations:   cfg.Retrain.MinLocations,
			Seed:           cfg.Engine.Seed,
		}, logging.WithComponent("retrain")))
	}

	if cfg.Server.Enabled {
		handler := services.NewOpsRouter(services.OpsConfig{
			Artifacts:   a.artifacts,
			CORSOrigins: cfg.Server.CORSOrigins,
			RateLimit:   cfg.Server.RateLimit,
		}, a.engine, a.store)
		addr := net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port))
		server := services.NewOpsServer(addr, handler, cfg.Server.ReadTimeout)
		tree.AddService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout,
			logging.WithComponent("http")))
	}

	return tree, nil
}
