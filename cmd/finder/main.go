package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
	"github.com/zatekoja/doctorfinder/internal/adapters/urlstate"
	"github.com/zatekoja/doctorfinder/internal/application/services"
	"github.com/zatekoja/doctorfinder/internal/infrastructure/clients/providerapi"
	"github.com/zatekoja/doctorfinder/internal/infrastructure/observability"
	queryservices "github.com/zatekoja/doctorfinder/internal/query/services"
	"github.com/zatekoja/doctorfinder/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	// logs go to stderr so stdout stays valid JSON
	observability.InitLoggerTo(os.Stderr, cfg.OTEL.ServiceName, cfg.Log.Env, cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "finder: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("finder", flag.ContinueOnError)
	endpoint := fs.String("endpoint", cfg.Directory.Endpoint, "provider directory URL")
	search := fs.String("search", "", "case-insensitive name filter")
	mode := fs.String("mode", "", "consultation mode: video or clinic")
	specialties := fs.String("specialties", "", "comma-separated specialties (any match)")
	sortKey := fs.String("sort", "", "sort key: fees or experience")
	suggest := fs.String("suggest", "", "print name suggestions for this input and exit")
	specialtiesOnly := fs.Bool("specialties-only", false, "print the specialty options and exit")
	if err := fs.Parse(args); err != nil {
		return err
	}

	opts := services.DefaultDirectoryOptions()
	opts.MinRosterSize = cfg.Directory.MinRosterSize
	opts.FallbackRosterSize = cfg.Directory.FallbackRosterSize
	opts.Normalize.StrictModes = !cfg.Directory.AbsentModeAvailable
	opts.Retry.MaxAttempts = cfg.Directory.FetchAttempts

	directory := services.NewDirectoryService(
		providerapi.NewClient(*endpoint, cfg.Directory.Timeout),
		services.NewFeatureFlags(),
		opts,
		nil,
	)
	if _, err := directory.Load(ctx); err != nil {
		log.Warn().Err(err).Msg("Directory load failed")
	}

	queries := queryservices.NewDirectoryQueryService(directory, nil)
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")

	switch {
	case *suggest != "":
		return encoder.Encode(queries.Suggest(ctx, *suggest))
	case *specialtiesOnly:
		return encoder.Encode(queries.Specialties(ctx))
	}

	values := url.Values{}
	values.Set(urlstate.KeySearch, *search)
	values.Set(urlstate.KeyMode, *mode)
	values.Set(urlstate.KeySpecialties, *specialties)
	values.Set(urlstate.KeySort, *sortKey)

	return encoder.Encode(queries.Search(ctx, urlstate.Decode(values)))
}
