package main

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/muswitch/internal/auth"
	"github.com/desertthunder/muswitch/internal/formatter"
	"github.com/desertthunder/muswitch/internal/repositories"
	"github.com/desertthunder/muswitch/internal/services"
	"github.com/desertthunder/muswitch/internal/shared"
	"github.com/desertthunder/muswitch/internal/tasks"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Provider clients and the snapshot store are built on first use so commands that need neither
// (config init) never touch credentials or the database.
type Runner struct {
	config     *shared.Config
	configPath string
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	palette    *formatter.Palette
	registry   *prometheus.Registry
	tokens     *auth.Cache
	metrics    *services.Metrics
	services   map[string]services.Service
	store      repositories.SnapshotStore
	db         *sql.DB
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Palette    *formatter.Palette
	Registry   *prometheus.Registry
	Tokens     *auth.Cache                 // built from HTTPClient when nil
	Services   map[string]services.Service // prebuilt clients by provider key
	Store      repositories.SnapshotStore  // opened from Config.Database when nil
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.Palette == nil {
		opts.Palette = formatter.PlainPalette()
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}
	if opts.Tokens == nil {
		opts.Tokens = auth.NewCache(auth.NewClientCredentialsAcquirer(opts.HTTPClient), auth.CacheOpts{
			Logger:  shared.WithLogger(opts.Logger, "component", "tokens"),
			Metrics: auth.NewMetrics(opts.Registry),
		})
	}
	if opts.Services == nil {
		opts.Services = make(map[string]services.Service)
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		palette:    opts.Palette,
		registry:   opts.Registry,
		tokens:     opts.Tokens,
		metrics:    services.NewMetrics(opts.Registry),
		services:   opts.Services,
		store:      opts.Store,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		playlistsCommand, tracksCommand, findCommand, collectCommand, checkCommand,
		snapshotsCommand, apiCommand, authCommand, configCommand, setupCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// providerKind normalizes a --provider value to a provider key.
func providerKind(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case services.KindSpotify:
		return services.KindSpotify, nil
	case services.KindYouTube, "yt":
		return services.KindYouTube, nil
	case "":
		return "", fmt.Errorf("%w: --provider", shared.ErrMissingArgument)
	default:
		return "", fmt.Errorf("%w: unknown provider %q (want %s)", shared.ErrInvalidArgument, name, strings.Join(services.Kinds(), " or "))
	}
}

// source binds the shared token cache to kind's token endpoint and configured credential.
func (r *Runner) source(kind string) *auth.Source {
	var tokenURL string
	var cred auth.Credential

	switch kind {
	case services.KindSpotify:
		tokenURL = r.config.Endpoints.SpotifyTokenURL
		if tokenURL == "" {
			tokenURL = services.SpotifyTokenURL
		}
		cred = auth.Credential{
			ClientID:     r.config.Credentials.Spotify.ClientID,
			ClientSecret: r.config.Credentials.Spotify.ClientSecret,
		}
	case services.KindYouTube:
		tokenURL = r.config.Endpoints.YouTubeTokenURL
		if tokenURL == "" {
			tokenURL = services.YouTubeTokenURL
		}
		cred = auth.Credential{
			ClientID:     r.config.Credentials.YouTube.ClientID,
			ClientSecret: r.config.Credentials.YouTube.ClientSecret,
		}
	}

	return r.tokens.Source(kind, tokenURL, cred)
}

// credentialsError names the environment variables missing for kind's credential.
func (r *Runner) credentialsError(kind string) error {
	switch kind {
	case services.KindSpotify:
		return r.config.Credentials.Spotify.Validate()
	case services.KindYouTube:
		return r.config.Credentials.YouTube.Validate()
	}
	return nil
}

func (r *Runner) serviceOptions(kind string) services.Options {
	opts := services.Options{
		Tokens:     r.source(kind),
		HTTPClient: r.httpClient,
		Logger:     r.logger,
		Metrics:    r.metrics,
	}

	switch kind {
	case services.KindSpotify:
		opts.BaseURL = r.config.Endpoints.SpotifyAPIURL
	case services.KindYouTube:
		opts.BaseURL = r.config.Endpoints.YouTubeAPIURL
		opts.APIKey = r.config.Credentials.YouTube.APIKey
	}
	return opts
}

// service returns the client for a --provider value, constructing it on first use.
func (r *Runner) service(name string) (services.Service, error) {
	kind, err := providerKind(name)
	if err != nil {
		return nil, err
	}

	if svc, ok := r.services[kind]; ok {
		return svc, nil
	}

	svc, err := services.New(kind, r.serviceOptions(kind))
	if err != nil {
		return nil, err
	}
	r.services[kind] = svc
	return svc, nil
}

// snapshots returns the snapshot store, opening the configured database on first use.
func (r *Runner) snapshots() (repositories.SnapshotStore, error) {
	if r.store != nil {
		return r.store, nil
	}

	r.logger.Debug("opening database", "path", r.config.Database.Path)

	db, err := repositories.Open(r.config.Database)
	if err != nil {
		return nil, err
	}

	r.db = db
	r.store = repositories.NewSnapshotRepository(db)
	return r.store, nil
}

func (r *Runner) collector() *tasks.Collector {
	return tasks.NewCollector(tasks.CollectorOpts{
		Workers:   r.config.Collect.Workers,
		RateLimit: r.config.Collect.RateLimit,
		Logger:    r.logger,
	})
}

// Close releases the database handle if one was opened.
func (r *Runner) Close() error {
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

// progress logs updates until the returned stop function is called.
func (r *Runner) progress() (chan<- tasks.ProgressUpdate, func()) {
	ch := make(chan tasks.ProgressUpdate, 32)
	done := make(chan struct{})

	go func() {
		defer close(done)
		for update := range ch {
			r.logger.Info(update.Message, "phase", update.Phase)
		}
	}()

	return ch, func() {
		close(ch)
		<-done
	}
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writeBytes(data []byte) error {
	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
