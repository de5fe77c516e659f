package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"go.opentelemetry.io/otel/attribute"

	"github.com/teemow/drivepush/internal/config"
	"github.com/teemow/drivepush/internal/drive"
	"github.com/teemow/drivepush/internal/google"
	"github.com/teemow/drivepush/internal/instrumentation"
	"github.com/teemow/drivepush/internal/logging"
	"github.com/teemow/drivepush/internal/uploader"
)

// deps are the collaborators of a run that tests replace.
type deps struct {
	stdout io.Writer
	stderr io.Writer

	// isTerminal reports whether stdout is a terminal.
	isTerminal func() bool

	readEnv func() config.EnvOverrides

	// authenticate returns an authorized HTTP client and the identity it
	// acts as.
	authenticate func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*http.Client, string, error)

	// newRemote builds the remote storage on top of the authorized client.
	newRemote func(ctx context.Context, httpClient *http.Client, cfg *config.Config, progress uploader.ProgressFunc, logger *slog.Logger) (uploader.RemoteClient, error)

	telemetry func() instrumentation.Config
}

func defaultDeps() *deps {
	return &deps{
		stdout: os.Stdout,
		stderr: os.Stderr,
		isTerminal: func() bool {
			fd := os.Stdout.Fd()
			return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
		},
		readEnv:      config.ReadEnvOverrides,
		authenticate: authenticate,
		newRemote:    newDriveRemote,
		telemetry:    instrumentation.DefaultConfig,
	}
}

func authenticate(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*http.Client, string, error) {
	session, err := google.NewSession(ctx, google.SessionConfig{
		CredentialsFile: cfg.CredentialsFile,
		Scopes:          cfg.Scopes,
		Subject:         cfg.Impersonate,
	})
	if err != nil {
		return nil, "", err
	}

	// The session fetched its first token already; this reads the cached one.
	if tok, err := session.TokenSource().Token(); err == nil {
		logger.Debug("authenticated",
			slog.String("account", session.Email()),
			slog.String("token", logging.SanitizeToken(tok.AccessToken)),
			slog.Time("expiry", tok.Expiry))
	}

	return session.HTTPClient(), session.Email(), nil
}

func newDriveRemote(ctx context.Context, httpClient *http.Client, cfg *config.Config, progress uploader.ProgressFunc, logger *slog.Logger) (uploader.RemoteClient, error) {
	client, err := drive.NewClient(ctx, httpClient,
		drive.WithChunkSize(cfg.ChunkSize),
		drive.WithLogger(logger),
	)
	if err != nil {
		return nil, err
	}
	return uploader.NewDriveRemote(client, progress), nil
}

// buildLogger creates the stderr logger. The config level is the baseline;
// --verbose and --quiet override it.
func buildLogger(w io.Writer, cfg *config.Config, opts *rootOptions) *slog.Logger {
	level := cfg.LogLevel
	if opts.verbose {
		level = "debug"
	}
	if opts.quiet {
		level = "error"
	}
	return logging.New(w, level)
}

// runUpload resolves configuration, authenticates and uploads localPath.
func runUpload(ctx context.Context, d *deps, opts *rootOptions, localPath string) error {
	cfg, err := config.Resolve(d.readEnv(), opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := buildLogger(d.stderr, cfg, opts)

	icfg := d.telemetry()
	icfg.ServiceVersion = version
	provider, err := instrumentation.NewProvider(ctx, icfg)
	if err != nil {
		return fmt.Errorf("initializing instrumentation: %w", err)
	}
	defer func() {
		// The run context may already be canceled; telemetry still flushes.
		if err := provider.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger.Warn("instrumentation shutdown failed", logging.Err(err))
		}
	}()
	metrics := provider.Metrics()

	httpClient, account, err := d.authenticate(ctx, cfg, logger)
	if err != nil {
		metrics.RecordAuth(ctx, instrumentation.AuthResultFailure)
		return err
	}
	metrics.RecordAuth(ctx, instrumentation.AuthResultSuccess)

	var reporter uploader.Reporter = uploader.NopReporter{}
	var progress uploader.ProgressFunc
	if !opts.quiet {
		console := uploader.NewConsoleReporter(d.stdout, d.isTerminal())
		reporter = console
		progress = console.Progress
	}

	remote, err := d.newRemote(ctx, httpClient, cfg, progress, logger)
	if err != nil {
		return fmt.Errorf("creating Drive client: %w", err)
	}

	if provider.Enabled() {
		audit := instrumentation.NewAuditLoggerWithConfig(logger.With(slog.String("component", "audit")), icfg.AuditLogging)
		if abs, err := filepath.Abs(localPath); err == nil {
			audit.SetRoot(abs)
		}
		audit.SetAccount(account)
		remote = uploader.Instrumented(remote, metrics, audit)
	}

	ctx, span := instrumentation.StartSpan(ctx, "drivepush.upload",
		attribute.String(instrumentation.SpanAttrLocalPath, localPath),
		attribute.String(instrumentation.SpanAttrParentID, cfg.RootParentID),
	)
	defer span.End()

	u := uploader.New(remote, cfg.RootParentID,
		uploader.WithReporter(reporter),
		uploader.WithLogger(logger),
		uploader.WithSkipHidden(cfg.SkipHidden),
	)

	res, err := u.Run(ctx, localPath)

	status := instrumentation.RunCompleted
	if res.State != uploader.StateCompleted {
		status = instrumentation.RunAborted
	}
	metrics.RecordRun(ctx, status, res.Duration)

	if err != nil {
		instrumentation.SetSpanError(span, err)
		return err
	}
	instrumentation.SetSpanSuccess(span)
	return nil
}
