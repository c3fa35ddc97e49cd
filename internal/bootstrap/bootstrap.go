package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	hclog "github.com/hashicorp/go-hclog"

	cataloginadapter "yogavrita/internal/modules/catalog/adapter/in"
	catalogoutadapter "yogavrita/internal/modules/catalog/adapter/out"
	catalogservice "yogavrita/internal/modules/catalog/service"
	catalogusecase "yogavrita/internal/modules/catalog/usecase"
	hookinadapter "yogavrita/internal/modules/hook/adapter/in"
	hookoutadapter "yogavrita/internal/modules/hook/adapter/out"
	hookservice "yogavrita/internal/modules/hook/service"
	hookusecase "yogavrita/internal/modules/hook/usecase"
	profileinadapter "yogavrita/internal/modules/profile/adapter/in"
	profileoutadapter "yogavrita/internal/modules/profile/adapter/out"
	profiledomain "yogavrita/internal/modules/profile/domain"
	profileservice "yogavrita/internal/modules/profile/service"
	profileusecase "yogavrita/internal/modules/profile/usecase"
	sessioninadapter "yogavrita/internal/modules/session/adapter/in"
	sessionservice "yogavrita/internal/modules/session/service"
	sessionusecase "yogavrita/internal/modules/session/usecase"
	"yogavrita/internal/platform/clock"
	"yogavrita/internal/platform/config"
	"yogavrita/internal/platform/id"
	"yogavrita/internal/platform/kv"
	"yogavrita/internal/platform/logging"
	uiapp "yogavrita/internal/ui/app"
)

type App struct {
	Config     config.Config
	Logger     hclog.Logger
	Clock      clock.Clock
	CatalogCLI cataloginadapter.CLIHandler
	SessionCLI sessioninadapter.CLIHandler
	ProfileCLI profileinadapter.CLIHandler
	HookCLI    hookinadapter.CLIHandler

	closers []func() error
}

func New(cfg config.Config) (*App, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	logger, closeLog, err := logging.New(cfg.LogPath, cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	restDay, err := cfg.RestWeekday()
	if err != nil {
		_ = closeLog()
		return nil, err
	}
	store, err := kv.OpenSQLite(cfg.DBPath, cfg.StorageQuotaBytes)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("open storage: %w", err)
	}

	clk := clock.SystemClock{}
	ids := id.UUID{}

	source := catalogoutadapter.NewBuiltinSource()
	if cfg.CatalogPath != "" {
		source = catalogoutadapter.NewYAMLFileSource(cfg.CatalogPath)
	}
	catalogUC := catalogusecase.NewInteractor(catalogservice.NewCatalogService(
		source,
		catalogoutadapter.NewKVSequenceCache(store),
		catalogoutadapter.NewYAMLEncoder(),
		restDay,
		logger.Named("catalog"),
	))

	profileUC := profileusecase.NewInteractor(profileservice.NewProfileService(
		profileoutadapter.NewKVProfileStore(store, logger.Named("profile")),
		store,
		profiledomain.NewStreakCalculator(profiledomain.WeeklyRestDay(restDay)),
		clk,
		ids,
		logger.Named("profile"),
	))

	hookUC := hookusecase.NewInteractor(hookservice.NewHookService(
		hookoutadapter.NewFileManifestStore(cfg.HooksPath),
		hookoutadapter.NewGRPCHost(logger.Named("hook-host")),
		cfg.DataDir,
		logger.Named("hooks"),
	))

	timer := sessionservice.NewTimer(clock.TickerScheduler{}, cfg.TickInterval, logger.Named("timer"))
	sessionUC := sessionusecase.NewInteractor(timer, catalogUC, profileUC, hookUC, clk, ids, logger.Named("session"))

	logger.Debug("app wired", "data_dir", cfg.DataDir, "db", cfg.DBPath, "rest_day", restDay)
	return &App{
		Config:     cfg,
		Logger:     logger,
		Clock:      clk,
		CatalogCLI: cataloginadapter.NewCLIHandler(catalogUC),
		SessionCLI: sessioninadapter.NewCLIHandler(sessionUC),
		ProfileCLI: profileinadapter.NewCLIHandler(profileUC),
		HookCLI:    hookinadapter.NewCLIHandler(hookUC),
		closers:    []func() error{store.Close, closeLog},
	}, nil
}

// Close stops any running session and releases storage and the log file.
func (a *App) Close() error {
	a.SessionCLI.Exit()
	errs := []error{}
	for _, closeFn := range a.closers {
		errs = append(errs, closeFn())
	}
	a.closers = nil
	return errors.Join(errs...)
}

type appKey struct{}

func WithApp(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, appKey{}, app)
}

// FromContext returns the app stored by WithApp. Calling it outside a
// command that loaded the app is a wiring bug and panics.
func FromContext(ctx context.Context) *App {
	app, ok := ctx.Value(appKey{}).(*App)
	if !ok || app == nil {
		panic("bootstrap: no app in context; command must run under the root command")
	}
	return app
}

type TUIOptions struct {
	// PracticeDay starts a practice on launch. "today" means the scheduled day.
	PracticeDay string
}

func RunTUI(ctx context.Context, app *App, opts TUIOptions) error {
	model := uiapp.NewModel(ctx, uiapp.Deps{
		Catalog: app.CatalogCLI,
		Session: app.SessionCLI,
		Profile: app.ProfileCLI,
	}, opts.PracticeDay)
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}
