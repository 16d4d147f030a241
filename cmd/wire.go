package cmd

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bnema/trae-accounts-cli/internal/adapters/backend"
	statusadapter "github.com/bnema/trae-accounts-cli/internal/adapters/render/status"
	sqliterepo "github.com/bnema/trae-accounts-cli/internal/adapters/repo/sqlite"
	tomlrepo "github.com/bnema/trae-accounts-cli/internal/adapters/repo/toml"
	chainstore "github.com/bnema/trae-accounts-cli/internal/adapters/secrets/chain"
	"github.com/bnema/trae-accounts-cli/internal/adapters/trae"
	"github.com/bnema/trae-accounts-cli/internal/application"
	"github.com/bnema/trae-accounts-cli/internal/config"
	"github.com/bnema/trae-accounts-cli/internal/domain"
	"github.com/bnema/trae-accounts-cli/internal/logging"
	"github.com/bnema/trae-accounts-cli/internal/ports"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// app is wired lazily on the first command that needs it, after flags have
// been parsed.
type app struct {
	configPath string

	cfg            config.Config
	engine         *application.Engine
	log            *logrus.Logger
	statusRenderer func([]domain.AccountWithUsage, statusadapter.RenderOptions) (string, error)
	now            func() time.Time
	closeRepo      func() error
}

func (a *app) wire(logOut io.Writer) error {
	if a.engine != nil {
		return nil
	}

	v := viper.New()
	if a.configPath != "" {
		v.SetConfigFile(a.configPath)
	}

	cfg, err := config.Load(v)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, logOut)
	if err != nil {
		return fmt.Errorf("wire logger: %w", err)
	}

	repo, closeRepo, err := openRepository(cfg.Accounts)
	if err != nil {
		return fmt.Errorf("wire account repository: %w", err)
	}

	secretStore, err := chainstore.ForBackend(cfg.Secrets.Backend, cfg.Secrets.Dir)
	if err != nil {
		return errors.Join(fmt.Errorf("wire secret store: %w", err), closeRepo())
	}

	client := trae.NewClient(trae.Options{
		BaseURLs:    cfg.Backend.BaseURLs,
		UserInfoURL: cfg.Backend.UserInfoURL,
		Timeout:     cfg.Backend.Timeout,
		Logger:      logger,
	})

	clock := ports.SystemClock{}
	store := backend.NewStore(repo, secretStore, client, clock, logger)

	a.cfg = cfg
	a.log = logger
	a.closeRepo = closeRepo
	a.statusRenderer = statusadapter.Render
	a.now = clock.Now
	a.engine = application.NewEngine(application.Deps{
		Store:           store,
		Clock:           clock,
		Logger:          logger,
		LoadConcurrency: cfg.Engine.LoadConcurrency,
		RefreshTimeout:  cfg.Engine.RefreshTimeout,
		NotificationTTL: cfg.Engine.NotificationTTL,
	})

	return nil
}

func openRepository(cfg config.AccountsConfig) (ports.AccountRepository, func() error, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		repo, err := sqliterepo.NewRepository(cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		return repo, repo.Close, nil
	default:
		repo, err := tomlrepo.NewRepository(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() error { return nil }, nil
	}
}

func (a *app) close() error {
	if a.closeRepo == nil {
		return nil
	}
	err := a.closeRepo()
	a.closeRepo = nil
	return err
}

// action wires the app before fn runs and drains the engine notifications to
// stderr once it returns, whatever the outcome.
func (a *app) action(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) (err error) {
		if err := a.wire(cmd.ErrOrStderr()); err != nil {
			return err
		}
		defer func() {
			a.flushNotifications(cmd.ErrOrStderr())
			if closeErr := a.close(); closeErr != nil && err == nil {
				err = fmt.Errorf("close account repository: %w", closeErr)
			}
		}()

		return fn(cmd, args)
	}
}

func (a *app) flushNotifications(out io.Writer) {
	notifications := a.engine.DrainNotifications()
	if len(notifications) == 0 {
		return
	}
	_, _ = fmt.Fprintln(out, statusadapter.FormatNotifications(notifications))
}

// load populates the registry behind a spinner on stderr.
func (a *app) load(cmd *cobra.Command) error {
	return runSpinner(cmd.Context(), cmd.ErrOrStderr(), "Loading accounts...", a.engine.Load)
}
