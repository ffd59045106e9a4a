package main

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel/trace"

	"github.com/goliatone/go-storeadmin"
	"github.com/goliatone/go-storeadmin/internal/config"
	"github.com/goliatone/go-storeadmin/internal/logging"
	"github.com/goliatone/go-storeadmin/internal/telemetry"
	"github.com/goliatone/go-storeadmin/pkg/client"
	"github.com/goliatone/go-storeadmin/pkg/entity"
	"github.com/goliatone/go-storeadmin/pkg/renderers/tui"
)

// app is the state shared by every command once flags and config are read.
type app struct {
	out, errOut io.Writer

	configPath string
	viper      *viper.Viper
	cfg        config.Config

	logs     *logging.Output
	logger   zerolog.Logger
	tp       trace.TracerProvider
	shutdown telemetry.Shutdown
	catalog  *entity.Catalog
	prompter tui.Prompter
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut, logger: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "storeadmin",
		Short: "Store admin dashboard and record editor",
		Long: `storeadmin runs the admin dashboard of an e-commerce store and edits
its records from the terminal.

Settings come from storeadmin.yaml, STOREADMIN_* environment variables and
flags, in increasing precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.close(cmd.Context())
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default ./storeadmin.yaml)")
	flags.String("log-level", "", "log level (debug, info, warn, error)")
	flags.String("api", "", "base URL of the store API")
	flags.String("store", "", "store id for store-scoped records")
	flags.String("database", "", "SQLite database path")
	flags.Bool("trace", false, "export trace spans to stderr")

	root.AddCommand(
		newServeCmd(a),
		newSetupCmd(a),
		newFormCmd(a),
		newListCmd(a),
		newLintCmd(a),
	)
	return root
}

// init loads configuration and builds the logger, tracer and catalog.
func (a *app) init(cmd *cobra.Command) error {
	a.viper = config.New(a.configPath)
	bindings := map[string]string{
		"log.level": "log-level",
		"api":       "api",
		"store":     "store",
		"database":  "database",
		"trace":     "trace",
		"listen":    "listen",
	}
	for key, name := range bindings {
		if flag := cmd.Flags().Lookup(name); flag != nil {
			if err := a.viper.BindPFlag(key, flag); err != nil {
				return fmt.Errorf("bind --%s: %w", name, err)
			}
		}
	}

	cfg, err := config.Load(a.viper)
	if err != nil {
		return err
	}
	a.cfg = cfg

	logs, err := logging.New().
		FromWriter(a.errOut).
		FromPath(cfg.Log.File).
		Level(cfg.Log.Level).
		Console(cfg.Log.Console).
		Make()
	if err != nil {
		return err
	}
	a.logs = logs
	a.logger = logs.Logger

	tp, shutdown, err := telemetry.Setup(cmd.Context(), cfg.Trace, a.errOut)
	if err != nil {
		return err
	}
	a.tp, a.shutdown = tp, shutdown

	catalog, err := storeadmin.NewCatalog(cfg.Overrides)
	if err != nil {
		return err
	}
	a.catalog = catalog
	return nil
}

func (a *app) close(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	var err error
	if a.shutdown != nil {
		err = a.shutdown(ctx)
	}
	if a.logs != nil {
		if closeErr := a.logs.Close(); err == nil {
			err = closeErr
		}
	}
	return err
}

func (a *app) client() (*client.Client, error) {
	return client.New(a.cfg.APIBase,
		client.WithCatalog(a.catalog),
		client.WithLogger(a.logger),
		client.WithTracerProvider(a.tp),
	)
}

// scope resolves the store a command works in. Stores themselves need none.
func (a *app) scope(def entity.Definition) (entity.Scope, error) {
	scope := entity.Scope{StoreID: a.cfg.Store}
	if def.Scoped && scope.StoreID == "" {
		return scope, fmt.Errorf("%s records belong to a store; pass --store", def.Kind)
	}
	return scope, nil
}
