// Package cmd wires the dlt CLI's subcommands: resolve (configuration
// resolution), extract (run the extraction pipeline against the demo
// source), and contract (apply the schema-contract engine to a sample
// delta). The host configuration, logger and metrics collector are built
// once before any subcommand runs; each subcommand then builds its own
// slice of the runtime (provider registry, resolver, storage), the way the
// teacher service's migrations CLI builds one manager per subcommand
// instead of a single shared god-object.
package cmd

import (
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/dlt-go/dlt/internal/hostconfig"
	"github.com/dlt-go/dlt/internal/metrics"
	"github.com/dlt-go/dlt/internal/providers"
	"github.com/dlt-go/dlt/internal/section"
	"github.com/dlt-go/dlt/pkg/logger"
)

// App holds the flags and lazily-built runtime shared by every subcommand.
type App struct {
	configFile   string
	pipelineName string
	vaultAddr    string

	host    *hostconfig.Config
	log     *slog.Logger
	metrics *metrics.Metrics
}

// New builds an unconfigured App; flags are bound in Root.
func New() *App {
	return &App{}
}

// Root builds the root cobra command and attaches every subcommand.
func (a *App) Root() *cobra.Command {
	root := &cobra.Command{
		Use:   "dlt",
		Short: "Resolve configuration, enforce schema contracts, and extract data",
		Long: `dlt is a small data-loading pipeline: a hierarchical configuration
resolver, a schema-contract engine, and a pull-based extraction pipeline,
modeled on the dlt Python library's core.`,
		PersistentPreRunE: a.init,
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "host configuration file (yaml/json/toml)")
	root.PersistentFlags().StringVar(&a.pipelineName, "pipeline-name", "dlt", "pipeline name used as the outermost section prefix")
	root.PersistentFlags().StringVar(&a.vaultAddr, "vault-addr", "", "redis address backing the secret-store provider (disabled if empty)")

	root.AddCommand(a.resolveCommand())
	root.AddCommand(a.extractCommand())
	root.AddCommand(a.contractCommand())
	root.AddCommand(versionCommand())

	return root
}

// init runs once, before any subcommand, loading host configuration and
// building the logger and metrics collector every subcommand shares.
func (a *App) init(cmd *cobra.Command, args []string) error {
	host, err := hostconfig.Load(a.configFile)
	if err != nil {
		return err
	}
	a.host = host
	if !cmd.Flags().Changed("pipeline-name") && host.DefaultPipelineName != "" {
		a.pipelineName = host.DefaultPipelineName
	}
	a.log = logger.NewLogger(logger.Config{Level: host.LogLevel, Format: host.LogFormat, Output: "stderr"})
	a.metrics = metrics.New()
	return nil
}

// buildRegistry assembles the provider stack in probe order: environment,
// then the optional vault provider, with the context provider set aside
// for chint.Context fields. The caller owns stack and must push its own
// ambient section.Context before resolving.
func (a *App) buildRegistry(stack *section.Stack) *providers.Registry {
	ctxProvider := providers.NewContextProvider(stack)
	probeStack := []providers.Provider{providers.NewEnvProvider()}
	if a.vaultAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: a.vaultAddr})
		probeStack = append(probeStack, providers.NewVaultProvider(client))
	}
	return providers.New(ctxProvider, probeStack...)
}

func versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println("dlt version dev")
		},
	}
}
