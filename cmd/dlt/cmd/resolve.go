package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dlt-go/dlt/internal/configresolver"
	"github.com/dlt-go/dlt/internal/pipelineconfig"
	"github.com/dlt-go/dlt/internal/section"
)

// resolveCommand resolves a pipelineconfig.StorageConfig against the
// provider stack and logs the resolved root and credentials host; the
// credential secret is never logged.
func (a *App) resolveCommand() *cobra.Command {
	var acceptPartial bool

	c := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the pipeline's storage configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			stack := section.NewStack()
			stack.Push(section.Context{PipelineName: a.pipelineName})
			registry := a.buildRegistry(stack)

			resolver := configresolver.New(registry, stack).WithMetrics(a.metrics)
			cfg := pipelineconfig.NewStorageConfig()

			err := resolver.Resolve(cfg, configresolver.Options{AcceptPartial: acceptPartial})
			if err != nil {
				a.log.Error("resolve failed", "pipeline", a.pipelineName, "error", err)
				return err
			}

			a.log.Info("resolved storage config",
				"pipeline", a.pipelineName,
				"root", cfg.Root,
				"credentials_host", credentialsHost(cfg),
			)
			return nil
		},
	}
	c.Flags().BoolVar(&acceptPartial, "accept-partial", false, "resolve with whatever fields are available instead of failing on missing required fields")
	return c
}

func credentialsHost(cfg *pipelineconfig.StorageConfig) string {
	if cfg.Credentials == nil {
		return ""
	}
	return cfg.Credentials.Host
}
