package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-crudkit/pkg/loader"
	"github.com/goliatone/go-crudkit/pkg/schema"
)

func newValidateCommand() *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate <config>...",
		Short: "Parse and validate config files",
		Long:  "Parses each config (JSON or YAML, local path or URL) and reports validation findings. Exits non-zero when any config has errors, or warnings under --strict.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configs, err := loader.New(loader.WithHTTPFallback(), loader.WithLogger(logger))
			if err != nil {
				return err
			}
			defer configs.Close()

			failed := false
			for _, source := range args {
				cfg, err := configs.Load(cmd.Context(), source)
				if err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: %v\n", source, err)
					failed = true
					continue
				}

				result := schema.ValidateConfig(cfg)
				for _, finding := range result.Errors {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: error: %s: %s\n", source, finding.Path, finding.Message)
				}
				for _, finding := range result.Warnings {
					fmt.Fprintf(cmd.ErrOrStderr(), "%s: warning: %s: %s\n", source, finding.Path, finding.Message)
					if finding.Suggestion != "" {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s:   hint: %s\n", source, finding.Suggestion)
					}
				}

				switch {
				case !result.Valid:
					failed = true
				case strict && len(result.Warnings) > 0:
					failed = true
				default:
					fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", source)
				}
			}

			if failed {
				return fmt.Errorf("validation failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as failures")
	return cmd
}
