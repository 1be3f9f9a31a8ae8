package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-crudkit/pkg/loader"
)

func newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <config>",
		Short: "Print the normalized form of a config",
		Long:  "Parses a config and prints the fully-defaulted canonical document as JSON. The output parses back to an identical config.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configs, err := loader.New(loader.WithHTTPFallback(), loader.WithLogger(logger))
			if err != nil {
				return err
			}
			defer configs.Close()

			cfg, err := configs.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			payload, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(payload))
			return nil
		},
	}
}
