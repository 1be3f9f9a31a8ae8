package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-crudkit/pkg/openapi"
)

func newConvertCommand() *cobra.Command {
	var (
		operationID string
		shape       string
		output      string
	)

	cmd := &cobra.Command{
		Use:   "convert <openapi-spec>",
		Short: "Derive a config from an OpenAPI document",
		Long:  "Loads an OpenAPI 3 spec and converts one operation into a form config (from its request body) or a table config (from its array response).",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			doc, err := openapi.Load(cmd.Context(), data)
			if err != nil {
				return err
			}

			if operationID == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "available operations:")
				for _, id := range doc.Operations() {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", id)
				}
				return nil
			}

			var cfg any
			switch strings.ToLower(shape) {
			case "form":
				cfg, err = doc.FormConfig(operationID)
			case "table":
				cfg, err = doc.TableConfig(operationID)
			default:
				return fmt.Errorf("unknown shape %q (want form or table)", shape)
			}
			if err != nil {
				return err
			}

			payload, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}

			if output != "" {
				if err := os.WriteFile(output, append(payload, '\n'), 0o644); err != nil {
					return err
				}
				logger.Info().Str("path", output).Msg("config written")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(payload))
			return nil
		},
	}

	cmd.Flags().StringVar(&operationID, "operation", "", "operation id to convert (omit to list)")
	cmd.Flags().StringVar(&shape, "shape", "form", "config shape to produce: form or table")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}
