package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-crudkit/pkg/schema"
)

func newInitCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Scaffold a new config interactively",
		RunE: func(cmd *cobra.Command, _ []string) error {
			var kind string
			if err := survey.AskOne(&survey.Select{
				Message: "What kind of config?",
				Options: []string{"table", "form"},
				Default: "table",
			}, &kind); err != nil {
				return err
			}

			var (
				cfg any
				err error
			)
			switch kind {
			case "table":
				cfg, err = scaffoldTable()
			default:
				cfg, err = scaffoldForm()
			}
			if err != nil {
				return err
			}

			payload, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("encode config: %w", err)
			}

			if output == "" {
				output = kind + ".json"
			}
			if err := os.WriteFile(output, append(payload, '\n'), 0o644); err != nil {
				return err
			}
			logger.Info().Str("path", output).Msg("config written")
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (defaults to <kind>.json)")
	return cmd
}

func scaffoldTable() (schema.TableConfig, error) {
	answers := struct {
		Columns  string
		RowKey   string
		PageSize int
	}{}

	questions := []*survey.Question{
		{
			Name: "columns",
			Prompt: &survey.Input{
				Message: "Column keys (comma separated):",
				Default: "id, name",
			},
			Validate: survey.Required,
		},
		{
			Name:   "rowKey",
			Prompt: &survey.Input{Message: "Row key:", Default: "id"},
		},
		{
			Name:   "pageSize",
			Prompt: &survey.Input{Message: "Page size:", Default: "10"},
		},
	}
	if err := survey.Ask(questions, &answers); err != nil {
		return schema.TableConfig{}, err
	}

	columns := make([]any, 0)
	for _, key := range strings.Split(answers.Columns, ",") {
		if key = strings.TrimSpace(key); key != "" {
			columns = append(columns, map[string]any{"key": key})
		}
	}

	raw := map[string]any{
		"columns":    columns,
		"rowKey":     answers.RowKey,
		"pagination": map[string]any{"enabled": true, "pageSize": answers.PageSize},
	}
	return schema.ParseTableConfig(raw)
}

func scaffoldForm() (schema.FormConfig, error) {
	answers := struct {
		Title  string
		Fields string
	}{}

	questions := []*survey.Question{
		{
			Name:     "title",
			Prompt:   &survey.Input{Message: "Form title:", Default: "New Form"},
			Validate: survey.Required,
		},
		{
			Name: "fields",
			Prompt: &survey.Input{
				Message: "Field names (comma separated):",
				Default: "name, email",
			},
			Validate: survey.Required,
		},
	}
	if err := survey.Ask(questions, &answers); err != nil {
		return schema.FormConfig{}, err
	}

	fields := make([]any, 0)
	for _, name := range strings.Split(answers.Fields, ",") {
		if name = strings.TrimSpace(name); name != "" {
			field := map[string]any{"name": name}
			if strings.Contains(strings.ToLower(name), "email") {
				field["type"] = "email"
			}
			fields = append(fields, field)
		}
	}

	raw := map[string]any{
		"title": answers.Title,
		"sections": []any{
			map[string]any{"title": answers.Title, "fields": fields},
		},
	}
	return schema.ParseFormConfig(raw)
}
