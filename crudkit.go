// Package crudkit exposes the primary entry points of the module at the
// root: parsing declarative table/form configs, validating them, loading
// them from files or URLs, and running data through the table pipeline.
package crudkit

import (
	"context"

	"github.com/goliatone/go-crudkit/pkg/dataops"
	"github.com/goliatone/go-crudkit/pkg/loader"
	"github.com/goliatone/go-crudkit/pkg/schema"
)

// Canonical config types, re-exported for callers that only need the root
// package.
type (
	TableConfig  = schema.TableConfig
	FormConfig   = schema.FormConfig
	ModalConfig  = schema.ModalConfig
	FieldConfig  = schema.FieldConfig
	ColumnConfig = schema.ColumnConfig

	Result    = schema.Result
	PageState = dataops.PageState
)

// ParseTableConfig normalizes a raw table config document.
func ParseTableConfig(raw map[string]any, opts ...schema.Option) (TableConfig, error) {
	return schema.ParseTableConfig(raw, opts...)
}

// ParseFormConfig normalizes a raw form config document.
func ParseFormConfig(raw map[string]any, opts ...schema.Option) (FormConfig, error) {
	return schema.ParseFormConfig(raw, opts...)
}

// ValidateConfig reports structural problems in a parsed config.
func ValidateConfig(cfg any) Result {
	return schema.ValidateConfig(cfg)
}

// NewLoader constructs a caching config loader.
func NewLoader(opts ...loader.Option) (*loader.Loader, error) {
	return loader.New(opts...)
}

// LoadTableConfig is a one-shot convenience: build a loader, fetch, parse.
func LoadTableConfig(ctx context.Context, source string, opts ...loader.Option) (TableConfig, error) {
	configs, err := loader.New(opts...)
	if err != nil {
		return TableConfig{}, err
	}
	defer configs.Close()
	return configs.LoadTable(ctx, source)
}

// LoadFormConfig is the form counterpart of LoadTableConfig.
func LoadFormConfig(ctx context.Context, source string, opts ...loader.Option) (FormConfig, error) {
	configs, err := loader.New(opts...)
	if err != nil {
		return FormConfig{}, err
	}
	defer configs.Close()
	return configs.LoadForm(ctx, source)
}
