package io

import (
	"context"
	"fmt"
	"io/fs"

	"gopkg.in/yaml.v3"

	airtablestorage "github.com/packflow/packflow/internal/storage/airtable"
)

// SchemaYAMLRepository loads store table schemas from YAML files. It lets
// deployments rename the backing tables without rebuilding the server.
type SchemaYAMLRepository struct {
	fs fs.FS
}

// NewSchemaYAMLRepository creates a new YAML schema repository.
func NewSchemaYAMLRepository(filesystem fs.FS) *SchemaYAMLRepository {
	return &SchemaYAMLRepository{fs: filesystem}
}

// GetSchema loads a table schema from a YAML file and returns a validated
// schema. Missing table names fall back to the defaults.
func (r *SchemaYAMLRepository) GetSchema(ctx context.Context, path string) (airtablestorage.Schema, error) {
	data, err := fs.ReadFile(r.fs, path)
	if err != nil {
		return airtablestorage.Schema{}, fmt.Errorf("reading schema file: %w", err)
	}

	if ctx.Err() != nil {
		return airtablestorage.Schema{}, ctx.Err()
	}

	var cfg schemaConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return airtablestorage.Schema{}, fmt.Errorf("parsing YAML: %w", err)
	}

	schema := cfg.toSchema()
	if err := schema.Validate(); err != nil {
		return airtablestorage.Schema{}, fmt.Errorf("invalid schema: %w", err)
	}

	return schema, nil
}

type schemaConfig struct {
	Tables tablesConfig `yaml:"tables"`
}

type tablesConfig struct {
	Tasks    string `yaml:"tasks"`
	Staff    string `yaml:"staff"`
	AuditLog string `yaml:"audit_log"`
}

func (c schemaConfig) toSchema() airtablestorage.Schema {
	schema := airtablestorage.Schema{
		TasksTable: c.Tables.Tasks,
		StaffTable: c.Tables.Staff,
		AuditTable: c.Tables.AuditLog,
	}
	if schema.TasksTable == "" {
		schema.TasksTable = airtablestorage.DefaultTasksTable
	}
	if schema.StaffTable == "" {
		schema.StaffTable = airtablestorage.DefaultStaffTable
	}
	if schema.AuditTable == "" {
		schema.AuditTable = airtablestorage.DefaultAuditTable
	}
	return schema
}
