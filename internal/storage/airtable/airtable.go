// Package airtable implements the task, staff and audit repositories on top
// of a hosted Airtable base. The store is treated as an external
// collaborator: calls fail transiently (network, rate limits) and are not
// retried here, callers see the raw failure.
package airtable

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/mehanizm/airtable"

	"github.com/packflow/packflow/internal/log"
	"github.com/packflow/packflow/internal/model"
)

// RepositoryConfig is the configuration for the Airtable repository.
type RepositoryConfig struct {
	APIKey string
	BaseID string
	Schema Schema
	// HTTPClient overrides the client used for API calls, mainly for tests.
	HTTPClient *http.Client
	Logger     log.Logger
}

func (c *RepositoryConfig) defaults() error {
	if c.APIKey == "" {
		return fmt.Errorf("api key is required")
	}
	if c.BaseID == "" {
		return fmt.Errorf("base id is required")
	}
	if err := c.Schema.defaults(); err != nil {
		return err
	}
	if err := c.Schema.Validate(); err != nil {
		return fmt.Errorf("invalid schema: %w", err)
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Airtable"})
	return nil
}

// Repository is an Airtable implementation of the task, staff and audit
// repositories.
type Repository struct {
	tasksTable *airtable.Table
	staffTable *airtable.Table
	auditTable *airtable.Table
	mapper     mapper
	staffIndex *staffIndex
	logger     log.Logger
}

// NewRepository creates a new Airtable repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	client := airtable.NewClient(cfg.APIKey)
	if cfg.HTTPClient != nil {
		client.SetCustomClient(cfg.HTTPClient)
	}

	return &Repository{
		tasksTable: client.GetTable(cfg.BaseID, cfg.Schema.TasksTable),
		staffTable: client.GetTable(cfg.BaseID, cfg.Schema.StaffTable),
		auditTable: client.GetTable(cfg.BaseID, cfg.Schema.AuditTable),
		mapper:     newMapper(cfg.Logger),
		staffIndex: newStaffIndex(),
		logger:     cfg.Logger,
	}, nil
}

// listQuery bounds a table listing. The store returns its default view order
// unless a sort is given explicitly.
type listQuery struct {
	formula       string
	sortField     string
	sortDirection string
}

// listAllRecords pages through a table applying the given query.
func (r *Repository) listAllRecords(ctx context.Context, table *airtable.Table, lq listQuery) ([]*airtable.Record, error) {
	var all []*airtable.Record
	offset := ""

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		q := table.GetRecords()
		if lq.formula != "" {
			q = q.WithFilterFormula(lq.formula)
		}
		if lq.sortField != "" {
			q = q.WithSort(struct {
				FieldName string
				Direction string
			}{FieldName: lq.sortField, Direction: lq.sortDirection})
		}
		if offset != "" {
			q = q.WithOffset(offset)
		}

		page, err := q.Do()
		if err != nil {
			return nil, fmt.Errorf("could not list records: %w", err)
		}

		all = append(all, page.Records...)
		if page.Offset == "" {
			return all, nil
		}
		offset = page.Offset
	}
}

// notFoundErr maps the store's record-missing failures to the domain
// sentinel. The client library only exposes the HTTP failure as text.
func notFoundErr(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "404") || strings.Contains(msg, "NOT_FOUND") ||
		strings.Contains(msg, "MODEL_ID_NOT_FOUND")
}

func asNotFound(err error, what, id string) error {
	if notFoundErr(err) {
		return fmt.Errorf("%s %s: %w", what, id, model.ErrNotFound)
	}
	return nil
}

// formulaEq builds a filter formula matching a field against a literal.
func formulaEq(field, value string) string {
	escaped := strings.ReplaceAll(value, "'", "\\'")
	return fmt.Sprintf("{%s}='%s'", field, escaped)
}
