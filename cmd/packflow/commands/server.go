package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/alecthomas/kingpin/v2"

	"github.com/packflow/packflow/internal/app/auditsync"
	"github.com/packflow/packflow/internal/app/dashboard"
	"github.com/packflow/packflow/internal/app/staff"
	"github.com/packflow/packflow/internal/app/taskaction"
	"github.com/packflow/packflow/internal/app/taskinfo"
	apihttp "github.com/packflow/packflow/internal/http"
	"github.com/packflow/packflow/internal/storage"
	airtablestorage "github.com/packflow/packflow/internal/storage/airtable"
	"github.com/packflow/packflow/internal/storage/io"
	"github.com/packflow/packflow/internal/storage/memory"
	"github.com/packflow/packflow/internal/storage/sqlite"
)

const (
	storageAirtable = "airtable"
	storageSQLite   = "sqlite"
	storageMemory   = "memory"
)

type ServerCommand struct {
	Cmd     *kingpin.CmdClause
	rootCmd *RootCommand

	listenAddr     string
	storageType    string
	airtableAPIKey string
	airtableBaseID string
	schemaFile     string
	devMode        bool
}

// NewServerCommand returns the server command.
func NewServerCommand(rootCmd *RootCommand, app *kingpin.Application) *ServerCommand {
	c := &ServerCommand{rootCmd: rootCmd}

	c.Cmd = app.Command("server", "Run the fulfillment API server.")
	c.Cmd.Flag("listen-addr", "Address the HTTP server listens on.").Default(":8080").StringVar(&c.listenAddr)
	c.Cmd.Flag("storage", "Storage backend.").Default(storageAirtable).EnumVar(&c.storageType, storageAirtable, storageSQLite, storageMemory)
	c.Cmd.Flag("airtable-api-key", "Airtable API key.").Envar("PACKFLOW_AIRTABLE_API_KEY").StringVar(&c.airtableAPIKey)
	c.Cmd.Flag("airtable-base-id", "Airtable base ID.").Envar("PACKFLOW_AIRTABLE_BASE_ID").StringVar(&c.airtableBaseID)
	c.Cmd.Flag("schema-file", "Optional YAML file overriding the store table names.").StringVar(&c.schemaFile)
	c.Cmd.Flag("dev", "Expose internal error details in API responses.").BoolVar(&c.devMode)

	return c
}

func (c ServerCommand) Name() string { return c.Cmd.FullCommand() }

func (c ServerCommand) Run(ctx context.Context) error {
	logger := c.rootCmd.Logger

	tasksRepo, staffRepo, auditRepo, cleanup, err := c.repositories(ctx)
	if err != nil {
		return fmt.Errorf("could not create repositories: %w", err)
	}
	defer cleanup()

	actionSvc, err := taskaction.NewService(taskaction.ServiceConfig{Tasks: tasksRepo, Staff: staffRepo, Audit: auditRepo, Logger: logger})
	if err != nil {
		return fmt.Errorf("could not create task action service: %w", err)
	}
	infoSvc, err := taskinfo.NewService(taskinfo.ServiceConfig{Tasks: tasksRepo, Audit: auditRepo, Logger: logger})
	if err != nil {
		return fmt.Errorf("could not create task info service: %w", err)
	}
	dashSvc, err := dashboard.NewService(dashboard.ServiceConfig{Tasks: tasksRepo, Logger: logger})
	if err != nil {
		return fmt.Errorf("could not create dashboard service: %w", err)
	}
	staffSvc, err := staff.NewService(staff.ServiceConfig{Staff: staffRepo, Logger: logger})
	if err != nil {
		return fmt.Errorf("could not create staff service: %w", err)
	}
	syncSvc, err := auditsync.NewService(auditsync.ServiceConfig{Audit: auditRepo, Logger: logger})
	if err != nil {
		return fmt.Errorf("could not create audit sync service: %w", err)
	}

	server, err := apihttp.NewServer(apihttp.ServerConfig{
		TaskAction: actionSvc,
		TaskInfo:   infoSvc,
		Dashboard:  dashSvc,
		Staff:      staffSvc,
		AuditSync:  syncSvc,
		Logger:     logger,
		DevMode:    c.devMode,
	})
	if err != nil {
		return fmt.Errorf("could not create server: %w", err)
	}

	srv := &http.Server{
		Addr:              c.listenAddr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Could not shut down server gracefully: %s", err)
		}
	}()

	logger.Infof("Serving API on %s (storage: %s)", c.listenAddr, c.storageType)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// repositories builds the storage backend selected by flags. The returned
// cleanup closes whatever the backend holds open.
func (c ServerCommand) repositories(ctx context.Context) (storage.TasksRepository, storage.StaffRepository, storage.AuditRepository, func(), error) {
	logger := c.rootCmd.Logger
	noop := func() {}

	switch c.storageType {
	case storageAirtable:
		schema := airtablestorage.Schema{}
		if c.schemaFile != "" {
			absPath, err := filepath.Abs(c.schemaFile)
			if err != nil {
				return nil, nil, nil, noop, fmt.Errorf("could not resolve schema file path: %w", err)
			}
			schemaRepo := io.NewSchemaYAMLRepository(os.DirFS("/"))
			schema, err = schemaRepo.GetSchema(ctx, absPath[1:])
			if err != nil {
				return nil, nil, nil, noop, fmt.Errorf("could not load schema file: %w", err)
			}
		}

		repo, err := airtablestorage.NewRepository(airtablestorage.RepositoryConfig{
			APIKey: c.airtableAPIKey,
			BaseID: c.airtableBaseID,
			Schema: schema,
			Logger: logger,
		})
		if err != nil {
			return nil, nil, nil, noop, err
		}
		return repo, repo, repo, noop, nil

	case storageSQLite:
		repo, err := sqlite.NewRepository(ctx, sqlite.RepositoryConfig{
			DBPath: c.rootCmd.DBPath,
			Logger: logger,
		})
		if err != nil {
			return nil, nil, nil, noop, err
		}
		return repo, repo, repo, func() { _ = repo.Close() }, nil

	case storageMemory:
		repo, err := memory.NewRepository(memory.RepositoryConfig{Logger: logger})
		if err != nil {
			return nil, nil, nil, noop, err
		}
		return repo, repo, repo, noop, nil
	}

	return nil, nil, nil, noop, fmt.Errorf("unknown storage backend %q", c.storageType)
}
