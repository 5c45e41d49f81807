package container

import (
	"context"
	"fmt"

	"gocompare/adapters/datareadiness/coercer"
	"gocompare/adapters/datareadiness/rows"
	"gocompare/adapters/memory"
	"gocompare/adapters/postgres"
	"gocompare/app"
	"gocompare/internal"
	"gocompare/internal/config"
	"gocompare/internal/errors"
	"gocompare/internal/migration"
	"gocompare/ports"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// MemoryCapacity is how many runs the in-memory store keeps.
const MemoryCapacity = 100

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// Infrastructure; nil without DATABASE_URL
	DB *sqlx.DB

	Validator  *rows.Validator
	Service    *app.ComparisonService
	Repository ports.ResultRepository
}

// New creates a new dependency injection container. Without a database the
// repository is an in-memory store.
func New(cfg *config.Config) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	// Adapters derive their loggers from DefaultLogger, so set its level here.
	logger := internal.DefaultLogger
	logger.SetLevel(internal.ParseLogLevel(cfg.LogLevel))

	coercion := coercer.DefaultCoercionConfig()
	if cfg.Columns.LenientNumbers {
		coercion = coercer.LenientCoercionConfig()
	}
	validator := rows.NewValidator(cfg.Columns.Mapping(), coercer.NewTypeCoercer(coercion))
	c := &Container{
		Config:     cfg,
		Logger:     logger,
		Validator:  validator,
		Service:    app.NewComparisonService(validator, cfg.Workers, logger),
		Repository: memory.NewResultStore(MemoryCapacity),
	}
	return c, nil
}

// InitWithDatabase connects, migrates and switches the repository to
// Postgres. It is a no-op when no database is configured.
func (c *Container) InitWithDatabase(ctx context.Context) error {
	if !c.Config.Database.Enabled() {
		return nil
	}

	db, err := sqlx.ConnectContext(ctx, "postgres", c.Config.Database.URL)
	if err != nil {
		return errors.DatabaseError("failed to connect to database", err)
	}

	migrator := migration.NewRunner()
	if err := migrator.Run(ctx, db); err != nil {
		db.Close()
		return errors.Wrap(err, "database migration failed")
	}

	c.DB = db
	c.Repository = postgres.NewResultRepository(db)
	c.Logger.Info("Postgres result store ready (schema %s)", migrator.Version())
	return nil
}

// Close releases infrastructure
func (c *Container) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
