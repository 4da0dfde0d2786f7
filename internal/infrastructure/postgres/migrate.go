package postgres

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib" // driver "pgx" para database/sql

	"github.com/jhoicas/stock-ledger/migrations"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// Migrator aplica el esquema embebido en migrations.FS.
type Migrator struct {
	m   *migrate.Migrate
	db  *sql.DB
	log *logger.Logger
}

// NewMigrator abre una conexión database/sql sobre pgx y prepara golang-migrate.
func NewMigrator(dsn string, log *logger.Logger) (*Migrator, error) {
	if log == nil {
		log = logger.Nop()
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open migration db: %w", err)
	}
	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{SchemaName: "public"})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create postgres driver instance: %w", err)
	}
	src, err := iofs.New(migrations.FS, ".")
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create migration instance: %w", err)
	}
	return &Migrator{m: m, db: db, log: log.Named("migrate")}, nil
}

// Up aplica todas las migraciones pendientes. Sin cambios no es error.
func (g *Migrator) Up() error {
	if err := g.m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			g.log.Info().Msg("sin migraciones nuevas")
			return nil
		}
		var dirty migrate.ErrDirty
		if errors.As(err, &dirty) {
			return fmt.Errorf("migration failed: dirty database version %d", dirty.Version)
		}
		return fmt.Errorf("migration up: %w", err)
	}
	g.logVersion("migraciones aplicadas")
	return nil
}

// Down revierte steps migraciones (steps <= 0 revierte todas).
func (g *Migrator) Down(steps int) error {
	var err error
	if steps > 0 {
		err = g.m.Steps(-steps)
	} else {
		err = g.m.Down()
	}
	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration down: %w", err)
	}
	g.logVersion("migraciones revertidas")
	return nil
}

// Version versión actual del esquema; 0 si no hay ninguna aplicada.
func (g *Migrator) Version() (version uint, dirty bool, err error) {
	version, dirty, err = g.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// Close libera la fuente y la conexión.
func (g *Migrator) Close() error {
	srcErr, dbErr := g.m.Close()
	return errors.Join(srcErr, dbErr, g.db.Close())
}

func (g *Migrator) logVersion(msg string) {
	v, dirty, err := g.Version()
	if err != nil {
		g.log.Warn().Err(err).Msg("leer versión del esquema")
		return
	}
	g.log.Info().Uint("version", v).Bool("dirty", dirty).Msg(msg)
}
