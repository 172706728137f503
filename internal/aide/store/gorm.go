package store

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/aide-dev/aide/internal/model"
	dbopts "github.com/aide-dev/aide/pkg/options/db"
)

// datastore implements the Factory interface.
type datastore struct {
	db *gorm.DB
}

// NewFactory opens the database selected by the options, applies the
// schema migration, and returns a store factory.
func NewFactory(opts *dbopts.Options) (Factory, error) {
	var dialector gorm.Dialector
	switch opts.Driver {
	case dbopts.DriverSQLite:
		dialector = sqlite.Open(opts.DSN)
	case dbopts.DriverPostgres:
		dialector = postgres.Open(opts.DSN)
	default:
		return nil, fmt.Errorf("unsupported db driver: %q", opts.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access connection pool: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}

	return NewFactoryWithDB(db)
}

// NewFactoryWithDB wraps an existing gorm connection. Used by tests with
// an in-memory database.
func NewFactoryWithDB(db *gorm.DB) (Factory, error) {
	if err := db.AutoMigrate(&model.Document{}, &model.DocumentChunk{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return &datastore{db}, nil
}

// Documents returns the document store.
func (ds *datastore) Documents() DocumentStore {
	return newDocuments(ds.db)
}

// Chunks returns the chunk store.
func (ds *datastore) Chunks() ChunkStore {
	return newChunks(ds.db)
}

// Close closes the underlying connection pool.
func (ds *datastore) Close() error {
	sqlDB, err := ds.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
