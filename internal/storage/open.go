package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/yukikurage/planner-api/internal/database"
	"gorm.io/gorm/logger"
)

// Backend kinds selected from the DSN.
const (
	BackendMemory = "memory"
	BackendMongo  = "mongo"
	BackendSQL    = "sql"
)

// Options configures Open.
type Options struct {
	// DSN selects the backend: empty or memory:// for process memory,
	// mongodb:// or mongodb+srv:// for MongoDB, postgres://, mysql:// or
	// sqlite:// for a relational database.
	DSN           string
	MongoDatabase string
	// Verbose turns on SQL statement logging.
	Verbose bool
}

// Backend reports which implementation dsn selects.
func Backend(dsn string) (string, error) {
	lower := strings.ToLower(strings.TrimSpace(dsn))
	switch {
	case lower == "", strings.HasPrefix(lower, "memory://"):
		return BackendMemory, nil
	case strings.HasPrefix(lower, "mongodb://"), strings.HasPrefix(lower, "mongodb+srv://"):
		return BackendMongo, nil
	case database.IsRelational(lower):
		return BackendSQL, nil
	default:
		return "", fmt.Errorf("unsupported storage url scheme")
	}
}

// Open builds the Storage implementation selected by opts.DSN.
func Open(ctx context.Context, opts Options) (Storage, error) {
	backend, err := Backend(opts.DSN)
	if err != nil {
		return nil, err
	}

	switch backend {
	case BackendMongo:
		name := opts.MongoDatabase
		if name == "" {
			name = "planner"
		}
		store, err := ConnectMongo(ctx, opts.DSN, name)
		if err != nil {
			return nil, err
		}
		slog.Info("using mongo storage", slog.String("database", name))
		return store, nil

	case BackendSQL:
		level := logger.Warn
		if opts.Verbose {
			level = logger.Info
		}
		db, err := database.Connect(opts.DSN, level)
		if err != nil {
			return nil, err
		}
		if err := database.Migrate(db); err != nil {
			return nil, err
		}
		slog.Info("using relational storage")
		return NewGormStore(db, nil), nil

	default:
		if opts.DSN == "" {
			slog.Warn("no storage url set, falling back to in-memory storage")
		} else {
			slog.Info("using in-memory storage")
		}
		return NewMemoryStore(nil), nil
	}
}
