package yafsm

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/YaCodeDev/GoYaCodeDevDispatch/config"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yacache"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yaerrors"
	"github.com/YaCodeDev/GoYaCodeDevDispatch/yalogger"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	_ "modernc.org/sqlite" // registers the pure Go "sqlite" driver
)

const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

// Open builds the Storage selected by cfg.Backend.
//
// Example usage:
//
//	storage, err := yafsm.Open(ctx, cfg.Storage, log)
//	if err != nil {
//		log.Fatalf("failed to open state storage: %v", err)
//	}
//	defer storage.Close()
func Open(ctx context.Context, cfg config.Storage, log yalogger.Logger) (Storage, yaerrors.Error) {
	if log == nil {
		log = yalogger.NewBaseLogger(nil).NewLogger()
	}

	backend := strings.ToLower(strings.TrimSpace(cfg.Backend))

	log.Infof("Opening %s state storage in namespace %s", backend, orDefault(cfg.Namespace))

	switch backend {
	case "", BackendMemory:
		return NewMemoryStorage(cfg.Namespace), nil
	case BackendRedis:
		client, err := yacache.NewRedisClient(
			ctx,
			cfg.RedisHost,
			cfg.RedisPort,
			cfg.RedisPassword,
			cfg.RedisDB,
			log,
		)
		if err != nil {
			return nil, err.Wrap("[FSM] failed to open redis storage")
		}

		return NewRedisStorage(client, cfg.Namespace, cfg.TTL), nil
	case BackendSQLite:
		poolDB, err := openSQLite(cfg.SQLiteDSN)
		if err != nil {
			return nil, err
		}

		storage, err := NewGormStorage(poolDB, cfg.Namespace)
		if err != nil {
			return nil, err.Wrap("[FSM] failed to open sqlite storage")
		}

		return storage, nil
	default:
		return nil, yaerrors.FromErrorWithLog(
			http.StatusBadRequest,
			ErrUnknownBackend,
			fmt.Sprintf("[FSM] backend `%s`", cfg.Backend),
			log,
		)
	}
}

func openSQLite(dsn string) (*gorm.DB, yaerrors.Error) {
	if dsn == "" {
		dsn = ":memory:"
	}

	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, yaerrors.FromError(
			http.StatusInternalServerError,
			errors.Join(err, ErrFailedToOpenSQLite),
			fmt.Sprintf("[FSM] failed to open `%s`", dsn),
		)
	}

	// sqlite serializes writers, and every ":memory:" connection is its own database.
	sqlDB.SetMaxOpenConns(1)

	poolDB, err := gorm.Open(
		sqlite.Dialector{
			Conn:       sqlDB,
			DriverName: "sqlite",
		},
		&gorm.Config{Logger: gormlogger.Discard},
	)
	if err != nil {
		_ = sqlDB.Close()

		return nil, yaerrors.FromError(
			http.StatusInternalServerError,
			errors.Join(err, ErrFailedToOpenSQLite),
			fmt.Sprintf("[FSM] failed to open `%s`", dsn),
		)
	}

	return poolDB, nil
}
