// Package app assembles the ledger from config; both the API server and
// lendctl start here.
package app

import (
	"context"
	"errors"
	"fmt"

	httpadp "lending-ledger/internal/adapter/http"
	"lending-ledger/internal/adapter/repository/memory"
	"lending-ledger/internal/adapter/repository/mysql"
	"lending-ledger/internal/config"
	"lending-ledger/internal/domain/chain"
	"lending-ledger/internal/domain/loan"
	"lending-ledger/internal/domain/repayment"
	"lending-ledger/internal/domain/uow"
	"lending-ledger/internal/infrastructure/cache"
	chainInfra "lending-ledger/internal/infrastructure/chain"
	"lending-ledger/internal/infrastructure/db"
	loanUC "lending-ledger/internal/usecase/loan"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

type App struct {
	Usecase *loanUC.Usecase

	// DB is nil for the memory store, Redis is nil when nothing needs it.
	DB    *gorm.DB
	Redis *redis.Client
}

// Build opens the configured store and clock and wires the usecase.
// On error everything opened so far is closed again.
func Build(cfg *config.Config) (_ *App, err error) {
	a := &App{}
	defer func() {
		if err != nil {
			_ = a.Close()
		}
	}()

	var (
		loans      loan.Repository
		repayments repayment.Repository
		tx         uow.UnitOfWork
	)
	switch cfg.StoreDriver {
	case config.StoreMySQL, config.StoreSQLite:
		if cfg.StoreDriver == config.StoreMySQL {
			a.DB, err = db.OpenGorm(cfg.MySQLDSN())
		} else {
			a.DB, err = db.OpenSQLite(cfg.SQLitePath)
		}
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", cfg.StoreDriver, err)
		}
		if err = db.Migrate(a.DB); err != nil {
			return nil, fmt.Errorf("migrate: %w", err)
		}
		loans, repayments, tx = mysql.NewLoanRepository(a.DB), mysql.NewRepaymentRepository(a.DB), mysql.NewGormUoW(a.DB)
	case config.StoreMemory:
		s := memory.NewStore()
		loans, repayments, tx = s.Loans(), s.Repayments(), memory.NewUoW(s)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}

	if cfg.NeedsRedis() {
		if a.Redis, err = cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB); err != nil {
			return nil, err
		}
	}

	var clock chain.Clock
	switch cfg.ChainDriver {
	case config.ChainRedis:
		clock = chainInfra.NewRedisClock(a.Redis, cfg.ChainHeightKey, cfg.ChainStartHeight)
	case config.ChainMemory:
		clock = chainInfra.NewMemoryClock(cfg.ChainStartHeight)
	default:
		return nil, fmt.Errorf("unknown chain driver %q", cfg.ChainDriver)
	}

	a.Usecase = loanUC.NewUsecase(loans, repayments, tx, clock, cfg.LenderID)
	log.Info().
		Str("store", cfg.StoreDriver).
		Str("chain", cfg.ChainDriver).
		Str("lender", cfg.LenderID).
		Msg("ledger ready")
	return a, nil
}

// Checks returns the /health probes for whatever was opened.
func (a *App) Checks() []httpadp.Check {
	var checks []httpadp.Check
	if a.DB != nil {
		checks = append(checks, httpadp.Check{Name: "db", Fn: func(ctx context.Context) error {
			sqlDB, err := a.DB.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}})
	}
	if a.Redis != nil {
		checks = append(checks, httpadp.Check{Name: "redis", Fn: func(ctx context.Context) error {
			return a.Redis.Ping(ctx).Err()
		}})
	}
	return checks
}

func (a *App) Close() error {
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
