// Package app opens the connections and builds the services shared by the
// server, the scheduler and rentctl.
package app

import (
	"context"
	"fmt"
	"log"

	"github.com/segyhp/rental-manager/internal/cache"
	"github.com/segyhp/rental-manager/internal/config"
	"github.com/segyhp/rental-manager/internal/config/connections/postgres"
	"github.com/segyhp/rental-manager/internal/config/connections/redis"
	"github.com/segyhp/rental-manager/internal/config/connections/s3"
	"github.com/segyhp/rental-manager/internal/document"
	"github.com/segyhp/rental-manager/internal/repository"
	"github.com/segyhp/rental-manager/internal/service"

	goredis "github.com/redis/go-redis/v9"
)

type App struct {
	Config   *config.Config
	Postgres *postgres.Postgres
	Redis    *goredis.Client

	// Optional collaborators; nil when unavailable or disabled.
	Cache    *cache.ArrearsCache
	Storage  *document.Store
	Renderer *document.Renderer

	Settlements  *service.SettlementService
	Arrears      *service.ArrearsService
	Certificates *service.CertificateService
	Receipts     *service.ReceiptService
}

// New connects to Postgres, which is required, and to Redis and object
// storage, which are not: a failing optional dependency is logged and left
// out.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	pg, err := postgres.NewConnection(ctx, postgres.ConnectionInfo{
		DSN:             cfg.Database.DSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.GetConnMaxLifetime(),
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	a := &App{Config: cfg, Postgres: pg}

	client, err := redis.NewConnection(ctx, redis.ConnectionInfo{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		log.Printf("[CACHE] redis unavailable, arrears will not be cached: %v", err)
	} else {
		a.Redis = client
		a.Cache = cache.NewArrearsCache(client, cfg.GetArrearsTTL())
	}

	if cfg.Storage.Endpoint != "" {
		conn, err := s3.NewConnection(s3.ConnectionInfo{
			Endpoint:  cfg.Storage.Endpoint,
			AccessKey: cfg.Storage.AccessKey,
			SecretKey: cfg.Storage.SecretKey,
			Region:    cfg.Storage.Region,
			Bucket:    cfg.Storage.Bucket,
			UseSSL:    cfg.Storage.UseSSL,
		})
		if err == nil {
			err = conn.EnsureBucket(ctx)
		}
		if err != nil {
			log.Printf("[RECEIPT] object storage unavailable, PDFs will not be kept: %v", err)
		} else {
			a.Storage = document.NewStore(conn)
		}
	}

	if cfg.Renderer.Enabled {
		a.Renderer = document.NewRenderer(cfg.Renderer.ExecPath, cfg.GetPDFTimeout())
	}

	a.buildServices()
	return a, nil
}

func (a *App) buildServices() {
	db := a.Postgres.DB
	ownerRepo := repository.NewOwnerRepository(db)
	contractRepo := repository.NewContractRepository(db)
	settlementRepo := repository.NewSettlementRepository(db)
	receiptRepo := repository.NewReceiptRepository(db)

	// Interfaces stay nil rather than holding a nil pointer.
	var arrearsCache service.ArrearsCache
	if a.Cache != nil {
		arrearsCache = a.Cache
	}
	var renderer service.PDFRenderer
	if a.Renderer != nil {
		renderer = a.Renderer
	}
	var store service.DocumentStore
	if a.Storage != nil {
		store = a.Storage
	}

	a.Settlements = service.NewSettlementService(contractRepo, settlementRepo, arrearsCache, a.Config)
	a.Arrears = service.NewArrearsService(contractRepo, settlementRepo, arrearsCache, a.Config)
	a.Certificates = service.NewCertificateService(ownerRepo, contractRepo, settlementRepo, renderer, a.Config)
	a.Receipts = service.NewReceiptService(contractRepo, receiptRepo, a.Settlements, renderer, store, a.Config)
}

// Close releases every open connection.
func (a *App) Close() {
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			log.Printf("close redis: %v", err)
		}
	}
	if err := a.Postgres.Close(); err != nil {
		log.Printf("close postgres: %v", err)
	}
}
