package main

import (
	"context"
	"fmt"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"

	"github.com/tenderdesk/caseforum/internal/api/handler"
	"github.com/tenderdesk/caseforum/internal/core/ports"
	"github.com/tenderdesk/caseforum/internal/core/service"
	"github.com/tenderdesk/caseforum/internal/infrastructure/db/memory"
	mongodb "github.com/tenderdesk/caseforum/internal/infrastructure/db/mongo"
	redisdb "github.com/tenderdesk/caseforum/internal/infrastructure/db/redis"
	"github.com/tenderdesk/caseforum/internal/pkg/config"
	"github.com/tenderdesk/caseforum/pkg/logger"
)

// backend is the wired service layer shared by every command.
type backend struct {
	auth     *service.AuthService
	cases    *service.CaseService
	comments *service.CommentService
	admins   *service.AdminService
	probes   []handler.Probe
	close    func(context.Context)
}

// openBackend connects Mongo and Redis, or in memory mode keeps documents in
// process and runs the revocation list on an embedded miniredis.
func openBackend(ctx context.Context, cfg *config.Config, inMemory bool, log zerolog.Logger) (*backend, error) {
	var (
		store    ports.DocumentStore
		authRepo ports.AuthRepository
		probes   []handler.Probe
		closers  []func(context.Context)
	)

	if inMemory {
		mr, err := miniredis.Run()
		if err != nil {
			return nil, fmt.Errorf("start embedded redis: %w", err)
		}
		closers = append(closers, func(context.Context) { mr.Close() })
		cfg.Redis.Addr = mr.Addr()
		store = memory.NewStore()
		authRepo = memory.NewAuthRepository()
		log.Warn().Msg("memory mode: data is lost on exit")
	} else {
		client, db, err := mongodb.Connect(ctx, mongodb.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
			AppName:  "caseforum",
		})
		if err != nil {
			return nil, err
		}
		closers = append(closers, func(ctx context.Context) { _ = client.Disconnect(ctx) })

		docs := mongodb.NewDocumentStore(db)
		users := mongodb.NewAuthRepository(db)
		if err := docs.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("ensure document indexes: %w", err)
		}
		if err := users.EnsureIndexes(ctx); err != nil {
			return nil, fmt.Errorf("ensure user indexes: %w", err)
		}
		store, authRepo = docs, users
		probes = append(probes, handler.MongoProbe(db))
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		for _, c := range closers {
			c(ctx)
		}
		return nil, err
	}
	closers = append(closers, func(context.Context) { _ = rdb.Close() })
	probes = append(probes, handler.RedisProbe(rdb))

	secret := cfg.JWTSecret
	if secret == "" {
		secret = "caseforum-dev-secret"
		log.Warn().Msg("JWT_SECRET is empty, using a development secret")
	}

	return &backend{
		auth:     service.NewAuthService(authRepo, redisdb.NewRevocationList(rdb), secret, cfg.TokenTTL),
		cases:    service.NewCaseService(store, logger.Component(log, "cases")),
		comments: service.NewCommentService(store, logger.Component(log, "comments")),
		admins:   service.NewAdminService(store, logger.Component(log, "admins")),
		probes:   probes,
		close: func(ctx context.Context) {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i](ctx)
			}
		},
	}, nil
}
