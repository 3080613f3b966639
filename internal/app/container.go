package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/strogmv/userstore/internal/adapter/events/nats"
	"github.com/strogmv/userstore/internal/adapter/repository/file"
	"github.com/strogmv/userstore/internal/adapter/repository/guarded"
	"github.com/strogmv/userstore/internal/adapter/repository/redis"
	"github.com/strogmv/userstore/internal/adapter/storage/s3"
	"github.com/strogmv/userstore/internal/config"
	"github.com/strogmv/userstore/internal/port"
	"github.com/strogmv/userstore/internal/service"
	transporthttp "github.com/strogmv/userstore/internal/transport/http"
)

type Container struct {
	Config *config.Config

	Store     port.UserStore
	Publisher port.Publisher
	SvcUsers  port.Users
	Handler   http.Handler

	closers []func() error
}

func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	c := &Container{Config: cfg}

	store, err := c.newStore(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Store = store

	var checks []transporthttp.HealthCheck
	c.Publisher = port.NopPublisher{}
	if cfg.NATSURL != "" {
		nc, err := nats.NewClient(cfg.NATSURL)
		if err != nil {
			c.Close()
			return nil, fmt.Errorf("connect nats: %w", err)
		}
		c.closers = append(c.closers, func() error { nc.Close(); return nil })
		c.Publisher = nc
		checks = append(checks, transporthttp.HealthCheck{Name: "nats", Check: nc.Check})
	}

	c.SvcUsers = service.NewUsersTraced(service.NewUsersImpl(
		c.Store,
		service.WithPublisher(c.Publisher),
		service.WithSerializedWrites(cfg.SerializeWrites),
	))

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	c.Handler = transporthttp.NewRouter(c.SvcUsers, transporthttp.RouterOptions{
		StaticDir:    cfg.StaticDir,
		CORSOrigins:  cfg.CORSOrigins,
		Registry:     reg,
		HealthChecks: checks,
	})

	return c, nil
}

// NewStore builds only the configured store, for commands that skip HTTP.
func NewStore(ctx context.Context, cfg *config.Config) (port.UserStore, func(), error) {
	c := &Container{Config: cfg}
	store, err := c.newStore(ctx)
	if err != nil {
		c.Close()
		return nil, nil, err
	}
	return store, c.Close, nil
}

func (c *Container) newStore(ctx context.Context) (port.UserStore, error) {
	cfg := c.Config
	switch cfg.StoreBackend {
	case config.BackendFile, "":
		perm, err := cfg.FileMode()
		if err != nil {
			return nil, err
		}
		return file.NewUserStore(cfg.DataFile, file.WithPerm(perm)), nil
	case config.BackendRedis:
		rs := redis.NewUserStore(redis.NewClient(cfg.RedisAddr), cfg.RedisKey)
		c.closers = append(c.closers, rs.Close)
		return guarded.NewUserStore("redis", rs, cfg.BreakerThreshold, cfg.BreakerCooldown), nil
	case config.BackendS3:
		ss, err := s3.New(ctx, cfg.S3Region, cfg.S3Bucket, cfg.S3Key, cfg.S3Endpoint)
		if err != nil {
			return nil, err
		}
		return guarded.NewUserStore("s3", ss, cfg.BreakerThreshold, cfg.BreakerCooldown), nil
	}
	return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
}

// Close releases backend connections in reverse order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			slog.Default().Warn("close failed", slog.Any("error", err))
		}
	}
	c.closers = nil
}
