package core

import (
	"context"

	cfg "github.com/wplace-archive/go-tilelapse/internal/config"
)

type Core struct {
	ctx context.Context
	cfg *cfg.Config
}

func NewCore(ctx context.Context, c *cfg.Config) *Core {
	return &Core{
		ctx: ctx,
		cfg: c,
	}
}
