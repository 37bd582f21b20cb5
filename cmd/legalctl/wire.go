//go:build wireinject
// +build wireinject

package main

import (
	"log/slog"

	"github.com/google/wire"

	"github.com/yanqian/legal-assistant/internal/bootstrap"
	"github.com/yanqian/legal-assistant/internal/infra/config"
)

func initializePipeline(cfg *config.Config, logger *slog.Logger) (*pipeline, func(), error) {
	wire.Build(
		bootstrap.PipelineSet,
		newPipeline,
	)
	return nil, nil, nil
}
