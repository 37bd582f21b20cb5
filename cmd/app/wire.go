//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/legal-assistant/internal/bootstrap"
	"github.com/yanqian/legal-assistant/internal/domain/auth"
	"github.com/yanqian/legal-assistant/internal/infra/config"
	httpiface "github.com/yanqian/legal-assistant/internal/interface/http"
	"github.com/yanqian/legal-assistant/pkg/logger"
)

func initializeApp() (*bootstrap.App, func(), error) {
	wire.Build(
		config.Load,
		logger.New,
		bootstrap.PipelineSet,
		bootstrap.ProvideAuthConfig,
		auth.NewService,
		bootstrap.ProvideHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil, nil
}
