//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/yanqian/gearbox/internal/bootstrap"
	"github.com/yanqian/gearbox/internal/domain/auth"
	"github.com/yanqian/gearbox/internal/domain/profile"
	"github.com/yanqian/gearbox/internal/infra/config"
	httpiface "github.com/yanqian/gearbox/internal/interface/http"
	"github.com/yanqian/gearbox/pkg/logger"
)

func initializeApp() (*bootstrap.App, error) {
	wire.Build(
		config.Load,
		logger.New,
		provideAuthConfig,
		provideSigner,
		providePostgresPool,
		provideDirectory,
		provideTokenStore,
		provideImageStore,
		auth.NewService,
		profile.NewService,
		httpiface.NewHandler,
		httpiface.NewRouter,
		bootstrap.NewApp,
	)
	return nil, nil
}
