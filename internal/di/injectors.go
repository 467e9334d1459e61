//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"statcache/internal"
	"statcache/internal/controllers"
	"statcache/internal/monitor"
	"statcache/internal/providers"
	"statcache/internal/services"
	"statcache/internal/storage"
	"statcache/internal/structures"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		storage.NewConnectionManager,
		storage.NewCompressor,
		storage.NewRedisBackend,
		storage.NewMemoryBackend,
		storage.NewRouter,

		services.NewPracticeService,
		services.NewHostingService,
		services.NewBlogService,

		controllers.NewProfileController,
		controllers.NewHealthController,
		monitor.NewScheduler,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}
