//go:build wireinject
// +build wireinject

package di

import (
	"energymon/internal"
	"energymon/internal/controllers"
	"energymon/internal/migration"
	"energymon/internal/providers"
	"energymon/internal/scheduler"
	"energymon/internal/services"
	"energymon/internal/snapshot"
	"energymon/internal/store"
	"energymon/internal/structures"
	"energymon/internal/telegram"

	wire "github.com/google/wire"
)

func InitApp(cfg *structures.CliFlags) (*internal.App, func(), error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		store.NewDestination,
		telegram.NewBotTransport,
		services.NewRegistryService,
		services.NewAlertService,
		scheduler.NewScheduler,
		controllers.NewHealthController,
		controllers.NewAlertController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil, nil
}

func InitMigration(cfg *structures.CliFlags) (*internal.Migration, func(), error) {

	wire.Build(
		providers.NewConfigProvider,
		providers.NewLogProvider,
		providers.NewMetricsProvider,

		snapshot.NewZstdCompressor,
		snapshot.ProvideFileManager,
		store.NewSource,
		store.NewDestination,
		migration.NewCollectionMigrator,
		migration.NewValidator,
		migration.NewBackup,
		migration.NewOrchestrator,
		internal.NewMigration,
	)

	return nil, nil, nil
}
