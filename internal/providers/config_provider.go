package providers

import (
	"energymon/internal/structures"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("source.usersPath", "users")
	v.SetDefault("source.devicesPath", "devices")
	v.SetDefault("source.readingsPath", "readings/daily")
	v.SetDefault("source.chatsPath", "telegram/chats")
	v.SetDefault("source.lastUpdatePath", "telegram/last_update_id")
	v.SetDefault("destination.usersCollection", "users")
	v.SetDefault("destination.devicesCollection", "devices")
	v.SetDefault("destination.readingsCollection", "daily_readings")
	v.SetDefault("destination.registryDocument", "telegram/registry")
	v.SetDefault("migration.batchSize", 500)
	v.SetDefault("alert.interval", "30m")
	v.SetDefault("alert.discoveryInterval", "1m")
	v.SetDefault("alert.pollTimeout", 0)
	v.SetDefault("alert.sendRate", 25)
	v.SetDefault("telegram.parseMode", "html")
	v.SetDefault("cache.ttl", "5m")
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")
	setConfigDefaults(v)

	v.BindEnv("logger.level", "EM_LOG_LEVEL")
	v.BindEnv("telegram.token", "EM_TELEGRAM_TOKEN")
	v.BindEnv("source.databaseUrl", "EM_FIREBASE_DATABASE_URL")
	v.BindEnv("source.credentialsFile", "EM_FIREBASE_CREDENTIALS")
	v.BindEnv("destination.credentialsFile", "EM_FIREBASE_CREDENTIALS")
	v.BindEnv("destination.projectId", "EM_FIREBASE_PROJECT_ID")
	v.BindEnv("alert.interval", "EM_ALERT_INTERVAL")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "EnergyMonitor"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode
	conf.Migration.SkipBackup = flags.SkipBackup

	return &conf, nil
}
