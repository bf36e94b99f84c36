package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

// SourceConfig points at the tree-shaped store being migrated away from.
type SourceConfig struct {
	Kind            string `yaml:"kind" validate:"required|in:rtdb,file"`
	DatabaseURL     string `yaml:"databaseUrl"`
	CredentialsFile string `yaml:"credentialsFile"`
	ExportFile      string `yaml:"exportFile"`
	UsersPath       string `yaml:"usersPath" validate:"required"`
	DevicesPath     string `yaml:"devicesPath" validate:"required"`
	ReadingsPath    string `yaml:"readingsPath" validate:"required"`
	ChatsPath       string `yaml:"chatsPath" validate:"required"`
	LastUpdatePath  string `yaml:"lastUpdatePath" validate:"required"`
}

// DestinationConfig points at the document store being migrated to.
type DestinationConfig struct {
	Kind               string `yaml:"kind" validate:"required|in:firestore,memory"`
	ProjectID          string `yaml:"projectId"`
	CredentialsFile    string `yaml:"credentialsFile"`
	UsersCollection    string `yaml:"usersCollection" validate:"required"`
	DevicesCollection  string `yaml:"devicesCollection" validate:"required"`
	ReadingsCollection string `yaml:"readingsCollection" validate:"required"`
	RegistryDocument   string `yaml:"registryDocument" validate:"required"`
}

type MigrationConfig struct {
	BatchSize  int    `yaml:"batchSize" validate:"required|int|min:1|max:500"`
	BackupFile string `yaml:"backupFile"`
	SkipBackup bool
}

type AlertConfig struct {
	Interval          time.Duration `yaml:"interval" validate:"required|min:1"`
	DiscoveryInterval time.Duration `yaml:"discoveryInterval" validate:"required|min:1"`
	PollTimeout       int           `yaml:"pollTimeout" validate:"int|min:0"`
	SendRate          float64       `yaml:"sendRate"`
}

type TelegramConfig struct {
	Token     string `yaml:"token"`
	ParseMode string `yaml:"parseMode" validate:"in:plain,html,markdown"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled     bool   `yaml:"enabled"`
	PushGateway string `yaml:"pushGateway"`
}

type Config struct {
	AppName     string
	Debug       bool
	Path        string
	WebServer   Server            `yaml:"webServer"`
	Logger      LoggerConfig      `yaml:"logger"`
	Source      SourceConfig      `yaml:"source"`
	Destination DestinationConfig `yaml:"destination"`
	Migration   MigrationConfig   `yaml:"migration"`
	Alert       AlertConfig       `yaml:"alert"`
	Telegram    TelegramConfig    `yaml:"telegram"`
	Cache       CacheConfig       `yaml:"cache"`
	Metrics     MetricsConfig     `yaml:"metrics"`
}
