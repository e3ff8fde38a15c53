package config

import (
	"time"

	"go-hrops/internal/shared/connection"

	"github.com/gotify/configor"
)

type Configuration struct {
	App struct {
		Env             string `default:"development" env:"APP_ENV"`
		Port            string `default:"3000" env:"PORT"`
		ReadTimeoutSec  int    `default:"5" env:"HTTP_READ_TIMEOUT_SEC"`
		WriteTimeoutSec int    `default:"30" env:"HTTP_WRITE_TIMEOUT_SEC"`
	}
	Auth struct {
		JWTSecret     string `default:"" env:"JWT_SECRET"`
		WebhookSecret string `default:"" env:"IDENTITY_WEBHOOK_SECRET"`
	}
	Database struct {
		Host           string `default:"127.0.0.1" env:"DB_HOST"`
		Port           string `default:"5432" env:"DB_PORT"`
		Name           string `default:"hrops" env:"DB_NAME"`
		User           string `default:"postgres" env:"DB_USER"`
		Password       string `default:"postgres" env:"DB_PASSWORD"`
		SSLMode        string `default:"disable" env:"DB_SSLMODE"`
		MigrateOnStart *bool  `default:"true" env:"DB_MIGRATE_ON_START"`
	}
	Redis struct {
		Addr string `default:"127.0.0.1:6379" env:"REDIS_ADDR"`
	}
	Kafka struct {
		Broker  string `default:"" env:"KAFKA_BROKER"`
		GroupID string `default:"go-hrops-leave-allocation" env:"KAFKA_GROUP_ID"`
	}
	Scheduler struct {
		RolloverSpec string `default:"0 0 1 1 *" env:"ROLLOVER_CRON"`
	}
}

func (c *Configuration) DB() connection.DBConfig {
	return connection.DBConfig{
		Host:     c.Database.Host,
		Port:     c.Database.Port,
		User:     c.Database.User,
		Password: c.Database.Password,
		Name:     c.Database.Name,
		SSLMode:  c.Database.SSLMode,
	}
}

func (c *Configuration) MigrateOnStart() bool {
	return c.Database.MigrateOnStart != nil && *c.Database.MigrateOnStart
}

func (c *Configuration) ReadTimeout() time.Duration {
	return time.Duration(c.App.ReadTimeoutSec) * time.Second
}

func (c *Configuration) WriteTimeout() time.Duration {
	return time.Duration(c.App.WriteTimeoutSec) * time.Second
}

func (c *Configuration) IsProduction() bool {
	return c.App.Env == "production"
}

func configFiles() []string {
	return []string{"config.yml"}
}

// Load reads config.yml when present and lets environment variables win.
func Load() (*Configuration, error) {
	conf := new(Configuration)
	if err := configor.New(&configor.Config{}).Load(conf, configFiles()...); err != nil {
		return nil, err
	}
	return conf, nil
}
