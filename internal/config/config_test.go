package config_test

import (
	"testing"

	"go-hrops/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestLoad_EnvOverridesDefaults(t *testing.T) {
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("PORT", "8081")
	t.Setenv("DB_MIGRATE_ON_START", "false")

	conf, err := config.Load()
	assert.NoError(t, err)

	assert.Equal(t, "db.internal", conf.DB().Host)
	assert.Equal(t, "8081", conf.App.Port)
	assert.Equal(t, "0 0 1 1 *", conf.Scheduler.RolloverSpec)
	assert.False(t, conf.MigrateOnStart())
}
