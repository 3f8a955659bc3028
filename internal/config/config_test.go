package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCORSOrigins(t *testing.T) {
	assert.Equal(t, []string{"http://a", "http://b"}, parseCORSOrigins(`["http://a","http://b"]`))
	assert.Equal(t, []string{"http://a", "http://b"}, parseCORSOrigins(" http://a , ,http://b"))
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "postgres")
	t.Setenv("BIBLEBEE_STRICT_RULES", "true")
	t.Setenv("AUTO_MIGRATE", "nope")

	cfg := loadConfig()
	assert.Equal(t, "postgres", cfg.StorageBackend)
	assert.True(t, cfg.StrictRules)
	assert.True(t, cfg.AutoMigrate, "unparseable booleans fall back to the default")
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
}
