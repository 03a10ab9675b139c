package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() Config {
	var cfg Config
	cfg.Server.Port = "8080"
	cfg.Database.Host = "localhost"
	cfg.Database.User = "postgres"
	cfg.Database.Name = "events_db"
	cfg.JWT.AccessSecret = "access-secret"
	cfg.JWT.RefreshSecret = "refresh-secret"
	cfg.JWT.AccessTTL = 15 * time.Minute
	cfg.JWT.RefreshTTL = 7 * 24 * time.Hour
	cfg.BcryptCost = 10
	return cfg
}

func TestValidateAcceptsCompleteConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, Validate(&cfg))
}

func TestValidateRejectsMissingSecrets(t *testing.T) {
	cfg := validConfig()
	cfg.JWT.AccessSecret = ""
	assert.Error(t, Validate(&cfg))

	cfg = validConfig()
	cfg.JWT.RefreshSecret = ""
	assert.Error(t, Validate(&cfg))
}

func TestValidateRejectsSharedSecret(t *testing.T) {
	cfg := validConfig()
	cfg.JWT.RefreshSecret = cfg.JWT.AccessSecret
	assert.Error(t, Validate(&cfg))
}

func TestValidateRejectsNonPositiveTTL(t *testing.T) {
	cfg := validConfig()
	cfg.JWT.AccessTTL = 0
	assert.Error(t, Validate(&cfg))
}

func TestValidateRejectsBcryptCostOutOfRange(t *testing.T) {
	cfg := validConfig()
	cfg.BcryptCost = 3
	assert.Error(t, Validate(&cfg))

	cfg.BcryptCost = 32
	assert.Error(t, Validate(&cfg))
}
