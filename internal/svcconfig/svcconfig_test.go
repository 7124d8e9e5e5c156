package svcconfig

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	assert.NoError(t, Default().Validate())
}

func TestLoadWithNoOverridesReturnsDefault(t *testing.T) {
	v := viper.New()
	cfg, err := Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, "mem", cfg.Repository.Backend)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadAppliesEnvOverride(t *testing.T) {
	v := viper.New()
	v.SetEnvPrefix("ANTBOX")
	v.AutomaticEnv()
	t.Setenv("ANTBOX_PORT", "9090")
	cfg, err := Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestValidateRejectsUnknownBackend(t *testing.T) {
	cfg := Default()
	cfg.Repository.Backend = "oracle"
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsBadPort(t *testing.T) {
	cfg := Default()
	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())
}
