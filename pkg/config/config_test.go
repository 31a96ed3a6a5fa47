package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg := fromViper(viper.New())

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 5432, cfg.DB.Port)
	assert.Equal(t, 60*24, cfg.JWT.Expiration)
	assert.Equal(t, "UZS", cfg.Scan.DefaultCurrency)
	assert.Equal(t, 8<<20, cfg.Scan.MaxImageBytes)
	assert.True(t, cfg.Auth.RequireEmailVerification)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.SMTP.Enabled())
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestFromViper_EnvTienePrioridad(t *testing.T) {
	t.Setenv("DB_PORT", "6543")
	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("AI_PROVIDER", "Gemini")
	t.Setenv("AUTH_REQUIRE_EMAIL_VERIFICATION", "false")
	t.Setenv("PUBLIC_BASE_URL", "https://compras.example.com/")

	cfg := fromViper(envViper())

	assert.Equal(t, 6543, cfg.DB.Port)
	assert.True(t, cfg.Redis.Enabled())
	assert.True(t, cfg.SMTP.Enabled())
	assert.Equal(t, "gemini", cfg.AI.Provider)
	assert.False(t, cfg.Auth.RequireEmailVerification)
	assert.Equal(t, "https://compras.example.com", cfg.App.PublicBaseURL)
}

func TestFromViper_EnteroInvalidoUsaDefault(t *testing.T) {
	t.Setenv("HTTP_PORT", "ochenta")
	cfg := fromViper(envViper())
	assert.Equal(t, 8080, cfg.HTTP.Port)
}

func TestConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w/rd", DBName: "compras", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw%2Frd@db:5432/compras?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}

func TestLoad_ProduccionExigeSecreto(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	assert.Error(t, err)

	t.Setenv("JWT_SECRET", "x")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "x", cfg.JWT.Secret)
}
