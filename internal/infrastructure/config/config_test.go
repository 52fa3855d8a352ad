package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "Bunny Bakes", cfg.App.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://generativelanguage.googleapis.com/v1beta", cfg.AI.BaseURL)
	assert.Equal(t, "gemini-3-flash-preview", cfg.AI.TextModel)
	assert.Equal(t, "gemini-2.5-flash-image", cfg.AI.ImageModel)
	assert.Equal(t, "https://image.pollinations.ai", cfg.AI.FallbackImage)
	assert.Equal(t, 60*time.Second, cfg.AI.RequestTimeout)
	assert.False(t, cfg.IsProduction())
}

func TestValidate(t *testing.T) {
	t.Run("InvalidPort", func(t *testing.T) {
		cfg := Config{
			Server: ServerConfig{Port: -1},
			AI:     AIConfig{TextModel: "m", ImageModel: "m"},
		}
		assert.Error(t, cfg.Validate())
	})

	t.Run("MissingModels", func(t *testing.T) {
		cfg := Config{
			Server: ServerConfig{Port: 8080},
			AI:     AIConfig{TextModel: "", ImageModel: "m"},
		}
		assert.Error(t, cfg.Validate())
	})

	t.Run("Valid", func(t *testing.T) {
		cfg := Config{
			Server: ServerConfig{Port: 8080},
			AI:     AIConfig{TextModel: "m", ImageModel: "m"},
		}
		assert.NoError(t, cfg.Validate())
	})
}
