package providers

import (
	"statcache/internal/structures"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *structures.Config {
	return &structures.Config{
		WebServer: structures.Server{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/tmp/logs",
		},
		Store: structures.StoreConfig{
			URI: "redis://localhost:6379/0",
		},
		Freshness: structures.FreshnessConfig{
			PracticeTTL: 3600,
			HostingTTL:  86400,
			BlogTTL:     3600,
		},
	}
}

func TestConfigValidator_ValidConfig(t *testing.T) {
	v := NewCnfValidator(validConfig())
	assert.NoError(t, v.Validate())
}

func TestConfigValidator_EmptyStoreURIIsValid(t *testing.T) {
	c := validConfig()
	c.Store.URI = ""
	v := NewCnfValidator(c)
	assert.NoError(t, v.Validate())
}

func TestConfigValidator_EmptyHost(t *testing.T) {
	c := validConfig()
	c.WebServer.Host = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_ZeroPort(t *testing.T) {
	c := validConfig()
	c.WebServer.Port = 0
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_EmptyLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = ""
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_InvalidLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = "verbose"
	v := NewCnfValidator(c)
	assert.Error(t, v.Validate())
}

func TestConfigValidator_InvalidStoreURI(t *testing.T) {
	c := validConfig()
	c.Store.URI = "mongodb://localhost:27017"
	v := NewCnfValidator(c)

	err := v.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "store.uri")
}
