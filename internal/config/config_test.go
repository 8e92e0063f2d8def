package config

import (
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Server.Port)
	require.Equal(t, BackendFileSystem, cfg.Store.Backend)
	require.Equal(t, "uploads", cfg.Store.Root)
	require.Equal(t, "mm-dd-yyyy", cfg.Store.DatePattern)
	require.Equal(t, 10*time.Second, cfg.MongoDB.Timeout)
	require.False(t, cfg.RateLimit.Enabled)

	c, err := cfg.Store.Codec()
	require.NoError(t, err)
	require.Equal(t, "mm-dd-yyyy", c.Pattern())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORE_ROOT", "/var/lib/docstore")
	t.Setenv("STORE_DATE_LOCATION", "Europe/Berlin")
	t.Setenv("MONGODB_TIMEOUT", "3s")
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_RPS", "2.5")
	t.Setenv("LOG_ENCODING", "json")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Server.Port)
	require.Equal(t, "/var/lib/docstore", cfg.Store.Root)
	require.Equal(t, 3*time.Second, cfg.MongoDB.Timeout)
	require.True(t, cfg.RateLimit.Enabled)
	require.InDelta(t, 2.5, cfg.RateLimit.RPS, 1e-9)
	require.Equal(t, "json", cfg.Log.Encoding)

	loc, err := cfg.Store.Location()
	require.NoError(t, err)
	require.Equal(t, "Europe/Berlin", loc.String())
}

func TestFlagsOverrideEnv(t *testing.T) {
	t.Setenv("STORE_ROOT", "from-env")
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(fs)
	require.NoError(t, fs.Parse([]string{"--root", "from-flag", "--backend", "memory"}))

	cfg, err := Load(fs)
	require.NoError(t, err)
	require.Equal(t, "from-flag", cfg.Store.Root)
	require.Equal(t, BackendMemory, cfg.Store.Backend)
	// untouched flags fall through to defaults
	require.Equal(t, "8080", cfg.Server.Port)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"unknown backend", map[string]string{"STORE_BACKEND": "s3"}},
		{"minio without endpoint", map[string]string{"STORE_BACKEND": "minio"}},
		{"mongo without uri", map[string]string{"STORE_BACKEND": "mongo"}},
		{"redis without host", map[string]string{"STORE_BACKEND": "redis"}},
		{"redis limiter without host", map[string]string{"RATE_LIMIT_ENABLED": "true", "RATE_LIMIT_USE_REDIS": "true"}},
		{"bad date pattern", map[string]string{"STORE_DATE_PATTERN": "yyyy-MM-dd QQ"}},
		{"bad location", map[string]string{"STORE_DATE_LOCATION": "Mars/Olympus"}},
		{"bad log encoding", map[string]string{"LOG_ENCODING": "xml"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			require.Error(t, err)
		})
	}
}
