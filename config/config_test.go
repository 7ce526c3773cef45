package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/agentharness/internal/testutil"
)

func envMap(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func loadWith(t *testing.T, env map[string]string, fns ...func(o *Options)) (Config, error) {
	t.Helper()
	dir := testutil.NewDirBuilder(t).Build()
	base := func(o *Options) {
		o.LookupEnv = envMap(env)
		o.EnvFile = dir + "/missing.env"
	}
	return Load(append([]func(o *Options){base}, fns...)...)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := loadWith(t, nil)
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "kb", cfg.KB.Path)
	assert.Equal(t, 4, cfg.KB.Workers)
	assert.Equal(t, "manifests", cfg.Manifests.Dir)
	assert.Equal(t, "schemas/summary.schema.json", cfg.Schema.Path)
	assert.Equal(t, "SESSION_LOG.md", cfg.Session.LogPath)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, 0, cfg.Limits.MaxToolCalls)
}

func TestLoad_EnvOverrides(t *testing.T) {
	cfg, err := loadWith(t, map[string]string{
		EnvKBPath:       "/data/kb",
		EnvManifestDir:  "/data/manifests",
		EnvLogLevel:     "debug",
		EnvLogFormat:    "json",
		EnvLookupWorker: "8",
		EnvMaxToolCalls: " 3 ",
	})
	require.NoError(t, err)

	assert.Equal(t, "/data/kb", cfg.KB.Path)
	assert.Equal(t, "/data/manifests", cfg.Manifests.Dir)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 8, cfg.KB.Workers)
	assert.Equal(t, 3, cfg.Limits.MaxToolCalls)
}

func TestLoad_YAMLFileWithExpansion(t *testing.T) {
	b := testutil.NewDirBuilder(t).File("harness.yaml", `
kb:
  path: ${KB_ROOT}/docs
  workers: 2
http:
  addr: ${ADDR:-:9090}
logging:
  level: warn
`)

	cfg, err := loadWith(t, map[string]string{"KB_ROOT": "/srv"}, func(o *Options) {
		o.ConfigFile = b.Path("harness.yaml")
	})
	require.NoError(t, err)

	assert.Equal(t, "/srv/docs", cfg.KB.Path)
	assert.Equal(t, 2, cfg.KB.Workers)
	assert.Equal(t, ":9090", cfg.HTTP.Addr)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestLoad_EnvBeatsFile(t *testing.T) {
	b := testutil.NewDirBuilder(t).File("harness.yaml", "kb:\n  path: from-file\n")

	cfg, err := loadWith(t, map[string]string{
		EnvConfigFile: b.Path("harness.yaml"),
		EnvKBPath:     "from-env",
	})
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.KB.Path)
}

func TestLoad_DotEnvDoesNotOverride(t *testing.T) {
	b := testutil.NewDirBuilder(t).File(".env", "KB_PATH=from-dotenv\nHARNESS_HTTP_ADDR=:7070\n")

	cfg, err := Load(func(o *Options) {
		o.EnvFile = b.Path(".env")
		o.LookupEnv = envMap(map[string]string{EnvKBPath: "from-process"})
	})
	require.NoError(t, err)

	assert.Equal(t, "from-process", cfg.KB.Path)
	assert.Equal(t, ":7070", cfg.HTTP.Addr)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"bad level", map[string]string{EnvLogLevel: "loud"}},
		{"bad format", map[string]string{EnvLogFormat: "xml"}},
		{"bad workers", map[string]string{EnvLookupWorker: "many"}},
		{"negative workers", map[string]string{EnvLookupWorker: "-1"}},
		{"negative max calls", map[string]string{EnvMaxToolCalls: "-2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadWith(t, tt.env)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidConfig)
		})
	}
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := loadWith(t, nil, func(o *Options) { o.ConfigFile = "/nonexistent/harness.yaml" })
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config")
}

func TestMustLoad_Panics(t *testing.T) {
	assert.Panics(t, func() {
		MustLoad(func(o *Options) {
			o.EnvFile = "/nonexistent/.env"
			o.LookupEnv = envMap(map[string]string{EnvLogFormat: "xml"})
		})
	})
}
