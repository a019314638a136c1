package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_LoadEnv(t *testing.T) {
	t.Setenv("WALKGEN_GRAPH", "edges.txt")
	t.Setenv("WALKGEN_WALK_LENGTH", "12")
	t.Setenv("WALKGEN_NODE2VEC", "true")
	t.Setenv("WALKGEN_P", "0.25")
	t.Setenv("WALKGEN_SEED", "99")
	t.Setenv("WALKGEN_LOG_LEVEL", "debug")

	cfg := NewConfig()
	require.NoError(t, cfg.LoadEnv(""))

	assert.Equal(t, "edges.txt", cfg.Graph)
	assert.Equal(t, 12, cfg.WalkLength)
	assert.True(t, cfg.Node2Vec)
	assert.Equal(t, 0.25, cfg.P)
	assert.Equal(t, 1.0, cfg.Q)
	assert.Equal(t, uint64(99), cfg.Seed)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
}

func TestConfig_LoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("WALKGEN_EPOCHS=7\nWALKGEN_COMPRESSION=zstd\n"), 0o600))

	// godotenv sets process variables; t.Setenv restores them afterwards.
	t.Setenv("WALKGEN_EPOCHS", "")
	t.Setenv("WALKGEN_COMPRESSION", "")
	require.NoError(t, os.Unsetenv("WALKGEN_EPOCHS"))
	require.NoError(t, os.Unsetenv("WALKGEN_COMPRESSION"))

	cfg := NewConfig()
	require.NoError(t, cfg.LoadEnv(path))
	assert.Equal(t, int64(7), cfg.Epochs)
	assert.Equal(t, "zstd", cfg.Compression)

	require.NoError(t, NewConfig().LoadEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func TestConfig_LoadEnvInvalid(t *testing.T) {
	t.Setenv("WALKGEN_BATCH_SIZE", "many")

	err := NewConfig().LoadEnv("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WALKGEN_BATCH_SIZE")
}

func TestConfig_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("WALKGEN_EPOCHS", "3")
	t.Setenv("WALKGEN_FORMAT", "json")

	cfg := NewConfig()
	require.NoError(t, cfg.LoadEnv(""))

	flags := flag.NewFlagSet("test", flag.ContinueOnError)
	cfg.BindFlags(flags)
	require.NoError(t, flags.Parse([]string{"-epochs", "9", "-log-level", "warn"}))

	assert.Equal(t, int64(9), cfg.Epochs)
	assert.Equal(t, "json", cfg.Format)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
}

func TestConfig_WeightAttrEnablesWeights(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		args []string
		attr string
	}{
		{"default unweighted", nil, nil, ""},
		{"attr flag", nil, []string{"-weight-attr", "score"}, "score"},
		{"attr env", map[string]string{"WALKGEN_WEIGHT_ATTR": "score"}, nil, "score"},
		{"weighted flag", nil, []string{"-weighted"}, "weight"},
		{"weighted env", map[string]string{"WALKGEN_WEIGHTED": "true"}, nil, "weight"},
		{"attr wins over weighted", nil, []string{"-weighted", "-weight-attr", "score"}, "score"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("WALKGEN_WEIGHT_ATTR", "")
			t.Setenv("WALKGEN_WEIGHTED", "false")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg := NewConfig()
			require.NoError(t, cfg.LoadEnv(""))
			flags := flag.NewFlagSet("test", flag.ContinueOnError)
			cfg.BindFlags(flags)
			require.NoError(t, flags.Parse(tt.args))

			assert.Equal(t, tt.attr, cfg.EdgeWeightAttr())
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		errMsg string
	}{
		{"missing graph", func(c *Config) { c.Graph = "" }, "no graph"},
		{"epochs", func(c *Config) { c.Epochs = 0 }, "epochs"},
		{"batch size", func(c *Config) { c.BatchSize = -1 }, "batch size"},
		{"store", func(c *Config) { c.Store = "ftp" }, "unknown store"},
		{"bucket", func(c *Config) { c.Store = "s3" }, "bucket"},
		{"endpoint", func(c *Config) { c.Store = "minio"; c.S3Bucket = "b" }, "endpoint"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			cfg.Graph = "g.txt"
			tt.modify(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}

	cfg := NewConfig()
	cfg.Graph = "g.txt"
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Print(t *testing.T) {
	cfg := NewConfig()
	cfg.Graph = "g.txt"
	cfg.Node2Vec = true
	cfg.P, cfg.Q = 0.5, 2

	var out strings.Builder
	cfg.Print(&out)
	assert.Contains(t, out.String(), "node2vec (p=0.5, q=2)")
	assert.Contains(t, out.String(), "Output: walks (text, none)")
	assert.Contains(t, out.String(), "Weighted: false")

	cfg.WeightAttr = "score"
	out.Reset()
	cfg.Print(&out)
	assert.Contains(t, out.String(), "Weighted: score")
}
