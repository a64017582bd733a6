package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dppu/internal/engine"
	"dppu/internal/torsion"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dppu.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
run:
  topology: Nil3xS1
  mode: axial
oracle:
  num_points: 25
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "Nil3xS1", cfg.Run.Topology)
	assert.Equal(t, "axial", cfg.Run.Mode)
	assert.Equal(t, 25, cfg.Oracle.NumPoints)
	// Untouched sections keep their defaults.
	assert.Equal(t, "full", cfg.Run.Variant)
	assert.Equal(t, 50, cfg.Oracle.Precision)
	assert.Equal(t, 1e6, cfg.Stability.RMax)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dppu.yaml")
	require.NoError(t, os.WriteFile(path, []byte("run: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dppu.yaml")

	cfg := DefaultConfig()
	cfg.Run.Topology = "T3xS1"
	cfg.Run.Params = map[string]float64{"eta": 2.5}
	cfg.Checkpoint.Enabled = false
	require.NoError(t, cfg.Save(path))

	back, err := Load(path)
	require.NoError(t, err)
	if diff := cmp.Diff(cfg, back); diff != "" {
		t.Errorf("config changed across save/load (-want +got):\n%s", diff)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Run("checkpoint path and toggle", func(t *testing.T) {
		t.Setenv("DPPU_CHECKPOINT_DB", "/tmp/other.db")
		t.Setenv("DPPU_CHECKPOINTS", "false")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "/tmp/other.db", cfg.Checkpoint.Path)
		assert.False(t, cfg.Checkpoint.Enabled)
	})

	t.Run("log level and topology", func(t *testing.T) {
		t.Setenv("DPPU_LOG_LEVEL", "debug")
		t.Setenv("DPPU_TOPOLOGY", "Nil3xS1")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, "Nil3xS1", cfg.Run.Topology)
	})

	t.Run("garbage toggle ignored", func(t *testing.T) {
		t.Setenv("DPPU_CHECKPOINTS", "maybe")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.True(t, cfg.Checkpoint.Enabled)
	})
}

func TestPipelineConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Run.Mode = "vector_trace"
	cfg.Run.Variant = "tt"
	cfg.Run.Params = map[string]float64{"V": 3}

	pc, err := cfg.PipelineConfig()
	require.NoError(t, err)
	assert.Equal(t, "S3xS1", pc.Topology)
	assert.Equal(t, torsion.ModeVectorTrace, pc.Mode)
	assert.Equal(t, torsion.VariantTT, pc.Variant)
	assert.Equal(t, 3.0, pc.ParamValues["V"])
	assert.Equal(t, 0.01, pc.Stability.RMin)
}

func TestPipelineConfigRejectsBadEnums(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Run.Mode = "chiral"
	_, err := cfg.PipelineConfig()
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.Run.Variant = "half"
	_, err = cfg.PipelineConfig()
	assert.Error(t, err)
}

func TestOpenStoreDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Checkpoint.Enabled = false

	store, err := cfg.OpenStore()
	require.NoError(t, err)
	assert.IsType(t, engine.DisabledStore{}, store)
}

func TestOpenStoreCreatesDirectory(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Checkpoint.Path = filepath.Join(t.TempDir(), "data", "ckpt.db")

	store, err := cfg.OpenStore()
	require.NoError(t, err)
	defer store.Close()

	ok, err := store.Exists("any", 1)
	require.NoError(t, err)
	assert.False(t, ok)
}
