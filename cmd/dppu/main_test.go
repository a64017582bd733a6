package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"dppu/internal/action"
	"dppu/internal/config"
	"dppu/internal/engine"
	"dppu/internal/symbolic"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{
		"run": false, "survey": false, "scan": false, "steps": false, "checkpoints": false,
	}
	for _, c := range rootCmd.Commands() {
		if _, ok := want[c.Name()]; ok {
			want[c.Name()] = true
		}
	}
	for name, found := range want {
		assert.True(t, found, "command %q not registered", name)
	}
}

func TestBuildLogger(t *testing.T) {
	lc := config.LoggingConfig{Level: "warn", Format: "json"}
	l, err := buildLogger(lc, false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zap.InfoLevel))

	l, err = buildLogger(lc, true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.DebugLevel), "verbose forces debug")

	_, err = buildLogger(config.LoggingConfig{Level: "loud"}, false)
	assert.Error(t, err)
}

func TestStepsCommand(t *testing.T) {
	var out bytes.Buffer
	stepsCmd.SetOut(&out)
	require.NoError(t, stepsCmd.RunE(stepsCmd, nil))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, engine.NumSteps)
	assert.Contains(t, lines[0], "setup_frame")
	assert.Contains(t, lines[engine.NumSteps-1], "stability")
}

func TestPrintReport(t *testing.T) {
	r, err := symbolic.Parse("24/r^2")
	require.NoError(t, err)

	st := &engine.State{
		Topology:    "T3xS1",
		RicciScalar: r,
		Equilibria: &action.StabilityResult{
			Type: action.TypeIII, Reason: "no interior minimum",
		},
	}

	var out bytes.Buffer
	printReport(&out, "test-run", st)

	text := out.String()
	assert.Contains(t, text, "T3xS1")
	assert.Contains(t, text, "Ricci scalar (Einstein-Cartan)")
	assert.Contains(t, text, "Type III")
	assert.Contains(t, text, "no interior minimum")
}

func TestSurveyAcrossTopologies(t *testing.T) {
	if testing.Short() {
		t.Skip("full derivation survey")
	}

	cfg = config.DefaultConfig()
	cfg.Run.Mode = "axial"
	cfg.Checkpoint.Enabled = false
	logger = zap.NewNop()

	var out bytes.Buffer
	surveyCmd.SetOut(&out)
	require.NoError(t, runSurvey(surveyCmd, nil))

	text := out.String()
	assert.Contains(t, text, "S3xS1")
	assert.Contains(t, text, "T3xS1")
	assert.Contains(t, text, "Nil3xS1")
}
