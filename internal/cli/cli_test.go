package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(path, content string) error {
	return os.WriteFile(path, []byte(content), 0o644)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestList(t *testing.T) {
	out, err := execute(t, "list")
	require.NoError(t, err)

	assert.Contains(t, out, "tensors")
	assert.Contains(t, out, "train")
	// Teaching order is part of the interface.
	assert.Less(t, strings.Index(out, "tensors"), strings.Index(out, "session"))
}

func TestRun_Lesson(t *testing.T) {
	out, err := execute(t, "run", "tensors")
	require.NoError(t, err)
	assert.Contains(t, out, "a + b")
}

func TestRun_UnknownLesson(t *testing.T) {
	_, err := execute(t, "run", "quantum")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown lesson")
}

func TestRun_UnknownBackend(t *testing.T) {
	_, err := execute(t, "run", "tensors", "--backend", "tpu")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown backend")
}

func TestTrainAndHistory(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")

	out, err := execute(t, "train", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "step=1 ")
	assert.Contains(t, out, "recorded run 1")

	out, err = execute(t, "history", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "cpu")
	assert.Contains(t, out, "150")
}

func TestTrain_WithConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "train.yaml")
	require.NoError(t, writeFile(cfgPath, "steps: 20\nlogged_steps: 5\n"))

	out, err := execute(t, "train", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "step=5 ")
	assert.NotContains(t, out, "step=6 ")
	assert.Contains(t, out, "final step=20")
}

func TestHistory_Empty(t *testing.T) {
	db := filepath.Join(t.TempDir(), "runs.db")
	out, err := execute(t, "history", "--db", db)
	require.NoError(t, err)
	assert.Contains(t, out, "no recorded runs")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, Version)
}
