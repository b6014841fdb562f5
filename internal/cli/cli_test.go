package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCommand executes the root command with the given args and returns
// captured stdout.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return buf.String(), err
}

const sampleYAML = `title: campaign one
turn: 42
difficulty: 1.5
ironman: false
roster:
  - name: ada
    hp: 30
  - name: grace
    hp: 28
`

func writeSampleYAML(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "save.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleYAML), 0o644))
	return path
}

func TestPackThenDumpRoundTrip(t *testing.T) {
	dir := t.TempDir()
	yamlPath := writeSampleYAML(t, dir)
	savePath := filepath.Join(dir, "save.bsave")

	out, err := runCommand(t, "pack", yamlPath, savePath)
	require.NoError(t, err)
	assert.Contains(t, out, "packed")

	dumped, err := runCommand(t, "dump", savePath)
	require.NoError(t, err)

	// Field order survives the round trip.
	titleAt := strings.Index(dumped, "title:")
	turnAt := strings.Index(dumped, "turn:")
	rosterAt := strings.Index(dumped, "roster:")
	require.GreaterOrEqual(t, titleAt, 0)
	assert.Less(t, titleAt, turnAt)
	assert.Less(t, turnAt, rosterAt)

	assert.Contains(t, dumped, "turn: 42")
	assert.Contains(t, dumped, "difficulty: 1.5")
	assert.Contains(t, dumped, "ironman: false")
	assert.Contains(t, dumped, "name: ada")
}

func TestPackDumpWithCompression(t *testing.T) {
	for _, algo := range []string{"zstd", "lz4"} {
		t.Run(algo, func(t *testing.T) {
			dir := t.TempDir()
			yamlPath := writeSampleYAML(t, dir)
			savePath := filepath.Join(dir, "save.bsave")

			_, err := runCommand(t, "pack", "--compress", "--compression", algo, yamlPath, savePath)
			require.NoError(t, err)

			dumped, err := runCommand(t, "dump", "--compress", "--compression", algo, savePath)
			require.NoError(t, err)
			assert.Contains(t, dumped, "turn: 42")
		})
	}
}

func TestDumpWrongCompressionFlagFails(t *testing.T) {
	dir := t.TempDir()
	yamlPath := writeSampleYAML(t, dir)
	savePath := filepath.Join(dir, "save.bsave")

	_, err := runCommand(t, "pack", "--compress", yamlPath, savePath)
	require.NoError(t, err)

	// Reading an uncompressed interpretation of a compressed file fails
	// at the header check or earlier.
	_, err = runCommand(t, "dump", savePath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestVerifySuccess(t *testing.T) {
	dir := t.TempDir()
	yamlPath := writeSampleYAML(t, dir)
	savePath := filepath.Join(dir, "save.bsave")

	_, err := runCommand(t, "pack", yamlPath, savePath)
	require.NoError(t, err)

	out, err := runCommand(t, "verify", savePath)
	require.NoError(t, err)
	assert.Contains(t, out, "verified")
}

func TestVerifyCorruptFile(t *testing.T) {
	dir := t.TempDir()
	savePath := filepath.Join(dir, "junk.bsave")
	require.NoError(t, os.WriteFile(savePath, []byte("BSONGML but not really"), 0o644))

	out, err := runCommand(t, "verify", savePath)
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "DECODE")
}

func TestVerifyMissingFile(t *testing.T) {
	_, err := runCommand(t, "verify", filepath.Join(t.TempDir(), "absent.bsave"))
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
}

func TestJSONOutputFormat(t *testing.T) {
	dir := t.TempDir()
	yamlPath := writeSampleYAML(t, dir)
	savePath := filepath.Join(dir, "save.bsave")

	out, err := runCommand(t, "--format", "json", "pack", yamlPath, savePath)
	require.NoError(t, err)

	var resp CLIResponse
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Contains(t, resp.Data, "packed")
}

func TestInvalidFormatRejected(t *testing.T) {
	_, err := runCommand(t, "--format", "xml", "verify", "whatever.bsave")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestInvalidCompressionFlag(t *testing.T) {
	dir := t.TempDir()
	yamlPath := writeSampleYAML(t, dir)

	_, err := runCommand(t, "pack", "--compression", "brotli", yamlPath, filepath.Join(dir, "out.bsave"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestSlotWorkflow(t *testing.T) {
	dir := t.TempDir()
	yamlPath := writeSampleYAML(t, dir)
	savePath := filepath.Join(dir, "save.bsave")
	dbPath := filepath.Join(dir, "catalog.db")

	_, err := runCommand(t, "pack", yamlPath, savePath)
	require.NoError(t, err)

	out, err := runCommand(t, "slot", "put", dbPath, "autosave", savePath)
	require.NoError(t, err)
	assert.Contains(t, out, "autosave")

	out, err = runCommand(t, "slot", "list", dbPath)
	require.NoError(t, err)
	assert.Contains(t, out, "autosave")

	extracted := filepath.Join(dir, "extracted.bsave")
	_, err = runCommand(t, "slot", "get", dbPath, "autosave", extracted)
	require.NoError(t, err)

	original, err := os.ReadFile(savePath)
	require.NoError(t, err)
	copied, err := os.ReadFile(extracted)
	require.NoError(t, err)
	assert.Equal(t, original, copied)

	// Extracted bytes are a valid save.
	dumped, err := runCommand(t, "dump", extracted)
	require.NoError(t, err)
	assert.Contains(t, dumped, "turn: 42")

	_, err = runCommand(t, "slot", "rm", dbPath, "autosave")
	require.NoError(t, err)

	_, err = runCommand(t, "slot", "get", dbPath, "autosave", extracted)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitFailure, GetExitCode(assert.AnError))
	assert.Equal(t, ExitCommandError, GetExitCode(WrapExitError(ExitCommandError, "bad flag", nil)))
	assert.Equal(t, ExitFailure, GetExitCode(WrapExitError(ExitFailure, "mismatch", nil)))
}
