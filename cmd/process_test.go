package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/quebecstudio/transibase/internal/config"
	"github.com/quebecstudio/transibase/internal/types"
)

const sampleExport = `[{"transactions":[{"reference":"R1","dateCreated":"2023-05-10T12:00:00"}],"customer":{"email":"a@b.com"},"lineItems":[{"options":{"prenom":"Jean","nom":"Dupont","dateNaissance":"1990-01-01","donationAmount":"50"}}]}]`

const sampleCSV = `"R1","a@b.com","Jean","Dupont","1990-01-01","50","2023-05-10"` + "\n"

// setupCommand resets the package state and returns a command wired to the
// given stdin and a captured stdout.
func setupCommand(t *testing.T, stdin string) (*cobra.Command, *bytes.Buffer) {
	t.Helper()

	logger = zap.NewNop()
	cfg = config.Default()
	includeHeader = false
	assumeYes = false

	out := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(out)
	return cmd, out
}

func writeExport(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "orders.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestRunConvert(t *testing.T) {
	cmd, out := setupCommand(t, "")
	dir := t.TempDir()
	input := writeExport(t, dir, sampleExport)
	output := filepath.Join(dir, "out.csv")

	require.NoError(t, runConvert(cmd, []string{input, output}))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Equal(t, sampleCSV, string(data))
	assert.Contains(t, out.String(), "CSV file created: "+output)
	assert.Contains(t, out.String(), "Rows written: 1")
	assert.Contains(t, out.String(), "Total donations: 50.00")
	assert.NotContains(t, out.String(), "Filter applied")
}

func TestRunConvertWithYear(t *testing.T) {
	cmd, out := setupCommand(t, "")
	dir := t.TempDir()
	input := writeExport(t, dir, sampleExport)
	output := filepath.Join(dir, "out.csv")

	require.NoError(t, runConvert(cmd, []string{input, output, "2023"}))
	assert.FileExists(t, output)
	assert.Contains(t, out.String(), "Filter applied: year 2023")
}

func TestRunConvertNoMatch(t *testing.T) {
	cmd, out := setupCommand(t, "")
	dir := t.TempDir()
	input := writeExport(t, dir, sampleExport)
	output := filepath.Join(dir, "out.csv")

	require.NoError(t, runConvert(cmd, []string{input, output, "2024"}))
	assert.NoFileExists(t, output)
	assert.Contains(t, out.String(), "No transactions found for year 2024.")
}

func TestRunConvertMissingInput(t *testing.T) {
	cmd, _ := setupCommand(t, "")
	dir := t.TempDir()

	err := runConvert(cmd, []string{filepath.Join(dir, "absent.json"), filepath.Join(dir, "out.csv")})
	assert.ErrorIs(t, err, types.ErrMissingFile)
	assert.True(t, cmd.SilenceUsage)
}

func TestRunConvertInvalidYear(t *testing.T) {
	cmd, _ := setupCommand(t, "")
	dir := t.TempDir()
	input := writeExport(t, dir, sampleExport)
	output := filepath.Join(dir, "out.csv")

	for _, year := range []string{"23", "", "2023 "} {
		err := runConvert(cmd, []string{input, output, year})
		assert.ErrorIs(t, err, types.ErrInvalidYearFormat, "year %q", year)
	}
	assert.NoFileExists(t, output)
}

func TestRunConvertMalformed(t *testing.T) {
	cmd, _ := setupCommand(t, "")
	dir := t.TempDir()
	input := writeExport(t, dir, `{"transactions": [`)
	output := filepath.Join(dir, "out.csv")

	err := runConvert(cmd, []string{input, output})
	assert.ErrorIs(t, err, types.ErrMalformedInput)
	assert.NoFileExists(t, output)
}

func TestRunConvertOverwritePrompt(t *testing.T) {
	tests := []struct {
		name       string
		answer     string
		yes        bool
		wantOutput string
		wantPrompt bool
	}{
		{"accepted", "o\n", false, sampleCSV, true},
		{"accepted uppercase", "O\n", false, sampleCSV, true},
		{"declined", "n\n", false, "previous", true},
		{"no answer", "", false, "previous", true},
		{"assume yes", "", true, sampleCSV, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd, out := setupCommand(t, tt.answer)
			assumeYes = tt.yes

			dir := t.TempDir()
			input := writeExport(t, dir, sampleExport)
			output := filepath.Join(dir, "out.csv")
			require.NoError(t, os.WriteFile(output, []byte("previous"), 0644))

			require.NoError(t, runConvert(cmd, []string{input, output}))

			data, err := os.ReadFile(output)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOutput, string(data))
			assert.Equal(t, tt.wantPrompt, strings.Contains(out.String(), "(o/n)"))
			if tt.wantOutput == "previous" {
				assert.Contains(t, out.String(), "Operation cancelled.")
			}
		})
	}
}

func TestRunConvertHeaderFlag(t *testing.T) {
	cmd, _ := setupCommand(t, "")
	includeHeader = true

	dir := t.TempDir()
	input := writeExport(t, dir, sampleExport)
	output := filepath.Join(dir, "out.csv")

	require.NoError(t, runConvert(cmd, []string{input, output}))

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), `"reference","email","prenom"`))
}

func TestRootCommandRequiresTwoArguments(t *testing.T) {
	assert.Error(t, rootCmd.Args(rootCmd, []string{"only-one.json"}))
	assert.NoError(t, rootCmd.Args(rootCmd, []string{"in.json", "out.csv"}))
	assert.NoError(t, rootCmd.Args(rootCmd, []string{"in.json", "out.csv", "2023"}))
}

func TestPreRunConfigErrorSilencesUsage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transibase.yaml")
	require.NoError(t, os.WriteFile(path, []byte("delimiter: ["), 0644))

	previous := cfgFile
	cfgFile = path
	defer func() { cfgFile = previous }()

	cmd := &cobra.Command{}
	err := rootCmd.PersistentPreRunE(cmd, []string{"in.json", "out.csv"})
	assert.ErrorContains(t, err, "failed to parse config file")
	assert.True(t, cmd.SilenceUsage)
}

func TestVersionCommand(t *testing.T) {
	out := &bytes.Buffer{}
	versionCmd.SetOut(out)
	defer versionCmd.SetOut(nil)

	versionCmd.Run(versionCmd, nil)
	assert.Contains(t, out.String(), "Version:    "+Version)
}

func TestNewLogger(t *testing.T) {
	l, err := newLogger("warn", false)
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zap.InfoLevel))

	l, err = newLogger("warn", true)
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zap.DebugLevel))

	_, err = newLogger("chatty", false)
	assert.Error(t, err)
}
