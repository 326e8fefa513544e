package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/confgen/internal/logger"
	"github.com/simonhull/confgen/internal/output"
	"github.com/simonhull/confgen/internal/request"
)

// workspace switches into a fresh directory containing configs/config.j2.
func workspace(t *testing.T, template string) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	require.NoError(t, os.Mkdir("configs", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("configs", "config.j2"), []byte(template), 0o644))
	return dir
}

// execute runs the root command and returns stdout, stderr messages and the error.
func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	output.SetOutput(&stderr)
	t.Cleanup(func() { output.SetOutput(nil) })

	original := logger.Default()
	logger.SetDefault(logger.NewLogger(logger.LevelWarn, &stderr))
	t.Cleanup(func() { logger.SetDefault(original) })

	cmd := RootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)

	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestRoot_Generates(t *testing.T) {
	workspace(t, "v={{version}} r={{region}} o={{os}}")

	stdout, _, err := execute(t, "--version", "3.1.4", "--region", "us-east-1", "--os", "ubuntu2004")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("configs", "3.1.4-us-east-1-ubuntu2004.config")+"\n", stdout)

	content, err := os.ReadFile(filepath.Join("configs", "3.1.4-us-east-1-ubuntu2004.config"))
	require.NoError(t, err)
	assert.Equal(t, "v=3.1.4 r=us-east-1 o=ubuntu2004", string(content))
}

func TestRoot_MissingRequiredFlag(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		missing string
	}{
		{name: "no version", args: []string{"--region", "r", "--os", "o"}, missing: `"version"`},
		{name: "no region", args: []string{"--version", "1", "--os", "o"}, missing: `"region"`},
		{name: "no os", args: []string{"--version", "1", "--region", "r"}, missing: `"os"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			workspace(t, "{{ version }}")

			_, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "required flag")
			assert.Contains(t, err.Error(), tt.missing)

			entries, err := os.ReadDir("configs")
			require.NoError(t, err)
			assert.Len(t, entries, 1, "no file may be written")
		})
	}
}

func TestRoot_EmptyValue(t *testing.T) {
	workspace(t, "{{ version }}")

	_, _, err := execute(t, "--version", "", "--region", "r", "--os", "o")
	assert.ErrorIs(t, err, request.ErrMissingValue)
}

func TestRoot_PathSeparatorRejected(t *testing.T) {
	workspace(t, "{{ version }}")

	_, _, err := execute(t, "--version", "../escape", "--region", "r", "--os", "o")
	assert.ErrorIs(t, err, request.ErrInvalidValue)

	_, statErr := os.Stat("escape-r-o.config")
	assert.True(t, os.IsNotExist(statErr))
}

func TestRoot_DryRun(t *testing.T) {
	workspace(t, "region={{ region }}\n\n")

	stdout, _, err := execute(t, "--version", "1", "--region", "eu-west-1", "--os", "rhel9", "--dry-run")
	require.NoError(t, err)

	assert.Equal(t, "region=eu-west-1\n", stdout)
	_, statErr := os.Stat(filepath.Join("configs", "1-eu-west-1-rhel9.config"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestRoot_Diff(t *testing.T) {
	workspace(t, "region={{ region }}\n")
	out := filepath.Join("configs", "1-eu-west-1-rhel9.config")
	require.NoError(t, os.WriteFile(out, []byte("region=us-east-1\n"), 0o644))

	stdout, stderr, err := execute(t, "--version", "1", "--region", "eu-west-1", "--os", "rhel9", "--diff")
	require.NoError(t, err)

	assert.Equal(t, out+"\n", stdout)
	assert.Contains(t, stderr, "-region=us-east-1")
	assert.Contains(t, stderr, "+region=eu-west-1")

	_, stderr, err = execute(t, "--version", "1", "--region", "eu-west-1", "--os", "rhel9", "--diff")
	require.NoError(t, err)
	assert.Contains(t, stderr, "No changes")
}

func TestRoot_DiffOnlyTrailingNewline(t *testing.T) {
	workspace(t, "region={{ region }}\n\n")
	out := filepath.Join("configs", "1-eu-west-1-rhel9.config")
	require.NoError(t, os.WriteFile(out, []byte("region=eu-west-1"), 0o644))

	_, stderr, err := execute(t, "--version", "1", "--region", "eu-west-1", "--os", "rhel9", "--diff")
	require.NoError(t, err)

	assert.Contains(t, stderr, "No newline at end of file")
	assert.NotContains(t, stderr, "No changes")
}

func TestRoot_DirAndTemplateFlags(t *testing.T) {
	workspace(t, "unused")
	require.NoError(t, os.Mkdir("alt", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("alt", "node.tmpl"), []byte("os={{ .os }}"), 0o644))

	stdout, _, err := execute(t, "--version", "1", "--region", "r", "--os", "debian12", "--dir", "alt", "--template", "node.tmpl")
	require.NoError(t, err)

	path := filepath.Join("alt", "1-r-debian12.config")
	assert.Equal(t, path+"\n", stdout)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "os=debian12", string(content))
}

func TestRoot_ConfigFileAndVars(t *testing.T) {
	workspace(t, "unused")
	require.NoError(t, os.Mkdir("templates", 0o755))
	require.NoError(t, os.WriteFile(filepath.Join("templates", "app.j2"), []byte("{{ owner }}/{{ os }}"), 0o644))
	require.NoError(t, os.WriteFile("confgen.yml", []byte("config_dir: templates\ntemplate: app.j2\nextension: .conf\n"), 0o644))
	require.NoError(t, os.WriteFile("vars.yml", []byte("owner: platform\n"), 0o644))

	stdout, _, err := execute(t, "--version", "2", "--region", "r", "--os", "alpine", "--vars", "vars.yml")
	require.NoError(t, err)

	path := filepath.Join("templates", "2-r-alpine.conf")
	assert.Equal(t, path+"\n", stdout)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "platform/alpine", string(content))
}

func TestRoot_RejectsPositionalArgs(t *testing.T) {
	workspace(t, "{{ version }}")

	_, _, err := execute(t, "extra", "--version", "1", "--region", "r", "--os", "o")
	require.Error(t, err)
}

func TestVersionCmd(t *testing.T) {
	stdout, _, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "confgen v0.1.0\n", stdout)
}
