package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/iancoleman/orderedmap"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thirteen37/keepfmt/internal/config"
)

// execute runs the command tree in-process. Unless args name a --config,
// a missing file is used so the working directory does not leak in.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	for _, name := range []string{config.EnvIndent, config.EnvPreserveIndentation, config.EnvPreserveWhitespace, config.EnvSampleSize} {
		t.Setenv(name, "")
	}
	if !slices.Contains(args, "--config") {
		args = append(args, "--config", filepath.Join(t.TempDir(), "missing.json"))
	}

	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func readFile(t *testing.T, name string) string {
	t.Helper()

	data, err := os.ReadFile(name)
	require.NoError(t, err)
	return string(data)
}

func TestFmt_PreservesLayout(t *testing.T) {
	input := "\n{\n    \"b\": 1,\n    \"a\": [1, 2]\n}\n\n"

	out, _, err := execute(t, input, "fmt", "--format", "json")
	require.NoError(t, err)
	assert.Equal(t, "\n{\n    \"b\": 1,\n    \"a\": [\n        1,\n        2\n    ]\n}\n\n", out)
}

func TestFmt_Flags(t *testing.T) {
	input := "\n{\n    \"a\": 1\n}\n"

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "explicit indent",
			args: []string{"--indent", "2"},
			want: "\n{\n  \"a\": 1\n}\n",
		},
		{
			name: "no whitespace",
			args: []string{"--no-preserve-whitespace"},
			want: "{\n    \"a\": 1\n}",
		},
		{
			name: "no detection",
			args: []string{"--no-detect-indent"},
			want: "\n{\n  \"a\": 1\n}\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, input, append([]string{"fmt", "-f", "json"}, tt.args...)...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestFmt_EnvironmentPrecedence(t *testing.T) {
	input := "{\n    \"a\": 1\n}\n"

	root := func(args ...string) string {
		r := NewRootCmd()
		var stdout bytes.Buffer
		r.SetIn(strings.NewReader(input))
		r.SetOut(&stdout)
		r.SetErr(&bytes.Buffer{})
		r.SetArgs(append(args, "--config", filepath.Join(t.TempDir(), "missing.json")))
		require.NoError(t, r.Execute())
		return stdout.String()
	}

	t.Setenv(config.EnvIndent, "3")
	assert.Equal(t, "{\n   \"a\": 1\n}\n", root("fmt", "-f", "json"))
	assert.Equal(t, "{\n \"a\": 1\n}\n", root("fmt", "-f", "json", "--indent", "1"))
}

func TestFmt_ConfigFile(t *testing.T) {
	cfg := writeFile(t, ".keepfmt.json", `{"jsonc": {"allowTrailingComma": true}}`)

	out, _, err := execute(t, "{\"a\": 1,}", "fmt", "-f", "jsonc", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, `"a": 1`)

	_, _, err = execute(t, "{\"a\": 1,}", "fmt", "-f", "jsonc")
	assert.ErrorContains(t, err, "failed to parse JSONC")
}

func TestFmt_Write(t *testing.T) {
	file := writeFile(t, "config.yaml", "b: 1\na:\n    - x\n")

	out, _, err := execute(t, "", "fmt", "-w", file)
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, "b: 1\na:\n  - x\n", readFile(t, file))
}

func TestFmt_UnknownFormat(t *testing.T) {
	_, _, err := execute(t, "{}", "fmt")
	assert.ErrorContains(t, err, "use --format")

	_, _, err = execute(t, "{}", "fmt", "--format", "xml")
	assert.ErrorContains(t, err, "unknown format")
}

func TestFmt_WriteNeedsFile(t *testing.T) {
	_, _, err := execute(t, "{}", "fmt", "-f", "json", "-w")
	assert.ErrorContains(t, err, "--write needs a file argument")
}

func TestGet(t *testing.T) {
	file := writeFile(t, "settings.json", `{"editor": {"theme": "dark", "rulers": [80, 120]}}`)

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr string
	}{
		{
			name: "string as json",
			args: []string{"editor.theme"},
			want: "\"dark\"\n",
		},
		{
			name: "raw string",
			args: []string{"--raw", "editor.theme"},
			want: "dark\n",
		},
		{
			name: "array index",
			args: []string{"editor.rulers.1"},
			want: "120\n",
		},
		{
			name: "array path syntax",
			args: []string{`["editor", "rulers"]`},
			want: "[\n  80,\n  120\n]\n",
		},
		{
			name:    "missing",
			args:    []string{"editor.font"},
			wantErr: "not found",
		},
		{
			name:    "invalid path",
			args:    []string{`["editor"`},
			wantErr: "invalid path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, err := execute(t, "", append(append([]string{"get"}, tt.args...), file)...)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestSet_JSON(t *testing.T) {
	file := writeFile(t, "settings.json", "{\n  \"editor\": {\n    \"theme\": \"dark\"\n  }\n}\n")

	_, _, err := execute(t, "", "set", "-w", "editor.tabSize", "4", file)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"editor\": {\n    \"theme\": \"dark\",\n    \"tabSize\": 4\n  }\n}\n", readFile(t, file))
}

func TestSet_TOML(t *testing.T) {
	out, _, err := execute(t, "[server]\nport = 8080\n", "set", "-f", "toml", "server.host", "0.0.0.0")
	require.NoError(t, err)
	assert.Contains(t, out, "host = \"0.0.0.0\"")
	assert.Contains(t, out, "port = 8080")
	assert.NotContains(t, out, "8080.0")
}

func TestSet_EmptyDocument(t *testing.T) {
	out, _, err := execute(t, "", "set", "-f", "yaml", "name", "app")
	require.NoError(t, err)
	assert.Equal(t, "name: app\n", out)
}

func TestSet_INI(t *testing.T) {
	out, _, err := execute(t, "[db]\nport = 3306\n", "set", "-f", "ini", "db.port", "5432")
	require.NoError(t, err)
	assert.Contains(t, out, "5432")
	assert.NotContains(t, out, "3306")
}

func TestDelete(t *testing.T) {
	out, _, err := execute(t, "a: 1\nb: 2\n", "delete", "-f", "yaml", "a")
	require.NoError(t, err)
	assert.Equal(t, "b: 2\n", out)

	_, _, err = execute(t, "a: 1\n", "delete", "-f", "yaml", "missing")
	assert.ErrorContains(t, err, "not found")
}

func TestConvert(t *testing.T) {
	file := writeFile(t, "settings.json", "{\n  \"name\": \"app\",\n  \"ports\": [80, 443]\n}\n")

	out, _, err := execute(t, "", "convert", "--to", "yaml", file)
	require.NoError(t, err)
	assert.Equal(t, "name: app\nports:\n  - 80\n  - 443\n", out)
}

func TestConvert_Errors(t *testing.T) {
	_, _, err := execute(t, "[1, 2]", "convert", "-f", "json", "--to", "toml")
	assert.ErrorContains(t, err, "failed to convert JSON to TOML")

	_, _, err = execute(t, "{}", "convert", "-f", "json")
	assert.Error(t, err)
}

func TestDetect(t *testing.T) {
	out, _, err := execute(t, "\n{\n    \"a\": 1\n}\n", "detect", "-f", "json")
	require.NoError(t, err)
	assert.Equal(t, "format:   json\nindent:   4\nsampled:  true\nleading:  \"\\n\"\ntrailing: \"\\n\"\n", out)

	out, _, err = execute(t, "[s]\n    k = 1\n", "detect", "-f", "toml")
	require.NoError(t, err)
	assert.Contains(t, out, "indent:   2\nsampled:  false\n")
}

func TestVerboseLogging(t *testing.T) {
	_, stderr, err := execute(t, "{}", "fmt", "-f", "json", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, stderr, "parsed document")
	assert.Contains(t, stderr, "format=json")

	_, stderr, err = execute(t, "{}", "fmt", "-f", "json")
	require.NoError(t, err)
	assert.Empty(t, stderr)
}

func TestINIBooleanKeysFlag(t *testing.T) {
	input := "[mysqld]\nskip-name-resolve\n"

	_, _, err := execute(t, input, "get", "-f", "ini", "mysqld.skip-name-resolve")
	assert.Error(t, err)

	out, _, err := execute(t, input, "get", "-f", "ini", "--ini-boolean-keys", "mysqld.skip-name-resolve")
	require.NoError(t, err)
	assert.Equal(t, "null\n", out)

	out, _, err = execute(t, input, "fmt", "-f", "ini", "--ini-boolean-keys")
	require.NoError(t, err)
	assert.Contains(t, out, "skip-name-resolve\n")
	assert.NotContains(t, out, "= true")
}

func TestMerge(t *testing.T) {
	managed := writeFile(t, "managed.json", "{\n  \"theme\": \"light\",\n  \"font\": 12\n}\n")

	out, _, err := execute(t, "{\n    \"theme\": \"dark\",\n    \"font\": 10\n}\n", "merge", "--managed", managed, "--keep", "theme")
	require.NoError(t, err)
	assert.Equal(t, "{\n    \"theme\": \"dark\",\n    \"font\": 12\n}\n", out)
}

func TestMerge_InvalidCurrent(t *testing.T) {
	managed := writeFile(t, "managed.json", "{\n  \"theme\": \"light\"\n}\n")

	out, stderr, err := execute(t, "{broken", "merge", "-m", managed, "-k", "theme")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"theme\": \"light\"\n}\n", out)
	assert.Contains(t, stderr, "could not be parsed")
}

func TestMerge_ConfigKeepPaths(t *testing.T) {
	cfg := writeFile(t, ".keepfmt.json", `{"keep": [["user", "name"]]}`)
	managed := writeFile(t, "managed.yaml", "user:\n  name: default\n  shell: zsh\n")
	current := writeFile(t, "current.yaml", "user:\n  name: alice\n  shell: bash\n")

	_, _, err := execute(t, "", "merge", "-m", managed, "-w", current, "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "user:\n  name: alice\n  shell: zsh\n", readFile(t, current))
}

func TestKeep(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), ".keepfmt.json")

	out, _, err := execute(t, "", "keep", "list", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "No kept paths configured\n", out)

	out, _, err = execute(t, "", "keep", "add", "editor.theme", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "Added path [\"editor\",\"theme\"]\n", out)

	out, _, err = execute(t, "", "keep", "add", `["editor", "theme"]`, "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "already kept")

	out, _, err = execute(t, "", "keep", "list", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "  [\"editor\",\"theme\"]\n")

	out, _, err = execute(t, "", "keep", "remove", "editor.theme", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed path")

	out, _, err = execute(t, "", "keep", "remove", "editor.theme", "--config", cfg)
	require.NoError(t, err)
	assert.Contains(t, out, "not found")
}

func TestKeep_DoesNotSaveOverrides(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), ".keepfmt.json")

	_, _, err := execute(t, "", "keep", "add", "a", "--indent", "7", "--config", cfg)
	require.NoError(t, err)

	loaded, err := config.Load(cfg)
	require.NoError(t, err)
	assert.Nil(t, loaded.Indent)
	assert.Equal(t, [][]string{{"a"}}, loaded.Keep)
}

func TestInit(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), ".keepfmt.json")

	out, _, err := execute(t, "", "init", "--keep", "agent.default_model", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "Created: "+cfg+"\n", out)

	loaded, err := config.Load(cfg)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"agent", "default_model"}}, loaded.Keep)
	require.NotNil(t, loaded.PreserveWhitespace)
	assert.True(t, *loaded.PreserveWhitespace)

	_, _, err = execute(t, "", "init", "--config", cfg)
	assert.ErrorContains(t, err, "already exists")

	_, _, err = execute(t, "", "init", "--force", "--config", cfg)
	assert.NoError(t, err)
}

func TestExecute_ExitCode(t *testing.T) {
	assert.Equal(t, 1, Execute([]string{"get"}))
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  any
	}{
		{name: "integer", input: "4", want: int64(4)},
		{name: "float", input: "1.5", want: 1.5},
		{name: "bool", input: "true", want: true},
		{name: "null", input: "null", want: nil},
		{name: "quoted string", input: `"4"`, want: "4"},
		{name: "bare word", input: "dark", want: "dark"},
		{name: "empty", input: "", want: ""},
		{name: "array", input: "[1, 2.5]", want: []any{int64(1), 2.5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseValue(tt.input))
		})
	}
}

func TestParseValue_ObjectOrder(t *testing.T) {
	v := parseValue(`{"z": 1, "a": {"y": 2, "b": 3}}`)

	om, ok := v.(*orderedmap.OrderedMap)
	require.True(t, ok, "got %T", v)
	assert.Equal(t, []string{"z", "a"}, om.Keys())

	z, _ := om.Get("z")
	assert.Equal(t, int64(1), z)
}
