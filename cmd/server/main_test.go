package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer

	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	err := cmd.Execute()
	return out.String(), err
}

func TestConvert_Stdin(t *testing.T) {
	out, err := runCmd(t, "a,b\r\nc\n\n\"d,e\",f", "convert")
	require.NoError(t, err)

	assert.Equal(t, `[["a","b"],["c"],["d,e","f"]]`+"\n", out)
}

func TestConvert_EmptyInput(t *testing.T) {
	out, err := runCmd(t, "", "convert")
	require.NoError(t, err)

	assert.Equal(t, "[]\n", out)
}

func TestConvert_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte("x,y\n1,2\n"), 0o600))

	out, err := runCmd(t, "", "convert", "--indent", "--chunk-size", "2", path)
	require.NoError(t, err)

	assert.JSONEq(t, `[["x","y"],["1","2"]]`, out)
	assert.Contains(t, out, "\n  [")
}

func TestConvert_FileOverLimit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Repeat("a,b\n", 10)), 0o600))

	_, err := runCmd(t, "", "convert", "--limit", "8", path)
	require.Error(t, err)

	assert.Contains(t, err.Error(), "REQ002")
}

func TestConvert_StdinOverLimit(t *testing.T) {
	_, err := runCmd(t, strings.Repeat("a,b\n", 10), "convert", "--limit", "8")
	require.Error(t, err)

	assert.Contains(t, err.Error(), "REQ003")
}

func TestConvert_Malformed(t *testing.T) {
	_, err := runCmd(t, "ok\nbad\"quote\n", "convert")
	require.Error(t, err)

	assert.Contains(t, err.Error(), "CSV001")
}

func TestConvert_MissingFile(t *testing.T) {
	_, err := runCmd(t, "", "convert", filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
}

func TestConvert_TooManyArgs(t *testing.T) {
	_, err := runCmd(t, "", "convert", "a.csv", "b.csv")
	require.Error(t, err)
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("missing file is ignored", func(t *testing.T) {
		assert.NoError(t, loadEnvFile(filepath.Join(t.TempDir(), ".env")))
	})

	t.Run("empty path", func(t *testing.T) {
		assert.NoError(t, loadEnvFile(""))
	})

	t.Run("does not override existing", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("CSV2JSON_TEST_A=fromfile\nCSV2JSON_TEST_B=fromfile\n"), 0o600))
		t.Setenv("CSV2JSON_TEST_A", "fromenv")
		t.Setenv("CSV2JSON_TEST_B", "")
		os.Unsetenv("CSV2JSON_TEST_B")

		require.NoError(t, loadEnvFile(path))

		assert.Equal(t, "fromenv", os.Getenv("CSV2JSON_TEST_A"))
		assert.Equal(t, "fromfile", os.Getenv("CSV2JSON_TEST_B"))
	})
}

func TestServe_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_URL", "")

	_, err := runCmd(t, "", "serve", "--env-file", "")
	require.Error(t, err)

	assert.Contains(t, err.Error(), "DATABASE_URL")
}
