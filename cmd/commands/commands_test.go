package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeConfig(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	bonds := `[
  {"code": "110001", "name": "Alpha", "price": 105, "premium_rate": 10, "credit_rating": "AA+"},
  {"code": "110002", "name": "Beta", "price": 98, "premium_rate": 30, "credit_rating": "AA"},
  {"code": "110003", "name": "Gamma", "price": 140, "premium_rate": 2, "credit_rating": "AAA"}
]`
	bondsFile := filepath.Join(dir, "bonds.json")
	require.NoError(t, os.WriteFile(bondsFile, []byte(bonds), 0o600))

	conf := fmt.Sprintf(`app_name: screener-test
logger:
  level: 2
  sentry_level: 0
data:
  database:
    driver: sqlite
    source: %s
market:
  provider: file
  file: %s
`, filepath.Join(dir, "screener.db"), bondsFile)
	confFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(confFile, []byte(conf), 0o600))
	return confFile
}

func TestValidateCommand(t *testing.T) {
	out, err := execute(t, "validate", "price < 110 AND credit_rating == 'AA'")
	require.NoError(t, err)
	assert.Equal(t, "valid\n", out)

	out, err = execute(t, "validate", "price <")
	assert.ErrorIs(t, err, errInvalidFormula)
	assert.Contains(t, out, "invalid at position 7")

	out, err = execute(t, "validate", "--json", "foo > 1")
	assert.ErrorIs(t, err, errInvalidFormula)
	var verdict map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &verdict))
	assert.Equal(t, false, verdict["valid"])
	assert.Equal(t, "Unknown field: foo", verdict["error"])
}

func TestNormalizeCommand(t *testing.T) {
	out, err := execute(t, "normalize", "price<110", "and", "ytm>1")
	require.NoError(t, err)
	assert.Equal(t, "price < 110.0 AND ytm > 1.0\n", out)

	_, err = execute(t, "normalize", "price ==")
	assert.ErrorIs(t, err, errInvalidFormula)
}

func TestFieldsCommand(t *testing.T) {
	out, err := execute(t, "fields")
	require.NoError(t, err)
	assert.Contains(t, out, "price")
	assert.Regexp(t, `credit_rating\s+string`, out)
	assert.Regexp(t, `double_low\s+number`, out)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"go_version"`)
}

func TestScreenCommand(t *testing.T) {
	conf := writeConfig(t)

	out, err := execute(t, "--conf", conf, "screen", "--sort-by", "price", "price < 110")
	require.NoError(t, err)
	assert.Contains(t, out, "2 of 3 bonds matched")
	assert.Less(t, strings.Index(out, "110002"), strings.Index(out, "110001"))
	assert.NotContains(t, out, "110003")

	out, err = execute(t, "--conf", conf, "screen", "--json", "-n", "1", "premium_rate < 50")
	require.NoError(t, err)
	var res struct {
		TotalCount  int `json:"total_count"`
		ResultCount int `json:"result_count"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, 3, res.TotalCount)
	assert.Equal(t, 1, res.ResultCount)

	_, err = execute(t, "--conf", conf, "screen", "price >")
	assert.Error(t, err)
}

func TestMigrateCommands(t *testing.T) {
	conf := writeConfig(t)

	out, err := execute(t, "--conf", conf, "migrate", "up")
	require.NoError(t, err)
	assert.Contains(t, out, "migrations applied")

	out, err = execute(t, "--conf", conf, "migrate", "down")
	require.NoError(t, err)
	assert.Contains(t, out, "rolled back")
}

func TestMissingConfigFile(t *testing.T) {
	_, err := execute(t, "--conf", filepath.Join(t.TempDir(), "absent.yaml"), "screen", "price > 1")
	assert.Error(t, err)
}
