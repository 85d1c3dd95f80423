package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/algoviz/internal/bubblesort"
	"github.com/JakeFAU/algoviz/internal/prime"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestRootRegistersSubcommands(t *testing.T) {
	t.Parallel()

	root := newRootCmd()
	for _, name := range []string{"serve", "prime", "sort"} {
		sub, _, err := root.Find([]string{name})
		require.NoError(t, err)
		require.Equal(t, name, sub.Name())
	}
	require.NotNil(t, root.PersistentFlags().Lookup("config"))
}

func TestPrimeCommandPrintsTrace(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "prime", "15")
	require.NoError(t, err)

	var res prime.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Equal(t, int64(15), res.Number)
	require.False(t, res.IsPrime)
	require.Equal(t, "15 is not a prime number.", res.Message)
	require.True(t, res.Steps[len(res.Steps)-1].IsMatch)
}

func TestPrimeCommandSummary(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "prime", "--summary", "--", "-7")
	require.NoError(t, err)
	require.Equal(t, "-7 is not a prime number.\n", out)
}

func TestPrimeCommandRejectsBadInput(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "prime", "seven")
	require.ErrorContains(t, err, "n must be an integer")

	_, err = execute(t, "prime")
	require.Error(t, err)
}

func TestSortCommandPrintsTrace(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "sort", "--pretty", "5,3", "8", "1")
	require.NoError(t, err)

	var res bubblesort.Result
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	require.Equal(t, bubblesort.Algorithm, res.Algorithm)
	require.Equal(t, []int{1, 3, 5, 8}, res.Final().Array)
	require.Len(t, res.Steps, 15)
}

func TestSortCommandEmpty(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "sort")
	require.NoError(t, err)
	require.Contains(t, out, `"array":[]`)
}

func TestParseInts(t *testing.T) {
	t.Parallel()

	got, err := parseInts([]string{"4, -2", "", "7,", "0"})
	require.NoError(t, err)
	require.Equal(t, []int{4, -2, 7, 0}, got)

	_, err = parseInts([]string{"1", "2.5"})
	require.ErrorContains(t, err, `"2.5"`)
}

func TestServeCommandFailsOnMissingConfig(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "nope.yaml")
	_, err := execute(t, "--config", missing, "serve")
	require.ErrorContains(t, err, "load config")
}

//nolint:paralleltest // exports process environment
func TestServeCommandLoadsEnvFile(t *testing.T) {
	const key = "ALGOVIZ_SORT_MAX_ELEMENTS"
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))

	envFile := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte(key+"=0\n"), 0o600))

	_, err := execute(t, "serve", "--env-file", envFile)
	require.ErrorContains(t, err, "sort.max_elements")
}

func TestLoadEnvFileIgnoresMissingFile(t *testing.T) {
	t.Parallel()

	require.NoError(t, loadEnvFile(""))
	require.NoError(t, loadEnvFile(filepath.Join(t.TempDir(), "absent.env")))
}
