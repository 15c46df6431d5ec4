package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/errors"
)

var runIDPattern = regexp.MustCompile(`(?m)^run ([0-9a-f-]{36})$`)

// writeConfig points the inputs at the engine fixtures and keeps every output
// inside a temp dir. It returns the config path and the output dir.
func writeConfig(t *testing.T, sqliteEnabled bool) (string, string) {
	t.Helper()
	data, err := filepath.Abs(filepath.Join("..", "..", "internal", "engine", "testdata"))
	require.NoError(t, err)
	dir := t.TempDir()
	out := filepath.Join(dir, "out")

	yaml := fmt.Sprintf(`inputs:
  conceptsPath: %q
  relationsPath: %q
  wordnetPath: %q
report:
  outputDir: %q
  render: never
sqlite:
  enabled: %t
  path: %q
sink:
  retryAttempts: 1
logging:
  level: error
`,
		filepath.Join(data, "Concepts.csv"),
		filepath.Join(data, "Relations.csv"),
		filepath.Join(data, "wordnet.xml"),
		out, sqliteEnabled, filepath.Join(dir, "runs.db"))

	path := filepath.Join(dir, "ontocompare.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	return path, out
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

func TestCompare_WritesReports(t *testing.T) {
	cfgPath, outDir := writeConfig(t, false)

	out, err := execute(t, "compare", "--config", cfgPath, "--no-sinks")
	require.NoError(t, err)

	assert.Contains(t, out, "## Ontology subTypeOf vs WordNet Hypernym Chains")
	assert.Regexp(t, runIDPattern, out)

	want := []string{"hierarchy_comparison_report.txt", "hierarchy_comparison_summary.md"}
	if diff := cmp.Diff(want, listDir(t, outDir)); diff != "" {
		t.Errorf("output files mismatch (-want +got):\n%s", diff)
	}
}

func TestCompare_OutputDirFlagOverridesConfig(t *testing.T) {
	cfgPath, outDir := writeConfig(t, false)
	other := filepath.Join(t.TempDir(), "elsewhere")

	_, err := execute(t, "compare", "--config", cfgPath, "--no-sinks", "--output-dir", other)
	require.NoError(t, err)

	assert.NoDirExists(t, outDir)
	assert.FileExists(t, filepath.Join(other, "hierarchy_comparison_summary.md"))
}

func TestCompare_ThenHistory(t *testing.T) {
	cfgPath, _ := writeConfig(t, true)

	out, err := execute(t, "compare", "--config", cfgPath)
	require.NoError(t, err)
	m := runIDPattern.FindStringSubmatch(out)
	require.Len(t, m, 2)
	runID := m[1]

	out, err = execute(t, "history", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, runID)
	assert.Contains(t, out, "UNMATCHABLE")

	out, err = execute(t, "history", "--config", cfgPath, "--run", runID, "--outcome", "agree")
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(out, "AGREE"))
	assert.NotContains(t, out, "DISAGREE")

	out, err = execute(t, "history", "--config", cfgPath, "--run", "no-such-run")
	require.NoError(t, err)
	assert.Contains(t, out, "no pairs stored")
}

func TestHistory_UnknownOutcome(t *testing.T) {
	cfgPath, _ := writeConfig(t, true)

	_, err := execute(t, "history", "--config", cfgPath, "--run", "x", "--outcome", "MAYBE")
	require.Error(t, err)
	assert.Equal(t, apperrors.ExitUsage, apperrors.ExitCode(err))
}

func TestHistory_NoStoreConfigured(t *testing.T) {
	cfgPath, _ := writeConfig(t, false)

	_, err := execute(t, "history", "--config", cfgPath)
	require.Error(t, err)
	assert.Equal(t, apperrors.ExitUsage, apperrors.ExitCode(err))
}

func TestValidateAndMatches(t *testing.T) {
	cfgPath, outDir := writeConfig(t, false)

	_, err := execute(t, "validate", "--config", cfgPath, "--limit", "1")
	require.NoError(t, err)
	_, err = execute(t, "matches", "--config", cfgPath, "--sample", "3", "--seed", "7")
	require.NoError(t, err)

	want := []string{
		"ontology_vs_awn4_comparison.txt",
		"validation_all_agree.txt",
		"validation_disagree_sample.txt",
	}
	if diff := cmp.Diff(want, listDir(t, outDir)); diff != "" {
		t.Errorf("output files mismatch (-want +got):\n%s", diff)
	}
}

func TestExitCodes(t *testing.T) {
	cfgPath, _ := writeConfig(t, false)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"unknown flag", []string{"compare", "--config", cfgPath, "--bogus"}, apperrors.ExitUsage},
		{"negative hops", []string{"compare", "--config", cfgPath, "--max-hops", "-1", "--no-sinks"}, apperrors.ExitUsage},
		{"missing config file", []string{"compare", "--config", filepath.Join(t.TempDir(), "absent.yaml")}, apperrors.ExitUsage},
		{"negative sample", []string{"matches", "--config", cfgPath, "--sample", "-1"}, apperrors.ExitUsage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.want, apperrors.ExitCode(err))
		})
	}
}

func TestMalformedWordNetExitsBadInput(t *testing.T) {
	cfgPath, _ := writeConfig(t, false)
	bad := filepath.Join(t.TempDir(), "bad.xml")
	require.NoError(t, os.WriteFile(bad, []byte("<LexicalResource><Synset id='a'>"), 0o644))
	t.Setenv("OC_WORDNET_PATH", bad)

	_, err := execute(t, "compare", "--config", cfgPath, "--no-sinks")
	require.Error(t, err)
	assert.Equal(t, apperrors.ExitBadInput, apperrors.ExitCode(err))
}

func TestWantsStyling(t *testing.T) {
	var buf bytes.Buffer
	assert.True(t, wantsStyling(&buf, "always"))
	assert.False(t, wantsStyling(&buf, "never"))
	assert.False(t, wantsStyling(&buf, "auto"))

	f, err := os.CreateTemp(t.TempDir(), "out")
	require.NoError(t, err)
	defer f.Close()
	assert.False(t, wantsStyling(f, "auto"))
}

func TestRenderMarkdown_Plain(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderMarkdown(&buf, "# Title\n", "never"))
	assert.Equal(t, "# Title\n", buf.String())

	buf.Reset()
	require.NoError(t, renderMarkdown(&buf, "# Title\n", "always"))
	assert.Contains(t, buf.String(), "Title")
}
