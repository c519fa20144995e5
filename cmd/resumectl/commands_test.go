package main

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-builder/resume/engine"
	"resume-builder/resume/model"
)

const resumeJSON = `{
  "personalInfo": {"firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com", "phone": "555"},
  "summary": "Engineer",
  "experience": [{"id": "e1", "company": "Acme", "position": "Engineer"}],
  "skills": ["Python", "Go"]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestScore(t *testing.T) {
	path := writeFile(t, "resume.json", resumeJSON)

	out, err := run(t, "", "score", path)
	require.NoError(t, err)
	assert.Equal(t, "32\n", out)
}

func TestScoreFromStdin(t *testing.T) {
	out, err := run(t, resumeJSON, "score", "-")
	require.NoError(t, err)
	assert.Equal(t, "32\n", out)
}

func TestScoreRejectsMalformedResume(t *testing.T) {
	path := writeFile(t, "resume.json", `{"experience": [{"company": "no id"}]}`)

	_, err := run(t, "", "score", path)
	require.ErrorIs(t, err, model.ErrInvalidInput)

	_, err = run(t, "not json", "score", "-")
	require.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestExplain(t *testing.T) {
	path := writeFile(t, "resume.json", resumeJSON)

	out, err := run(t, "", "explain", path)
	require.NoError(t, err)

	var breakdown struct {
		Total      int `json:"total"`
		Components []struct {
			Key    string  `json:"key"`
			Points float64 `json:"points"`
		} `json:"components"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &breakdown))
	assert.Equal(t, 32, breakdown.Total)
	require.Len(t, breakdown.Components, 6)
	assert.Equal(t, "personalInfo", breakdown.Components[0].Key)
	assert.InDelta(t, 10, breakdown.Components[0].Points, 0.001)
}

func TestSuggestHonorsMaxSuggestions(t *testing.T) {
	path := writeFile(t, "resume.json", `{}`)

	out, err := run(t, "", "suggest", path, "--max-suggestions", "2")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 2)
}

func TestOptimize(t *testing.T) {
	resume := writeFile(t, "resume.json", resumeJSON)
	job := writeFile(t, "job.txt", "Looking for Python and AWS.")

	out, err := run(t, "", "optimize", resume, "--job", job)
	require.NoError(t, err)

	var got engine.Optimization
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []string{"AWS"}, got.SuggestedSkills)
	assert.Equal(t, []string{"Python"}, got.MatchedSkills)
	assert.InDelta(t, 0.5, got.MatchRatio, 0.001)
}

func TestOptimizeApply(t *testing.T) {
	resume := writeFile(t, "resume.json", resumeJSON)

	out, err := run(t, "Looking for Python and AWS.", "optimize", resume, "--job", "-", "--apply")
	require.NoError(t, err)

	var got struct {
		Added  []string     `json:"added"`
		Score  int          `json:"score"`
		Resume model.Resume `json:"resume"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, []string{"AWS"}, got.Added)
	assert.Equal(t, 42, got.Score)
	assert.Equal(t, []string{"Python", "Go", "AWS"}, got.Resume.Skills)
}

func TestOptimizeRequiresJob(t *testing.T) {
	resume := writeFile(t, "resume.json", resumeJSON)

	_, err := run(t, "", "optimize", resume)
	require.Error(t, err)

	_, err = run(t, "", "optimize", "-", "--job", "-")
	require.Error(t, err)
}

func TestTaxonomyDefault(t *testing.T) {
	out, err := run(t, "", "taxonomy")
	require.NoError(t, err)
	assert.Equal(t, "JavaScript\nReact\nNode.js\nPython\nAWS\n", out)
}

func TestConfigFileOverridesTaxonomy(t *testing.T) {
	cfg := writeFile(t, "engine.yaml", `
match-mode: word
max-suggestions: 1
terms:
  - name: Go
    synonyms: [golang]
  - name: Kubernetes
`)

	out, err := run(t, "", "taxonomy", "--config", cfg)
	require.NoError(t, err)
	assert.Equal(t, "Go (golang)\nKubernetes\n", out)

	resume := writeFile(t, "resume.json", resumeJSON)
	job := writeFile(t, "job.txt", "Kubernetes operators written in golang.")
	out, err = run(t, "", "optimize", resume, "--job", job, "--config", cfg)
	require.NoError(t, err)

	var got engine.Optimization
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.ElementsMatch(t, []string{"Go", "Kubernetes"}, got.Keywords)
	assert.Equal(t, []string{"Kubernetes"}, got.SuggestedSkills)
	assert.Len(t, got.Suggestions, 1)
}

func TestUnknownMatchMode(t *testing.T) {
	_, err := run(t, "", "taxonomy", "--match-mode", "fuzzy")
	require.Error(t, err)
}
