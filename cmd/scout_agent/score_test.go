package main

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/job-scout/internal/types"
)

func TestParseJobIDs(t *testing.T) {
	id1 := uuid.New()
	id2 := uuid.New()

	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "empty", input: "", want: 0},
		{name: "single", input: id1.String(), want: 1},
		{name: "two with spaces", input: id1.String() + " , " + id2.String(), want: 2},
		{name: "trailing comma", input: id1.String() + ",", want: 1},
		{name: "not a uuid", input: "not-a-uuid", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ids, err := parseJobIDs(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, ids, tt.want)
		})
	}
}

func TestLoadFixture_Valid(t *testing.T) {
	fixture := scoreFixture{
		UserID:          uuid.New(),
		ResumeVersionID: uuid.New(),
		Evidence: []types.EvidenceUnit{
			{ID: uuid.New(), Text: "Built Go services", Embedding: types.EmbeddingVector{1, 0}, Section: "Experience"},
		},
		Jobs: []types.JobPosting{
			{ID: uuid.New(), Company: "Acme", Title: "Engineer", SummaryEmbedding: types.EmbeddingVector{1, 0}},
		},
	}

	data, err := json.Marshal(fixture)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "fixture.json")
	require.NoError(t, os.WriteFile(path, data, 0644))

	loaded, err := loadFixture(path)
	require.NoError(t, err)
	assert.Equal(t, fixture.UserID, loaded.UserID)
	assert.Len(t, loaded.Evidence, 1)
	assert.Len(t, loaded.Jobs, 1)
	assert.Equal(t, types.EmbeddingVector{1, 0}, loaded.Jobs[0].SummaryEmbedding)
}

func TestLoadFixture_MissingIDs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fixture.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"evidence": [], "jobs": []}`), 0644))

	_, err := loadFixture(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "user_id")
}

func TestLoadFixture_NonExistent(t *testing.T) {
	_, err := loadFixture("/nonexistent/fixture.json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read fixture file")
}

// writeScoreFixture writes a small two-job fixture with precomputed
// embeddings so the score command can run fully offline.
func writeScoreFixture(t *testing.T, dir string) string {
	t.Helper()

	resumeID := uuid.New()
	alignedJob := uuid.MustParse("11111111-0000-0000-0000-000000000001")
	orthogonalJob := uuid.MustParse("11111111-0000-0000-0000-000000000002")

	fixture := scoreFixture{
		UserID:          uuid.New(),
		ResumeVersionID: resumeID,
		Evidence: []types.EvidenceUnit{
			{ID: uuid.New(), ResumeVersionID: resumeID, Text: "Senior Go engineer", Embedding: types.EmbeddingVector{1, 0}, Section: "Summary", Ordinal: 0},
			{ID: uuid.New(), ResumeVersionID: resumeID, Text: "PostgreSQL, Kubernetes", Embedding: types.EmbeddingVector{0, 1}, Section: "Skills", Ordinal: 1},
		},
		Jobs: []types.JobPosting{
			{
				ID: alignedJob, Company: "Acme", Title: "Backend Engineer",
				SummaryEmbedding: types.EmbeddingVector{1, 0},
				Requirements: []types.RequirementUnit{
					{ID: uuid.New(), JobID: alignedJob, Kind: types.KindRequired, Text: "Go experience", Embedding: types.EmbeddingVector{1, 0}, Ordinal: 0},
				},
			},
			{
				ID: orthogonalJob, Company: "Globex", Title: "Designer",
				SummaryEmbedding: types.EmbeddingVector{0, 0.5},
				Requirements: []types.RequirementUnit{
					{ID: uuid.New(), JobID: orthogonalJob, Kind: types.KindRequired, Text: "Figma", Embedding: types.EmbeddingVector{0, 1}, Ordinal: 0},
				},
			},
		},
	}

	data, err := json.Marshal(fixture)
	require.NoError(t, err)

	path := filepath.Join(dir, "fixture.json")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestScoreCommand_FixtureRun(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := getBinaryPath(t)
	fixturePath := writeScoreFixture(t, t.TempDir())

	cmd := exec.Command(binaryPath, "score",
		"--fixture", fixturePath,
		"--no-write")
	output, err := cmd.CombinedOutput()

	require.NoError(t, err, "score run should succeed, output: %s", output)
	assert.Contains(t, string(output), "Scored 2 of 2 candidate jobs")
	assert.Contains(t, string(output), "Best match: job 11111111-0000-0000-0000-000000000001")
}

func TestScoreCommand_NoInputSource(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := getBinaryPath(t)

	cmd := exec.Command(binaryPath, "score")
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "either --fixture or both --user and --resume-version")
}

func TestScoreCommand_MutuallyExclusiveInputs(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := getBinaryPath(t)
	fixturePath := writeScoreFixture(t, t.TempDir())

	cmd := exec.Command(binaryPath, "score",
		"--fixture", fixturePath,
		"--user", uuid.New().String())
	output, err := cmd.CombinedOutput()

	assert.Error(t, err)
	assert.Contains(t, string(output), "mutually exclusive")
}

func TestScoreCommand_TopKOverride(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := getBinaryPath(t)
	fixturePath := writeScoreFixture(t, t.TempDir())

	cmd := exec.Command(binaryPath, "score",
		"--fixture", fixturePath,
		"--no-write",
		"--top-k", "1")
	output, err := cmd.CombinedOutput()

	require.NoError(t, err, "score run should succeed, output: %s", output)
	assert.Contains(t, string(output), "Scored 1 of 1 candidate jobs")
}
