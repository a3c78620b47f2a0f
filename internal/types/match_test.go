package types

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchRecord_Key(t *testing.T) {
	userID := uuid.New()
	resumeID := uuid.New()
	jobID := uuid.New()

	a := MatchRecord{ID: uuid.New(), UserID: userID, ResumeVersionID: resumeID, JobID: jobID}
	b := MatchRecord{ID: uuid.New(), UserID: userID, ResumeVersionID: resumeID, JobID: jobID}

	assert.Equal(t, a.Key(), b.Key(), "records with the same (user, resume version, job) share a key regardless of row ID")

	c := MatchRecord{UserID: userID, ResumeVersionID: resumeID, JobID: uuid.New()}
	assert.NotEqual(t, a.Key(), c.Key())
}

func TestMatchRecord_WantScoreAbsentVsZero(t *testing.T) {
	absent := MatchRecord{FitScore: 50, OverallScore: 50}
	data, err := json.Marshal(absent)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"want_score"`, "absent want score should be omitted, not serialized as 0")

	zero := 0.0
	scored := MatchRecord{FitScore: 50, WantScore: &zero, OverallScore: 30}
	data, err = json.Marshal(scored)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"want_score":0`)
}
