package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommands_FlagsValidation(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		errorString string
	}{
		{"analyze without resume", []string{"analyze-resume"}, "required"},
		{"parse-job without input", []string{"parse-job"}, "required"},
		{"score without job", []string{"score", "--resume", "r.json"}, "required"},
		{"draft unknown kind", []string{"draft", "memo", "--resume", "r.json", "--title", "x", "--company", "y"}, "unknown draft kind"},
		{"draft upload without pdf", []string{"draft", "email", "--resume", "r.json", "--title", "x", "--company", "y", "--upload"}, "--upload requires --pdf"},
		{"bad status id", []string{"internships", "status", "nope", "applied"}, "invalid internship id"},
		{"bad competition", []string{"score", "--resume", "r.json", "--in", "j.txt", "--competition", "extreme"}, "invalid market context"},
		{"migrate on sqlite", []string{"migrate", "up"}, "postgres only"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := agent(t, t.TempDir(), tt.args...).CombinedOutput()
			assert.Error(t, err)
			assert.Contains(t, string(output), tt.errorString)
		})
	}
}

func TestAnalyzeResumeCommand(t *testing.T) {
	output, err := agent(t, t.TempDir(), "analyze-resume", "--resume", testdata(t, "resume.json")).Output()
	require.NoError(t, err)

	var profile struct {
		Skills         []string `json:"skills"`
		EducationLevel string   `json:"education_level"`
	}
	require.NoError(t, json.Unmarshal(output, &profile))
	assert.Contains(t, profile.Skills, "python")
	assert.Equal(t, "bachelor", profile.EducationLevel)
}

func TestParseJobCommand_Stdin(t *testing.T) {
	cmd := agent(t, t.TempDir(), "parse-job", "--in", "-", "--title", "Backend Intern")
	cmd.Stdin = strings.NewReader("<p>Python is required for this role. Docker is a plus.</p>")
	output, err := cmd.Output()
	require.NoError(t, err)

	var req struct {
		RequiredSkills []string `json:"required_skills"`
	}
	require.NoError(t, json.Unmarshal(output, &req))
	assert.Contains(t, req.RequiredSkills, "python")
}

func TestScoreCommand(t *testing.T) {
	output, err := agent(t, t.TempDir(), "score",
		"--resume", testdata(t, "resume.json"),
		"--in", testdata(t, "job.txt"),
		"--title", "Backend Software Engineering Intern",
		"--company", "Initech",
	).Output()
	require.NoError(t, err)

	var scored struct {
		Compatibility struct {
			Overall float64 `json:"overall_compatibility"`
		} `json:"compatibility"`
		MatchCategory string `json:"match_category"`
	}
	require.NoError(t, json.Unmarshal(output, &scored))
	assert.Greater(t, scored.Compatibility.Overall, 0.0)
	assert.NotEmpty(t, scored.MatchCategory)
}

func TestQueriesCommand(t *testing.T) {
	output, err := agent(t, t.TempDir(), "queries", "--resume", testdata(t, "resume.json")).Output()
	require.NoError(t, err)

	var specs []struct {
		Query string `json:"query_text"`
	}
	require.NoError(t, json.Unmarshal(output, &specs))
	require.NotEmpty(t, specs)
	for _, s := range specs {
		assert.NotEmpty(t, s.Query)
	}
}

func TestSearchAndTrack(t *testing.T) {
	dir := t.TempDir()

	output, err := agent(t, dir, "search",
		"--resume", testdata(t, "resume.json"),
		"--queries", testdata(t, "queries.json"),
	).Output()
	require.NoError(t, err)

	var result struct {
		Summary struct {
			TotalFound int `json:"total_found"`
		} `json:"summary"`
		Save struct {
			Saved int `json:"saved"`
		} `json:"save"`
	}
	require.NoError(t, json.Unmarshal(output, &result))
	assert.Equal(t, 2, result.Summary.TotalFound)
	assert.Equal(t, 2, result.Save.Saved)

	output, err = agent(t, dir, "internships", "list", "--json-output").Output()
	require.NoError(t, err)
	var list []struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(output, &list))
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].Status)

	_, err = agent(t, dir, "internships", "status", list[0].ID, "applied").Output()
	require.NoError(t, err)
	_, err = agent(t, dir, "internships", "delete", list[1].ID).Output()
	require.NoError(t, err)

	output, err = agent(t, dir, "internships", "list", "--json-output").Output()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(output, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "applied", list[0].Status)

	// Running the same search again finds only duplicates.
	output, err = agent(t, dir, "search",
		"--resume", testdata(t, "resume.json"),
		"--queries", testdata(t, "queries.json"),
	).Output()
	require.NoError(t, err)
	var again struct {
		Save struct {
			Saved      int `json:"saved"`
			Duplicates int `json:"duplicates"`
		} `json:"save"`
	}
	require.NoError(t, json.Unmarshal(output, &again))
	assert.Equal(t, 1, again.Save.Saved)
	assert.Equal(t, 1, again.Save.Duplicates)
}

func TestDraftCommand_Fallback(t *testing.T) {
	output, err := agent(t, t.TempDir(), "draft", "email",
		"--resume", testdata(t, "resume.json"),
		"--title", "Go Backend Intern",
		"--company", "Initech",
	).Output()
	require.NoError(t, err)
	assert.Contains(t, string(output), "Go Backend Intern")
}
