package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs(t *testing.T) {
	t.Helper()
	prev := NewID
	n := 0
	NewID = func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	t.Cleanup(func() { NewID = prev })
}

func TestNewResumeIsEmptyAndValid(t *testing.T) {
	r := New("resume-1")
	assert.Equal(t, "resume-1", r.ID)
	assert.NotNil(t, r.Experience)
	assert.NotNil(t, r.Skills)
	assert.Equal(t, 0, r.PersonalInfo.FilledCount())
	require.NoError(t, Validate(r))
}

func TestFilledCountIgnoresBlankFields(t *testing.T) {
	info := PersonalInfo{FirstName: "Ada", LastName: "  ", Email: "ada@example.com", GitHub: "ada"}
	assert.Equal(t, 3, info.FilledCount())
	assert.Len(t, info.Values(), PersonalInfoFields)
}

func TestEffectiveEndDateKeepsStoredValue(t *testing.T) {
	e := Experience{EndDate: "2021-05", Current: true}
	assert.Equal(t, "", e.EffectiveEndDate())
	assert.Equal(t, "2021-05", e.EndDate)

	e.Current = false
	assert.Equal(t, "2021-05", e.EffectiveEndDate())
}

func TestAddExperienceDoesNotMutateInput(t *testing.T) {
	sequentialIDs(t)
	base := New("r")
	next, id := AddExperience(base, Experience{Company: "Acme", ID: "ignored"})

	assert.Empty(t, base.Experience)
	require.Len(t, next.Experience, 1)
	assert.Equal(t, "id-1", id)
	assert.Equal(t, "id-1", next.Experience[0].ID)
}

func TestUpdateExperienceKeepsID(t *testing.T) {
	sequentialIDs(t)
	r, id := AddExperience(New("r"), Experience{Company: "Acme"})

	updated, ok := UpdateExperience(r, id, func(e Experience) Experience {
		e.Position = "Engineer"
		e.ID = "changed"
		return e
	})
	require.True(t, ok)
	assert.Equal(t, id, updated.Experience[0].ID)
	assert.Equal(t, "Engineer", updated.Experience[0].Position)
	assert.Equal(t, "", r.Experience[0].Position)

	_, ok = UpdateExperience(r, "missing", func(e Experience) Experience { return e })
	assert.False(t, ok)
}

func TestRemoveEducation(t *testing.T) {
	sequentialIDs(t)
	r, first := AddEducation(New("r"), Education{Institution: "MIT"})
	r, _ = AddEducation(r, Education{Institution: "CMU"})

	out, ok := RemoveEducation(r, first)
	require.True(t, ok)
	require.Len(t, out.Education, 1)
	assert.Equal(t, "CMU", out.Education[0].Institution)
	assert.Len(t, r.Education, 2)
}

func TestAddSkillTrimsAndDedupesCaseInsensitively(t *testing.T) {
	r, ok := AddSkill(New("r"), "  Python ")
	require.True(t, ok)
	assert.Equal(t, []string{"Python"}, r.Skills)

	_, ok = AddSkill(r, "python")
	assert.False(t, ok)
	_, ok = AddSkill(r, "   ")
	assert.False(t, ok)
}

func TestMergeSkillsReportsAdded(t *testing.T) {
	r, _ := AddSkill(New("r"), "Go")
	merged, added := MergeSkills(r, []string{"AWS", "go", "React", "aws"})

	assert.Equal(t, []string{"Go", "AWS", "React"}, merged.Skills)
	assert.Equal(t, []string{"AWS", "React"}, added)
	assert.Equal(t, []string{"Go"}, r.Skills)
}

func TestRemoveSkill(t *testing.T) {
	r, _ := MergeSkills(New("r"), []string{"Go", "SQL"})
	out, ok := RemoveSkill(r, "sql")
	require.True(t, ok)
	assert.Equal(t, []string{"Go"}, out.Skills)
	assert.Equal(t, []string{"Go", "SQL"}, r.Skills)
}

func TestNormalizeSkills(t *testing.T) {
	got := NormalizeSkills([]string{" Go", "", "go", "Rust ", "  "})
	assert.Equal(t, []string{"Go", "Rust"}, got)
}

func TestEnsureIDsFillsMissingAndDuplicates(t *testing.T) {
	sequentialIDs(t)
	r := New("r")
	r.Experience = []Experience{{ID: "a"}, {ID: ""}, {ID: "a"}}
	r.Education = []Education{{ID: "e"}}

	out := EnsureIDs(r)
	assert.Equal(t, "a", out.Experience[0].ID)
	assert.Equal(t, "id-1", out.Experience[1].ID)
	assert.Equal(t, "id-2", out.Experience[2].ID)
	assert.Equal(t, "e", out.Education[0].ID)
	assert.Equal(t, "", r.Experience[1].ID)
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Resume)
		ok     bool
	}{
		{name: "zero_value", mutate: func(r *Resume) { *r = Resume{} }, ok: true},
		{name: "blank_skill", mutate: func(r *Resume) { r.Skills = []string{"Go", ""} }},
		{name: "untrimmed_skill", mutate: func(r *Resume) { r.Skills = []string{" Go"} }},
		{name: "duplicate_skill", mutate: func(r *Resume) { r.Skills = []string{"Go", "Go"} }},
		{name: "missing_experience_id", mutate: func(r *Resume) { r.Experience = []Experience{{Company: "Acme"}} }},
		{name: "duplicate_education_id", mutate: func(r *Resume) { r.Education = []Education{{ID: "x"}, {ID: "x"}} }},
		{name: "invalid_utf8_summary", mutate: func(r *Resume) { r.Summary = string([]byte{0xff, 0xfe}) }},
		{name: "valid_entries", mutate: func(r *Resume) {
			r.Skills = []string{"Go", "go"}
			r.Experience = []Experience{{ID: "1"}, {ID: "2"}}
		}, ok: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := New("r")
			tc.mutate(&r)
			err := Validate(r)
			if tc.ok {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
		})
	}
}
