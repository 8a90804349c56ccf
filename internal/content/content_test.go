package content_test

import (
	"testing"
	"testing/fstest"

	"github.com/myrjola/gaslight/internal/content"
	"github.com/myrjola/gaslight/internal/errors"
	"github.com/myrjola/gaslight/internal/models"
	"github.com/stretchr/testify/require"
)

func TestBuiltin(t *testing.T) {
	t.Parallel()
	fsys := content.Builtin()

	metas, err := content.ListCases(fsys)
	require.NoError(t, err)
	require.Len(t, metas, 1)
	require.Equal(t, "the-drowned-clerk", metas[0].ID)

	c, err := content.LoadCase(fsys, "the-drowned-clerk")
	require.NoError(t, err)
	require.NoError(t, content.Validate(c))
	require.Equal(t, "act1-arrival", c.FirstSceneID())
	require.Equal(t, 3, c.Scenes["act3-epilogue"].Act)
	require.Contains(t, c.Scenes, "act2-warehouse-lamplit")
	require.Len(t, c.Variants, 1)
	require.Equal(t, models.ClueStatusNew, c.Clues["brass-token"].Status)
	require.NotNil(t, c.NPCs["widow-marsh"].MemoryFlags)
	require.NotNil(t, c.Scenes["act2-ambush"].Encounter)

	v, err := content.LoadVignette(fsys, "vignettes/a-matter-of-shadows")
	require.NoError(t, err)
	require.NoError(t, content.Validate(v.AsCase()))
	require.Equal(t, "shadows-fleet-street", v.AsCase().FirstSceneID())
}

func caseFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, data := range files {
		fsys["cases/test/"+name] = &fstest.MapFile{Data: []byte(data)}
	}
	return fsys
}

func TestLoad_ActOrder(t *testing.T) {
	t.Parallel()
	fsys := caseFS(map[string]string{
		"meta.json":   `{"id":"test","title":"Test"}`,
		"act1.json":   `{"scenes":[{"id":"one"}]}`,
		"act2.json":   `{"scenes":[{"id":"two"}]}`,
		"act10.json":  `{"scenes":[{"id":"ten"}]}`,
		"actors.json": `{"scenes":[{"id":"ignored"}]}`,
		"clues.json":  `{"clues":[]}`,
		"npcs.json":   `{"npcs":[]}`,
	})
	c, err := content.LoadCase(fsys, "test")
	require.NoError(t, err)
	require.Equal(t, []string{"one", "two", "ten"}, c.SceneOrder)
	require.Equal(t, 10, c.Scenes["ten"].Act)
	require.NotContains(t, c.Scenes, "ignored")
	require.Empty(t, c.Variants)
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()
	base := map[string]string{
		"meta.json":  `{"id":"test"}`,
		"act1.json":  `{"scenes":[{"id":"one"}]}`,
		"clues.json": `{"clues":[{"id":"c1"}]}`,
		"npcs.json":  `{"npcs":[]}`,
	}
	tests := []struct {
		name     string
		override map[string]string
		wantErr  error
	}{
		{"duplicate scene", map[string]string{"act2.json": `{"scenes":[{"id":"one"}]}`}, content.ErrDuplicateID},
		{"variant shadows scene", map[string]string{"variants.json": `{"variants":[{"id":"one"}]}`}, content.ErrDuplicateID},
		{"duplicate clue", map[string]string{"clues.json": `{"clues":[{"id":"c1"},{"id":"c1"}]}`}, content.ErrDuplicateID},
		{"missing clues", map[string]string{"clues.json": ""}, nil},
		{"malformed meta", map[string]string{"meta.json": `{"id":`}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			files := map[string]string{}
			for k, v := range base {
				files[k] = v
			}
			for k, v := range tt.override {
				if v == "" {
					delete(files, k)
					continue
				}
				files[k] = v
			}
			_, err := content.LoadCase(caseFS(files), "test")
			require.Error(t, err)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	dc := 12
	allTiers := map[models.Tier]string{
		models.TierCritical: "end", models.TierSuccess: "end", models.TierPartial: "end",
		models.TierFailure: "end", models.TierFumble: "end",
	}
	c := &models.CaseData{
		Meta: models.CaseMeta{ID: "broken", FirstScene: "nowhere"},
		Scenes: map[string]models.SceneNode{
			"start": {
				ID: "start",
				CluesAvailable: []models.ClueDiscovery{
					{ClueID: "footprint"},
					{ClueID: "ghost-clue"},
				},
				Choices: []models.Choice{
					{ID: "gated", Faculty: models.FacultyReason, Difficulty: &dc,
						Outcomes: map[models.Tier]string{models.TierSuccess: "end", models.TierFailure: "void"}},
					{ID: "talk", RequiresClue: "missing-letter", AdvantageIf: []string{"footprint", "phantom"},
						Outcomes: map[models.Tier]string{models.TierSuccess: "end-variant"}},
				},
			},
			"end":         {ID: "end"},
			"end-variant": {ID: "end-variant", VariantOf: "end"},
			"orphan":      {ID: "orphan", VariantOf: "gone"},
			"fight": {
				ID: "fight",
				Encounter: &models.Encounter{Rounds: []models.EncounterRound{
					{Choices: []models.Choice{{ID: "dodge", Faculty: models.FacultyVigor, Difficulty: &dc}}},
					{Choices: []models.Choice{{ID: "finish", Faculty: models.FacultyVigor, Difficulty: &dc, Outcomes: allTiers}}},
				}},
			},
		},
		Clues: map[string]models.Clue{"footprint": {ID: "footprint"}},
	}

	err := content.Validate(c)
	var validationErr *content.ValidationError
	require.True(t, errors.As(err, &validationErr))
	require.Equal(t, "broken", validationErr.CaseID)
	require.ElementsMatch(t, []string{
		`meta firstScene references unknown scene "nowhere"`,
		`scene "orphan" is a variant of unknown scene "gone"`,
		`scene "start" cluesAvailable references unknown clue "ghost-clue"`,
		`scene "start" choice "gated" is missing the critical outcome`,
		`scene "start" choice "gated" is missing the partial outcome`,
		`scene "start" choice "gated" is missing the fumble outcome`,
		`scene "start" choice "gated" outcome failure references unknown scene "void"`,
		`scene "start" choice "talk" requiresClue references unknown clue "missing-letter"`,
		`scene "start" choice "talk" advantageIf references unknown clue "phantom"`,
	}, validationErr.Problems)
	require.Contains(t, err.Error(), "9 problem(s)")

	c.Meta.FirstScene = "start"
	delete(c.Scenes, "orphan")
	c.Scenes["start"] = models.SceneNode{ID: "start", Choices: []models.Choice{
		{ID: "gated", Faculty: models.FacultyReason, Difficulty: &dc, Outcomes: allTiers},
	}}
	require.NoError(t, content.Validate(c))
}
