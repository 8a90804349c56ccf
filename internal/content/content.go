// Package content loads case and vignette documents into indexed models and validates their scene graphs.
package content

import (
	"embed"
	"encoding/json"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"strconv"
	"strings"

	"github.com/myrjola/gaslight/internal/errors"
	"github.com/myrjola/gaslight/internal/models"
)

const (
	CasesDir     = "cases"
	VignettesDir = "vignettes"
)

//go:embed cases vignettes
var builtin embed.FS

var ErrDuplicateID = errors.NewSentinel("duplicate id")

// Builtin returns the content shipped with the game, laid out as CasesDir/<id> and VignettesDir/<id>.
func Builtin() fs.FS {
	return builtin
}

type scenesFile struct {
	Scenes []models.SceneNode `json:"scenes"`
}

type cluesFile struct {
	Clues []models.Clue `json:"clues"`
}

type npcsFile struct {
	NPCs []models.NPCState `json:"npcs"`
}

type variantsFile struct {
	Variants []models.SceneNode `json:"variants"`
}

// LoadCase loads the case with id from CasesDir.
func LoadCase(fsys fs.FS, id string) (*models.CaseData, error) {
	return Load(fsys, path.Join(CasesDir, id))
}

// Load reads the case in dir: meta.json, the act files act1.json, act2.json, ... in act order, clues.json,
// npcs.json and the optional variants.json.
func Load(fsys fs.FS, dir string) (*models.CaseData, error) {
	data := &models.CaseData{
		Scenes: map[string]models.SceneNode{},
		Clues:  map[string]models.Clue{},
		NPCs:   map[string]models.NPCState{},
	}
	if err := readJSON(fsys, path.Join(dir, "meta.json"), &data.Meta); err != nil {
		return nil, err
	}

	acts, err := actFiles(fsys, dir)
	if err != nil {
		return nil, err
	}
	for _, act := range acts {
		var file scenesFile
		if err = readJSON(fsys, act.path, &file); err != nil {
			return nil, err
		}
		for _, s := range file.Scenes {
			if s.Act == 0 {
				s.Act = act.number
			}
			if err = addScene(data, s); err != nil {
				return nil, errors.Wrap(err, "load act", slog.String("file", act.path))
			}
			data.SceneOrder = append(data.SceneOrder, s.ID)
		}
	}

	var variants variantsFile
	if err = readJSON(fsys, path.Join(dir, "variants.json"), &variants); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	for _, v := range variants.Variants {
		if err = addScene(data, v); err != nil {
			return nil, errors.Wrap(err, "load variants", slog.String("case", data.Meta.ID))
		}
		data.Variants = append(data.Variants, v)
	}

	if data.Clues, err = loadClues(fsys, dir); err != nil {
		return nil, err
	}
	if data.NPCs, err = loadNPCs(fsys, dir); err != nil {
		return nil, err
	}
	return data, nil
}

// LoadVignette reads the vignette in dir: meta.json, scenes.json, clues.json and npcs.json.
func LoadVignette(fsys fs.FS, dir string) (*models.VignetteData, error) {
	data := &models.VignetteData{Scenes: map[string]models.SceneNode{}}
	if err := readJSON(fsys, path.Join(dir, "meta.json"), &data.Meta); err != nil {
		return nil, err
	}
	var file scenesFile
	if err := readJSON(fsys, path.Join(dir, "scenes.json"), &file); err != nil {
		return nil, err
	}
	for _, s := range file.Scenes {
		if _, exists := data.Scenes[s.ID]; exists {
			return nil, errors.Wrap(ErrDuplicateID, "load vignette scenes", slog.String("scene", s.ID))
		}
		if s.Act == 0 {
			s.Act = 1
		}
		data.Scenes[s.ID] = s
		data.SceneOrder = append(data.SceneOrder, s.ID)
	}

	var err error
	if data.Clues, err = loadClues(fsys, dir); err != nil {
		return nil, err
	}
	if data.NPCs, err = loadNPCs(fsys, dir); err != nil {
		return nil, err
	}
	return data, nil
}

// ListCases returns the meta of every case in CasesDir sorted by id.
func ListCases(fsys fs.FS) ([]models.CaseMeta, error) {
	entries, err := fs.ReadDir(fsys, CasesDir)
	if err != nil {
		return nil, errors.Wrap(err, "read cases directory")
	}
	metas := make([]models.CaseMeta, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		var meta models.CaseMeta
		if err = readJSON(fsys, path.Join(CasesDir, e.Name(), "meta.json"), &meta); err != nil {
			return nil, err
		}
		metas = append(metas, meta)
	}
	slices.SortFunc(metas, func(a, b models.CaseMeta) int { return strings.Compare(a.ID, b.ID) })
	return metas, nil
}

func addScene(data *models.CaseData, s models.SceneNode) error {
	if _, exists := data.Scenes[s.ID]; exists {
		return errors.Wrap(ErrDuplicateID, "index scene", slog.String("scene", s.ID))
	}
	data.Scenes[s.ID] = s
	return nil
}

func loadClues(fsys fs.FS, dir string) (map[string]models.Clue, error) {
	var file cluesFile
	if err := readJSON(fsys, path.Join(dir, "clues.json"), &file); err != nil {
		return nil, err
	}
	clues := make(map[string]models.Clue, len(file.Clues))
	for _, c := range file.Clues {
		if _, exists := clues[c.ID]; exists {
			return nil, errors.Wrap(ErrDuplicateID, "index clue", slog.String("clue", c.ID))
		}
		if c.Status == "" {
			c.Status = models.ClueStatusNew
		}
		if c.Tags == nil {
			c.Tags = []string{}
		}
		clues[c.ID] = c
	}
	return clues, nil
}

func loadNPCs(fsys fs.FS, dir string) (map[string]models.NPCState, error) {
	var file npcsFile
	if err := readJSON(fsys, path.Join(dir, "npcs.json"), &file); err != nil {
		return nil, err
	}
	npcs := make(map[string]models.NPCState, len(file.NPCs))
	for _, n := range file.NPCs {
		if _, exists := npcs[n.ID]; exists {
			return nil, errors.Wrap(ErrDuplicateID, "index npc", slog.String("npc", n.ID))
		}
		if n.MemoryFlags == nil {
			n.MemoryFlags = map[string]bool{}
		}
		npcs[n.ID] = n
	}
	return npcs, nil
}

type actFile struct {
	path   string
	number int
}

// actFiles returns the act files of dir ordered by act number.
func actFiles(fsys fs.FS, dir string) ([]actFile, error) {
	matches, err := fs.Glob(fsys, path.Join(dir, "act*.json"))
	if err != nil {
		return nil, errors.Wrap(err, "glob act files", slog.String("dir", dir))
	}
	acts := make([]actFile, 0, len(matches))
	for _, m := range matches {
		name := strings.TrimSuffix(strings.TrimPrefix(path.Base(m), "act"), ".json")
		n, convErr := strconv.Atoi(name)
		if convErr != nil {
			continue
		}
		acts = append(acts, actFile{path: m, number: n})
	}
	slices.SortFunc(acts, func(a, b actFile) int { return a.number - b.number })
	return acts, nil
}

func readJSON(fsys fs.FS, name string, v any) error {
	raw, err := fs.ReadFile(fsys, name)
	if err != nil {
		return errors.Wrap(err, "read content file", slog.String("file", name))
	}
	if err = json.Unmarshal(raw, v); err != nil {
		return errors.Wrap(err, "decode content file", slog.String("file", name))
	}
	return nil
}
