package content

import (
	"io/fs"
	"log/slog"
	"path"

	"github.com/myrjola/gaslight/internal/errors"
	"github.com/myrjola/gaslight/internal/models"
)

var ErrInvalidContent = errors.NewSentinel("invalid content")

// Library is every validated case and vignette of a content tree.
type Library struct {
	// Cases lists the case metas sorted by id. Vignettes are not listed.
	Cases     []models.CaseMeta
	cases     map[string]*models.CaseData
	vignettes map[string]*models.VignetteData
}

// LoadLibrary loads and validates every case and vignette of fsys. Validation problems of all documents are
// reported together wrapped in ErrInvalidContent.
func LoadLibrary(fsys fs.FS) (*Library, error) {
	metas, err := ListCases(fsys)
	if err != nil {
		return nil, err
	}
	lib := &Library{
		Cases:     metas,
		cases:     make(map[string]*models.CaseData, len(metas)),
		vignettes: map[string]*models.VignetteData{},
	}

	var problems []error
	for _, meta := range metas {
		c, loadErr := LoadCase(fsys, meta.ID)
		if loadErr != nil {
			return nil, errors.Wrap(loadErr, "load case", slog.String("case", meta.ID))
		}
		if validateErr := Validate(c); validateErr != nil {
			problems = append(problems, validateErr)
			continue
		}
		lib.cases[meta.ID] = c
	}

	entries, err := fs.ReadDir(fsys, VignettesDir)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(err, "read vignettes directory")
	}
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		v, loadErr := LoadVignette(fsys, path.Join(VignettesDir, entry.Name()))
		if loadErr != nil {
			return nil, errors.Wrap(loadErr, "load vignette", slog.String("vignette", entry.Name()))
		}
		if _, exists := lib.cases[v.Meta.ID]; exists {
			return nil, errors.Wrap(ErrDuplicateID, "index vignette", slog.String("vignette", v.Meta.ID))
		}
		asCase := v.AsCase()
		if validateErr := Validate(asCase); validateErr != nil {
			problems = append(problems, validateErr)
			continue
		}
		lib.vignettes[v.Meta.ID] = v
		lib.cases[v.Meta.ID] = asCase
	}

	if len(problems) > 0 {
		return nil, errors.Join(append([]error{ErrInvalidContent}, problems...)...)
	}
	return lib, nil
}

// Case returns the case or vignette id ready to be played.
func (l *Library) Case(id string) (*models.CaseData, bool) {
	c, ok := l.cases[id]
	return c, ok
}

func (l *Library) Vignette(id string) (*models.VignetteData, bool) {
	v, ok := l.vignettes[id]
	return v, ok
}

// VignetteCount returns the number of vignettes loaded.
func (l *Library) VignetteCount() int {
	return len(l.vignettes)
}
