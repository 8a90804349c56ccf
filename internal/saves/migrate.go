package saves

import (
	"log/slog"

	"github.com/myrjola/gaslight/internal/errors"
	"github.com/myrjola/gaslight/internal/models"
)

// CurrentSaveVersion is the version written by Save.
//
//	0: initial format
//	1: factionReputation
//	2: labels, and every map of the state is present
const CurrentSaveVersion = 2

var ErrUnsupportedVersion = errors.NewSentinel("unsupported save version")

type migration func(state *models.GameState)

// migrations[v] upgrades a version v state to version v+1.
var migrations = []migration{ //nolint:gochecknoglobals // read-only table
	func(state *models.GameState) {
		if state.FactionReputation == nil {
			state.FactionReputation = map[string]float64{}
		}
	},
	func(state *models.GameState) {
		state.EnsureMaps()
	},
}

// Migrate upgrades file to CurrentSaveVersion. A current file is returned unchanged. Files newer than
// CurrentSaveVersion are refused with ErrUnsupportedVersion. The state of file is never modified; migrated
// files carry a copy.
func Migrate(file models.SaveFile) (models.SaveFile, error) {
	if file.Version > CurrentSaveVersion || file.Version < 0 {
		return models.SaveFile{}, errors.Wrap(ErrUnsupportedVersion, "migrate save",
			slog.Int("version", file.Version), slog.Int("current", CurrentSaveVersion))
	}
	if file.Version == CurrentSaveVersion {
		return file, nil
	}
	if file.State == nil {
		return models.SaveFile{}, errors.Wrap(ErrCorruptSave, "migrate save without state")
	}

	state := file.State.Clone()
	for v := file.Version; v < CurrentSaveVersion; v++ {
		migrations[v](state)
	}
	return models.SaveFile{
		Version:   CurrentSaveVersion,
		Timestamp: file.Timestamp,
		State:     state,
	}, nil
}
