// Package saves persists game states in versioned save slots and keeps an index of save summaries.
package saves

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/myrjola/gaslight/internal/errors"
	"github.com/myrjola/gaslight/internal/metrics"
	"github.com/myrjola/gaslight/internal/models"
)

const (
	// ManualSlotPrefix prefixes the slots written by SaveManual.
	ManualSlotPrefix = "save-"
	// MaxManualSaves is the number of manual slots kept. Autosaves don't count towards the limit.
	MaxManualSaves = 10
)

var (
	ErrSaveNotFound = errors.NewSentinel("save not found")
	ErrCorruptSave  = errors.NewSentinel("corrupt save")
)

// Record is a save slot as kept by a Store. Payload holds the JSON encoded models.SaveFile.
type Record struct {
	models.SaveSummary
	Payload []byte `db:"payload"`
}

// Store keeps save slots. Get and Delete return ErrSaveNotFound for a missing slot.
type Store interface {
	Put(ctx context.Context, record Record) error
	Get(ctx context.Context, id string) (Record, error)
	Delete(ctx context.Context, id string) error
	// List returns the summaries of every slot in no particular order.
	List(ctx context.Context) ([]models.SaveSummary, error)
}

type Manager struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewManager returns a Manager backed by store. m may be nil.
func NewManager(store Store, logger *slog.Logger, m *metrics.Metrics) *Manager {
	return &Manager{
		store:   store,
		logger:  logger.With("source", "SaveManager"),
		metrics: m,
		now:     time.Now,
	}
}

// WithClock replaces the clock used for save timestamps.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Save writes state to slot id at the current version and updates the save index.
func (m *Manager) Save(ctx context.Context, id string, state *models.GameState) error {
	err := m.save(ctx, id, state)
	m.metrics.Save("save", err)
	return err
}

func (m *Manager) save(ctx context.Context, id string, state *models.GameState) error {
	file := models.SaveFile{
		Version:   CurrentSaveVersion,
		Timestamp: m.now().UTC().Format(time.RFC3339Nano),
		State:     state,
	}
	payload, err := json.Marshal(file)
	if err != nil {
		return errors.Wrap(err, "encode save", slog.String("slot", id))
	}
	record := Record{
		SaveSummary: models.SaveSummary{
			ID:               id,
			Timestamp:        file.Timestamp,
			CaseName:         state.CurrentCase,
			InvestigatorName: state.Investigator.Name,
		},
		Payload: payload,
	}
	if err = m.store.Put(ctx, record); err != nil {
		return errors.Wrap(err, "put save", slog.String("slot", id))
	}
	m.logger.LogAttrs(ctx, slog.LevelDebug, "game saved",
		slog.String("slot", id), slog.String("case", state.CurrentCase))
	return nil
}

// Load reads slot id and migrates it to the current version. It returns ErrSaveNotFound, ErrCorruptSave or
// ErrUnsupportedVersion when the slot can't be restored. Callers treat any error as no save.
func (m *Manager) Load(ctx context.Context, id string) (*models.GameState, error) {
	state, err := m.load(ctx, id)
	m.metrics.Save("load", err)
	return state, err
}

func (m *Manager) load(ctx context.Context, id string) (*models.GameState, error) {
	record, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, errors.Wrap(err, "get save", slog.String("slot", id))
	}
	file, err := Decode(record.Payload)
	if err != nil {
		return nil, errors.Wrap(err, "decode save", slog.String("slot", id))
	}
	return file.State, nil
}

// Decode parses a save payload and migrates it to the current version.
func Decode(payload []byte) (models.SaveFile, error) {
	var file models.SaveFile
	if err := json.Unmarshal(payload, &file); err != nil {
		return models.SaveFile{}, errors.Join(ErrCorruptSave, err)
	}
	if file.State == nil {
		return models.SaveFile{}, errors.Wrap(ErrCorruptSave, "save without state")
	}
	migrated, err := Migrate(file)
	if err != nil {
		return models.SaveFile{}, errors.Wrap(err, "migrate save", slog.Int("version", file.Version))
	}
	return migrated, nil
}

// DeleteSave removes slot id and its index entry.
func (m *Manager) DeleteSave(ctx context.Context, id string) error {
	err := m.store.Delete(ctx, id)
	m.metrics.Save("delete", err)
	if err != nil {
		return errors.Wrap(err, "delete save", slog.String("slot", id))
	}
	m.logger.LogAttrs(ctx, slog.LevelDebug, "save deleted", slog.String("slot", id))
	return nil
}

// ListSaves returns the save index sorted newest first.
func (m *Manager) ListSaves(ctx context.Context) ([]models.SaveSummary, error) {
	summaries, err := m.store.List(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "list saves")
	}
	slices.SortStableFunc(summaries, func(a, b models.SaveSummary) int {
		return compareTimestamps(b.Timestamp, a.Timestamp)
	})
	return summaries, nil
}

// SaveManual writes state to a new manual slot and prunes the oldest manual slots beyond MaxManualSaves.
func (m *Manager) SaveManual(ctx context.Context, state *models.GameState) (string, error) {
	id := fmt.Sprintf("%s%d", ManualSlotPrefix, m.now().UnixMilli())
	if err := m.Save(ctx, id, state); err != nil {
		return "", err
	}

	summaries, err := m.ListSaves(ctx)
	if err != nil {
		return id, errors.Wrap(err, "list saves for pruning")
	}
	manual := slices.DeleteFunc(summaries, func(s models.SaveSummary) bool {
		return !strings.HasPrefix(s.ID, ManualSlotPrefix)
	})
	if len(manual) <= MaxManualSaves {
		return id, nil
	}
	for _, s := range manual[MaxManualSaves:] {
		if err = m.DeleteSave(ctx, s.ID); err != nil && !errors.Is(err, ErrSaveNotFound) {
			return id, errors.Wrap(err, "prune manual save")
		}
	}
	return id, nil
}

// compareTimestamps orders RFC 3339 timestamps. Unparsable timestamps sort before valid ones.
func compareTimestamps(a, b string) int {
	ta, errA := time.Parse(time.RFC3339Nano, a)
	tb, errB := time.Parse(time.RFC3339Nano, b)
	switch {
	case errA != nil && errB != nil:
		return strings.Compare(a, b)
	case errA != nil:
		return -1
	case errB != nil:
		return 1
	default:
		return ta.Compare(tb)
	}
}
