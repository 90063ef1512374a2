package storage

import (
	"bytes"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/pierrec/lz4/v4"
	"lukechampine.com/blake3"

	"github.com/idlerack/idlerack/internal/domain/catalog"
	"github.com/idlerack/idlerack/internal/domain/ledger"
	"github.com/idlerack/idlerack/internal/game"
)

// SchemaVersion is the current save document version. Loading bumps older
// documents through the defaulting pass; newer documents are refused.
const SchemaVersion = 1

// saveSlot is the single-profile row key. Multiple profiles would key this.
const saveSlot = 1

// MaxOfflineTicks caps offline catch-up at 8 hours of 4 Hz ticks.
const MaxOfflineTicks = 8 * 3600 * 4

// ErrCorruptSave marks a save that failed the checksum or an invariant
// check. The caller decides whether to refuse or start fresh.
var ErrCorruptSave = errors.New("corrupt save")

// ErrNoSave means no save document exists yet.
var ErrNoSave = errors.New("no save found")

// ErrFutureSchema means the document was written by a newer build.
var ErrFutureSchema = errors.New("save schema is newer than this build")

// saveDocument is the versioned envelope around the game payload. Unknown
// payload fields are ignored on load, missing ones defaulted, which is the
// whole schema-evolution story.
type saveDocument struct {
	Version int             `json:"version"`
	SavedAt time.Time       `json:"saved_at"`
	Game    json.RawMessage `json:"game"`
}

// OfflineReport describes what offline catch-up did on load.
type OfflineReport struct {
	Away         time.Duration
	TicksApplied uint64
	Capped       bool
	Earned       ledger.Resources
}

// SaveRepository stores the whole game state as one compressed,
// checksummed document. Implements engine.Saver.
type SaveRepository struct {
	db *sql.DB
}

func NewSaveRepository(db *sql.DB) *SaveRepository {
	return &SaveRepository{db: db}
}

// Save serializes, compresses and upserts the state.
func (r *SaveRepository) Save(state *game.State) error {
	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}
	doc := saveDocument{Version: SchemaVersion, SavedAt: time.Now(), Game: raw}
	plain, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal save document: %w", err)
	}

	var buf bytes.Buffer
	zw := lz4.NewWriter(&buf)
	if _, err := zw.Write(plain); err != nil {
		return fmt.Errorf("failed to compress save: %w", err)
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish compression: %w", err)
	}

	sum := blake3.Sum256(buf.Bytes())
	query := `
		INSERT INTO saves (slot, schema_version, saved_at, checksum, payload)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(slot) DO UPDATE SET
			schema_version=excluded.schema_version,
			saved_at=excluded.saved_at,
			checksum=excluded.checksum,
			payload=excluded.payload
	`
	_, err = r.db.Exec(query, saveSlot, SchemaVersion, doc.SavedAt, hex.EncodeToString(sum[:]), buf.Bytes())
	if err != nil {
		return fmt.Errorf("failed to write save: %w", err)
	}
	return nil
}

// Load reads, verifies and revives the state, applying capped offline
// catch-up from the saved wall clock. The state is reseeded from seed.
func (r *SaveRepository) Load(seed int64) (*game.State, *OfflineReport, error) {
	var (
		version  int
		checksum string
		payload  []byte
	)
	err := r.db.QueryRow(`SELECT schema_version, checksum, payload FROM saves WHERE slot = ?`, saveSlot).
		Scan(&version, &checksum, &payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrNoSave
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read save: %w", err)
	}
	if version > SchemaVersion {
		return nil, nil, fmt.Errorf("%w: v%d", ErrFutureSchema, version)
	}

	sum := blake3.Sum256(payload)
	if hex.EncodeToString(sum[:]) != checksum {
		return nil, nil, fmt.Errorf("%w: checksum mismatch", ErrCorruptSave)
	}

	zr := lz4.NewReader(bytes.NewReader(payload))
	plain, err := io.ReadAll(zr)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: decompression failed: %v", ErrCorruptSave, err)
	}

	var doc saveDocument
	if err := json.Unmarshal(plain, &doc); err != nil {
		return nil, nil, fmt.Errorf("%w: bad envelope: %v", ErrCorruptSave, err)
	}

	state := game.New(seed)
	if err := json.Unmarshal(doc.Game, state); err != nil {
		return nil, nil, fmt.Errorf("%w: bad payload: %v", ErrCorruptSave, err)
	}
	state.Reseed(seed)

	applyDefaults(state)
	if err := validate(state); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCorruptSave, err)
	}

	report := catchUp(state, doc.SavedAt)
	return state, report, nil
}

// Reset deletes the save document. Journal history is left alone.
func (r *SaveRepository) Reset() error {
	_, err := r.db.Exec(`DELETE FROM saves WHERE slot = ?`, saveSlot)
	if err != nil {
		return fmt.Errorf("failed to delete save: %w", err)
	}
	return nil
}

// applyDefaults fills the fields a document from an older schema may lack
// and drops references to catalog entries that no longer exist.
func applyDefaults(s *game.State) {
	if s.GlobalMultiplier == 0 {
		s.GlobalMultiplier = 1
	}
	if s.TaskRewardMultiplier == 0 {
		s.TaskRewardMultiplier = 1
	}
	if s.OfflineEfficiency == 0 {
		s.OfflineEfficiency = game.DefaultOfflineEfficiency
	}

	if s.Buildings == nil {
		s.Buildings = make(map[catalog.BuildingID]*game.BuildingState)
	}
	for id := range s.Buildings {
		if _, ok := catalog.BuildingByID(id); !ok {
			delete(s.Buildings, id)
		}
	}
	for _, def := range catalog.Buildings() {
		if s.Buildings[def.ID] == nil {
			s.Buildings[def.ID] = &game.BuildingState{}
		}
	}

	if s.Upgrades == nil {
		s.Upgrades = make(map[catalog.UpgradeID]bool)
	}
	for id := range s.Upgrades {
		if _, ok := catalog.UpgradeByID(id); !ok {
			delete(s.Upgrades, id)
		}
	}

	// Instances already past their deadline would expire on the first tick
	// anyway; drop them here along with dangling definition references.
	live := s.Tasks[:0]
	for _, t := range s.Tasks {
		if _, ok := catalog.TaskByID(t.DefID); ok && t.DeadlineTick >= s.TickCount {
			live = append(live, t)
		}
	}
	s.Tasks = live

	liveInc := s.Incidents[:0]
	for _, inc := range s.Incidents {
		if _, ok := catalog.IncidentByID(inc.DefID); ok && inc.ExpiryTick >= s.TickCount {
			liveInc = append(liveInc, inc)
		}
	}
	s.Incidents = liveInc

	s.RecalcProduction()
}

// validate enforces the structural invariants a trustworthy save upholds.
func validate(s *game.State) error {
	if !s.Resources.IsValid() {
		return fmt.Errorf("invalid resource values")
	}
	for id, b := range s.Buildings {
		if b.Count < 0 || b.Level < 0 {
			return fmt.Errorf("negative count or level for %s", id)
		}
	}
	if s.GlobalMultiplier <= 0 || s.TaskRewardMultiplier <= 0 {
		return fmt.Errorf("non-positive multiplier")
	}
	if s.OfflineEfficiency <= 0 || s.OfflineEfficiency > 1 {
		return fmt.Errorf("offline efficiency out of range")
	}
	for id, purchased := range s.Upgrades {
		if !purchased {
			continue
		}
		// applyDefaults has already dropped unknown ids, so lookups hit.
		def, ok := catalog.UpgradeByID(id)
		if !ok {
			continue
		}
		for _, pre := range def.Prerequisites {
			if !s.Upgrades[pre] {
				return fmt.Errorf("upgrade %s purchased without prerequisite %s", id, pre)
			}
		}
	}
	for _, t := range s.Tasks {
		switch t.Status {
		case game.TaskPending, game.TaskInProgress:
		default:
			return fmt.Errorf("terminal task %s persisted in active set", t.ID)
		}
	}
	if s.PrestigeCount < 0 || s.TasksCompleted < 0 {
		return fmt.Errorf("negative counter")
	}
	return nil
}

// catchUp replays capped offline production from the saved wall clock.
func catchUp(s *game.State, savedAt time.Time) *OfflineReport {
	away := time.Since(savedAt)
	if away <= 0 {
		return &OfflineReport{}
	}
	ticks := uint64(away / (250 * time.Millisecond))
	capped := false
	if ticks > MaxOfflineTicks {
		ticks = MaxOfflineTicks
		capped = true
	}
	earned := s.ApplyOfflineTicks(ticks)
	return &OfflineReport{
		Away:         away,
		TicksApplied: ticks,
		Capped:       capped,
		Earned:       earned,
	}
}
