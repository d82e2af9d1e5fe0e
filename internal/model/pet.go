package model

import "time"

// SnapshotVersion is the schema version of the cached pet snapshot.
// Bump it whenever the snapshot layout changes so stale cache entries
// written by an older build are treated as misses instead of decoded
// into the wrong shape.
const SnapshotVersion = 1

// Pet represents one pet row joined with its inventory quantities.
type Pet struct {
	ID           int64            `json:"id"`
	UserID       int64            `json:"user_id"`
	Name         string           `json:"name"`
	Hunger       int              `json:"hunger"`
	Happiness    int              `json:"happiness"`
	Cleanliness  int              `json:"cleanliness"`
	Health       int              `json:"health"`
	Energy       int              `json:"energy"`
	Discipline   int              `json:"discipline"`
	Level        int              `json:"level"`
	Experience   int64            `json:"experience"`
	Coins        int64            `json:"coins"`
	IsSick       bool             `json:"is_sick"`
	IsSleeping   bool             `json:"is_sleeping"`
	CareMistakes int              `json:"care_mistakes"`
	GamesWon     int              `json:"games_won"`
	GamesLost    int              `json:"games_lost"`
	BirthTime    time.Time        `json:"birth_time"`
	LastUpdate   time.Time        `json:"last_update"`
	Items        map[string]int64 `json:"items"`
}

// PetSnapshot is the cached form of a pet. Timestamps are unix
// milliseconds so the encoding is stable across store backends.
type PetSnapshot struct {
	Version      int              `json:"v"`
	ID           int64            `json:"id"`
	UserID       int64            `json:"user_id"`
	Name         string           `json:"name"`
	Hunger       int              `json:"hunger"`
	Happiness    int              `json:"happiness"`
	Cleanliness  int              `json:"cleanliness"`
	Health       int              `json:"health"`
	Energy       int              `json:"energy"`
	Discipline   int              `json:"discipline"`
	Level        int              `json:"level"`
	Experience   int64            `json:"experience"`
	Coins        int64            `json:"coins"`
	IsSick       bool             `json:"is_sick"`
	IsSleeping   bool             `json:"is_sleeping"`
	CareMistakes int              `json:"care_mistakes"`
	GamesWon     int              `json:"games_won"`
	GamesLost    int              `json:"games_lost"`
	BirthTime    int64            `json:"birth_time"`
	LastUpdate   int64            `json:"last_update"`
	Items        map[string]int64 `json:"items"`
}

// Snapshot converts the pet into its cacheable form.
func (p *Pet) Snapshot() PetSnapshot {
	return PetSnapshot{
		Version:      SnapshotVersion,
		ID:           p.ID,
		UserID:       p.UserID,
		Name:         p.Name,
		Hunger:       p.Hunger,
		Happiness:    p.Happiness,
		Cleanliness:  p.Cleanliness,
		Health:       p.Health,
		Energy:       p.Energy,
		Discipline:   p.Discipline,
		Level:        p.Level,
		Experience:   p.Experience,
		Coins:        p.Coins,
		IsSick:       p.IsSick,
		IsSleeping:   p.IsSleeping,
		CareMistakes: p.CareMistakes,
		GamesWon:     p.GamesWon,
		GamesLost:    p.GamesLost,
		BirthTime:    p.BirthTime.UnixMilli(),
		LastUpdate:   p.LastUpdate.UnixMilli(),
		Items:        p.Items,
	}
}

// Pet converts the snapshot back into a pet.
func (s *PetSnapshot) Pet() *Pet {
	return &Pet{
		ID:           s.ID,
		UserID:       s.UserID,
		Name:         s.Name,
		Hunger:       s.Hunger,
		Happiness:    s.Happiness,
		Cleanliness:  s.Cleanliness,
		Health:       s.Health,
		Energy:       s.Energy,
		Discipline:   s.Discipline,
		Level:        s.Level,
		Experience:   s.Experience,
		Coins:        s.Coins,
		IsSick:       s.IsSick,
		IsSleeping:   s.IsSleeping,
		CareMistakes: s.CareMistakes,
		GamesWon:     s.GamesWon,
		GamesLost:    s.GamesLost,
		BirthTime:    time.UnixMilli(s.BirthTime).UTC(),
		LastUpdate:   time.UnixMilli(s.LastUpdate).UTC(),
		Items:        s.Items,
	}
}

// PetUpdate is a partial update of the mutable pet stats. Nil fields
// are left untouched. The mutable stat set is closed here, so an
// unknown field cannot reach the store.
type PetUpdate struct {
	Hunger       *int   `json:"hunger,omitempty"`
	Happiness    *int   `json:"happiness,omitempty"`
	Cleanliness  *int   `json:"cleanliness,omitempty"`
	Health       *int   `json:"health,omitempty"`
	Energy       *int   `json:"energy,omitempty"`
	Discipline   *int   `json:"discipline,omitempty"`
	Level        *int   `json:"level,omitempty"`
	Experience   *int64 `json:"experience,omitempty"`
	Coins        *int64 `json:"coins,omitempty"`
	IsSick       *bool  `json:"is_sick,omitempty"`
	IsSleeping   *bool  `json:"is_sleeping,omitempty"`
	CareMistakes *int   `json:"care_mistakes,omitempty"`
	GamesWon     *int   `json:"games_won,omitempty"`
	GamesLost    *int   `json:"games_lost,omitempty"`
}

// IsEmpty reports whether no field is set.
func (u PetUpdate) IsEmpty() bool {
	return u.Hunger == nil && u.Happiness == nil && u.Cleanliness == nil &&
		u.Health == nil && u.Energy == nil && u.Discipline == nil &&
		u.Level == nil && u.Experience == nil && u.Coins == nil &&
		u.IsSick == nil && u.IsSleeping == nil && u.CareMistakes == nil &&
		u.GamesWon == nil && u.GamesLost == nil
}

// PetSummary is the slim row returned by the stale-pet scan that the
// decay scheduler consumes.
type PetSummary struct {
	UserID      int64     `json:"user_id"`
	PetID       int64     `json:"pet_id"`
	Name        string    `json:"name"`
	Hunger      int       `json:"hunger"`
	Happiness   int       `json:"happiness"`
	Cleanliness int       `json:"cleanliness"`
	Health      int       `json:"health"`
	IsSick      bool      `json:"is_sick"`
	LastUpdate  time.Time `json:"last_update"`
}
