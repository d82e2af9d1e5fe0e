package model

import "time"

// GameSession is one append-only game record. Never updated or deleted.
type GameSession struct {
	ID               int64     `json:"id"`
	PetID            int64     `json:"pet_id"`
	GameType         string    `json:"game_type"`
	Result           string    `json:"result"`
	ExperienceGained int64     `json:"experience_gained"`
	CoinsGained      int64     `json:"coins_gained"`
	CreatedAt        time.Time `json:"created_at"`
}
