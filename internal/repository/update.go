package repository

import "tamapet-data-api/internal/model"

// petUpdateColumns flattens a PetUpdate into parallel column/value
// slices in a fixed order. This is the complete set of mutable stat
// columns; every UPDATE statement is assembled from these fragments
// and nothing else, so the statement set stays auditable.
func petUpdateColumns(u model.PetUpdate) ([]string, []interface{}) {
	var (
		cols []string
		args []interface{}
	)

	add := func(col string, val interface{}) {
		cols = append(cols, col)
		args = append(args, val)
	}

	if u.Hunger != nil {
		add("hunger", *u.Hunger)
	}
	if u.Happiness != nil {
		add("happiness", *u.Happiness)
	}
	if u.Cleanliness != nil {
		add("cleanliness", *u.Cleanliness)
	}
	if u.Health != nil {
		add("health", *u.Health)
	}
	if u.Energy != nil {
		add("energy", *u.Energy)
	}
	if u.Discipline != nil {
		add("discipline", *u.Discipline)
	}
	if u.Level != nil {
		add("level", *u.Level)
	}
	if u.Experience != nil {
		add("experience", *u.Experience)
	}
	if u.Coins != nil {
		add("coins", *u.Coins)
	}
	if u.IsSick != nil {
		add("is_sick", *u.IsSick)
	}
	if u.IsSleeping != nil {
		add("is_sleeping", *u.IsSleeping)
	}
	if u.CareMistakes != nil {
		add("care_mistakes", *u.CareMistakes)
	}
	if u.GamesWon != nil {
		add("games_won", *u.GamesWon)
	}
	if u.GamesLost != nil {
		add("games_lost", *u.GamesLost)
	}

	return cols, args
}
