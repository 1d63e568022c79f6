package game

// ReplayEntry records one applied action: who acted, what they chose, what it
// did, and the life totals afterwards.
type ReplayEntry struct {
	Actor  int
	Action Action
	Event  Event
	Life   [2]int
}

// Replay is an ordered, navigable record of a game. RecordEntry is called
// after each applied action; Start/Next/Previous walk the record for
// rendering or analysis.
type Replay struct {
	GameID       string
	Entries      []ReplayEntry
	CurrentIndex int
}

// NewReplay creates an empty replay for the given game.
func NewReplay(gameID string) *Replay {
	return &Replay{GameID: gameID}
}

// RecordEntry appends one applied action to the record.
func (r *Replay) RecordEntry(actor int, action Action, event Event, state *GameState) {
	r.Entries = append(r.Entries, ReplayEntry{
		Actor:  actor,
		Action: action,
		Event:  event,
		Life:   [2]int{state.Players[0].Life, state.Players[1].Life},
	})
}

// Size returns the number of recorded entries.
func (r *Replay) Size() int { return len(r.Entries) }

// Start resets navigation to the beginning.
func (r *Replay) Start() { r.CurrentIndex = 0 }

// Next advances and returns the next entry, or nil at the end.
func (r *Replay) Next() *ReplayEntry {
	if r.CurrentIndex >= len(r.Entries) {
		return nil
	}
	entry := &r.Entries[r.CurrentIndex]
	r.CurrentIndex++
	return entry
}

// Previous steps back and returns the entry there, or nil at the beginning.
func (r *Replay) Previous() *ReplayEntry {
	if r.CurrentIndex == 0 {
		return nil
	}
	r.CurrentIndex--
	return &r.Entries[r.CurrentIndex]
}
