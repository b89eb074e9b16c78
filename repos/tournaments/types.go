package tournaments

import "time"

// Tournament is one user-entered competition event tracked by the engine.
type Tournament struct {
	ID              string
	Name            string
	StartsAt        time.Time
	Location        string
	ReminderHours   []float64
	CalendarEventID string
}

// tournamentDoc is the Firestore snapshot shape of a tournament.
type tournamentDoc struct {
	ID              string    `firestore:"ID"`
	Name            string    `firestore:"Name"`
	StartsAt        time.Time `firestore:"StartsAt"`
	Location        string    `firestore:"Location"`
	ReminderHours   []float64 `firestore:"ReminderHours"`
	CalendarEventID *string   `firestore:"CalendarEventID"`
}
