package services

// Game change events pushed to organizer dashboards.
const (
	EventParticipantAdded   = "participant_added"
	EventParticipantRemoved = "participant_removed"
	EventAssigned           = "assigned"
	EventReset              = "reset"
	EventCleared            = "cleared"
	EventDeleted            = "deleted"
)

// Notifier is told about every committed change to a game.
type Notifier interface {
	GameChanged(gameID uint, event string, payload any)
}

type nopNotifier struct{}

func (nopNotifier) GameChanged(uint, string, any) {}

func notifierOrNop(n Notifier) Notifier {
	if n == nil {
		return nopNotifier{}
	}
	return n
}
