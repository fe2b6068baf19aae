package services

import (
	"sync"
)

type recordedEvent struct {
	gameID uint
	event  string
}

// recordingNotifier keeps every event it is told about.
type recordingNotifier struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (n *recordingNotifier) GameChanged(gameID uint, event string, _ any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, recordedEvent{gameID: gameID, event: event})
}

func (n *recordingNotifier) last() (recordedEvent, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.events) == 0 {
		return recordedEvent{}, false
	}
	return n.events[len(n.events)-1], true
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}
