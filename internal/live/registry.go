package live

import "sync"

type Participant struct {
	ID   string
	Name string
}

// Registry is the process-wide map of connected participants and broadcast
// hubs, keyed by board id. Locks are held only for the map access itself,
// never across a persistence call.
type Registry struct {
	mu           sync.RWMutex
	participants map[string][]Participant
	hubs         map[string]*Hub
}

func NewRegistry() *Registry {
	return &Registry{
		participants: make(map[string][]Participant),
		hubs:         make(map[string]*Hub),
	}
}

// Hub returns the board's broadcast hub, creating it on first use.
func (r *Registry) Hub(boardID string) *Hub {
	r.mu.RLock()
	hub, ok := r.hubs[boardID]
	r.mu.RUnlock()
	if ok {
		return hub
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Re-check: another connection may have created it between the locks.
	if hub, ok := r.hubs[boardID]; ok {
		return hub
	}
	hub = NewHub()
	r.hubs[boardID] = hub
	return hub
}

func (r *Registry) AddParticipant(boardID string, p Participant) {
	r.mu.Lock()
	r.participants[boardID] = append(r.participants[boardID], p)
	r.mu.Unlock()
}

// RemoveParticipant drops one registry entry for the participant id. The
// board's entry disappears entirely when its last participant leaves.
func (r *Registry) RemoveParticipant(boardID, participantID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	list, ok := r.participants[boardID]
	if !ok {
		return
	}
	for i := range list {
		if list[i].ID == participantID {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(r.participants, boardID)
		return
	}
	r.participants[boardID] = list
}

func (r *Registry) ParticipantCount(boardID string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.participants[boardID])
}

func (r *Registry) Participants(boardID string) []Participant {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := r.participants[boardID]
	out := make([]Participant, len(list))
	copy(out, list)
	return out
}

// OnlineTotal counts connected participants across all boards.
func (r *Registry) OnlineTotal() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	total := 0
	for _, list := range r.participants {
		total += len(list)
	}
	return total
}

// DropBoard removes all registry state for a deleted board.
func (r *Registry) DropBoard(boardID string) {
	r.mu.Lock()
	delete(r.participants, boardID)
	delete(r.hubs, boardID)
	r.mu.Unlock()
}
