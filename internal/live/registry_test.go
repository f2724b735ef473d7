package live

import "testing"

func TestRegistryHubIsStablePerBoard(t *testing.T) {
	registry := NewRegistry()
	first := registry.Hub("b_1")
	second := registry.Hub("b_1")
	if first != second {
		t.Error("expected the same hub for repeated lookups")
	}
	if registry.Hub("b_2") == first {
		t.Error("expected distinct hubs per board")
	}
}

func TestRegistryAddRemoveParticipant(t *testing.T) {
	registry := NewRegistry()
	registry.AddParticipant("b_1", Participant{ID: "p_1", Name: "Ada"})
	registry.AddParticipant("b_1", Participant{ID: "p_2", Name: "Grace"})

	if count := registry.ParticipantCount("b_1"); count != 2 {
		t.Fatalf("expected 2 participants, got %d", count)
	}

	registry.RemoveParticipant("b_1", "p_1")
	if count := registry.ParticipantCount("b_1"); count != 1 {
		t.Fatalf("expected 1 participant after removal, got %d", count)
	}

	remaining := registry.Participants("b_1")
	if len(remaining) != 1 || remaining[0].ID != "p_2" {
		t.Errorf("unexpected remaining participants: %+v", remaining)
	}
}

func TestRegistryRemovesOneOccurrence(t *testing.T) {
	// The same participant id can be connected twice (two tabs). Each
	// disconnect removes exactly one entry.
	registry := NewRegistry()
	registry.AddParticipant("b_1", Participant{ID: "p_1"})
	registry.AddParticipant("b_1", Participant{ID: "p_1"})

	registry.RemoveParticipant("b_1", "p_1")
	if count := registry.ParticipantCount("b_1"); count != 1 {
		t.Fatalf("expected 1 participant, got %d", count)
	}

	registry.RemoveParticipant("b_1", "p_1")
	if count := registry.ParticipantCount("b_1"); count != 0 {
		t.Fatalf("expected 0 participants, got %d", count)
	}
}

func TestRegistryRemoveUnknownIsNoop(t *testing.T) {
	registry := NewRegistry()
	registry.RemoveParticipant("b_1", "p_missing")
	registry.AddParticipant("b_1", Participant{ID: "p_1"})
	registry.RemoveParticipant("b_1", "p_missing")
	if count := registry.ParticipantCount("b_1"); count != 1 {
		t.Fatalf("expected 1 participant, got %d", count)
	}
}

func TestRegistryOnlineTotal(t *testing.T) {
	registry := NewRegistry()
	registry.AddParticipant("b_1", Participant{ID: "p_1"})
	registry.AddParticipant("b_1", Participant{ID: "p_2"})
	registry.AddParticipant("b_2", Participant{ID: "p_3"})

	if total := registry.OnlineTotal(); total != 3 {
		t.Errorf("expected 3 online, got %d", total)
	}
}

func TestRegistryDropBoard(t *testing.T) {
	registry := NewRegistry()
	registry.AddParticipant("b_1", Participant{ID: "p_1"})
	hub := registry.Hub("b_1")

	registry.DropBoard("b_1")

	if count := registry.ParticipantCount("b_1"); count != 0 {
		t.Errorf("expected 0 participants after drop, got %d", count)
	}
	if registry.Hub("b_1") == hub {
		t.Error("expected a fresh hub after drop")
	}
}
