package game

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestEventLogWritesJSONL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "events.jsonl")
	el := NewEventLog()
	if err := el.Start(path); err != nil {
		t.Fatalf("Start: %v", err)
	}

	el.Emit(EventRegister, "a", RegisterPayload{Name: "Pilot", Spawn: [2]int{15, 10}})
	el.Emit(EventMove, "a", MovePayload{To: [2]int{15, 9}})
	el.Stop()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer f.Close()

	var events []Event
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var ev Event
		if err := json.Unmarshal(sc.Bytes(), &ev); err != nil {
			t.Fatalf("bad JSONL line: %v", err)
		}
		events = append(events, ev)
	}
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
	if events[0].Type != EventRegister || events[0].PlayerID != "a" {
		t.Errorf("first event = %+v", events[0])
	}
	if events[1].Seq != events[0].Seq+1 {
		t.Errorf("sequence numbers not monotonic: %d then %d", events[0].Seq, events[1].Seq)
	}

	total, dropped := el.Stats()
	if total != 2 || dropped != 0 {
		t.Errorf("stats = %d/%d, want 2/0", total, dropped)
	}
}

func TestEventLogIdleDiscards(t *testing.T) {
	el := NewEventLog()
	el.Emit(EventMove, "a", nil) // must not panic or block
	total, _ := el.Stats()
	if total != 0 {
		t.Errorf("idle log recorded %d events", total)
	}
}
