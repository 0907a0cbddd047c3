package game

import (
	"encoding/json"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"
)

// EventType tags one entry in the match audit trail.
type EventType string

const (
	EventRegister    EventType = "register"
	EventUnregister  EventType = "unregister"
	EventMove        EventType = "move"
	EventRotate      EventType = "rotate"
	EventFire        EventType = "fire"
	EventShield      EventType = "shield"
	EventDamage      EventType = "damage"
	EventElimination EventType = "elimination"
	EventGameOver    EventType = "game_over"
	EventReset       EventType = "reset"
)

// Event payloads. Kept as small structs so the JSONL replay stays greppable.
type (
	RegisterPayload struct {
		Name  string `json:"name"`
		Spawn [2]int `json:"spawn"`
	}
	MovePayload struct {
		To [2]int `json:"to"`
	}
	RotatePayload struct {
		Turn     string `json:"turn"`
		Rotation int    `json:"rotation"`
	}
	FirePayload struct {
		From      [2]int `json:"from"`
		Direction int    `json:"direction"`
	}
	DamagePayload struct {
		VictimID   string `json:"victim_id"`
		AttackerID string `json:"attacker_id,omitempty"`
		Hazard     string `json:"hazard"`
		Amount     int    `json:"amount"`
		Shielded   bool   `json:"shielded,omitempty"`
	}
	GameOverPayload struct {
		Survivor string `json:"survivor"`
	}
)

// Event is one logged entry.
type Event struct {
	Seq      uint64      `json:"seq"`
	At       time.Time   `json:"at"`
	Type     EventType   `json:"type"`
	PlayerID string      `json:"player_id,omitempty"`
	Payload  interface{} `json:"payload,omitempty"`
}

const (
	eventBufferSize    = 1024
	maxEventsPerSec    = 2000
	batchFlushInterval = 100 * time.Millisecond
)

// EventLog appends engine events to a JSONL file through a bounded,
// rate-limited async writer. Emit never blocks the engine: when the buffer
// is full or the rate limit trips, the event is dropped and counted.
type EventLog struct {
	limiter *rate.Limiter

	ch       chan Event
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool

	file *os.File

	seq     uint64 // atomic
	total   uint64 // atomic
	dropped uint64 // atomic
}

// NewEventLog creates an idle event log. It discards events until Start.
func NewEventLog() *EventLog {
	return &EventLog{
		limiter:  rate.NewLimiter(maxEventsPerSec, maxEventsPerSec/10),
		ch:       make(chan Event, eventBufferSize),
		stopChan: make(chan struct{}),
	}
}

// Start opens the output file and launches the writer goroutine.
func (el *EventLog) Start(path string) error {
	if el.running.Load() || path == "" {
		return nil
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	el.file = file
	el.running.Store(true)
	el.wg.Add(1)
	go el.writerLoop()
	return nil
}

// Stop drains the buffer and closes the output file.
func (el *EventLog) Stop() {
	el.stopOnce.Do(func() {
		if !el.running.Load() {
			return
		}
		el.running.Store(false)
		close(el.stopChan)
		el.wg.Wait()
		el.file.Close()
	})
}

// Emit queues one event for the writer.
func (el *EventLog) Emit(t EventType, playerID string, payload interface{}) {
	if !el.running.Load() {
		return
	}
	if !el.limiter.Allow() {
		atomic.AddUint64(&el.dropped, 1)
		return
	}
	ev := Event{
		Seq:      atomic.AddUint64(&el.seq, 1),
		At:       time.Now(),
		Type:     t,
		PlayerID: playerID,
		Payload:  payload,
	}
	select {
	case el.ch <- ev:
		atomic.AddUint64(&el.total, 1)
	default:
		atomic.AddUint64(&el.dropped, 1)
	}
}

// Stats reports totals for monitoring.
func (el *EventLog) Stats() (total, dropped uint64) {
	return atomic.LoadUint64(&el.total), atomic.LoadUint64(&el.dropped)
}

// writerLoop batches queued events to disk on a fixed flush cadence.
func (el *EventLog) writerLoop() {
	defer el.wg.Done()
	ticker := time.NewTicker(batchFlushInterval)
	defer ticker.Stop()

	enc := json.NewEncoder(el.file)
	for {
		select {
		case ev := <-el.ch:
			enc.Encode(ev)
		case <-ticker.C:
			el.file.Sync()
		case <-el.stopChan:
			for {
				select {
				case ev := <-el.ch:
					enc.Encode(ev)
				default:
					el.file.Sync()
					return
				}
			}
		}
	}
}
