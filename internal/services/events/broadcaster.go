package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jwebster45206/mapquest/pkg/actor"
	"github.com/jwebster45206/mapquest/pkg/engine"
)

// EventType represents the type of event being broadcast
type EventType string

const (
	EventTypeStateChanged       EventType = "game.state_changed"
	EventTypeEncounteredMonster EventType = "encounter.monster"
	EventTypeEncounteredNPC     EventType = "encounter.npc"
	EventTypeEnteredStore       EventType = "encounter.store"
)

// publishTimeout bounds each publish. Engine callbacks have no context of
// their own.
const publishTimeout = 2 * time.Second

// Event represents a generic event structure
type Event struct {
	Type      EventType      `json:"type"`
	SessionID string         `json:"session_id,omitempty"`
	Reason    engine.Reason  `json:"reason,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
}

// SessionSource reports the session events belong to.
type SessionSource interface {
	SessionID() uuid.UUID
}

// Broadcaster relays engine notifications and encounter signals to Redis
// Pub/Sub for SSE distribution. It is both an engine.Observer and an
// engine.Delegate.
type Broadcaster struct {
	redisClient *redis.Client
	sessions    SessionSource
	logger      *slog.Logger
}

var (
	_ engine.Observer = (*Broadcaster)(nil)
	_ engine.Delegate = (*Broadcaster)(nil)
)

// NewBroadcaster creates a new event broadcaster
func NewBroadcaster(redisClient *redis.Client, sessions SessionSource, logger *slog.Logger) *Broadcaster {
	return &Broadcaster{
		redisClient: redisClient,
		sessions:    sessions,
		logger:      logger,
	}
}

// Channel is the Pub/Sub channel carrying events for one session.
func Channel(sessionID uuid.UUID) string {
	return fmt.Sprintf("game-events:%s", sessionID.String())
}

// StateChanged publishes a game.state_changed event carrying the snapshot.
func (b *Broadcaster) StateChanged(n engine.Notification) {
	event := Event{
		Type:      EventTypeStateChanged,
		SessionID: n.Snapshot.SessionID.String(),
		Reason:    n.Reason,
		Data: map[string]any{
			"snapshot": n.Snapshot,
			"hearts":   n.Snapshot.Hearts(),
			"gold":     n.Snapshot.Gold(),
		},
	}
	b.publish(n.Snapshot.SessionID, event)
}

// EncounteredMonster publishes an encounter.monster event.
func (b *Broadcaster) EncounteredMonster(m *actor.Monster) {
	b.publishEncounter(EventTypeEncounteredMonster, map[string]any{
		"name":        m.Name,
		"description": m.Description,
		"strength":    m.Strength,
		"reward":      m.Reward,
	})
}

// EncounteredNPC publishes an encounter.npc event.
func (b *Broadcaster) EncounteredNPC(n *actor.NPC) {
	b.publishEncounter(EventTypeEncounteredNPC, map[string]any{
		"name":     n.Name,
		"dialogue": n.Dialogue,
	})
}

// EnteredStore publishes an encounter.store event.
func (b *Broadcaster) EnteredStore(s *actor.Store) {
	b.publishEncounter(EventTypeEnteredStore, map[string]any{
		"name":      s.Name,
		"inventory": s.Inventory,
	})
}

func (b *Broadcaster) publishEncounter(t EventType, data map[string]any) {
	id := b.sessions.SessionID()
	b.publish(id, Event{Type: t, SessionID: id.String(), Data: data})
}

func (b *Broadcaster) publish(sessionID uuid.UUID, event Event) {
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	// Failures are logged only; a missing subscriber must never stall play.
	_ = b.Publish(ctx, sessionID, event)
}

// Publish sends one event to the session channel.
func (b *Broadcaster) Publish(ctx context.Context, sessionID uuid.UUID, event Event) error {
	channel := Channel(sessionID)

	data, err := json.Marshal(event)
	if err != nil {
		b.logger.Error("Failed to marshal event", "error", err, "event_type", event.Type)
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := b.redisClient.Publish(ctx, channel, data).Err(); err != nil {
		b.logger.Error("Failed to publish event", "error", err, "channel", channel)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debug("Event published",
		"channel", channel,
		"event_type", event.Type,
		"reason", event.Reason,
	)

	return nil
}
