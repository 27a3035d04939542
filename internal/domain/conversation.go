package domain

import "time"

// Conversation is the durable per-session record the router reads and
// updates on every turn. Messages are stored separately, append-only.
type Conversation struct {
	ID         string
	Summary    string
	LastIntent IntentType
	LastAgent  string
	LastLat    *float64
	LastLon    *float64
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// HasLocation reports whether a usable geolocation is known for the session.
func (c *Conversation) HasLocation() bool {
	return c.LastLat != nil && c.LastLon != nil
}

// Message is a single turn in a conversation. Immutable once recorded;
// Seq preserves arrival order.
type Message struct {
	ID             string
	ConversationID string
	Role           Role
	Content        string
	Seq            int
	CreatedAt      time.Time
}
