package shell

import "time"

// EventType names something the shell did.
type EventType string

const (
	EventStationsLoaded   EventType = "stations_loaded"
	EventStationSaved     EventType = "station_saved"
	EventStationDeleted   EventType = "station_deleted"
	EventPermissionDenied EventType = "permission_denied"
	EventFetchFailed      EventType = "fetch_failed"
)

// Event is published after the shell changes state.
type Event struct {
	Type      EventType `json:"type"`
	StationID int64     `json:"station_id,omitempty"`
	Created   bool      `json:"created,omitempty"`
	Total     int       `json:"total,omitempty"`
	Username  string    `json:"username,omitempty"`
	At        time.Time `json:"at"`
}

// Publisher receives shell events. Implementations must not block.
type Publisher interface {
	Publish(Event)
}

// PublisherFunc adapts a function to Publisher.
type PublisherFunc func(Event)

// Publish calls f(e).
func (f PublisherFunc) Publish(e Event) { f(e) }

type nopPublisher struct{}

func (nopPublisher) Publish(Event) {}
