package backoffice

// EventType identifies the mutation an event describes.
type EventType string

const (
	LevelAdded      EventType = "agent-level-added"
	LevelUpdated    EventType = "agent-level-updated"
	LevelDeleted    EventType = "agent-level-deleted"
	LevelsReordered EventType = "agent-levels-reordered"

	PermissionAdded   EventType = "permission-added"
	PermissionUpdated EventType = "permission-updated"
	PermissionDeleted EventType = "permission-deleted"
)

// Event carries one successful mutation to subscribers. Exactly one of
// Level, Perm, ID or Levels is meaningful depending on Type: deletes carry
// ID, reorders carry the full refreshed list.
type Event struct {
	Type   EventType
	Level  *AgentLevel
	Perm   *Permission
	ID     int
	Levels []AgentLevel
}

// Publisher receives one event per successful mutation. Implementations must
// not block; the service calls Publish on the request path.
type Publisher interface {
	Publish(Event)
}
