package menu

import "github.com/mchmarny/romenu/pkg/restful"

// Entry represents one actionable item discovered on the backend.
type Entry struct {
	// Title is the menu group the entry belongs to.
	Title string `json:"title"`

	// ActionID is the identifier of the backend action.
	ActionID string `json:"actionId"`

	// Link points at the action description, when the backend supplied one.
	Link *restful.Link `json:"link,omitempty"`
}

// NewEntry returns an entry without a link.
func NewEntry(title, actionID string) Entry {
	return Entry{Title: title, ActionID: actionID}
}
