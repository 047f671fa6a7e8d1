package restful

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
)

// RelInvoke is the prefix of the relation carried by action invoke links.
const RelInvoke = "urn:org.restfulobjects:rels/invoke"

// Link is a hypermedia reference to a backend operation.
type Link struct {
	// Rel is the link relation.
	Rel string `json:"rel"`

	// Method is the HTTP method, empty means GET for plain links and POST for invoke links.
	Method string `json:"method,omitempty"`

	// Href is the absolute or base-relative target.
	Href string `json:"href"`

	// Type is the representation type of the target.
	Type string `json:"type,omitempty"`

	// Arguments are sent as the request body when invoking.
	Arguments map[string]json.RawMessage `json:"arguments,omitempty"`
}

// IsInvoke reports whether l is an action invoke link.
func (l Link) IsInvoke() bool {
	return strings.HasPrefix(l.Rel, RelInvoke)
}

// InvokeMethod returns the method used to follow l.
func (l Link) InvokeMethod() string {
	if l.Method == "" {
		return http.MethodPost
	}
	return strings.ToUpper(l.Method)
}

// Clone returns a copy of l with its own arguments map.
func (l Link) Clone() Link {
	if l.Arguments != nil {
		args := make(map[string]json.RawMessage, len(l.Arguments))
		for k, v := range l.Arguments {
			args[k] = append(json.RawMessage(nil), v...)
		}
		l.Arguments = args
	}
	return l
}

// Validate checks the link can be followed.
func (l Link) Validate() error {
	if strings.TrimSpace(l.Href) == "" {
		return fmt.Errorf("link %q: empty href", l.Rel)
	}

	switch l.InvokeMethod() {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
		return nil
	default:
		return fmt.Errorf("link %q: unsupported method %q", l.Rel, l.Method)
	}
}

// Action is a parsed action description.
type Action struct {
	ID         string                     `json:"id"`
	MemberType string                     `json:"memberType,omitempty"`
	Links      []Link                     `json:"links,omitempty"`
	Parameters map[string]json.RawMessage `json:"parameters,omitempty"`
}

// ParseAction decodes an action description.
func ParseAction(data []byte) (*Action, error) {
	var a Action
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("parse action: %w", err)
	}
	return &a, nil
}

// InvokeLink returns the first invoke link of the action.
func (a *Action) InvokeLink() (Link, error) {
	for _, l := range a.Links {
		if l.IsInvoke() {
			return l, nil
		}
	}
	return Link{}, fmt.Errorf("action %q: %w", a.ID, ErrNoInvokeLink)
}
