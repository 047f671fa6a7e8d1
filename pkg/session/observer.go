package session

import "github.com/mchmarny/romenu/pkg/restful"

// Outcome is the result of one action invocation.
type Outcome struct {
	Link       restful.Link
	StatusCode int
	Body       []byte
	Err        error
}

// OK reports whether the invocation succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Observer is notified of every invocation outcome, success or failure.
type Observer interface {
	OnResult(Outcome)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(Outcome)

func (f ObserverFunc) OnResult(o Outcome) {
	f(o)
}
