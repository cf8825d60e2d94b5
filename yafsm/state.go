package yafsm

import "reflect"

// State is a typed state whose name is what the storage keeps under a dispatcher key.
type State interface {
	StateName() string
}

// BaseState derives the state name from the embedding type's name.
//
// Example usage:
//
//	type AwaitingAddress struct {
//		yafsm.BaseState[AwaitingAddress]
//
//		OrderID int64
//	}
//
//	AwaitingAddress{}.StateName() // "AwaitingAddress"
type BaseState[T State] struct{}

func (BaseState[T]) StateName() string {
	var zero T

	t := reflect.TypeOf(zero)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	return t.Name()
}

type EmptyState struct {
	BaseState[EmptyState]
}
