package store

import "github.com/existflow/pintask/internal/model"

// Reduce computes the state after a. It never mutates s. A nil action changes nothing.
func Reduce(s model.AppState, a Action) (model.AppState, Change) {
	if a == nil {
		return s, Change{}
	}
	return a.apply(s)
}
