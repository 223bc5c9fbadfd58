package app

import (
	"errors"
	"fmt"
	"reflect"

	"todo-app/model"
)

const undoStackLimit = 20

var (
	ErrInvalidFilter = errors.New("invalid filter")
	ErrNothingToUndo = errors.New("nothing to undo")
)

// Service owns the list state: it reduces intents into new states, keeps
// the view filter and an undo stack, and tells OnChange about every state
// that actually changed.
type Service struct {
	reducer Reducer
	state   model.State
	filter  model.Filter
	undo    []model.State

	// OnChange is called with the new state after every effective mutation.
	OnChange func(model.State)
}

// NewService creates a service with a copy of the provided state.
func NewService(state model.State) *Service {
	return &Service{
		state:  copyState(normalizeState(state)),
		filter: model.FilterAll,
		undo:   []model.State{},
	}
}

// WithReducer swaps the reducer, mainly to pin the clock in tests.
func (s *Service) WithReducer(r Reducer) *Service {
	s.reducer = r
	return s
}

// State returns a copy of current state.
func (s *Service) State() model.State {
	return copyState(s.state)
}

// Items returns all items as a copy.
func (s *Service) Items() []model.Item {
	return copyState(s.state).Items
}

// Replace swaps the whole state, as done once the persisted list is
// loaded. It clears the undo history and does not trigger OnChange.
func (s *Service) Replace(state model.State) {
	s.state = copyState(s.reducer.Reduce(state, nil))
	s.undo = s.undo[:0]
}

// Dispatch reduces action into the state. It reports whether the state
// changed; unchanged states are neither recorded for undo nor persisted.
func (s *Service) Dispatch(action Action) bool {
	next := s.reducer.Reduce(s.state, action)
	if reflect.DeepEqual(next, s.state) {
		return false
	}
	s.pushUndo()
	s.state = next
	s.notify()
	return true
}

func (s *Service) ToggleAll() bool {
	return s.Dispatch(ToggleAll{})
}

func (s *Service) ClearCompleted() bool {
	return s.Dispatch(ClearCompleted{})
}

// Create appends a new item and returns it. ok is false when the title was
// empty and nothing was created.
func (s *Service) Create(title string) (model.Item, bool) {
	if !s.Dispatch(Create{Title: title}) {
		return model.Item{}, false
	}
	return s.state.Items[len(s.state.Items)-1], true
}

func (s *Service) Delete(id int64) bool {
	return s.Dispatch(Delete{ID: id})
}

func (s *Service) Update(id int64, patch model.Patch) bool {
	return s.Dispatch(Update{ID: id, Patch: patch})
}

// Toggle flips the completion flag of a single item.
func (s *Service) Toggle(id int64) bool {
	item, ok := s.Get(id)
	if !ok {
		return false
	}
	return s.Update(id, model.SetComplete(!item.Complete))
}

// Get returns an item by id.
func (s *Service) Get(id int64) (model.Item, bool) {
	idx := indexOf(s.state.Items, id)
	if idx == -1 {
		return model.Item{}, false
	}
	return s.state.Items[idx], true
}

func (s *Service) Filter() model.Filter {
	return s.filter
}

func (s *Service) SetFilter(filter model.Filter) error {
	if !filter.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidFilter, filter)
	}
	s.filter = filter
	return nil
}

// Visible returns the items matching the current filter.
func (s *Service) Visible() []model.Item {
	return model.Visible(s.state.Items, s.filter)
}

func (s *Service) ActiveCount() int {
	return model.ActiveCount(s.state.Items)
}

func (s *Service) AllComplete() bool {
	return model.AllComplete(s.state.Items)
}

// Undo reverts the latest effective mutation.
func (s *Service) Undo() error {
	if len(s.undo) == 0 {
		return ErrNothingToUndo
	}
	last := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.state = copyState(last)
	s.notify()
	return nil
}

func (s *Service) notify() {
	if s.OnChange != nil {
		s.OnChange(copyState(s.state))
	}
}

func (s *Service) pushUndo() {
	s.undo = append(s.undo, copyState(s.state))
	if len(s.undo) > undoStackLimit {
		s.undo = s.undo[len(s.undo)-undoStackLimit:]
	}
}

func copyState(state model.State) model.State {
	items := make([]model.Item, len(state.Items))
	copy(items, state.Items)
	return model.State{Items: items}
}
