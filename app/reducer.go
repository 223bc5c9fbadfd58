package app

import (
	"strings"
	"time"

	"todo-app/model"
)

// Action is a state transition request understood by the reducer.
type Action interface {
	action()
}

// ToggleAll marks every item complete, or every item incomplete when all
// of them already are.
type ToggleAll struct{}

// ClearCompleted removes every complete item.
type ClearCompleted struct{}

// Create appends a new incomplete item.
type Create struct {
	Title string
}

// Delete removes the item with ID.
type Delete struct {
	ID int64
}

// Update merges Patch into the item with ID.
type Update struct {
	ID    int64
	Patch model.Patch
}

func (ToggleAll) action()      {}
func (ClearCompleted) action() {}
func (Create) action()         {}
func (Delete) action()         {}
func (Update) action()         {}

// Reducer maps (state, action) to the next state. It never mutates its
// input and never fails: invalid actions return the state unchanged.
type Reducer struct {
	// Clock supplies creation timestamps for new ids. Defaults to time.Now.
	Clock func() time.Time
}

var defaultReducer = Reducer{}

// Reduce applies action to state with the default reducer.
func Reduce(state model.State, action Action) model.State {
	return defaultReducer.Reduce(state, action)
}

// Reduce applies action to state.
func (r Reducer) Reduce(state model.State, action Action) model.State {
	state = normalizeState(state)
	switch a := action.(type) {
	case ToggleAll:
		return toggleAll(state)
	case ClearCompleted:
		return clearCompleted(state)
	case Create:
		return r.create(state, a.Title)
	case Delete:
		return deleteItem(state, a.ID)
	case Update:
		return updateItem(state, a.ID, a.Patch)
	}
	return state
}

func toggleAll(state model.State) model.State {
	allComplete := true
	for _, it := range state.Items {
		if !it.Complete {
			allComplete = false
			break
		}
	}
	items := make([]model.Item, len(state.Items))
	for i, it := range state.Items {
		it.Complete = !allComplete
		items[i] = it
	}
	return model.State{Items: items}
}

func clearCompleted(state model.State) model.State {
	kept := make([]model.Item, 0, len(state.Items))
	for _, it := range state.Items {
		if !it.Complete {
			kept = append(kept, it)
		}
	}
	if len(kept) == len(state.Items) {
		return state
	}
	return model.State{Items: kept}
}

func (r Reducer) create(state model.State, title string) model.State {
	title = strings.TrimSpace(title)
	if title == "" {
		return state
	}
	items := make([]model.Item, len(state.Items), len(state.Items)+1)
	copy(items, state.Items)
	items = append(items, model.Item{
		ID:       r.nextID(state.Items),
		Title:    title,
		Complete: false,
	})
	return model.State{Items: items}
}

func deleteItem(state model.State, id int64) model.State {
	idx := indexOf(state.Items, id)
	if idx == -1 {
		return state
	}
	items := make([]model.Item, 0, len(state.Items)-1)
	items = append(items, state.Items[:idx]...)
	items = append(items, state.Items[idx+1:]...)
	return model.State{Items: items}
}

func updateItem(state model.State, id int64, patch model.Patch) model.State {
	idx := indexOf(state.Items, id)
	if idx == -1 {
		return state
	}
	items := make([]model.Item, len(state.Items))
	copy(items, state.Items)
	items[idx] = patch.Apply(items[idx])
	return model.State{Items: items}
}

// nextID derives the id from the creation timestamp, bumping past the
// largest live id so two items created within the same millisecond never
// share one.
func (r Reducer) nextID(items []model.Item) int64 {
	clock := r.Clock
	if clock == nil {
		clock = time.Now
	}
	id := clock().UnixMilli()
	for _, it := range items {
		if it.ID >= id {
			id = it.ID + 1
		}
	}
	return id
}

func indexOf(items []model.Item, id int64) int {
	for i := range items {
		if items[i].ID == id {
			return i
		}
	}
	return -1
}

func normalizeState(state model.State) model.State {
	if state.Items == nil {
		state.Items = []model.Item{}
	}
	return state
}
