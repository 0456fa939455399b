package flow

import (
	"fmt"

	"github.com/rcliao/baby-bitcoin/internal/catalog"
	"github.com/rcliao/baby-bitcoin/internal/model"
)

// Stage is the story-building step.
type Stage int

const (
	SelectingAnimal Stage = iota
	SelectingPlace
	SelectingObject
	StoryComplete
)

func (s Stage) String() string {
	switch s {
	case SelectingAnimal:
		return "selecting_animal"
	case SelectingPlace:
		return "selecting_place"
	case SelectingObject:
		return "selecting_object"
	case StoryComplete:
		return "story_complete"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// MarshalText lets stages appear by name in JSON snapshots.
func (s Stage) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Page is the screen being shown.
type Page int

const (
	StoryPage Page = iota
	TransferPage
	MiningPage
)

func (p Page) String() string {
	switch p {
	case StoryPage:
		return "story"
	case TransferPage:
		return "transfer"
	case MiningPage:
		return "mining"
	}
	return fmt.Sprintf("page(%d)", int(p))
}

func (p Page) MarshalText() ([]byte, error) { return []byte(p.String()), nil }

// ParsePage maps a page name to a Page.
func ParsePage(name string) (Page, error) {
	switch name {
	case "story":
		return StoryPage, nil
	case "transfer", "wallet":
		return TransferPage, nil
	case "mining", "mine":
		return MiningPage, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPage, name)
}

// State is a snapshot of the controller. Pointer fields are nil until set.
type State struct {
	Stage    Stage          `json:"stage"`
	Page     Page           `json:"page"`
	LoggedIn bool           `json:"logged_in"`
	Busy     bool           `json:"busy"`
	Animal   *model.Item    `json:"animal,omitempty"`
	Place    *model.Item    `json:"place,omitempty"`
	Object   *model.Item    `json:"object,omitempty"`
	Secret   *int           `json:"secret,omitempty"`
	Address  *model.Address `json:"address,omitempty"`
}

// CanConfirm reports whether the confirm action is enabled.
func (s State) CanConfirm() bool {
	return s.Secret != nil && s.Address != nil && !s.Busy
}

// NeedsLogin reports whether the current page should show the login-required
// placeholder instead of its content.
func (s State) NeedsLogin() bool {
	return s.Page != StoryPage && !s.LoggedIn
}

func (s State) clone() State {
	out := s
	if s.Animal != nil {
		v := *s.Animal
		out.Animal = &v
	}
	if s.Place != nil {
		v := *s.Place
		out.Place = &v
	}
	if s.Object != nil {
		v := *s.Object
		out.Object = &v
	}
	if s.Secret != nil {
		v := *s.Secret
		out.Secret = &v
	}
	if s.Address != nil {
		v := *s.Address
		out.Address = &v
	}
	return out
}

// step is one row of the stage transition table.
type step struct {
	pick func(catalog.Set) catalog.Catalog
	set  func(*State, model.Item)
	next Stage
}

var transitions = map[Stage]step{
	SelectingAnimal: {
		pick: func(c catalog.Set) catalog.Catalog { return c.Animals },
		set:  func(s *State, it model.Item) { s.Animal = &it },
		next: SelectingPlace,
	},
	SelectingPlace: {
		pick: func(c catalog.Set) catalog.Catalog { return c.Places },
		set:  func(s *State, it model.Item) { s.Place = &it },
		next: SelectingObject,
	},
	SelectingObject: {
		pick: func(c catalog.Set) catalog.Catalog { return c.Objects },
		set:  func(s *State, it model.Item) { s.Object = &it },
		next: StoryComplete,
	},
}

// Choices returns the catalog offered in stage, if the stage takes a choice.
func Choices(c catalog.Set, stage Stage) (catalog.Catalog, bool) {
	st, ok := transitions[stage]
	if !ok {
		return catalog.Catalog{}, false
	}
	return st.pick(c), true
}
