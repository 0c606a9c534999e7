// Package views models the role dashboards: a fixed list of sections of
// which exactly one is visible, refreshed from the services when shown.
package views

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Kavas-89/Task-Management-System/internal/models"
)

var ErrUnknownSection = errors.New("unknown section")

// RefreshFunc loads the data a section displays.
type RefreshFunc func(ctx context.Context, session models.Session) (any, error)

// Section is one page of a dashboard.
type Section struct {
	ID      string
	Title   string
	Refresh RefreshFunc
}

// SectionState is a section as seen by a renderer.
type SectionState struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Visible bool   `json:"visible"`
}

// View is the outcome of showing a section.
type View struct {
	Active   string         `json:"active"`
	Sections []SectionState `json:"sections"`
	Data     any            `json:"data"`
}

// Router shows one section at a time. The first section is visible
// initially.
type Router struct {
	mu       sync.Mutex
	sections []Section
	active   string
}

func NewRouter(sections ...Section) *Router {
	r := &Router{sections: sections}
	if len(sections) > 0 {
		r.active = sections[0].ID
	}
	return r
}

// Active returns the ID of the visible section.
func (r *Router) Active() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// Sections reports every section and whether it is visible.
func (r *Router) Sections() []SectionState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.states(r.active)
}

func (r *Router) states(active string) []SectionState {
	out := make([]SectionState, len(r.sections))
	for i, s := range r.sections {
		out[i] = SectionState{ID: s.ID, Title: s.Title, Visible: s.ID == active}
	}
	return out
}

func (r *Router) find(id string) (Section, bool) {
	for _, s := range r.sections {
		if s.ID == id {
			return s, true
		}
	}
	return Section{}, false
}

// Show refreshes section id and makes it the visible one. If the refresh
// fails the previously visible section stays visible.
func (r *Router) Show(ctx context.Context, session models.Session, id string) (*View, error) {
	section, ok := r.find(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSection, id)
	}

	var data any
	if section.Refresh != nil {
		var err error
		if data, err = section.Refresh(ctx, session); err != nil {
			return nil, fmt.Errorf("failed to refresh %s: %w", id, err)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = id

	return &View{
		Active:   id,
		Sections: r.states(id),
		Data:     data,
	}, nil
}

// Next returns the ID of the section after the visible one, wrapping around.
func (r *Router) Next(step int) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := len(r.sections)
	if n == 0 {
		return ""
	}
	for i, s := range r.sections {
		if s.ID == r.active {
			return r.sections[((i+step)%n+n)%n].ID
		}
	}
	return r.sections[0].ID
}
