package view

import (
	"slices"
	"sync"
)

// Element IDs the host page exposes.
const (
	StatsSectionID        = "stats-section"
	AppointmentsSectionID = "appointments-section"
	StatsButtonID         = "btn-stats"
	AppointmentsButtonID  = "btn-appointments"
	StatsContainerID      = "stats-container"
	LeadsBodyID           = "leads-tbody"
	AppointmentsBodyID    = "appointments-tbody"
	TodayAppointmentsID   = "today-appointments"
	ConversationContentID = "conversation-content"
	ConversationModalID   = "conversation-modal"
)

const (
	HiddenClass = "hidden"
	ActiveClass = "bg-blue-100"
)

var ElementIDs = []string{
	StatsSectionID,
	AppointmentsSectionID,
	StatsButtonID,
	AppointmentsButtonID,
	StatsContainerID,
	LeadsBodyID,
	AppointmentsBodyID,
	TodayAppointmentsID,
	ConversationContentID,
	ConversationModalID,
}

type Element struct {
	ID      string   `json:"id"`
	Classes []string `json:"classes"`
	HTML    string   `json:"html"`
	Version uint64   `json:"version"`
}

type Listener func(Element)

// Document holds the rendered state of every host page element. Mutations
// that change nothing do not bump the version or notify listeners.
type Document struct {
	mu        sync.RWMutex
	elements  map[string]*Element
	version   uint64
	listeners []Listener
}

func NewDocument() *Document {
	d := &Document{elements: make(map[string]*Element, len(ElementIDs))}
	for _, id := range ElementIDs {
		d.elements[id] = &Element{ID: id, Classes: []string{}}
	}

	d.elements[AppointmentsSectionID].Classes = []string{HiddenClass}
	d.elements[ConversationModalID].Classes = []string{HiddenClass}
	d.elements[StatsButtonID].Classes = []string{ActiveClass}

	return d
}

// Subscribe registers a listener. Listeners run synchronously after the write
// lock is released and must not block.
func (d *Document) Subscribe(listener Listener) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners = append(d.listeners, listener)
}

func (d *Document) SetInnerHTML(id, html string) {
	d.mutate(id, func(el *Element) bool {
		if el.HTML == html {
			return false
		}
		el.HTML = html
		return true
	})
}

func (d *Document) ToggleClass(id, class string, on bool) {
	d.mutate(id, func(el *Element) bool {
		has := slices.Contains(el.Classes, class)
		switch {
		case on && !has:
			el.Classes = append(el.Classes, class)
			return true
		case !on && has:
			el.Classes = slices.DeleteFunc(el.Classes, func(c string) bool { return c == class })
			return true
		}
		return false
	})
}

func (d *Document) AddClass(id, class string) {
	d.ToggleClass(id, class, true)
}

func (d *Document) RemoveClass(id, class string) {
	d.ToggleClass(id, class, false)
}

func (d *Document) HasClass(id, class string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	el, ok := d.elements[id]
	return ok && slices.Contains(el.Classes, class)
}

func (d *Document) Element(id string) (Element, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	el, ok := d.elements[id]
	if !ok {
		return Element{}, false
	}

	return copyElement(el), true
}

// Snapshot returns the host page elements in page order.
func (d *Document) Snapshot() []Element {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Element, 0, len(d.elements))
	for _, id := range ElementIDs {
		out = append(out, copyElement(d.elements[id]))
	}

	return out
}

func (d *Document) Version() uint64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.version
}

func (d *Document) mutate(id string, apply func(el *Element) bool) {
	d.mu.Lock()
	el, ok := d.elements[id]
	if !ok {
		el = &Element{ID: id, Classes: []string{}}
		d.elements[id] = el
	}

	if !apply(el) {
		d.mu.Unlock()
		return
	}

	d.version++
	el.Version = d.version
	changed := copyElement(el)
	listeners := slices.Clone(d.listeners)
	d.mu.Unlock()

	for _, listener := range listeners {
		listener(changed)
	}
}

func copyElement(el *Element) Element {
	return Element{
		ID:      el.ID,
		Classes: slices.Clone(el.Classes),
		HTML:    el.HTML,
		Version: el.Version,
	}
}
