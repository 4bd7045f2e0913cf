// Package slot picks delivery windows that fall into the free gaps of a
// day's class schedule.
package slot

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"
)

var (
	ErrSlotNotFound    = errors.New("slot not found")
	ErrSlotUnavailable = errors.New("slot is not free")
	ErrInvalidSlot     = errors.New("invalid slot")
)

const clock = "15:04"

type Kind string

const (
	KindClass Kind = "class"
	KindFree  Kind = "free"
)

type Slot struct {
	Id          int    `json:"id"`
	Start       string `json:"start" validate:"required"`
	End         string `json:"end" validate:"required"`
	Activity    string `json:"activity"`
	Kind        Kind   `json:"kind" validate:"omitempty,oneof=class free"`
	Recommended bool   `json:"recommended"`
}

func (s Slot) Duration() time.Duration {
	start, err1 := time.Parse(clock, s.Start)
	end, err2 := time.Parse(clock, s.End)
	if err1 != nil || err2 != nil {
		return 0
	}
	return end.Sub(start)
}

type Schedule struct {
	Slots     []Slot `json:"slots"`
	Confirmed *Slot  `json:"confirmed,omitempty"`
}

func DefaultSchedule() Schedule {
	return Schedule{Slots: []Slot{
		{Id: 1, Start: "09:00", End: "10:30", Activity: "Data Structures Lecture", Kind: KindClass},
		{Id: 2, Start: "10:30", End: "11:00", Activity: "Break", Kind: KindFree},
		{Id: 3, Start: "11:00", End: "12:30", Activity: "Web Development Lab", Kind: KindClass},
		{Id: 4, Start: "12:30", End: "13:30", Activity: "Lunch Break", Kind: KindFree, Recommended: true},
		{Id: 5, Start: "13:30", End: "15:00", Activity: "Database Management", Kind: KindClass},
		{Id: 6, Start: "15:00", End: "15:30", Activity: "Tea Break", Kind: KindFree},
		{Id: 7, Start: "15:30", End: "17:00", Activity: "Project Work", Kind: KindClass},
	}}
}

func (s Schedule) Free() []Slot {
	out := make([]Slot, 0, len(s.Slots))
	for _, sl := range s.Slots {
		if sl.Kind == KindFree {
			out = append(out, sl)
		}
	}
	return out
}

// Recommended prefers a flagged free slot, then the longest free one.
func (s Schedule) Recommended() (Slot, bool) {
	free := s.Free()
	if len(free) == 0 {
		return Slot{}, false
	}
	for _, sl := range free {
		if sl.Recommended {
			return sl, true
		}
	}
	best := free[0]
	for _, sl := range free[1:] {
		if sl.Duration() > best.Duration() {
			best = sl
		}
	}
	return best, true
}

// Toggle flips a slot between class and free. A confirmed slot that stops
// being free is unconfirmed.
func (s Schedule) Toggle(id int) (Schedule, error) {
	i := s.index(id)
	if i < 0 {
		return s, ErrSlotNotFound
	}

	s = s.clone()
	if s.Slots[i].Kind == KindClass {
		s.Slots[i].Kind = KindFree
	} else {
		s.Slots[i].Kind = KindClass
		s.Slots[i].Recommended = false
		if s.Confirmed != nil && s.Confirmed.Id == id {
			s.Confirmed = nil
		}
	}
	return s, nil
}

// Add appends a slot with the next free id. Kind defaults to free.
func (s Schedule) Add(sl Slot) (Schedule, Slot, error) {
	if sl.Kind == "" {
		sl.Kind = KindFree
	}
	if sl.Kind != KindFree && sl.Kind != KindClass {
		return s, Slot{}, fmt.Errorf("%w: kind %q", ErrInvalidSlot, sl.Kind)
	}
	if sl.Duration() <= 0 {
		return s, Slot{}, fmt.Errorf("%w: %s-%s", ErrInvalidSlot, sl.Start, sl.End)
	}
	if sl.Activity == "" {
		sl.Activity = "New Slot"
	}

	next := 1
	for _, existing := range s.Slots {
		next = max(next, existing.Id+1)
	}
	sl.Id = next

	s = s.clone()
	s.Slots = append(s.Slots, sl)
	return s, sl, nil
}

func (s Schedule) Remove(id int) (Schedule, error) {
	i := s.index(id)
	if i < 0 {
		return s, ErrSlotNotFound
	}

	s = s.clone()
	s.Slots = slices.Delete(s.Slots, i, i+1)
	if s.Confirmed != nil && s.Confirmed.Id == id {
		s.Confirmed = nil
	}
	return s, nil
}

func (s Schedule) Confirm(id int) (Schedule, error) {
	i := s.index(id)
	if i < 0 {
		return s, ErrSlotNotFound
	}
	if s.Slots[i].Kind != KindFree {
		return s, ErrSlotUnavailable
	}

	s = s.clone()
	confirmed := s.Slots[i]
	s.Confirmed = &confirmed
	return s, nil
}

func (s Schedule) index(id int) int {
	return slices.IndexFunc(s.Slots, func(sl Slot) bool { return sl.Id == id })
}

func (s Schedule) clone() Schedule {
	out := Schedule{Slots: slices.Clone(s.Slots)}
	if s.Confirmed != nil {
		c := *s.Confirmed
		out.Confirmed = &c
	}
	return out
}

// Planner is the shared, mutable home of one schedule.
type Planner struct {
	mu       sync.RWMutex
	schedule Schedule
}

func NewPlanner(s Schedule) *Planner {
	return &Planner{schedule: s.clone()}
}

func (p *Planner) Schedule() Schedule {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.schedule.clone()
}

func (p *Planner) Toggle(id int) (Schedule, error) {
	return p.apply(func(s Schedule) (Schedule, error) { return s.Toggle(id) })
}

func (p *Planner) Remove(id int) (Schedule, error) {
	return p.apply(func(s Schedule) (Schedule, error) { return s.Remove(id) })
}

func (p *Planner) Confirm(id int) (Schedule, error) {
	return p.apply(func(s Schedule) (Schedule, error) { return s.Confirm(id) })
}

func (p *Planner) Add(sl Slot) (Slot, error) {
	var added Slot
	_, err := p.apply(func(s Schedule) (Schedule, error) {
		next, a, err := s.Add(sl)
		added = a
		return next, err
	})
	return added, err
}

func (p *Planner) apply(fn func(Schedule) (Schedule, error)) (Schedule, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	next, err := fn(p.schedule)
	if err != nil {
		return p.schedule.clone(), err
	}
	p.schedule = next
	return next.clone(), nil
}
