// Package group holds the state transitions of a group order.
//
// Every function takes a group by value and returns the next group, so
// callers can persist the result or drop it without side effects.
package group

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"smartswiggy/internal/models"
	"smartswiggy/internal/pricing"

	"github.com/google/uuid"
)

var (
	ErrInvalidTransition = errors.New("invalid group state transition")
	ErrMemberNotFound    = errors.New("member not found")
	ErrHostRemoval       = errors.New("host cannot be removed")
	ErrLastMember        = errors.New("group must keep at least one member")
	ErrEmptyName         = errors.New("name must not be empty")
)

const CodeLength = 6

// NewCode returns an upper-case join code.
func NewCode() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:CodeLength])
}

// NormalizeCode makes user typed codes comparable with generated ones.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func New(id, code, name, hostId, hostName string, now time.Time) (models.Group, error) {
	hostName = strings.TrimSpace(hostName)
	if hostName == "" {
		return models.Group{}, fmt.Errorf("host: %w", ErrEmptyName)
	}

	return models.Group{
		Id:    id,
		Code:  code,
		Name:  strings.TrimSpace(name),
		State: models.GroupForming,
		Members: []models.Member{
			{Id: hostId, DisplayName: hostName, IsHost: true, Items: []models.LineItem{}},
		},
		Requests:  models.RequestProgress{State: models.RequestsIdle},
		CreatedAt: now,
	}, nil
}

func Activate(g models.Group) (models.Group, error) {
	if g.State != models.GroupForming {
		return g, transitionErr(g.State, models.GroupActive)
	}
	g = clone(g)
	g.State = models.GroupActive
	return g, nil
}

// AddMember appends a member. An empty name becomes "Guest N".
func AddMember(g models.Group, id, name string) (models.Group, models.Member, error) {
	if !editable(g.State) {
		return g, models.Member{}, fmt.Errorf("%w: cannot add members while %s", ErrInvalidTransition, g.State)
	}

	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("Guest %d", len(g.Members)+1)
	}

	m := models.Member{Id: id, DisplayName: name, Items: []models.LineItem{}}
	g = clone(g)
	g.Members = append(g.Members, m)
	return g, m, nil
}

func RenameMember(g models.Group, memberId, name string) (models.Group, error) {
	if g.State == models.GroupSettled {
		return g, fmt.Errorf("%w: group is settled", ErrInvalidTransition)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return g, ErrEmptyName
	}

	i := memberIndex(g, memberId)
	if i < 0 {
		return g, ErrMemberNotFound
	}

	g = clone(g)
	g.Members[i].DisplayName = name
	return g, nil
}

func RemoveMember(g models.Group, memberId string) (models.Group, error) {
	if !editable(g.State) {
		return g, fmt.Errorf("%w: cannot remove members while %s", ErrInvalidTransition, g.State)
	}

	i := memberIndex(g, memberId)
	if i < 0 {
		return g, ErrMemberNotFound
	}
	if len(g.Members) <= 1 {
		return g, ErrLastMember
	}
	if g.Members[i].IsHost {
		return g, ErrHostRemoval
	}

	g = clone(g)
	g.Members = slices.Delete(g.Members, i, i+1)
	return g, nil
}

// SetMemberItem applies the cart quantity rules to one member's selections.
func SetMemberItem(g models.Group, memberId string, line models.LineItem) (models.Group, error) {
	if !editable(g.State) {
		return g, fmt.Errorf("%w: cannot change items while %s", ErrInvalidTransition, g.State)
	}
	if line.Quantity < 0 {
		return g, pricing.ErrInvalidQuantity
	}

	i := memberIndex(g, memberId)
	if i < 0 {
		return g, ErrMemberNotFound
	}

	g = clone(g)
	g.Members[i].Items = pricing.SetQuantity(g.Members[i].Cart(), line).Items
	return g, nil
}

func BeginSplit(g models.Group) (models.Group, error) {
	if g.State != models.GroupActive {
		return g, transitionErr(g.State, models.GroupSplitting)
	}
	g = clone(g)
	g.State = models.GroupSplitting
	return g, nil
}

// BackToActive reopens the roster. Not allowed once requests went out.
func BackToActive(g models.Group) (models.Group, error) {
	if g.State != models.GroupSplitting || g.Requests.State == models.RequestsSending {
		return g, transitionErr(g.State, models.GroupActive)
	}
	g = clone(g)
	g.State = models.GroupActive
	g.Requests = models.RequestProgress{State: models.RequestsIdle}
	for i := range g.Members {
		g.Members[i].Paid = false
	}
	return g, nil
}

func StartRequests(g models.Group) (models.Group, error) {
	if g.State != models.GroupSplitting || g.Requests.State == models.RequestsSending {
		return g, fmt.Errorf("%w: cannot send payment requests while %s/%s", ErrInvalidTransition, g.State, g.Requests.State)
	}
	g = clone(g)
	g.Requests = models.RequestProgress{State: models.RequestsSending, Total: len(g.Members)}
	return g, nil
}

// MarkRequestSent advances the dispatch progress and finishes it after the last member.
func MarkRequestSent(g models.Group) (models.Group, error) {
	if g.Requests.State != models.RequestsSending {
		return g, fmt.Errorf("%w: no payment requests in flight", ErrInvalidTransition)
	}
	g = clone(g)
	g.Requests.Sent++
	if g.Requests.Sent >= g.Requests.Total {
		g.Requests.Sent = g.Requests.Total
		g.Requests.State = models.RequestsSent
	}
	return g, nil
}

func CancelRequests(g models.Group) (models.Group, error) {
	if g.Requests.State != models.RequestsSending {
		return g, fmt.Errorf("%w: no payment requests in flight", ErrInvalidTransition)
	}
	g = clone(g)
	g.Requests.State = models.RequestsCancelled
	return g, nil
}

// AcknowledgePayment marks a member as paid and settles the group once everyone has.
func AcknowledgePayment(g models.Group, memberId string) (models.Group, error) {
	if g.State != models.GroupSplitting || g.Requests.State != models.RequestsSent {
		return g, fmt.Errorf("%w: payments are not being collected", ErrInvalidTransition)
	}

	i := memberIndex(g, memberId)
	if i < 0 {
		return g, ErrMemberNotFound
	}

	g = clone(g)
	g.Members[i].Paid = true

	if !slices.ContainsFunc(g.Members, func(m models.Member) bool { return !m.Paid }) {
		g.State = models.GroupSettled
	}
	return g, nil
}

func editable(s models.GroupState) bool {
	return s == models.GroupForming || s == models.GroupActive
}

func memberIndex(g models.Group, memberId string) int {
	return slices.IndexFunc(g.Members, func(m models.Member) bool { return m.Id == memberId })
}

func transitionErr(from, to models.GroupState) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}

func clone(g models.Group) models.Group {
	members := make([]models.Member, len(g.Members))
	for i, m := range g.Members {
		m.Items = slices.Clone(m.Items)
		members[i] = m
	}
	g.Members = members
	return g
}
