package statemachine

import (
	"errors"

	"food-marketplace-api/models"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor models.UserRole
}

// validTransitions is the authoritative state machine definition.
// The partner (restaurant owner) walks the happy path one step at a time and
// may reject any order that has not yet been delivered. The customer may only
// cancel, and only before preparation starts. delivered and cancelled are
// terminal for everyone.
var validTransitions = []Transition{
	// Owner advances the happy path
	{From: models.StatusPending, To: models.StatusConfirmed, Actor: models.RolePartner},
	{From: models.StatusConfirmed, To: models.StatusPreparing, Actor: models.RolePartner},
	{From: models.StatusPreparing, To: models.StatusReady, Actor: models.RolePartner},
	{From: models.StatusReady, To: models.StatusDelivered, Actor: models.RolePartner},
	// Owner-side rejection from any pre-delivered state
	{From: models.StatusPending, To: models.StatusCancelled, Actor: models.RolePartner},
	{From: models.StatusConfirmed, To: models.StatusCancelled, Actor: models.RolePartner},
	{From: models.StatusPreparing, To: models.StatusCancelled, Actor: models.RolePartner},
	{From: models.StatusReady, To: models.StatusCancelled, Actor: models.RolePartner},
	// Customer may cancel until preparation begins
	{From: models.StatusPending, To: models.StatusCancelled, Actor: models.RoleCustomer},
	{From: models.StatusConfirmed, To: models.StatusCancelled, Actor: models.RoleCustomer},
}

// transitionKey is used to look up valid transitions quickly
type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor models.UserRole
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// IsTerminal reports whether no transition leaves the given status.
func IsTerminal(status models.OrderStatus) bool {
	return status == models.StatusDelivered || status == models.StatusCancelled
}

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	var nexts []models.OrderStatus
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// AllowedForAnyActor reports whether from→to is a legal transition for at
// least one actor. Handlers use this to tell "forbidden for you" (403) apart
// from "never legal" (400).
func AllowedForAnyActor(from, to models.OrderStatus) bool {
	for _, t := range validTransitions {
		if t.From == from && t.To == to {
			return true
		}
	}
	return false
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.OrderStatus, actor models.UserRole) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return errors.New(
		"invalid transition: " + string(from) + " to " + string(to) +
			" is not allowed for " + string(actor) + ". " +
			"Valid transitions from " + string(from) + " are: " + describeValidFrom(from),
	)
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
