// Package resource is the registry for allocatable resource status. Every
// theatre and bed status change in the system goes through Registry.Transition,
// which enforces the per-kind transition rules and compare-and-swaps on the
// current status so concurrent writers cannot race each other into an
// invalid state.
package resource

import (
	"net/http"

	"github.com/grandoak/hospital-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "resource not found")
	ErrInvalidTransition = apperror.New(http.StatusConflict, "resource is not in the required status")
	ErrUnknownKind       = apperror.New(http.StatusBadRequest, "unknown resource kind")
)

// Kind identifies the category of an allocatable resource.
type Kind string

const (
	KindTheatre Kind = "theatre"
	KindBed     Kind = "bed"
)

// Status is a resource lifecycle state. Valid values depend on the kind.
type Status string

const (
	StatusAvailable   Status = "available"
	StatusOccupied    Status = "occupied"
	StatusCleaning    Status = "cleaning"
	StatusMaintenance Status = "maintenance"
)

// transitions is the closed rule table per kind. A transition not listed
// here is rejected before any write happens.
//
// The theatre available→cleaning edge exists for the record-correction path
// where a surgery is completed directly from scheduled without ever marking
// the room occupied. The occupied→available edge backs out a same-day
// reservation whose schedule was cancelled before the surgery started; an
// occupied room that actually hosted a surgery still exits through cleaning.
var transitions = map[Kind]map[Status][]Status{
	KindTheatre: {
		StatusAvailable:   {StatusOccupied, StatusMaintenance, StatusCleaning},
		StatusOccupied:    {StatusCleaning, StatusAvailable},
		StatusCleaning:    {StatusAvailable},
		StatusMaintenance: {StatusAvailable},
	},
	KindBed: {
		StatusAvailable: {StatusOccupied},
		StatusOccupied:  {StatusAvailable},
	},
}

// CanTransition reports whether the rule table allows from→to for the kind.
func CanTransition(kind Kind, from, to Status) bool {
	kindRules, ok := transitions[kind]
	if !ok {
		return false
	}
	for _, allowed := range kindRules[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// ValidStatuses returns the statuses a resource of the given kind may hold.
func ValidStatuses(kind Kind) []Status {
	switch kind {
	case KindTheatre:
		return []Status{StatusAvailable, StatusOccupied, StatusCleaning, StatusMaintenance}
	case KindBed:
		return []Status{StatusAvailable, StatusOccupied}
	default:
		return nil
	}
}
