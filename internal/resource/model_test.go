package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTheatreTransitions(t *testing.T) {
	assert.True(t, CanTransition(KindTheatre, StatusAvailable, StatusOccupied))
	assert.True(t, CanTransition(KindTheatre, StatusAvailable, StatusMaintenance))
	assert.True(t, CanTransition(KindTheatre, StatusAvailable, StatusCleaning))
	assert.True(t, CanTransition(KindTheatre, StatusOccupied, StatusCleaning))
	assert.True(t, CanTransition(KindTheatre, StatusCleaning, StatusAvailable))
	assert.True(t, CanTransition(KindTheatre, StatusMaintenance, StatusAvailable))

	assert.True(t, CanTransition(KindTheatre, StatusOccupied, StatusAvailable))

	assert.False(t, CanTransition(KindTheatre, StatusCleaning, StatusOccupied))
	assert.False(t, CanTransition(KindTheatre, StatusMaintenance, StatusOccupied))
	assert.False(t, CanTransition(KindTheatre, StatusOccupied, StatusMaintenance))
}

func TestBedTransitions(t *testing.T) {
	assert.True(t, CanTransition(KindBed, StatusAvailable, StatusOccupied))
	assert.True(t, CanTransition(KindBed, StatusOccupied, StatusAvailable))

	assert.False(t, CanTransition(KindBed, StatusAvailable, StatusCleaning))
	assert.False(t, CanTransition(KindBed, StatusOccupied, StatusMaintenance))
}

func TestUnknownKind(t *testing.T) {
	assert.False(t, CanTransition(Kind("ambulance"), StatusAvailable, StatusOccupied))
	assert.Nil(t, ValidStatuses(Kind("ambulance")))
}
