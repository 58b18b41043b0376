package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatusTransitions(t *testing.T) {
	t.Run("AdminHappyPath", func(t *testing.T) {
		assert.True(t, BookingStatusPending.CanTransitionTo(BookingStatusConfirmed))
		assert.True(t, BookingStatusConfirmed.CanTransitionTo(BookingStatusOnGoing))
		assert.True(t, BookingStatusOnGoing.CanTransitionTo(BookingStatusCompleted))
	})

	t.Run("CancellationExits", func(t *testing.T) {
		assert.True(t, BookingStatusPending.CanTransitionTo(BookingStatusCancelled))
		assert.True(t, BookingStatusConfirmed.CanTransitionTo(BookingStatusCancelled))
		assert.False(t, BookingStatusOnGoing.CanTransitionTo(BookingStatusCancelled))
	})

	t.Run("NoSkippingSteps", func(t *testing.T) {
		assert.False(t, BookingStatusPending.CanTransitionTo(BookingStatusOnGoing))
		assert.False(t, BookingStatusPending.CanTransitionTo(BookingStatusCompleted))
		assert.False(t, BookingStatusConfirmed.CanTransitionTo(BookingStatusCompleted))
	})

	t.Run("NoMovingBackward", func(t *testing.T) {
		assert.False(t, BookingStatusConfirmed.CanTransitionTo(BookingStatusPending))
		assert.False(t, BookingStatusOnGoing.CanTransitionTo(BookingStatusConfirmed))
	})

	t.Run("TerminalStatesAreFinal", func(t *testing.T) {
		for _, next := range []BookingStatus{BookingStatusPending, BookingStatusConfirmed, BookingStatusOnGoing, BookingStatusCancelled} {
			assert.False(t, BookingStatusCompleted.CanTransitionTo(next))
			assert.False(t, BookingStatusCancelled.CanTransitionTo(next))
		}
	})

	t.Run("SelfTransitionRejected", func(t *testing.T) {
		for status := range statusTransitions {
			assert.False(t, status.CanTransitionTo(status))
		}
	})
}

func TestBookingStatusCancellable(t *testing.T) {
	assert.True(t, BookingStatusPending.Cancellable())
	assert.True(t, BookingStatusConfirmed.Cancellable())

	assert.False(t, BookingStatusOnGoing.Cancellable())
	assert.False(t, BookingStatusCompleted.Cancellable())
	assert.False(t, BookingStatusCancelled.Cancellable())
}

func TestValidBookingStatus(t *testing.T) {
	for _, status := range []BookingStatus{BookingStatusPending, BookingStatusConfirmed, BookingStatusOnGoing, BookingStatusCompleted, BookingStatusCancelled} {
		assert.True(t, ValidBookingStatus(status))
	}
	assert.False(t, ValidBookingStatus("Approved"))
	assert.False(t, ValidBookingStatus(""))
}

func TestValidCarStatus(t *testing.T) {
	assert.True(t, ValidCarStatus(CarStatusLive))
	assert.True(t, ValidCarStatus(CarStatusBooked))
	assert.True(t, ValidCarStatus(CarStatusUnavailable))
	assert.False(t, ValidCarStatus("Parked"))
}

func TestUserFullName(t *testing.T) {
	assert.Equal(t, "Juan Dela Cruz", (&User{FirstName: "Juan", LastName: "Dela Cruz"}).FullName())
	assert.Equal(t, "Juan", (&User{FirstName: "Juan"}).FullName())
	assert.Equal(t, "Dela Cruz", (&User{LastName: "Dela Cruz"}).FullName())
}
