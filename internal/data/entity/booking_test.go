package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBookingStatusClassification(t *testing.T) {
	blocking := []BookingStatus{BookingStatusPending, BookingStatusConfirmed, BookingStatusInProgress}
	terminal := []BookingStatus{BookingStatusCompleted, BookingStatusCancelled, BookingStatusNoShow}

	for _, s := range blocking {
		assert.True(t, IsBlockingStatus(s), "%s should block", s)
		assert.False(t, IsTerminalStatus(s), "%s should not be terminal", s)
	}
	for _, s := range terminal {
		assert.False(t, IsBlockingStatus(s), "%s should not block", s)
		assert.True(t, IsTerminalStatus(s), "%s should be terminal", s)
	}
}

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to BookingStatus }{
		{BookingStatusPending, BookingStatusConfirmed},
		{BookingStatusPending, BookingStatusCancelled},
		{BookingStatusConfirmed, BookingStatusInProgress},
		{BookingStatusConfirmed, BookingStatusCancelled},
		{BookingStatusInProgress, BookingStatusCompleted},
		{BookingStatusInProgress, BookingStatusNoShow},
		{BookingStatusInProgress, BookingStatusCancelled},
	}
	for _, tt := range allowed {
		assert.True(t, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}

	denied := []struct{ from, to BookingStatus }{
		{BookingStatusPending, BookingStatusInProgress},
		{BookingStatusPending, BookingStatusCompleted},
		{BookingStatusConfirmed, BookingStatusCompleted},
		{BookingStatusCompleted, BookingStatusCancelled},
		{BookingStatusCancelled, BookingStatusConfirmed},
		{BookingStatusNoShow, BookingStatusCompleted},
	}
	for _, tt := range denied {
		assert.False(t, CanTransition(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}
