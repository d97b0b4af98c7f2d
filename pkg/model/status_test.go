package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingStatus_Transitions(t *testing.T) {
	tests := []struct {
		from BookingStatus
		to   BookingStatus
		want bool
	}{
		{StatusPending, StatusConfirmed, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusCompleted, false},
		{StatusConfirmed, StatusCancelled, true},
		{StatusConfirmed, StatusCompleted, true},
		{StatusConfirmed, StatusPending, false},
		{StatusConfirmed, StatusConfirmed, false},
		{StatusInquiry, StatusCancelled, true},
		{StatusInquiry, StatusConfirmed, false},
		{StatusRejected, StatusConfirmed, false},
		{StatusCancelled, StatusCancelled, false},
		{StatusCompleted, StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestBookingStatus_Terminal(t *testing.T) {
	for _, s := range []BookingStatus{StatusRejected, StatusCancelled, StatusCompleted} {
		assert.True(t, s.IsTerminal(), s)
	}
	for _, s := range []BookingStatus{StatusPending, StatusConfirmed, StatusInquiry} {
		assert.False(t, s.IsTerminal(), s)
	}
	assert.False(t, BookingStatus("archived").IsTerminal())
}

func TestBookingStatus_OnlyConfirmedOccupies(t *testing.T) {
	for _, s := range AllStatuses {
		assert.Equal(t, s == StatusConfirmed, s.IsOccupying(), s)
	}
}

func TestParseBookingStatus(t *testing.T) {
	s, err := ParseBookingStatus(" Confirmed ")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, s)

	_, err = ParseBookingStatus("approved")
	assert.Error(t, err)
}
