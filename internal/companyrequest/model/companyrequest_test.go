package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/festy23/company_insights/internal/workflow"
)

func TestLifecycle(t *testing.T) {
	tests := []struct {
		from, to Status
		want     bool
	}{
		{StatusPending, StatusProcessing, true},
		{StatusFailed, StatusProcessing, true},
		{StatusPending, StatusRejected, true},
		{StatusProcessing, StatusApproved, true},
		{StatusProcessing, StatusFailed, true},
		{StatusApproved, StatusProcessing, false},
		{StatusRejected, StatusProcessing, false},
		{StatusPending, StatusApproved, false},
		{StatusFailed, StatusRejected, false},
		{StatusProcessing, StatusRejected, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, Lifecycle.Can(tt.from, tt.to))
		})
	}
}

func TestLifecycle_Sources(t *testing.T) {
	assert.Equal(t, []Status{StatusFailed, StatusPending}, Lifecycle.Sources(StatusProcessing))
	assert.Equal(t, []Status{StatusPending}, Lifecycle.Sources(StatusRejected))
	assert.True(t, Lifecycle.IsTerminal(StatusApproved))
	assert.True(t, Lifecycle.IsTerminal(StatusRejected))
	assert.False(t, Lifecycle.IsTerminal(StatusFailed))
}

func TestParseStatus(t *testing.T) {
	st, err := ParseStatus("failed")
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, st)

	_, err = ParseStatus("done")
	assert.ErrorIs(t, err, workflow.ErrValidation)
}

func TestNewConflict(t *testing.T) {
	err := NewConflict(7, StatusApproved)

	assert.ErrorIs(t, err, workflow.ErrConflict)
	assert.EqualError(t, err, "company request 7 is already approved")
	current, ok := workflow.CurrentStatus(err)
	assert.True(t, ok)
	assert.Equal(t, "approved", current)
}
