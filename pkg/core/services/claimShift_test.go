package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aulastudio-aps/gestionale/pkg/db"
)

func TestClaimShift_OpenSlot(t *testing.T) {
	store := newFakeStore()
	err := ClaimShift(context.Background(), store, zap.NewNop(), testNow, 7, "2026-01-05", "09:00", "13:00", "")
	require.NoError(t, err)

	require.Len(t, store.shifts, 1)
	claimed := store.shifts[0]
	assert.Equal(t, "2026-01-05", claimed.Date)
	assert.Equal(t, "09:00", claimed.Start)
	assert.Equal(t, "13:00", claimed.End)
	require.NotNil(t, claimed.UserID)
	assert.Equal(t, int64(7), *claimed.UserID)
	assert.False(t, claimed.ClosedOverride)
}

func TestClaimShift_LinksTemplate(t *testing.T) {
	store := newFakeStore()
	store.templates[db.TemplateCurrent] = []db.SlotTemplate{
		{ID: 42, Weekday: "lunedì", Start: "09:00", End: "19:30"},
	}

	err := ClaimShift(context.Background(), store, zap.NewNop(), testNow, 7, "2026-01-05", "13:00", "16:00", "")
	require.NoError(t, err)

	require.Len(t, store.shifts, 1)
	require.NotNil(t, store.shifts[0].TemplateID)
	assert.Equal(t, int64(42), *store.shifts[0].TemplateID)
}

func TestClaimShift_ClosedWindowBecomesExtraordinary(t *testing.T) {
	store := newFakeStore()
	err := ClaimShift(context.Background(), store, zap.NewNop(), testNow, 7, "2026-01-11", "21:00", "24:00", "apertura serale")
	require.NoError(t, err)

	require.Len(t, store.shifts, 1)
	assert.True(t, store.shifts[0].ClosedOverride)
	assert.Nil(t, store.shifts[0].TemplateID)
	assert.Equal(t, "apertura serale", store.shifts[0].Note)
}

func TestClaimShift_NextWeekAllowed(t *testing.T) {
	store := newFakeStore()
	err := ClaimShift(context.Background(), store, zap.NewNop(), testNow, 7, "2026-01-14", "09:00", "13:00", "")
	require.NoError(t, err)
	require.Len(t, store.shifts, 1)
}

func TestClaimShift_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		start   string
		end     string
		wantErr string
	}{
		{name: "week after next", date: "2026-01-19", start: "09:00", end: "13:00", wantErr: "editable weeks"},
		{name: "past week", date: "2026-01-02", start: "09:00", end: "13:00", wantErr: "editable weeks"},
		{name: "not a window", date: "2026-01-05", start: "10:00", end: "12:00", wantErr: "invalid shift window"},
		{name: "malformed date", date: "gennaio 5", start: "09:00", end: "13:00", wantErr: "invalid date"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			store := newFakeStore()
			err := ClaimShift(context.Background(), store, zap.NewNop(), testNow, 7, test.date, test.start, test.end, "")
			assert.ErrorContains(t, err, test.wantErr)
			assert.Empty(t, store.shifts)
		})
	}
}

func TestReleaseShift(t *testing.T) {
	userID := int64(7)
	store := newFakeStore()
	store.shifts = []db.Shift{
		{Date: "2026-01-05", Start: "09:00", End: "13:00", UserID: &userID},
	}

	err := ReleaseShift(context.Background(), store, zap.NewNop(), testNow, "2026-01-05", "09:00", "13:00")
	require.NoError(t, err)
	assert.Empty(t, store.shifts)
}

func TestReleaseShift_OutsideEditableWeeks(t *testing.T) {
	store := newFakeStore()
	err := ReleaseShift(context.Background(), store, zap.NewNop(), testNow, "2026-01-19", "09:00", "13:00")
	assert.ErrorContains(t, err, "editable weeks")
}
