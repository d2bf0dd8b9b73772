package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/aulastudio-aps/gestionale/pkg/db"
)

var errStore = errors.New("store unavailable")

// fakeStore implements db.Store in memory. Tests flip the err* fields
// to fail one operation at a time.
type fakeStore struct {
	templates   map[db.TemplateTable][]db.SlotTemplate
	shifts      []db.Shift
	attendance  []db.Attendance
	subs        []db.Subscription
	subscribers map[string][]int64
	users       map[int64]*db.User
	cronLogs    []db.CronLog

	tx *stubRolloverTx

	errSubscribers   bool
	errInsertCronLog bool
	errBeginRollover bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		templates:   map[db.TemplateTable][]db.SlotTemplate{},
		subscribers: map[string][]int64{},
		users:       map[int64]*db.User{},
		tx:          &stubRolloverTx{},
	}
}

func (f *fakeStore) ListShiftsBetween(_ context.Context, from, to string) ([]db.Shift, error) {
	var out []db.Shift
	for _, s := range f.shifts {
		if s.Date >= from && s.Date <= to {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) UpsertShift(_ context.Context, shift *db.Shift) error {
	for i, s := range f.shifts {
		if s.Date == shift.Date && s.Start == shift.Start {
			f.shifts[i] = *shift
			return nil
		}
	}
	f.shifts = append(f.shifts, *shift)
	return nil
}

func (f *fakeStore) DeleteShift(_ context.Context, date, start, end string) error {
	for i, s := range f.shifts {
		if s.Date == date && s.Start == start && s.End == end {
			f.shifts = append(f.shifts[:i], f.shifts[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeStore) ListSlotTemplates(_ context.Context, table db.TemplateTable) ([]db.SlotTemplate, error) {
	return f.templates[table], nil
}

func (f *fakeStore) ListAttendance(_ context.Context) ([]db.Attendance, error) {
	return f.attendance, nil
}

func (f *fakeStore) UpsertAttendance(_ context.Context, record *db.Attendance) error {
	for i, a := range f.attendance {
		if a.Date == record.Date && a.Band == record.Band {
			f.attendance[i] = *record
			return nil
		}
	}
	f.attendance = append(f.attendance, *record)
	return nil
}

func (f *fakeStore) SubscriberChatIDs(_ context.Context, category string) ([]int64, error) {
	if f.errSubscribers {
		return nil, errStore
	}
	return f.subscribers[category], nil
}

func (f *fakeStore) ListSubscriptions(_ context.Context, userID int64) ([]db.Subscription, error) {
	var out []db.Subscription
	for _, s := range f.subs {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeStore) UpsertSubscription(_ context.Context, sub *db.Subscription) error {
	for _, s := range f.subs {
		if s.UserID == sub.UserID && s.Category == sub.Category {
			return nil
		}
	}
	f.subs = append(f.subs, *sub)
	return nil
}

func (f *fakeStore) DeleteSubscription(_ context.Context, sub *db.Subscription) error {
	for i, s := range f.subs {
		if s.UserID == sub.UserID && s.Category == sub.Category {
			f.subs = append(f.subs[:i], f.subs[i+1:]...)
			return nil
		}
	}
	return nil
}

func (f *fakeStore) GetUser(_ context.Context, id int64) (*db.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: not found", id)
	}
	return user, nil
}

func (f *fakeStore) VerifySession(_ context.Context, token string) (*db.Session, error) {
	return nil, errors.New("not implemented")
}

func (f *fakeStore) InsertCronLog(_ context.Context, log *db.CronLog) error {
	if f.errInsertCronLog {
		return errStore
	}
	f.cronLogs = append(f.cronLogs, *log)
	return nil
}

func (f *fakeStore) BeginRollover(_ context.Context) (db.RolloverTx, error) {
	if f.errBeginRollover {
		return nil, errStore
	}
	return f.tx, nil
}

// stubRolloverTx answers every rotation step with empty data. It is
// enough for the engine to run end to end when strict verification is
// off; the engine's own behavior is covered in its package tests.
type stubRolloverTx struct {
	committed  bool
	rolledBack bool
	failCommit bool
}

func (t *stubRolloverTx) ListSlotTemplates(context.Context, db.TemplateTable) ([]db.SlotTemplate, error) {
	return nil, nil
}
func (t *stubRolloverTx) ListShiftsBetween(context.Context, string, string) ([]db.Shift, error) {
	return nil, nil
}
func (t *stubRolloverTx) UnlinkShiftTemplates(context.Context) error { return nil }
func (t *stubRolloverTx) ListAttendance(context.Context) ([]db.Attendance, error) {
	return nil, nil
}
func (t *stubRolloverTx) InsertAttendanceArchive(context.Context, []db.AttendanceArchive) error {
	return nil
}
func (t *stubRolloverTx) DeleteAllAttendance(context.Context) error            { return nil }
func (t *stubRolloverTx) InsertShiftArchive(context.Context, []db.Shift) error { return nil }
func (t *stubRolloverTx) DeleteShiftsBetween(context.Context, string, string) error {
	return nil
}
func (t *stubRolloverTx) DeleteAllSlotTemplates(context.Context, db.TemplateTable) error {
	return nil
}
func (t *stubRolloverTx) InsertSlotTemplates(context.Context, db.TemplateTable, []db.SlotTemplate) error {
	return nil
}
func (t *stubRolloverTx) InsertShifts(context.Context, []db.Shift) error { return nil }
func (t *stubRolloverTx) CountSlotTemplates(context.Context, db.TemplateTable) (int, error) {
	return 0, nil
}
func (t *stubRolloverTx) CountShiftsBetween(context.Context, string, string) (int, error) {
	return 0, nil
}

func (t *stubRolloverTx) Commit(context.Context) error {
	if t.failCommit {
		return errStore
	}
	t.committed = true
	return nil
}

func (t *stubRolloverTx) Rollback(context.Context) error {
	t.rolledBack = true
	return nil
}

// fakeSender records every delivery and can fail specific chat ids.
type fakeSender struct {
	sent    []sentMessage
	failFor map[int64]bool
}

type sentMessage struct {
	chatID int64
	text   string
}

func (f *fakeSender) SendMessage(_ context.Context, chatID int64, text string) error {
	if f.failFor[chatID] {
		return fmt.Errorf("chat %d unreachable", chatID)
	}
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text})
	return nil
}
