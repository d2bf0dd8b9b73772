package db

import (
	"context"
	"errors"
)

// ErrNotFound is returned for lookups with no matching row.
var ErrNotFound = errors.New("not found")

// ErrSessionExpired is returned for a known but expired credential.
var ErrSessionExpired = errors.New("session expired")

// TemplateTable selects which of the two fasce orarie tables an
// operation targets.
type TemplateTable int

const (
	TemplateCurrent TemplateTable = iota
	TemplateNext
)

// ShiftStore defines the assignment operations used by the user-facing
// API. Writers here only touch the current and next weeks; cross-week
// deletion and recreation is reserved to the rollover transaction.
type ShiftStore interface {
	ListShiftsBetween(ctx context.Context, from, to string) ([]Shift, error)
	UpsertShift(ctx context.Context, shift *Shift) error
	DeleteShift(ctx context.Context, date, start, end string) error
}

// TemplateStore reads the configured weekly openings.
type TemplateStore interface {
	ListSlotTemplates(ctx context.Context, table TemplateTable) ([]SlotTemplate, error)
}

// AttendanceStore defines the headcount operations used during the week.
type AttendanceStore interface {
	ListAttendance(ctx context.Context) ([]Attendance, error)
	UpsertAttendance(ctx context.Context, record *Attendance) error
}

// SubscriptionStore resolves and maintains notification recipient lists.
type SubscriptionStore interface {
	SubscriberChatIDs(ctx context.Context, category string) ([]int64, error)
	ListSubscriptions(ctx context.Context, userID int64) ([]Subscription, error)
	UpsertSubscription(ctx context.Context, sub *Subscription) error
	DeleteSubscription(ctx context.Context, sub *Subscription) error
}

// UserStore is the directory lookup consumed by reminders and auth.
type UserStore interface {
	GetUser(ctx context.Context, id int64) (*User, error)
	VerifySession(ctx context.Context, token string) (*Session, error)
}

// CronLogStore appends scheduled-task audit rows. Rows are never
// mutated or deleted.
type CronLogStore interface {
	InsertCronLog(ctx context.Context, log *CronLog) error
}

// RolloverTx is the transactional surface of the weekly rotation: every
// method runs on the same database transaction, and nothing is visible
// to other connections until Commit. Rollback must leave all tables
// byte-for-byte unchanged.
type RolloverTx interface {
	ListSlotTemplates(ctx context.Context, table TemplateTable) ([]SlotTemplate, error)
	ListShiftsBetween(ctx context.Context, from, to string) ([]Shift, error)
	UnlinkShiftTemplates(ctx context.Context) error
	ListAttendance(ctx context.Context) ([]Attendance, error)
	InsertAttendanceArchive(ctx context.Context, rows []AttendanceArchive) error
	DeleteAllAttendance(ctx context.Context) error
	InsertShiftArchive(ctx context.Context, rows []Shift) error
	DeleteShiftsBetween(ctx context.Context, from, to string) error
	DeleteAllSlotTemplates(ctx context.Context, table TemplateTable) error
	InsertSlotTemplates(ctx context.Context, table TemplateTable, rows []SlotTemplate) error
	InsertShifts(ctx context.Context, rows []Shift) error
	CountSlotTemplates(ctx context.Context, table TemplateTable) (int, error)
	CountShiftsBetween(ctx context.Context, from, to string) (int, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Store is the full set of database operations. The postgres.DB
// implementation satisfies it; tests substitute fakes for the slices
// they need.
type Store interface {
	ShiftStore
	TemplateStore
	AttendanceStore
	SubscriptionStore
	UserStore
	CronLogStore
	BeginRollover(ctx context.Context) (RolloverTx, error)
}
