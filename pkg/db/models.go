package db

// Subscription categories used as notification recipient lists
const (
	CategoryShiftManagers = "gestione_turni"
	CategoryDevelopers    = "sviluppatori"
)

// Shift represents one assignment row in the turni table, keyed by
// (date, start, end) where start/end are always one of the four fixed
// daily windows. Dates are ISO "2006-01-02" strings, times "HH:MM".
type Shift struct {
	Date           string
	Start          string
	End            string
	UserID         *int64
	Note           string
	ClosedOverride bool
	TemplateID     *int64
}

// SlotTemplate represents one configured weekly opening row
// (a "fascia oraria"). Weekday is a lower-case accented Italian day
// name (domenica..sabato). The same struct backs both the current-week
// and next-week tables.
type SlotTemplate struct {
	ID      int64
	Weekday string
	Start   string
	End     string
	Note    string
}

// Attendance represents one headcount row in the presenze table,
// at most one per (date, band).
type Attendance struct {
	Date  string
	Band  string
	Count int
	Note  string
}

// AttendanceArchive is an Attendance row copied into presenze_storico
// during the weekly rollover, with the weekday name derived from the date.
type AttendanceArchive struct {
	Date    string
	Weekday string
	Band    string
	Count   int
	Note    string
}

// Subscription links a user to a named notification category.
type Subscription struct {
	UserID   int64
	Category string
}

// CronLog is one append-only audit row per scheduled task invocation.
type CronLog struct {
	ID        string
	TaskType  string
	Timestamp string
	Status    string
	Message   string
}

// User is the directory entry consumed by reminders and the session layer.
type User struct {
	ID        int64
	Name      string
	Surname   string
	Phone     string
	ChatID    *int64
	Level     int
}

// Session is the resolved identity behind a bearer credential.
type Session struct {
	UserID int64
	Level  int
}
