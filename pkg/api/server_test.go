package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aulastudio-aps/gestionale/pkg/core/notify"
	"github.com/aulastudio-aps/gestionale/pkg/core/services"
	"github.com/aulastudio-aps/gestionale/pkg/db"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testCronToken = "segreto"

// Wednesday 2026-01-07 10:00, an unscheduled minute.
var quietNow = time.Date(2026, time.January, 7, 10, 0, 0, 0, time.UTC)

type fixedClock struct{ at time.Time }

func (c fixedClock) Now() time.Time { return c.at }

type noopSender struct{}

func (noopSender) SendMessage(context.Context, int64, string) error { return nil }

// memStore is an in-memory db.Store for handler tests.
type memStore struct {
	sessions   map[string]*db.Session
	shifts     []db.Shift
	attendance []db.Attendance
	subs       []db.Subscription
	cronLogs   []db.CronLog

	sessionErr  error
	rolloverErr error
}

func newMemStore() *memStore {
	return &memStore{sessions: map[string]*db.Session{}}
}

func (m *memStore) ListShiftsBetween(_ context.Context, from, to string) ([]db.Shift, error) {
	var out []db.Shift
	for _, s := range m.shifts {
		if s.Date >= from && s.Date <= to {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) UpsertShift(_ context.Context, shift *db.Shift) error {
	m.shifts = append(m.shifts, *shift)
	return nil
}

func (m *memStore) DeleteShift(_ context.Context, date, start, end string) error {
	for i, s := range m.shifts {
		if s.Date == date && s.Start == start && s.End == end {
			m.shifts = append(m.shifts[:i], m.shifts[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memStore) ListSlotTemplates(context.Context, db.TemplateTable) ([]db.SlotTemplate, error) {
	return nil, nil
}

func (m *memStore) ListAttendance(context.Context) ([]db.Attendance, error) {
	return m.attendance, nil
}

func (m *memStore) UpsertAttendance(_ context.Context, record *db.Attendance) error {
	m.attendance = append(m.attendance, *record)
	return nil
}

func (m *memStore) SubscriberChatIDs(context.Context, string) ([]int64, error) {
	return nil, nil
}

func (m *memStore) ListSubscriptions(_ context.Context, userID int64) ([]db.Subscription, error) {
	var out []db.Subscription
	for _, s := range m.subs {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (m *memStore) UpsertSubscription(_ context.Context, sub *db.Subscription) error {
	m.subs = append(m.subs, *sub)
	return nil
}

func (m *memStore) DeleteSubscription(_ context.Context, sub *db.Subscription) error {
	for i, s := range m.subs {
		if s.UserID == sub.UserID && s.Category == sub.Category {
			m.subs = append(m.subs[:i], m.subs[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memStore) GetUser(_ context.Context, id int64) (*db.User, error) {
	return nil, db.ErrNotFound
}

func (m *memStore) VerifySession(_ context.Context, token string) (*db.Session, error) {
	if m.sessionErr != nil {
		return nil, m.sessionErr
	}
	session, ok := m.sessions[token]
	if !ok {
		return nil, db.ErrNotFound
	}
	return session, nil
}

func (m *memStore) InsertCronLog(_ context.Context, log *db.CronLog) error {
	m.cronLogs = append(m.cronLogs, *log)
	return nil
}

func (m *memStore) BeginRollover(context.Context) (db.RolloverTx, error) {
	if m.rolloverErr != nil {
		return nil, m.rolloverErr
	}
	return nil, errors.New("rollover not supported in this fake")
}

func newTestServer(store *memStore, now time.Time) *Server {
	deps := services.TaskDeps{
		Store:  store,
		Sender: noopSender{},
		Logger: zap.NewNop(),
		Rate:   notify.RatePolicy{},
	}
	return New(deps, fixedClock{at: now}, testCronToken, zap.NewNop())
}

func doRequest(t *testing.T, server *Server, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	rec := httptest.NewRecorder()
	server.Router().ServeHTTP(rec, req)
	return rec
}

func authHeaders() map[string]string {
	return map[string]string{"Authorization": "Bearer buono"}
}

func storeWithSession() *memStore {
	store := newMemStore()
	store.sessions["buono"] = &db.Session{UserID: 7, Level: 1}
	return store
}

func TestHealth(t *testing.T) {
	rec := doRequest(t, newTestServer(newMemStore(), quietNow), http.MethodGet, "/api/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestCronTrigger_RequiresToken(t *testing.T) {
	server := newTestServer(newMemStore(), quietNow)

	rec := doRequest(t, server, http.MethodPost, "/api/cron/trigger", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, server, http.MethodPost, "/api/cron/trigger", "", map[string]string{"X-Cron-Token": "sbagliato"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCronTrigger_SuccessContract(t *testing.T) {
	store := newMemStore()
	rec := doRequest(t, newTestServer(store, quietNow), http.MethodPost, "/api/cron/trigger", "", map[string]string{"X-Cron-Token": testCronToken})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Message   string `json:"message"`
		TaskType  string `json:"taskType"`
		Timestamp string `json:"timestamp"`
		Executed  bool   `json:"executed"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "general", body.TaskType)
	assert.True(t, body.Executed)
	assert.Equal(t, quietNow.Format(time.RFC3339), body.Timestamp)

	// Every trigger leaves an audit row.
	require.Len(t, store.cronLogs, 1)
	assert.Equal(t, "general", store.cronLogs[0].TaskType)
}

func TestCronTrigger_FailureContract(t *testing.T) {
	store := newMemStore()
	store.rolloverErr = fmt.Errorf("connection refused")
	sundayNight := time.Date(2026, time.January, 11, 23, 59, 0, 0, time.UTC)

	rec := doRequest(t, newTestServer(store, sundayNight), http.MethodPost, "/api/cron/trigger", "", map[string]string{"X-Cron-Token": testCronToken})
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var body struct {
		Error     string `json:"error"`
		Timestamp string `json:"timestamp"`
		Details   string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "scheduled task failed", body.Error)
	assert.NotEmpty(t, body.Timestamp)
	assert.Contains(t, body.Details, "connection refused")

	require.Len(t, store.cronLogs, 1)
	assert.Equal(t, "error", store.cronLogs[0].Status)
}

func TestCronSchedule(t *testing.T) {
	rec := doRequest(t, newTestServer(newMemStore(), quietNow), http.MethodGet, "/api/cron/schedule", "", map[string]string{"X-Cron-Token": testCronToken})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Upcoming []struct {
			TaskType string `json:"taskType"`
			At       string `json:"at"`
		} `json:"upcoming"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	// 4 shift reminders + 4 attendance reminders + report + rollover.
	assert.Len(t, body.Upcoming, 10)
}

func TestSessionAuth(t *testing.T) {
	store := storeWithSession()
	server := newTestServer(store, quietNow)

	rec := doRequest(t, server, http.MethodGet, "/api/turni", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, server, http.MethodGet, "/api/turni", "", map[string]string{"Authorization": "Bearer ignoto"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid session")

	store.sessionErr = db.ErrSessionExpired
	rec = doRequest(t, server, http.MethodGet, "/api/turni", "", authHeaders())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "session expired")
}

func TestListShifts(t *testing.T) {
	server := newTestServer(storeWithSession(), quietNow)

	rec := doRequest(t, server, http.MethodGet, "/api/turni?week=1", "", authHeaders())
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Slots []struct {
			Date    string `json:"date"`
			Weekday string `json:"weekday"`
		} `json:"slots"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Slots, 28)
	assert.Equal(t, "2026-01-12", body.Slots[0].Date)

	rec = doRequest(t, server, http.MethodGet, "/api/turni?week=5", "", authHeaders())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestClaimAndReleaseShift(t *testing.T) {
	store := storeWithSession()
	server := newTestServer(store, quietNow)

	body := `{"date":"2026-01-08","start":"09:00","end":"13:00","note":"apro io"}`
	rec := doRequest(t, server, http.MethodPut, "/api/turni", body, authHeaders())
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, store.shifts, 1)
	require.NotNil(t, store.shifts[0].UserID)
	assert.Equal(t, int64(7), *store.shifts[0].UserID)

	rec = doRequest(t, server, http.MethodDelete, "/api/turni?date=2026-01-08&start=09:00&end=13:00", "", authHeaders())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, store.shifts)
}

func TestClaimShift_BadBody(t *testing.T) {
	server := newTestServer(storeWithSession(), quietNow)
	rec := doRequest(t, server, http.MethodPut, "/api/turni", `{"date":"2026-01-08"}`, authHeaders())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecordAttendance_ZeroCount(t *testing.T) {
	store := storeWithSession()
	server := newTestServer(store, quietNow)

	body := `{"date":"2026-01-07","band":"9-13","count":0}`
	rec := doRequest(t, server, http.MethodPut, "/api/presenze", body, authHeaders())
	require.Equal(t, http.StatusOK, rec.Code)

	require.Len(t, store.attendance, 1)
	assert.Equal(t, 0, store.attendance[0].Count)
}

func TestRecordAttendance_MissingCount(t *testing.T) {
	server := newTestServer(storeWithSession(), quietNow)
	rec := doRequest(t, server, http.MethodPut, "/api/presenze", `{"date":"2026-01-07","band":"9-13"}`, authHeaders())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubscriptions(t *testing.T) {
	store := storeWithSession()
	server := newTestServer(store, quietNow)

	rec := doRequest(t, server, http.MethodPost, "/api/notifiche", `{"category":"gestione_turni"}`, authHeaders())
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, server, http.MethodGet, "/api/notifiche", "", authHeaders())
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"categories":["gestione_turni"]}`, rec.Body.String())

	rec = doRequest(t, server, http.MethodDelete, "/api/notifiche?category=gestione_turni", "", authHeaders())
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, server, http.MethodGet, "/api/notifiche", "", authHeaders())
	assert.JSONEq(t, `{"categories":[]}`, rec.Body.String())

	rec = doRequest(t, server, http.MethodPost, "/api/notifiche", `{"category":"newsletter"}`, authHeaders())
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
