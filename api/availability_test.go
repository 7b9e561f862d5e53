package api_test

import (
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAvailabilityAPI(t *testing.T) {
	t.Parallel()

	calendarsQuery := `SELECT id, user_id, name, created_at FROM calendars WHERE user_id = $1 ORDER BY created_at, id`
	slotsQuery := `SELECT id, calendar_id, start_time, end_time, status, meeting_id FROM time_slots WHERE calendar_id = $1 AND start_time < $2 AND end_time > $3 ORDER BY start_time, id`

	t.Run("explicit range", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t)

		userID, calendarID := uuid.New(), uuid.New()
		from := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
		to := from.Add(24 * time.Hour)

		dbMock.ExpectQuery(regexp.QuoteMeta(calendarsQuery)).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "created_at"}).
				AddRow(calendarID.String(), userID.String(), "Work", fixedNow))
		dbMock.ExpectQuery(regexp.QuoteMeta(slotsQuery)).
			WithArgs(calendarID, to, from).
			WillReturnRows(sqlmock.NewRows(slotColumns).
				AddRow(uuid.NewString(), calendarID.String(), from.Add(9*time.Hour), from.Add(10*time.Hour), "FREE", nil).
				AddRow(uuid.NewString(), calendarID.String(), from.Add(10*time.Hour), from.Add(11*time.Hour), "BUSY", uuid.NewString()))

		rec, res := do(t, a, http.MethodGet, "/api/users/"+userID.String()+"/availability?from=2026-03-02T00:00:00&to=2026-03-03T00:00:00", "")

		require.NoError(t, dbMock.ExpectationsWereMet())
		assert.Equal(t, http.StatusOK, rec.Code)
		body, ok := res.Response.(map[string]any)
		require.True(t, ok)
		items, ok := body["items"].([]any)
		require.True(t, ok)
		require.Len(t, items, 2)
		first := items[0].(map[string]any)
		assert.Equal(t, "FREE", first["status"])
		assert.Equal(t, "2026-03-02T09:00:00Z", first["start_time"])
	})

	t.Run("defaults to the next seven days", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t)

		userID := uuid.New()
		dbMock.ExpectQuery(regexp.QuoteMeta(calendarsQuery)).
			WithArgs(userID).
			WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "created_at"}))

		rec, res := do(t, a, http.MethodGet, "/api/users/"+userID.String()+"/availability", "")

		require.NoError(t, dbMock.ExpectationsWereMet())
		assert.Equal(t, http.StatusOK, rec.Code)
		body, ok := res.Response.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "2026-03-01T12:00:00Z", body["from"])
		assert.Equal(t, "2026-03-08T12:00:00Z", body["to"])
		assert.Empty(t, body["items"])
	})

	t.Run("inverted range", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t)

		rec, _ := do(t, a, http.MethodGet, "/api/users/"+uuid.NewString()+"/availability?from=2026-03-03T00:00:00&to=2026-03-02T00:00:00", "")

		require.NoError(t, dbMock.ExpectationsWereMet())
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
