package api_test

import (
	"net/http"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeetingsAPI(t *testing.T) {
	t.Parallel()

	organizerID := uuid.MustParse("10000000-0000-0000-0000-000000000001")
	participantID := uuid.MustParse("20000000-0000-0000-0000-000000000002")
	calendarID, slotID := uuid.New(), uuid.New()
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	end := start.Add(time.Hour)

	findUsersQuery := `SELECT id FROM users WHERE id = ANY($1)`
	insertMeetingQuery := `INSERT INTO meetings (id, title, description, organizer_id, slot_id, start_time, end_time, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	insertParticipantQuery := `INSERT INTO meeting_participants (meeting_id, user_id) VALUES ($1, $2)`
	claimQuery := `UPDATE time_slots SET status = 'BUSY', meeting_id = $1 WHERE id = $2 AND status = 'FREE'`
	meetingColumns := []string{"id", "title", "description", "organizer_id", "slot_id", "start_time", "end_time", "created_at"}
	body := `{"slot_id":"` + slotID.String() + `","organizer_id":"` + organizerID.String() + `","title":"Sync","participant_ids":["` + participantID.String() + `"]}`

	expectUsers := func(dbMock sqlmock.Sqlmock, found ...uuid.UUID) {
		rows := sqlmock.NewRows([]string{"id"})
		for _, id := range found {
			rows.AddRow(id.String())
		}
		dbMock.ExpectQuery(regexp.QuoteMeta(findUsersQuery)).
			WithArgs(pq.Array([]string{organizerID.String(), participantID.String()})).
			WillReturnRows(rows)
	}

	t.Run("schedule meeting", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t)

		expectUsers(dbMock, organizerID, participantID)
		dbMock.ExpectBegin()
		dbMock.ExpectQuery(regexp.QuoteMeta(getSlotQuery + ` FOR UPDATE`)).
			WithArgs(slotID).
			WillReturnRows(sqlmock.NewRows(slotColumns).
				AddRow(slotID.String(), calendarID.String(), start, end, "FREE", nil))
		dbMock.ExpectExec(regexp.QuoteMeta(insertMeetingQuery)).
			WithArgs(sqlmock.AnyArg(), "Sync", nil, organizerID, slotID, start, end, fixedNow).
			WillReturnResult(sqlmock.NewResult(1, 1))
		dbMock.ExpectExec(regexp.QuoteMeta(insertParticipantQuery)).
			WithArgs(sqlmock.AnyArg(), participantID).
			WillReturnResult(sqlmock.NewResult(1, 1))
		dbMock.ExpectExec(regexp.QuoteMeta(claimQuery)).
			WithArgs(sqlmock.AnyArg(), slotID).
			WillReturnResult(sqlmock.NewResult(0, 1))
		dbMock.ExpectCommit()

		rec, res := do(t, a, http.MethodPost, "/api/meetings", body)

		require.NoError(t, dbMock.ExpectationsWereMet())
		assert.Equal(t, http.StatusCreated, rec.Code)
		created, ok := res.Response.(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "Sync", created["title"])
		assert.Equal(t, "2026-03-02T09:00:00Z", created["start_time"])
		assert.Equal(t, []any{participantID.String()}, created["participant_ids"])
		assert.NotContains(t, created, "description")
	})

	t.Run("schedule meeting on booked slot", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t)

		expectUsers(dbMock, organizerID, participantID)
		dbMock.ExpectBegin()
		dbMock.ExpectQuery(regexp.QuoteMeta(getSlotQuery + ` FOR UPDATE`)).
			WithArgs(slotID).
			WillReturnRows(sqlmock.NewRows(slotColumns).
				AddRow(slotID.String(), calendarID.String(), start, end, "BUSY", uuid.NewString()))
		dbMock.ExpectRollback()

		rec, res := do(t, a, http.MethodPost, "/api/meetings", body)

		require.NoError(t, dbMock.ExpectationsWereMet())
		assert.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, res.Response, "slot already booked")
	})

	t.Run("schedule meeting unknown participant", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t)

		expectUsers(dbMock, organizerID)

		rec, res := do(t, a, http.MethodPost, "/api/meetings", body)

		require.NoError(t, dbMock.ExpectationsWereMet())
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Contains(t, res.Response, participantID.String())
	})

	t.Run("schedule meeting invalid participant ID", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t)

		invalid := strings.Replace(body, participantID.String(), "nope", 1)
		rec, _ := do(t, a, http.MethodPost, "/api/meetings", invalid)

		require.NoError(t, dbMock.ExpectationsWereMet())
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("storage failure is hidden", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t)

		dbMock.ExpectQuery(regexp.QuoteMeta(findUsersQuery)).
			WillReturnError(assert.AnError)

		rec, res := do(t, a, http.MethodPost, "/api/meetings", body)

		require.NoError(t, dbMock.ExpectationsWereMet())
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "internal server error", res.Response)
	})

	t.Run("get meeting not found", func(t *testing.T) {
		t.Parallel()
		a, dbMock := setupAPI(t)

		meetingID := uuid.New()
		dbMock.ExpectQuery(regexp.QuoteMeta(`SELECT id, title, description, organizer_id, slot_id, start_time, end_time, created_at FROM meetings WHERE id = $1`)).
			WithArgs(meetingID).
			WillReturnRows(sqlmock.NewRows(meetingColumns))

		rec, _ := do(t, a, http.MethodGet, "/api/meetings/"+meetingID.String(), "")

		require.NoError(t, dbMock.ExpectationsWereMet())
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("list and export meetings by user", func(t *testing.T) {
		t.Parallel()

		listQuery := `SELECT id, title, description, organizer_id, slot_id, start_time, end_time, created_at FROM meetings WHERE organizer_id = $1 OR id IN (SELECT meeting_id FROM meeting_participants WHERE user_id = $1) ORDER BY start_time, id`
		participantsQuery := `SELECT meeting_id, user_id FROM meeting_participants WHERE meeting_id = ANY($1) ORDER BY meeting_id, user_id`
		meetingID := uuid.New()

		for _, path := range []string{"/meetings", "/meetings.ics"} {
			a, dbMock := setupAPI(t)

			dbMock.ExpectQuery(regexp.QuoteMeta(listQuery)).
				WithArgs(participantID).
				WillReturnRows(sqlmock.NewRows(meetingColumns).
					AddRow(meetingID.String(), "Sync", "weekly", organizerID.String(), slotID.String(), start, end, fixedNow))
			dbMock.ExpectQuery(regexp.QuoteMeta(participantsQuery)).
				WithArgs(pq.Array([]string{meetingID.String()})).
				WillReturnRows(sqlmock.NewRows([]string{"meeting_id", "user_id"}).
					AddRow(meetingID.String(), participantID.String()))

			rec, res := do(t, a, http.MethodGet, "/api/users/"+participantID.String()+path, "")

			require.NoError(t, dbMock.ExpectationsWereMet())
			assert.Equal(t, http.StatusOK, rec.Code)
			if path == "/meetings" {
				got, ok := res.Response.(map[string]any)
				require.True(t, ok)
				assert.Len(t, got["meetings"], 1)
				continue
			}
			assert.Equal(t, "text/calendar; charset=utf-8", rec.Header().Get("Content-Type"))
			assert.Contains(t, rec.Body.String(), "BEGIN:VCALENDAR")
			assert.Contains(t, rec.Body.String(), "UID:"+meetingID.String())
		}
	})
}
