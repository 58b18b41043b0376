package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/xcelrent/xcelrent-backend/internal/models"
	"github.com/xcelrent/xcelrent-backend/internal/services"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// silenceStatusNotifier keeps the post-commit fanout goroutine off the mock
// connection for the duration of the test.
func silenceStatusNotifier(t *testing.T) {
	t.Helper()
	orig := statusNotifier
	statusNotifier = func(*gorm.DB, *services.Hub, *models.Booking) {}
	t.Cleanup(func() { statusNotifier = orig })
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("error opening mock database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("error opening gorm: %v", err)
	}
	return gdb, mock
}

func cancelRequest(handler gin.HandlerFunc, bookingID string, userID uint) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/api/bookings/"+bookingID+"/cancel", nil)
	c.Params = gin.Params{{Key: "id", Value: bookingID}}
	c.Set("userId", userID)
	c.Set("userType", "renter")

	handler(c)
	return w
}

func bookingRows(id, userID, carID uint, status string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "reference", "user_id", "car_id", "car_model", "status"}).
		AddRow(id, "ref-abc", userID, carID, "Toyota Vios", status)
}

func TestCancelBooking(t *testing.T) {
	silenceStatusNotifier(t)

	t.Run("CommitsBookingAndCarTogether", func(t *testing.T) {
		gdb, mock := setupMockDB(t)

		mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
			WillReturnRows(bookingRows(5, 42, 7, "Pending"))

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "bookings" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "cars" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		w := cancelRequest(CancelBooking(gdb, services.NewHub()), "5", 42)

		assert.Equal(t, 200, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())

		var resp map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		booking := resp["booking"].(map[string]interface{})
		assert.Equal(t, "Cancelled", booking["status"])
	})

	t.Run("RollsBackWhenCarReleaseFails", func(t *testing.T) {
		gdb, mock := setupMockDB(t)

		mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
			WillReturnRows(bookingRows(5, 42, 7, "Confirmed"))

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "bookings" SET`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(`UPDATE "cars" SET`).
			WillReturnError(assert.AnError)
		mock.ExpectRollback()

		w := cancelRequest(CancelBooking(gdb, services.NewHub()), "5", 42)

		assert.Equal(t, 500, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RejectsWhenStatusMovedUnderneath", func(t *testing.T) {
		gdb, mock := setupMockDB(t)

		// Read sees a cancellable booking, but an admin advance lands
		// before the guarded update; zero rows means roll back.
		mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
			WillReturnRows(bookingRows(5, 42, 7, "Confirmed"))

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "bookings" SET`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectRollback()

		w := cancelRequest(CancelBooking(gdb, services.NewHub()), "5", 42)

		assert.Equal(t, 409, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RejectsOnGoingBooking", func(t *testing.T) {
		gdb, mock := setupMockDB(t)

		mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
			WillReturnRows(bookingRows(5, 42, 7, "On-going"))

		w := cancelRequest(CancelBooking(gdb, services.NewHub()), "5", 42)

		assert.Equal(t, 409, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RejectsCompletedBooking", func(t *testing.T) {
		gdb, mock := setupMockDB(t)

		mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
			WillReturnRows(bookingRows(5, 42, 7, "Completed"))

		w := cancelRequest(CancelBooking(gdb, services.NewHub()), "5", 42)

		assert.Equal(t, 409, w.Code)
	})

	t.Run("NotFoundForOtherUsersBooking", func(t *testing.T) {
		gdb, mock := setupMockDB(t)

		mock.ExpectQuery(`SELECT (.+) FROM "bookings"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))

		w := cancelRequest(CancelBooking(gdb, services.NewHub()), "5", 99)

		assert.Equal(t, 404, w.Code)
	})

	t.Run("BadBookingID", func(t *testing.T) {
		gdb, _ := setupMockDB(t)

		w := cancelRequest(CancelBooking(gdb, services.NewHub()), "abc", 42)

		assert.Equal(t, 400, w.Code)
	})
}
