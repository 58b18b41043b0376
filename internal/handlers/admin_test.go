package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func adminUsersRequest(handler gin.HandlerFunc, query string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/api/admin/users"+query, nil)
	c.Set("userId", uint(1))
	c.Set("userType", "admin")

	handler(c)
	return w
}

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "contact_num", "user_type", "is_verified"}).
		AddRow(2, "Maria", "Santos", "maria@example.com", "09171234567", "renter", true).
		AddRow(1, "Ana", "Reyes", "ana@example.com", "", "admin", true)
}

func TestGetAllUsers(t *testing.T) {
	t.Run("ListsEveryAccount", func(t *testing.T) {
		gdb, mock := setupMockDB(t)

		mock.ExpectQuery(`SELECT (.+) FROM "users"`).
			WillReturnRows(userRows())

		w := adminUsersRequest(GetAllUsers(gdb), "")

		assert.Equal(t, 200, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())

		var resp map[string]interface{}
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, float64(2), resp["count"])

		users := resp["users"].([]interface{})
		first := users[0].(map[string]interface{})
		assert.Equal(t, "Maria Santos", first["fullName"])
		assert.Equal(t, "renter", first["userType"])
	})

	t.Run("FiltersByUserType", func(t *testing.T) {
		gdb, mock := setupMockDB(t)

		mock.ExpectQuery(`SELECT (.+) FROM "users" WHERE user_type`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "email", "user_type"}).
				AddRow(2, "Maria", "Santos", "maria@example.com", "renter"))

		w := adminUsersRequest(GetAllUsers(gdb), "?userType=renter")

		assert.Equal(t, 200, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RejectsUnknownUserType", func(t *testing.T) {
		gdb, _ := setupMockDB(t)

		w := adminUsersRequest(GetAllUsers(gdb), "?userType=driver")

		assert.Equal(t, 400, w.Code)
	})
}
