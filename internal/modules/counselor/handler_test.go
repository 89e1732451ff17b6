package counselor

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"eduportal/internal/database"
	"eduportal/internal/domain"
	"eduportal/internal/repository"
)

func setupRouter(t *testing.T) (*gin.Engine, *repository.CounselorRepository) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	binding.EnableDecoderDisallowUnknownFields = true

	db, err := database.Connect(":memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	repo := repository.NewCounselorRepository(db)
	router := gin.New()
	NewHandler(NewService(repo, zap.NewNop())).RegisterRoutes(router)
	return router, repo
}

func doJSON(router *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandler_CreateHashesPassword(t *testing.T) {
	router, repo := setupRouter(t)

	rec := doJSON(router, http.MethodPost, "/add_new_counselor",
		`{"id":7,"name":"Jane Doe","username":"jane","email":"jane@example.com","password":"s3cret!"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	stored, err := repo.GetByUsername(context.Background(), "jane")
	require.NoError(t, err)
	assert.Equal(t, int64(7), stored.CounselorID)
	assert.NotEqual(t, "s3cret!", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cret!")))

	rec = doJSON(router, http.MethodPost, "/add_new_counselor", `{"name":"Other","username":"jane"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = doJSON(router, http.MethodPost, "/add_new_counselor", `{"name":"No Username"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_ListOmitsPasswordHash(t *testing.T) {
	router, repo := setupRouter(t)
	c := &domain.Counselor{CounselorID: 1, Name: "Jane", Username: "jane"}
	require.NoError(t, c.SetPassword("s3cret!"))
	require.NoError(t, repo.Create(context.Background(), c))

	rec := doJSON(router, http.MethodGet, "/all_counselor_data", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "passwordHash")
	assert.NotContains(t, rec.Body.String(), c.PasswordHash)

	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "jane", list[0]["username"])
}

func TestHandler_Me(t *testing.T) {
	router, repo := setupRouter(t)
	c := &domain.Counselor{CounselorID: 1, Name: "Jane Doe", Username: "jane"}
	require.NoError(t, repo.Create(context.Background(), c))

	rec := doJSON(router, http.MethodGet, "/api/counselors/me?counselorUsername=jane", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"`+c.ID+`","name":"Jane Doe","username":"jane"}`, rec.Body.String())

	rec = doJSON(router, http.MethodGet, "/api/counselors/me", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"Counselor username is required"}`, rec.Body.String())

	rec = doJSON(router, http.MethodGet, "/api/counselors/me?counselorUsername=ghost", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandler_Updates(t *testing.T) {
	router, repo := setupRouter(t)
	ctx := context.Background()
	c := &domain.Counselor{CounselorID: 42, Name: "Jane", Username: "jane", Phone: "111"}
	require.NoError(t, repo.Create(ctx, c))
	require.NoError(t, repo.Create(ctx, &domain.Counselor{CounselorID: 43, Name: "Omar", Username: "omar"}))

	rec := doJSON(router, http.MethodPatch, "/api/counselors/42", `{"designation":"Senior"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(router, http.MethodPatch, "/update_counselor_data/"+c.ID, `{"profileImage":"/uploads/1-jane.png","password":"n3w-pass"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(router, http.MethodPatch, "/update_account_counselor_information/"+c.ID, `{"name":"Jane Doe"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	stored, err := repo.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", stored.Name)
	assert.Equal(t, "Senior", stored.Designation)
	assert.Equal(t, "111", stored.Phone)
	assert.Equal(t, "/uploads/1-jane.png", stored.ProfileImage)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("n3w-pass")))

	rec = doJSON(router, http.MethodPatch, "/api/counselors/42", `{"username":"omar"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	assert.Equal(t, http.StatusNotFound, doJSON(router, http.MethodPatch, "/api/counselors/99", `{"name":"x"}`).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(router, http.MethodPatch, "/update_counselor_data/missing", `{"name":"x"}`).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(router, http.MethodPatch, "/api/counselors/42", `{"passwordHash":"x"}`).Code)
}

func TestHandler_Delete(t *testing.T) {
	router, repo := setupRouter(t)
	require.NoError(t, repo.Create(context.Background(), &domain.Counselor{CounselorID: 5, Username: "jane"}))

	rec := doJSON(router, http.MethodDelete, "/api/counselors/5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Counselor deleted successfully","deletedCount":1}`, rec.Body.String())

	rec = doJSON(router, http.MethodDelete, "/api/counselors/5", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"error":"Counselor not found"}`, rec.Body.String())

	assert.Equal(t, http.StatusNotFound, doJSON(router, http.MethodDelete, "/api/counselors/abc", "").Code)
}
