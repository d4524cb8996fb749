package controller

import (
	"bytes"
	"encoding/json"
	"errors"
	"mathtrack_backend/internal/service"
	"mathtrack_backend/internal/util"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func perform(r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, util.Response) {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp util.Response
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w, resp
}

func TestRespondError(t *testing.T) {
	r := gin.New()
	r.GET("/known", func(ctx *gin.Context) { respondError(ctx, util.ErrNothingNew) })
	r.GET("/unknown", func(ctx *gin.Context) { respondError(ctx, errors.New("db down")) })

	w, resp := perform(r, http.MethodGet, "/known", "")
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, util.ErrNothingNew.Error(), resp.Message)

	w, resp = perform(r, http.MethodGet, "/unknown", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "Internal server error", resp.Message)
}

func TestRegisterValidation(t *testing.T) {
	r := gin.New()
	r.POST("/register", NewAuthController(nil).Register)

	tests := []struct {
		name string
		body string
	}{
		{"missing email", `{"username":"ada","password":"12345678"}`},
		{"bad email", `{"username":"ada","email":"nope","password":"12345678"}`},
		{"short password", `{"username":"ada","email":"ada@example.com","password":"1234"}`},
		{"short username", `{"username":"a","email":"ada@example.com","password":"12345678"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, _ := perform(r, http.MethodPost, "/register", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestSubmissionValidation(t *testing.T) {
	c := NewSubmissionController(nil, nil)
	r := gin.New()
	r.POST("/books/:slug/submissions", c.Upload)
	r.POST("/books/:slug/mark-done", c.MarkDone)
	r.DELETE("/submissions/:id", c.Undo)

	w, resp := perform(r, http.MethodPost, "/books/calc/submissions", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, util.ErrNoExercisesSelected.Error(), resp.Message)

	w, _ = perform(r, http.MethodPost, "/books/calc/mark-done", `{"exerciseIds":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, resp = perform(r, http.MethodDelete, "/submissions/abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid id", resp.Message)
}

func TestCreatePlanValidation(t *testing.T) {
	r := gin.New()
	r.POST("/plans", NewWeeklyPlanController(nil).CreatePlan)

	w, _ := perform(r, http.MethodPost, "/plans", `{"bookId":1,"mode":"weekly"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = perform(r, http.MethodPost, "/plans", `{"bookId":1,"mode":"chapterwise","deadlineDay":"someday"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w, _ = perform(r, http.MethodPost, "/plans", `{"bookId":1,"mode":"chapterwise","deadlineHour":24}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListCompanions(t *testing.T) {
	r := gin.New()
	r.GET("/companions", NewUserController(nil, service.NewCompanionService()).ListCompanions)

	w, resp := perform(r, http.MethodGet, "/companions", "")
	require.Equal(t, http.StatusOK, w.Code)

	list, ok := resp.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, list, len(service.NewCompanionService().List()))
}
