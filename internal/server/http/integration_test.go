package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/imgbox/internal/cryptox"
	"github.com/dmitrijs2005/imgbox/internal/logging"
	"github.com/dmitrijs2005/imgbox/internal/server/models"
	"github.com/dmitrijs2005/imgbox/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/imgbox/internal/server/services"
	"github.com/dmitrijs2005/imgbox/internal/server/shared/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteHandler(t *testing.T) (http.Handler, string) {
	t.Helper()
	ctx := context.Background()
	log := logging.NewNopLogger()

	sqlDB, err := db.Open(ctx, db.KindSQLite, filepath.Join(t.TempDir(), "imgbox.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	rm := repomanager.NewSQLiteRepositoryManager(log)
	require.NoError(t, rm.RunMigrations(ctx, sqlDB))

	hash := func(secret []byte) (string, error) {
		return cryptox.HashPasswordWithParams(secret, cryptox.Params{Time: 1, Memory: 8 * 1024, Threads: 1})
	}
	us := services.NewUserService(sqlDB, rm, hash, log)

	uploadDir := filepath.Join(t.TempDir(), "UPLOAD_FILES")
	up, err := services.NewUploadService(uploadDir, 1<<20, log)
	require.NoError(t, err)

	return NewHTTPServer("127.0.0.1:0", log, us, up, sqlDB, 5*time.Second).Handler(), up.Dir()
}

func register(name, email, password string) *http.Request {
	q := url.Values{"name": {name}, "email": {email}, "password": {password}}
	return httptest.NewRequest(http.MethodPost, "/users?"+q.Encode(), nil)
}

func TestSQLite_RegistrationScenario(t *testing.T) {
	h, _ := newSQLiteHandler(t)

	rec := do(t, h, httptest.NewRequest(http.MethodGet, "/users", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(t, h, register("Ann", "ann@example.com", "secretpw1"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.JSONEq(t, `{"id":1,"name":"Ann","email":"ann@example.com"}`, rec.Body.String())

	rec = do(t, h, register("Bob", "ann@example.com", "other1234"))
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(t, h, register("B", "bob@example.com", "other1234"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, httptest.NewRequest(http.MethodGet, "/user?id=1", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.User{ID: 1, Name: "Ann", Email: "ann@example.com"}, decode[models.User](t, rec))

	rec = do(t, h, httptest.NewRequest(http.MethodGet, "/user?id=99", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, httptest.NewRequest(http.MethodGet, "/users", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"name":"Ann","email":"ann@example.com"}]`, rec.Body.String())

	rec = do(t, h, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSQLite_PhotoLandsOnDisk(t *testing.T) {
	h, dir := newSQLiteHandler(t)

	rec := do(t, h, multipartRequest(t, "/photo", formPart{field: "photo", filename: "../me.png", data: pngBytes}))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode[photoResponse](t, rec)
	assert.Equal(t, dir, filepath.Dir(body.Location))

	onDisk, err := os.ReadFile(body.Location)
	require.NoError(t, err)
	assert.Equal(t, pngBytes, onDisk)

	rec = do(t, h, multipartRequest(t, "/photo", formPart{field: "photo", filename: "notes.txt", data: []byte("plain text")}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
