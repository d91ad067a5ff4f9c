package httpx

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSigner struct {
	url string
	err error
}

func (f *fakeSigner) PresignUpload(_ context.Context, name string) (string, time.Time, error) {
	if f.err != nil {
		return "", time.Time{}, f.err
	}
	return f.url + name, time.Now().Add(time.Hour), nil
}

func importRouter(signer Presigner) http.Handler {
	r := NewRouter()
	(&ImportHandler{Signer: signer}).Register(r)
	return r
}

func TestImportURL_MissingName(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/import", nil)
	importRouter(&fakeSigner{}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message":"Missing name"}`, rec.Body.String())
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestImportURL_IssuesPresignedURL(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/import?name=products.csv", nil)
	importRouter(&fakeSigner{url: "https://bucket.example/uploaded/"}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "https://bucket.example/uploaded/products.csv", body["url"])
	assert.NotEmpty(t, body["expires_at"])
}

func TestImportURL_SigningFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/import?name=products.csv", nil)
	importRouter(&fakeSigner{err: errors.New("signing broke")}).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body["message"])
}
