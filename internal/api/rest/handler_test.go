package rest

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"googly-eyes/internal/domain/entity"
	"googly-eyes/internal/logging"
)

type fakeGooglifier struct {
	result    *entity.GooglifyResult
	err       error
	input     []byte
	requestID string
}

func (f *fakeGooglifier) Googlify(ctx context.Context, imageData []byte) (*entity.GooglifyResult, error) {
	f.input = imageData
	f.requestID = logging.RequestIDFromContext(ctx)
	return f.result, f.err
}

func newTestRouter(t *testing.T, g *fakeGooglifier, dev bool) *gin.Engine {
	t.Helper()
	router, err := NewRouter(NewHandler(g, 1024, nil), RouterOptions{
		DevMode:        dev,
		RateLimitRPS:   1000,
		RateLimitBurst: 1000,
	})
	require.NoError(t, err)
	return router
}

func postJSON(t *testing.T, router http.Handler, body any) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/googlify/", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func detail(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["detail"]
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(t, &fakeGooglifier{}, false).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
	require.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}

func TestGooglify_Success(t *testing.T) {
	g := &fakeGooglifier{result: &entity.GooglifyResult{State: entity.StateEncodedResult, Image: []byte("png-bytes")}}
	router := newTestRouter(t, g, false)

	rec := postJSON(t, router, ImageBase64{Base64Str: base64.StdEncoding.EncodeToString([]byte("jpeg-bytes"))})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []byte("jpeg-bytes"), g.input)

	var resp ImageBase64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	out, err := base64.StdEncoding.DecodeString(resp.Base64Str)
	require.NoError(t, err)
	require.Equal(t, []byte("png-bytes"), out)
	require.Equal(t, rec.Header().Get(RequestIDHeader), g.requestID)
}

func TestGooglify_NoFacesIsSuccess(t *testing.T) {
	g := &fakeGooglifier{result: &entity.GooglifyResult{State: entity.StateNoFacesFound, Image: []byte("original")}}

	rec := postJSON(t, newTestRouter(t, g, false), ImageBase64{Base64Str: base64.StdEncoding.EncodeToString([]byte("original"))})
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGooglify_BadRequests(t *testing.T) {
	g := &fakeGooglifier{result: &entity.GooglifyResult{State: entity.StateDecodeFailed}}
	router := newTestRouter(t, g, false)

	rec := postJSON(t, router, ImageBase64{Base64Str: "string"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, msgUnsupportedFile, detail(t, rec))

	rec = postJSON(t, router, map[string]int{"image": 1})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, msgUnsupportedFile, detail(t, rec))

	rec = postJSON(t, router, ImageBase64{Base64Str: base64.StdEncoding.EncodeToString([]byte("garbage"))})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, msgCorruptFile, detail(t, rec))
}

func TestGooglify_RuntimeFailure(t *testing.T) {
	g := &fakeGooglifier{err: errors.New("forward failed")}

	rec := postJSON(t, newTestRouter(t, g, false), ImageBase64{Base64Str: base64.StdEncoding.EncodeToString([]byte("x"))})
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Equal(t, msgInternal, detail(t, rec))
}

func TestGooglify_RequestIDFromHeader(t *testing.T) {
	g := &fakeGooglifier{result: &entity.GooglifyResult{State: entity.StateNoFacesFound}}
	body, _ := json.Marshal(ImageBase64{Base64Str: base64.StdEncoding.EncodeToString([]byte("x"))})

	req := httptest.NewRequest(http.MethodPost, "/googlify/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(RequestIDHeader, "trace-42")
	rec := httptest.NewRecorder()
	newTestRouter(t, g, false).ServeHTTP(rec, req)

	require.Equal(t, "trace-42", rec.Header().Get(RequestIDHeader))
	require.Equal(t, "trace-42", g.requestID)
}

func uploadRequest(t *testing.T, contentType string, data []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="photo"`)
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/googlify_upload_file/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploadFile_OnlyInDevMode(t *testing.T) {
	g := &fakeGooglifier{result: &entity.GooglifyResult{State: entity.StateEncodedResult, Image: []byte("png")}}

	rec := httptest.NewRecorder()
	newTestRouter(t, g, false).ServeHTTP(rec, uploadRequest(t, "image/png", []byte("img")))
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	newTestRouter(t, g, true).ServeHTTP(rec, uploadRequest(t, "image/png", []byte("img")))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	require.Equal(t, "png", rec.Body.String())
	require.Equal(t, []byte("img"), g.input)
}

func TestUploadFile_Errors(t *testing.T) {
	g := &fakeGooglifier{result: &entity.GooglifyResult{State: entity.StateDecodeFailed}}
	router := newTestRouter(t, g, true)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "application/pdf", []byte("pdf")))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, msgUnsupportedFile, detail(t, rec))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "image/jpeg", []byte("broken")))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Equal(t, msgCorruptFile, detail(t, rec))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, uploadRequest(t, "image/png", bytes.Repeat([]byte{1}, 2048)))
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}
