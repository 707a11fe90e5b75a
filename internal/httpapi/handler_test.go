package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hiringMetrics/internal/apperror"
	"hiringMetrics/internal/loader"
	"hiringMetrics/internal/service"
	"hiringMetrics/internal/testutil"
	"hiringMetrics/models"
)

type stubService struct {
	uploadFn   func(ctx context.Context, input service.UploadInput) (loader.Stats, error)
	queryFn    func(ctx context.Context, table string) ([]models.Row, error)
	deleteFn   func(ctx context.Context, input service.DeleteInput) (int64, error)
	truncateFn func(ctx context.Context, table string) (int64, error)
	pingErr    error
}

func (s stubService) Upload(ctx context.Context, input service.UploadInput) (loader.Stats, error) {
	if s.uploadFn == nil {
		return loader.Stats{}, nil
	}
	return s.uploadFn(ctx, input)
}

func (s stubService) Query(ctx context.Context, table string) ([]models.Row, error) {
	if s.queryFn == nil {
		return []models.Row{}, nil
	}
	return s.queryFn(ctx, table)
}

func (s stubService) Delete(ctx context.Context, input service.DeleteInput) (int64, error) {
	if s.deleteFn == nil {
		return 0, nil
	}
	return s.deleteFn(ctx, input)
}

func (s stubService) Truncate(ctx context.Context, table string) (int64, error) {
	if s.truncateFn == nil {
		return 0, nil
	}
	return s.truncateFn(ctx, table)
}

func (s stubService) EmployeesByJobDepartment(ctx context.Context) ([]models.QuarterlyHires, error) {
	return []models.QuarterlyHires{}, nil
}

func (s stubService) DepartmentsWithHighestHiring(ctx context.Context) ([]models.DepartmentHiring, error) {
	return []models.DepartmentHiring{}, nil
}

func (s stubService) RecentUploads(ctx context.Context, limit int) ([]models.Upload, error) {
	return []models.Upload{}, nil
}

func (s stubService) Ping(ctx context.Context) error {
	return s.pingErr
}

func discardLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func multipartBody(t *testing.T, table, fileName, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	mw := multipart.NewWriter(body)
	if table != "" {
		require.NoError(t, mw.WriteField("table", table))
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = io.WriteString(fw, content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return body, mw.FormDataContentType()
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestUpload_LargeFileSpillsToDisk(t *testing.T) {
	content := strings.Repeat("1,Analyst\n", (uploadMemoryBytes/10)+1024)
	var (
		onDisk bool
		size   int64
	)
	svc := stubService{uploadFn: func(ctx context.Context, input service.UploadInput) (loader.Stats, error) {
		_, onDisk = input.Body.(*os.File)
		n, err := io.Copy(io.Discard, input.Body)
		size = n
		return loader.Stats{}, err
	}}
	routes := NewHandler(svc, discardLogger(), 0).Routes()

	body, ct := multipartBody(t, "jobs", "jobs.csv", content)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := serve(routes, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, onDisk, "upload above the memory threshold is read from a temporary file")
	assert.Equal(t, int64(len(content)), size)
}

func TestUpload_MissingFileOrTable(t *testing.T) {
	routes := NewHandler(stubService{}, discardLogger(), 0).Routes()

	body, ct := multipartBody(t, "jobs", "", "")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := serve(routes, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid request", rec.Body.String())

	body, ct = multipartBody(t, "", "jobs.csv", "1,Analyst\n")
	req = httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ct)
	rec = serve(routes, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpload_PassesFileToService(t *testing.T) {
	var got service.UploadInput
	var content string
	routes := NewHandler(stubService{
		uploadFn: func(ctx context.Context, input service.UploadInput) (loader.Stats, error) {
			got = input
			b, err := io.ReadAll(input.Body)
			content = string(b)
			return loader.Stats{}, err
		},
	}, discardLogger(), 0).Routes()

	body, ct := multipartBody(t, "jobs", "jobs.csv", "1,Analyst\n")
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ct)
	rec := serve(routes, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Data uploaded successfully", rec.Body.String())
	assert.Equal(t, "jobs", got.Table)
	assert.Equal(t, "jobs.csv", got.FileName)
	assert.Equal(t, "1,Analyst\n", content)
}

func TestErrorMapping(t *testing.T) {
	routes := NewHandler(stubService{
		queryFn: func(ctx context.Context, table string) ([]models.Row, error) {
			if table == "users" {
				return nil, apperror.New(apperror.CodeUnknownTable, "unknown table: \"users\"")
			}
			return nil, errors.New("database is locked")
		},
	}, discardLogger(), 0).Routes()

	rec := serve(routes, httptest.NewRequest(http.MethodGet, "/query?table=users", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = serve(routes, httptest.NewRequest(http.MethodGet, "/query?table=jobs", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Error: database is locked", rec.Body.String())

	rec = serve(routes, httptest.NewRequest(http.MethodGet, "/query", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDelete_RequiresAllFields(t *testing.T) {
	routes := NewHandler(stubService{}, discardLogger(), 0).Routes()

	form := url.Values{"table": {"jobs"}, "filter_column": {"id"}}
	req := httptest.NewRequest(http.MethodPost, "/delete", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := serve(routes, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	routes := NewHandler(stubService{}, discardLogger(), 0).Routes()
	rec := serve(routes, httptest.NewRequest(http.MethodGet, "/upload", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestHealthcheck(t *testing.T) {
	rec := serve(NewHandler(stubService{}, discardLogger(), 0).Routes(), httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(NewHandler(stubService{pingErr: errors.New("closed")}, discardLogger(), 0).Routes(), httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestCORS(t *testing.T) {
	h := CORS("*", NewHandler(stubService{}, discardLogger(), 0).Routes())

	rec := serve(h, httptest.NewRequest(http.MethodOptions, "/upload", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/healthcheck", nil))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	h := Logging(log.New(&buf, "", 0), NewHandler(stubService{}, discardLogger(), 0).Routes())
	serve(h, httptest.NewRequest(http.MethodGet, "/query", nil))
	assert.Contains(t, buf.String(), "GET /query 400")
}

// End to end against a real SQLite-backed service.

func newIntegrationRoutes(t *testing.T, name string) http.Handler {
	t.Helper()
	d := testutil.OpenInMemoryDB(t, name)
	svc := service.NewHiringService(d, service.Options{TempDir: t.TempDir()}, discardLogger())
	return NewHandler(svc, discardLogger(), 0).Routes()
}

func upload(t *testing.T, routes http.Handler, table, content string) *httptest.ResponseRecorder {
	t.Helper()
	body, ct := multipartBody(t, table, table+".csv", content)
	req := httptest.NewRequest(http.MethodPost, "/upload", body)
	req.Header.Set("Content-Type", ct)
	return serve(routes, req)
}

func TestIntegration_UploadTwiceKeepsFirst(t *testing.T) {
	routes := newIntegrationRoutes(t, "httpuploadtwice")

	require.Equal(t, http.StatusOK, upload(t, routes, "departments", "1,Engineering\n").Code)
	require.Equal(t, http.StatusOK, upload(t, routes, "departments", "1,Marketing\n").Code)

	rec := serve(routes, httptest.NewRequest(http.MethodGet, "/query?table=departments", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var rows []map[string]*string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "1", *rows[0]["id"])
	assert.Equal(t, "Engineering", *rows[0]["department"])
}

func TestIntegration_UnknownTableIsBadRequestEverywhere(t *testing.T) {
	routes := newIntegrationRoutes(t, "httpunknown")

	assert.Equal(t, http.StatusBadRequest, upload(t, routes, "users", "1,x\n").Code)
	assert.Equal(t, http.StatusBadRequest, serve(routes, httptest.NewRequest(http.MethodGet, "/query?table=users", nil)).Code)
	assert.Equal(t, http.StatusBadRequest, serve(routes, httptest.NewRequest(http.MethodPost, "/truncate/users", nil)).Code)

	form := url.Values{"table": {"users"}, "filter_column": {"id"}, "filter_value": {"1"}}
	req := httptest.NewRequest(http.MethodPost, "/delete", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	assert.Equal(t, http.StatusBadRequest, serve(routes, req).Code)
}

func TestIntegration_MalformedRowIsServerError(t *testing.T) {
	routes := newIntegrationRoutes(t, "httpmalformed")

	rec := upload(t, routes, "jobs", "1,Analyst,extra\n")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "Error: "), rec.Body.String())
}

func TestIntegration_DeleteAndTruncateZeroRows(t *testing.T) {
	routes := newIntegrationRoutes(t, "httpzerorows")

	rec := serve(routes, httptest.NewRequest(http.MethodPost, "/truncate/jobs", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Table truncated successfully", rec.Body.String())

	form := url.Values{"table": {"jobs"}, "filter_column": {"id"}, "filter_value": {"404"}}
	req := httptest.NewRequest(http.MethodPost, "/delete", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec = serve(routes, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Data deleted successfully", rec.Body.String())
}

func TestIntegration_MetricsOnEmptyTables(t *testing.T) {
	routes := newIntegrationRoutes(t, "httpmetricsempty")

	for _, path := range []string{"/metrics/departments-with-highest-hiring", "/metrics/employees-by-job-department"} {
		rec := serve(routes, httptest.NewRequest(http.MethodGet, path, nil))
		require.Equal(t, http.StatusOK, rec.Code, path)
		assert.JSONEq(t, "[]", rec.Body.String(), path)
	}
}

func TestIntegration_Metrics(t *testing.T) {
	routes := newIntegrationRoutes(t, "httpmetrics")

	require.Equal(t, http.StatusOK, upload(t, routes, "departments", "1,Engineering\n2,Legal\n").Code)
	require.Equal(t, http.StatusOK, upload(t, routes, "jobs", "1,Analyst\n").Code)
	require.Equal(t, http.StatusOK, upload(t, routes, "hired_employees",
		"1,A,2021-01-10T00:00:00Z,1,1\n2,B,2021-07-10T00:00:00Z,1,1\n3,C,2021-10-10T00:00:00Z,2,1\n").Code)

	rec := serve(routes, httptest.NewRequest(http.MethodGet, "/metrics/employees-by-job-department", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[
		{"department":"Engineering","job":"Analyst","Q1":1,"Q2":0,"Q3":1,"Q4":0},
		{"department":"Legal","job":"Analyst","Q1":0,"Q2":0,"Q3":0,"Q4":1}
	]`, rec.Body.String())

	rec = serve(routes, httptest.NewRequest(http.MethodGet, "/metrics/departments-with-highest-hiring", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":"1","department":"Engineering","hired":2}]`, rec.Body.String())

	rec = serve(routes, httptest.NewRequest(http.MethodGet, "/uploads?limit=2", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var uploads []models.Upload
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &uploads))
	assert.Len(t, uploads, 2)

	rec = serve(routes, httptest.NewRequest(http.MethodGet, "/uploads?limit=0", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
