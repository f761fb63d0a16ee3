package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"budgetd/internal/models"
	"budgetd/internal/storage"
	"budgetd/internal/summary"
	"budgetd/internal/validator"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	validator.Register()
	os.Exit(m.Run())
}

// mockUserService lets each test stub exactly the calls it expects.
type mockUserService struct {
	registerFn func(username, email, password, confirm string) (*models.User, error)
	loginFn    func(username, password string) (*models.User, error)
}

func (m *mockUserService) Register(username, email, password, confirm string) (*models.User, error) {
	return m.registerFn(username, email, password, confirm)
}

func (m *mockUserService) Login(username, password string) (*models.User, error) {
	return m.loginFn(username, password)
}

type mockTransactionService struct {
	importCSVFn        func(r io.Reader) (int, error)
	batchCreateFn      func(txns []models.Transaction) ([]models.Transaction, error)
	getAllFn           func() ([]models.Transaction, error)
	updateOneFn        func(id string, fields storage.TransactionUpdate) (*models.Transaction, error)
	deleteOneFn        func(id string) error
	monthlySummaryFn   func(year int, month time.Month) (summary.Totals, error)
	monthlyBreakdownFn func() (summary.Report, error)
}

func (m *mockTransactionService) ImportCSV(r io.Reader) (int, error) {
	return m.importCSVFn(r)
}

func (m *mockTransactionService) BatchCreate(txns []models.Transaction) ([]models.Transaction, error) {
	return m.batchCreateFn(txns)
}

func (m *mockTransactionService) GetAll() ([]models.Transaction, error) {
	return m.getAllFn()
}

func (m *mockTransactionService) UpdateOne(id string, fields storage.TransactionUpdate) (*models.Transaction, error) {
	return m.updateOneFn(id, fields)
}

func (m *mockTransactionService) DeleteOne(id string) error {
	return m.deleteOneFn(id)
}

func (m *mockTransactionService) MonthlySummary(year int, month time.Month) (summary.Totals, error) {
	return m.monthlySummaryFn(year, month)
}

func (m *mockTransactionService) MonthlyBreakdown() (summary.Report, error) {
	return m.monthlyBreakdownFn()
}

// doJSONRequest serves a JSON request against the router and returns the recorder.
func doJSONRequest(router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// doMultipartRequest uploads the given file content as the "file" form field.
func doMultipartRequest(t *testing.T, router *gin.Engine, path, filename, content string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write([]byte(content)); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// parseJSON decodes a response body into a map.
func parseJSON(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response %q: %v", w.Body.String(), err)
	}
	return body
}
