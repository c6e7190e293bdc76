package api

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/rgehrsitz/pensioncalc/internal/calculation"
	"github.com/rgehrsitz/pensioncalc/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validBody = `{"age":56,"sex":"female","weeks_contributed":1150,"current_savings":250000000,"fund_return_rate":7,"admin_fee_rate":1}`

func newTestRouter(calc *calculation.Calculator) http.Handler {
	return NewRouter(NewHandler(calc, nil), RouterOptions{AllowedOrigins: []string{"http://localhost:5173"}})
}

func doRequest(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := doRequest(t, newTestRouter(nil), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestComputePension_Success(t *testing.T) {
	rec := doRequest(t, newTestRouter(nil), http.MethodPost, "/api/pension", validBody)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var report domain.PensionReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 57, report.Projection.RetirementAge)
	assert.Equal(t, 1, report.Projection.YearsRemaining)
	assert.True(t, report.Projection.ProjectedSavings.Equal(decimal.NewFromInt(267500000)))
	assert.True(t, report.Projection.AnnualPension.Equal(decimal.NewFromInt(16050000)))
	assert.True(t, report.Projection.MonthlyPension.Equal(decimal.NewFromInt(1337500)))
	assert.Equal(t, 1150, report.Rules.MinimumWeeks)
	assert.True(t, report.Rules.MaxRate.Equal(decimal.NewFromInt(100)))
}

func TestComputePension_SexAlias(t *testing.T) {
	body := strings.Replace(validBody, `"female"`, `"Mujer"`, 1)
	rec := doRequest(t, newTestRouter(nil), http.MethodPost, "/api/pension", body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var report domain.PensionReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, domain.SexFemale, report.Input.Sex)
}

func TestComputePension_StringAmounts(t *testing.T) {
	body := `{"age":60,"sex":"male","weeks_contributed":1200,"current_savings":"200000000","fund_return_rate":"5.5","admin_fee_rate":"1.3"}`
	rec := doRequest(t, newTestRouter(nil), http.MethodPost, "/api/pension", body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var report domain.PensionReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.True(t, report.Projection.ProjectedSavings.Equal(decimal.NewFromInt(222605000)))
}

func TestComputePension_BadRequest(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"age":`},
		{"empty body", ``},
		{"wrong type", `{"age":"old"}`},
	}

	router := newTestRouter(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodPost, "/api/pension", tt.body)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Empty(t, resp.Kind)
			assert.True(t, strings.HasPrefix(resp.Message, "invalid request body"), resp.Message)
		})
	}
}

func TestComputePension_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		kind    string
		message string
	}{
		{
			name:    "insufficient weeks",
			body:    strings.Replace(validBody, `"weeks_contributed":1150`, `"weeks_contributed":1000`, 1),
			kind:    "InsufficientWeeks",
			message: "weeks_contributed: weeks contributed are insufficient (got 1000, limit 1150)",
		},
		{
			name:    "negative age",
			body:    strings.Replace(validBody, `"age":56`, `"age":-1`, 1),
			kind:    "NegativeAge",
			message: "age: age cannot be negative (got -1)",
		},
		{
			name:    "rate above maximum",
			body:    strings.Replace(validBody, `"fund_return_rate":7`, `"fund_return_rate":150`, 1),
			kind:    "ReturnRateExceedsMaximum",
			message: "fund_return_rate: fund return rate cannot exceed the maximum rate (got 150, limit 100)",
		},
		{
			name: "unknown sex",
			body: strings.Replace(validBody, `"female"`, `"other"`, 1),
			kind: "InvalidSex",
		},
	}

	router := newTestRouter(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doRequest(t, router, http.MethodPost, "/api/pension", tt.body)

			assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.kind, resp.Kind)
			if tt.message != "" {
				assert.Equal(t, tt.message, resp.Message)
			}
		})
	}
}

func TestComputePension_LenientSex(t *testing.T) {
	calc := calculation.NewCalculator()
	calc.LenientSex = true
	body := strings.Replace(validBody, `"female"`, `"other"`, 1)

	rec := doRequest(t, newTestRouter(calc), http.MethodPost, "/api/pension", body)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var report domain.PensionReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 62, report.Projection.RetirementAge)
	require.Len(t, report.Projection.Advisories, 1)
	assert.Equal(t, "InvalidSex", report.Projection.Advisories[0].Kind)
}

func TestComputePension_MethodNotAllowed(t *testing.T) {
	rec := doRequest(t, newTestRouter(nil), http.MethodGet, "/api/pension", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestCORS(t *testing.T) {
	router := newTestRouter(nil)

	preflight := func(origin string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodOptions, "/api/pension", nil)
		req.Header.Set("Origin", origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	allowed := preflight("http://localhost:5173")
	assert.Equal(t, "http://localhost:5173", allowed.Header().Get("Access-Control-Allow-Origin"))

	denied := preflight("http://evil.example")
	assert.Empty(t, denied.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestLogging(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	router := NewRouter(NewHandler(nil, logger), RouterOptions{RequestLog: logger})

	rec := doRequest(t, router, http.MethodPost, "/api/pension", strings.Replace(validBody, `"age":56`, `"age":-1`, 1))
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var messages []string
	for _, entry := range hook.AllEntries() {
		messages = append(messages, entry.Message)
	}
	joined := strings.Join(messages, "\n")
	assert.Contains(t, joined, "rejected pension request")
	assert.Contains(t, joined, "POST")
	assert.Contains(t, joined, "/api/pension")
}

type failingWriter struct {
	header http.Header
	status int
}

func (f *failingWriter) Header() http.Header {
	if f.header == nil {
		f.header = http.Header{}
	}
	return f.header
}

func (f *failingWriter) WriteHeader(status int) { f.status = status }

func (f *failingWriter) Write([]byte) (int, error) { return 0, errors.New("connection reset") }

func TestWriteJSON_LogsEncodeFailure(t *testing.T) {
	logger, hook := logtest.NewNullLogger()
	h := NewHandler(nil, logger)

	w := &failingWriter{}
	h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.status)
	require.NotNil(t, hook.LastEntry())
	assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
	assert.Contains(t, hook.LastEntry().Message, "failed to encode response: connection reset")

	hook.Reset()
	h.writeJSON(httptest.NewRecorder(), http.StatusOK, map[string]any{"ch": make(chan int)})
	require.NotNil(t, hook.LastEntry(), "unencodable values are logged too")
	assert.Contains(t, hook.LastEntry().Message, "failed to encode response")
}
