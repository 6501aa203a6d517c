package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sudamericano/titulacion-console/internal/backend"
	"github.com/sudamericano/titulacion-console/internal/models"
	"github.com/sudamericano/titulacion-console/internal/service"
	"github.com/sudamericano/titulacion-console/internal/session"
	"github.com/sudamericano/titulacion-console/pkg/config"
)

const testToken = "tok-1"

func testRoster() []models.StudentRow {
	return []models.StudentRow{
		{
			ID: 12, DNI: "0102030405", FirstName: "Ana", LastName: "Mora",
			Email: "ana@example.com", Career: "Desarrollo de software",
			Corte: "2025-1", Section: "DIURNA", TitulationType: "Proyecto",
			Status: "EN CURSO", IncidentCount: 1, ObservationCount: 1,
		},
		{
			ID: 13, DNI: "0605040302", FirstName: "Luis", LastName: "Peña",
			Email: "luis@example.com", Career: "desarrollo de software",
			Corte: "2025-1", Section: "NOCTURNA", Status: "APROBADO",
		},
		{
			ID: 14, DNI: "0908070605", FirstName: "Eva", LastName: "Cruz",
			Email: "eva@example.com", Career: "Gastronomía",
			Corte: "2024-2", Section: "VESPERTINA", Status: "REPROBADO",
		},
	}
}

// fakeUpstream stands in for the remote titulation API.
func fakeUpstream(t *testing.T) *httptest.Server {
	t.Helper()

	authorized := func(w http.ResponseWriter, r *http.Request) bool {
		if r.Header.Get("Authorization") != "Bearer "+testToken {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "token vencido"})
			return false
		}
		return true
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/auth/login":
			var creds struct {
				Username string `json:"username"`
				Password string `json:"password"`
			}
			_ = json.NewDecoder(r.Body).Decode(&creds)
			if creds.Username != "admin" || creds.Password != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"message": "credenciales inválidas"})
				return
			}
			_ = json.NewEncoder(w).Encode(models.LoginResponse{Token: testToken, Username: "admin"})
		case r.Method == http.MethodGet && r.URL.Path == "/admin/students":
			if !authorized(w, r) {
				return
			}
			_ = json.NewEncoder(w).Encode(testRoster())
		case r.Method == http.MethodPost && r.URL.Path == "/admin/students/import/xlsx":
			if !authorized(w, r) {
				return
			}
			require.NoError(t, r.ParseMultipartForm(1<<20))
			fh := r.MultipartForm.File["file"][0]
			_ = json.NewEncoder(w).Encode(models.ImportBatchResult{
				BatchID: 7, Status: "completed", FileName: fh.Filename,
				TotalRows: 3, InsertedRows: 2, UpdatedRows: 0, FailedRows: 1,
			})
		case r.Method == http.MethodGet && r.URL.Path == "/admin/students/12":
			if !authorized(w, r) {
				return
			}
			_ = json.NewEncoder(w).Encode(models.StudentDetail{
				StudentRow: testRoster()[0],
				Incidents:  []models.Incident{{ID: 1, Stage: "Anteproyecto", Reason: "falta a tutoría", Action: "citación"}},
				Observations: []models.Observation{
					{ID: 1, Author: "secretaría", Text: "entregó documentos"},
				},
			})
		default:
			if !authorized(w, r) {
				return
			}
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "no existe"})
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	upstream := fakeUpstream(t)
	client := backend.New(config.BackendConfig{BaseURL: upstream.URL, Timeout: 2 * time.Second}, zap.NewNop())
	store := session.NewStore(config.SessionConfig{MaxAge: time.Hour})

	r, err := NewRouter(zap.NewNop(), store, Services{
		Auth:      service.NewAuthService(client, validator.New(), zap.NewNop()),
		Directory: service.NewDirectoryService(client, 10*1024*1024, zap.NewNop()),
		Details:   service.NewDetailService(client, zap.NewNop()),
		Exports:   service.NewExportService(),
		Metrics:   service.NewMetricsService(),
	})
	require.NoError(t, err)
	return r
}

func withSession(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: "titulacion_token", Value: testToken})
	req.AddCookie(&http.Cookie{Name: "titulacion_username", Value: "admin"})
	return req
}

func get(r *gin.Engine, path string, authenticated bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authenticated {
		withSession(req)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestLoginFlow(t *testing.T) {
	r := testRouter(t)

	form := url.Values{"username": {"admin"}, "password": {"secret"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/admin", rec.Header().Get("Location"))

	byName := map[string]*http.Cookie{}
	for _, cookie := range rec.Result().Cookies() {
		byName[cookie.Name] = cookie
	}
	require.Contains(t, byName, "titulacion_token")
	require.Contains(t, byName, "titulacion_username")
	assert.Equal(t, testToken, byName["titulacion_token"].Value)
	assert.Equal(t, "admin", byName["titulacion_username"].Value)
}

func TestLoginRejectedStaysOnForm(t *testing.T) {
	r := testRouter(t)

	form := url.Values{"username": {"admin"}, "password": {"wrong"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "credenciales inválidas")
	assert.Empty(t, rec.Result().Cookies(), "no session on a failed login")
}

func TestLoginEmptyFieldsRejected(t *testing.T) {
	r := testRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(url.Values{"username": {"admin"}}.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "ingrese usuario y contraseña")
}

func TestLogoutClearsSession(t *testing.T) {
	r := testRouter(t)

	req := withSession(httptest.NewRequest(http.MethodPost, "/logout", nil))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	for _, cookie := range rec.Result().Cookies() {
		assert.Negative(t, cookie.MaxAge)
	}
}

func TestAdminRequiresSession(t *testing.T) {
	r := testRouter(t)

	rec := get(r, "/admin/students", false)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestGalleryShowsCountsPerProgram(t *testing.T) {
	r := testRouter(t)

	rec := get(r, "/admin/students", true)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "DESARROLLO DE SOFTWARE")
	assert.Contains(t, body, "GASTRONOMÍA")
	assert.Contains(t, body, "3 estudiantes importados")
}

func TestExpiredTokenLandsOnLogin(t *testing.T) {
	r := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/admin/students", nil)
	req.AddCookie(&http.Cookie{Name: "titulacion_token", Value: "stale"})
	req.AddCookie(&http.Cookie{Name: "titulacion_username", Value: "admin"})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	cookies := rec.Result().Cookies()
	require.NotEmpty(t, cookies, "stale session cookies are expired on the way out")
	for _, cookie := range cookies {
		assert.Negative(t, cookie.MaxAge)
	}
}

func TestRosterFiltersByProgram(t *testing.T) {
	r := testRouter(t)

	rec := get(r, "/admin/students/career/"+url.PathEscape("Desarrollo de software"), true)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Ana")
	assert.Contains(t, body, "Luis")
	assert.NotContains(t, body, "Eva")
}

func TestRosterSearchNarrowsRows(t *testing.T) {
	r := testRouter(t)

	rec := get(r, "/admin/students/career/"+url.PathEscape("Desarrollo de software")+"?q=ana", true)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Ana")
	assert.NotContains(t, body, "Luis")
}

func TestRosterAccentedProgramName(t *testing.T) {
	r := testRouter(t)

	rec := get(r, "/admin/students/career/"+url.PathEscape("Diseño gráfico"), true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Sin estudiantes para este programa")
}

func TestRosterParamDecodedExactlyOnce(t *testing.T) {
	r := testRouter(t)

	// A doubly-encoded name decodes to "Diseño gráfico" only if the
	// handler decoded the segment a second time after gin already did.
	twice := url.PathEscape(url.PathEscape("Diseño gráfico"))
	rec := get(r, "/admin/students/career/"+twice, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "programa desconocido")
}

func TestRosterUnknownProgram(t *testing.T) {
	r := testRouter(t)

	rec := get(r, "/admin/students/career/astrologia", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "programa desconocido")
}

func TestImportShowsBatchSummary(t *testing.T) {
	r := testRouter(t)

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	part, err := writer.CreateFormFile("file", "corte.xlsx")
	require.NoError(t, err)
	_, err = part.Write([]byte("celdas"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := withSession(httptest.NewRequest(http.MethodPost, "/admin/students/import", buf))
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Importación correcta")
	assert.Contains(t, body, "corte.xlsx")
	assert.Contains(t, body, "1 con error")
}

func TestImportRejectsWrongExtension(t *testing.T) {
	r := testRouter(t)

	buf := &bytes.Buffer{}
	writer := multipart.NewWriter(buf)
	part, err := writer.CreateFormFile("file", "corte.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("a,b"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := withSession(httptest.NewRequest(http.MethodPost, "/admin/students/import", buf))
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, "the gallery re-renders with the rejection inline")
	assert.Contains(t, rec.Body.String(), "solo se aceptan archivos .xlsx")
}

func TestDetailView(t *testing.T) {
	r := testRouter(t)

	rec := get(r, "/admin/students/12", true)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "0102030405")
	assert.Contains(t, body, "falta a tutoría")
	assert.Contains(t, body, "entregó documentos")
	assert.Contains(t, body, "Desarrollo de software")
}

func TestDetailUnknownStudent(t *testing.T) {
	r := testRouter(t)

	rec := get(r, "/admin/students/99", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "estudiante no encontrado")
}

func TestDetailNonNumericID(t *testing.T) {
	r := testRouter(t)

	rec := get(r, "/admin/students/abc", true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportCSVDownload(t *testing.T) {
	r := testRouter(t)

	rec := get(r, "/admin/students/career/"+url.PathEscape("Desarrollo de software")+"/export?format=csv", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")
	assert.Contains(t, rec.Body.String(), "0102030405")
	assert.NotContains(t, rec.Body.String(), "Eva")
}

func TestExportPDFDownload(t *testing.T) {
	r := testRouter(t)

	rec := get(r, "/admin/students/career/"+url.PathEscape("Desarrollo de software")+"/export?format=pdf", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Body.String(), "%PDF"))
}

func TestExportUnknownFormat(t *testing.T) {
	r := testRouter(t)

	rec := get(r, "/admin/students/career/"+url.PathEscape("Desarrollo de software")+"/export?format=xml", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealth(t *testing.T) {
	r := testRouter(t)

	rec := get(r, "/health", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestMetricsExposed(t *testing.T) {
	r := testRouter(t)

	get(r, "/health", false)
	rec := get(r, "/metrics", false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "http_requests_total")
}

func TestUnknownPathRedirectsToLogin(t *testing.T) {
	r := testRouter(t)

	rec := get(r, "/no-such-page", false)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}
