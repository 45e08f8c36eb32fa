package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/textproto"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/berichtsheft/internal/db"
	"github.com/berichtsheft/internal/router"
	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type e2eSuite struct {
	handler   http.Handler
	azubi     *localClient
	trainer   *localClient
	anonymous *localClient
	baseURL   string
	uploadDir string
}

// localClient drives the engine in-process while keeping session cookies the
// way a browser would.
type localClient struct {
	handler http.Handler
	jar     http.CookieJar
}

func newLocalClient(handler http.Handler, withJar bool) *localClient {
	var jar http.CookieJar
	if withJar {
		if j, err := cookiejar.New(nil); err == nil {
			jar = j
		}
	}
	return &localClient{handler: handler, jar: jar}
}

func (c *localClient) Do(req *http.Request) (*http.Response, error) {
	if c.jar != nil {
		for _, cookie := range c.jar.Cookies(req.URL) {
			req.AddCookie(cookie)
		}
	}
	w := httptest.NewRecorder()
	c.handler.ServeHTTP(w, req)
	resp := w.Result()
	if c.jar != nil {
		c.jar.SetCookies(req.URL, resp.Cookies())
	}
	return resp, nil
}

func TestE2E_ReportLifecycle(t *testing.T) {
	suite := newE2ESuite(t)

	suite.register(t, suite.azubi, "azubi@example.com", "Max Mustermann", db.RoleAzubi)
	suite.register(t, suite.trainer, "ausbilder@example.com", "Anna Schmidt", db.RoleAusbilder)

	t.Run("anonymous access", suite.testAnonymousAccess)
	t.Run("week editing", suite.testWeekEditing)
	t.Run("review roundtrip", suite.testReviewRoundtrip)
	t.Run("exports", suite.testExports)
	t.Run("profile signature", suite.testProfileSignature)
}

func newE2ESuite(t *testing.T) *e2eSuite {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:e2e-%d?mode=memory&cache=shared", time.Now().UnixNano())
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	if err := gdb.AutoMigrate(
		&db.User{},
		&db.Report{},
		&db.Activity{},
		&db.DayHours{},
		&db.ReportFeedback{},
		&db.PredefinedActivity{},
	); err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}
	if err := db.SeedPredefinedActivities(gdb); err != nil {
		t.Fatalf("failed to seed catalog: %v", err)
	}

	templateDir := t.TempDir()
	templateBody := "Wochenbericht von {userName}\nKW {weekNumber}/{weekYear}\nMONTAG ({monday.hours}h)\n{monday.activities}"
	if err := os.WriteFile(filepath.Join(templateDir, "wochenbericht_vorlage.txt"), []byte(templateBody), 0o644); err != nil {
		t.Fatalf("failed to seed template: %v", err)
	}

	uploadDir := t.TempDir()
	engine := router.SetupRouter(gdb, "e2e-session-secret", templateDir, uploadDir, "/static/uploads")

	return &e2eSuite{
		handler:   engine,
		azubi:     newLocalClient(engine, true),
		trainer:   newLocalClient(engine, true),
		anonymous: newLocalClient(engine, false),
		baseURL:   "https://example.test",
		uploadDir: uploadDir,
	}
}

func (s *e2eSuite) register(t *testing.T, client *localClient, email, fullName, role string) {
	t.Helper()
	resp := s.mustRequestJSON(t, client, http.MethodPost, "/api/auth/register", map[string]interface{}{
		"email":     email,
		"password":  "geheim123",
		"full_name": fullName,
		"role":      role,
		"company":   "Musterfirma GmbH",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register %s: expected 201, got %d: %s", email, resp.StatusCode, readBody(t, resp))
	}
}

func (s *e2eSuite) testAnonymousAccess(t *testing.T) {
	resp := s.mustRequest(t, s.anonymous, http.MethodGet, "/ping", nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("ping: expected 200, got %d", resp.StatusCode)
	}

	resp = s.mustRequest(t, s.anonymous, http.MethodGet, "/api/reports", nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("reports without session: expected 401, got %d", resp.StatusCode)
	}
}

func (s *e2eSuite) testWeekEditing(t *testing.T) {
	reportID := s.fetchWeekReport(t, 2024, 40)

	resp := s.mustRequestJSON(t, s.azubi, http.MethodPut, "/api/reports/"+idStr(reportID), weekPayload("Kundenberatung im Verkaufsraum"))
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("save week: expected 200, got %d: %s", resp.StatusCode, readBody(t, resp))
	}

	resp = s.mustRequest(t, s.azubi, http.MethodGet, "/api/predefined-activities", nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("catalog: expected 200, got %d", resp.StatusCode)
	}
	var catalog struct {
		Entries []db.PredefinedActivity `json:"predefined_activities"`
	}
	decodeJSON(t, resp, &catalog)
	if len(catalog.Entries) == 0 {
		t.Fatalf("catalog must not be empty")
	}
}

func (s *e2eSuite) testReviewRoundtrip(t *testing.T) {
	reportID := s.fetchWeekReport(t, 2024, 41)

	resp := s.mustRequestJSON(t, s.azubi, http.MethodPut, "/api/reports/"+idStr(reportID), weekPayload("Wareneingang geprüft"))
	resp.Body.Close()

	resp = s.mustRequestJSON(t, s.azubi, http.MethodPost, "/api/reports/"+idStr(reportID)+"/signature", map[string]interface{}{
		"signature": "Max Mustermann",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("sign: expected 200, got %d: %s", resp.StatusCode, readBody(t, resp))
	}

	resp = s.mustRequest(t, s.azubi, http.MethodPost, "/api/reports/"+idStr(reportID)+"/submit", nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("submit: expected 200, got %d: %s", resp.StatusCode, readBody(t, resp))
	}

	// The submitted report shows up in the trainer inbox.
	resp = s.mustRequest(t, s.trainer, http.MethodGet, "/api/reports/review/inbox", nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("inbox: expected 200, got %d", resp.StatusCode)
	}
	var inbox struct {
		Reports []db.Report `json:"reports"`
	}
	decodeJSON(t, resp, &inbox)
	if !containsReport(inbox.Reports, reportID) {
		t.Fatalf("inbox misses report %d: %+v", reportID, inbox.Reports)
	}

	// Correction round.
	resp = s.mustRequestJSON(t, s.trainer, http.MethodPost, "/api/reports/"+idStr(reportID)+"/feedback", map[string]interface{}{
		"feedback_type": db.FeedbackCorrection,
		"message":       "Bitte Dienstag ausführlicher beschreiben",
		"field_corrections": []map[string]interface{}{
			{"field": "Dienstag", "message": "Tätigkeiten fehlen"},
		},
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("correction feedback: expected 201, got %d: %s", resp.StatusCode, readBody(t, resp))
	}
	if status := s.reportStatus(t, reportID); status != db.StatusNeedsCorrection {
		t.Fatalf("expected needs_correction, got %s", status)
	}

	// The trainee reworks and re-submits.
	resp = s.mustRequestJSON(t, s.azubi, http.MethodPut, "/api/reports/"+idStr(reportID), weekPayload("Wareneingang geprüft und dokumentiert"))
	resp.Body.Close()
	resp = s.mustRequest(t, s.azubi, http.MethodPost, "/api/reports/"+idStr(reportID)+"/submit", nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("re-submit: expected 200, got %d", resp.StatusCode)
	}

	// Approval closes the review.
	resp = s.mustRequestJSON(t, s.trainer, http.MethodPost, "/api/reports/"+idStr(reportID)+"/feedback", map[string]interface{}{
		"feedback_type": db.FeedbackApproval,
		"message":       "Sieht gut aus",
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("approval feedback: expected 201, got %d: %s", resp.StatusCode, readBody(t, resp))
	}
	if status := s.reportStatus(t, reportID); status != db.StatusApproved {
		t.Fatalf("expected approved, got %s", status)
	}

	// Approved reports reject edits and further submissions.
	resp = s.mustRequestJSON(t, s.azubi, http.MethodPut, "/api/reports/"+idStr(reportID), weekPayload("zu spät"))
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("edit after approval: expected 409, got %d", resp.StatusCode)
	}
	resp = s.mustRequest(t, s.azubi, http.MethodPost, "/api/reports/"+idStr(reportID)+"/submit", nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("submit after approval: expected 409, got %d", resp.StatusCode)
	}

	// Trainees cannot reach the review routes.
	resp = s.mustRequest(t, s.azubi, http.MethodGet, "/api/reports/review/inbox", nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("azubi inbox: expected 403, got %d", resp.StatusCode)
	}
}

func (s *e2eSuite) testExports(t *testing.T) {
	reportID := s.fetchWeekReport(t, 2024, 42)
	resp := s.mustRequestJSON(t, s.azubi, http.MethodPut, "/api/reports/"+idStr(reportID), weekPayload("Qualitätskontrolle der Lieferung"))
	resp.Body.Close()

	checkExport := func(name, query, contentType, filename string, wantDegraded bool) {
		t.Helper()
		resp := s.mustRequest(t, s.azubi, http.MethodGet, "/api/reports/"+idStr(reportID)+"/export?"+query, nil, nil)
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d: %s", name, resp.StatusCode, readBody(t, resp))
		}
		if ct := resp.Header.Get("Content-Type"); ct != contentType {
			t.Fatalf("%s: unexpected content type %q", name, ct)
		}
		if disposition := resp.Header.Get("Content-Disposition"); !strings.Contains(disposition, filename) {
			t.Fatalf("%s: unexpected disposition %q", name, disposition)
		}
		degraded := resp.Header.Get("X-Export-Degraded") != ""
		if degraded != wantDegraded {
			t.Fatalf("%s: degraded = %v, want %v", name, degraded, wantDegraded)
		}
	}

	checkExport("direct pdf", "format=pdf", "application/pdf", "Wochenbericht_KW42_2024.pdf", false)
	checkExport("direct docx", "format=docx",
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		"Wochenbericht_KW42_2024.docx", false)
	checkExport("text template pdf", "format=pdf&template=wochenbericht_vorlage.txt",
		"application/pdf", "Wochenbericht_KW42_2024_mit_Vorlage.pdf", false)
	checkExport("logbook", "format=pdf&style=berichtsheft", "application/pdf", "Berichtsheft_KW42_2024.pdf", false)
	checkExport("broken template falls back", "format=pdf&template=fehlt.docx",
		"application/pdf", "Wochenbericht_KW42_2024.pdf", true)

	// The review roundtrip left one approved week behind; the combined
	// booklet bundles it.
	resp = s.mustRequest(t, s.azubi, http.MethodGet, "/api/reports/export", nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("combined export: expected 200, got %d: %s", resp.StatusCode, readBody(t, resp))
	}
	if ct := resp.Header.Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("combined export: unexpected content type %q", ct)
	}
	if disposition := resp.Header.Get("Content-Disposition"); !strings.Contains(disposition, "Alle_Wochenberichte_Max_Mustermann.pdf") {
		t.Fatalf("combined export: unexpected disposition %q", disposition)
	}

	resp = s.mustRequest(t, s.azubi, http.MethodGet, "/api/templates", nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("templates: expected 200, got %d", resp.StatusCode)
	}
	body := readBody(t, resp)
	if !strings.Contains(body, "wochenbericht_vorlage.txt") {
		t.Fatalf("template catalog misses bundled template: %s", body)
	}
}

func (s *e2eSuite) testProfileSignature(t *testing.T) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Disposition", `form-data; name="image"; filename="unterschrift.png"`)
	partHeader.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(partHeader)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	part.Write([]byte("\x89PNG fake signature"))
	writer.Close()

	resp := s.mustRequest(t, s.trainer, http.MethodPost, "/api/profile/signature", body, map[string]string{
		"Content-Type": writer.FormDataContentType(),
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("signature upload: expected 200, got %d: %s", resp.StatusCode, readBody(t, resp))
	}
	var uploaded struct {
		URL string `json:"url"`
	}
	decodeJSON(t, resp, &uploaded)
	if !strings.HasPrefix(uploaded.URL, "/static/uploads/") {
		t.Fatalf("unexpected upload url %q", uploaded.URL)
	}
	if _, err := os.Stat(filepath.Join(s.uploadDir, filepath.Base(uploaded.URL))); err != nil {
		t.Fatalf("uploaded file missing: %v", err)
	}
}

func (s *e2eSuite) fetchWeekReport(t *testing.T, year, week int) uint {
	t.Helper()
	resp := s.mustRequest(t, s.azubi, http.MethodGet, fmt.Sprintf("/api/reports/week/%d/%d", year, week), nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("week lookup: expected 200, got %d: %s", resp.StatusCode, readBody(t, resp))
	}
	var payload struct {
		Report db.Report `json:"report"`
	}
	decodeJSON(t, resp, &payload)
	if payload.Report.ID == 0 {
		t.Fatalf("week lookup returned empty report")
	}
	return payload.Report.ID
}

func (s *e2eSuite) reportStatus(t *testing.T, id uint) string {
	t.Helper()
	resp := s.mustRequest(t, s.trainer, http.MethodGet, "/api/reports/"+idStr(id), nil, nil)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("report lookup: expected 200, got %d", resp.StatusCode)
	}
	var payload struct {
		Report db.Report `json:"report"`
	}
	decodeJSON(t, resp, &payload)
	return payload.Report.Status
}

func weekPayload(mondayText string) map[string]interface{} {
	return map[string]interface{}{
		"activities": []map[string]interface{}{
			{"day_of_week": 1, "text": mondayText},
			{"day_of_week": 2, "text": "Dokumentation der Arbeitsabläufe"},
		},
		"day_hours": []map[string]interface{}{
			{"day_of_week": 1, "hours": 8, "minutes": 0},
			{"day_of_week": 2, "hours": 7, "minutes": 30},
		},
	}
}

func containsReport(reports []db.Report, id uint) bool {
	for _, report := range reports {
		if report.ID == id {
			return true
		}
	}
	return false
}

func (s *e2eSuite) mustRequest(t *testing.T, client *localClient, method, path string, body io.Reader, headers map[string]string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, s.baseURL+path, body)
	if err != nil {
		t.Fatalf("failed to build request %s %s: %v", method, path, err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("request %s %s failed: %v", method, path, err)
	}
	return resp
}

func (s *e2eSuite) mustRequestJSON(t *testing.T, client *localClient, method, path string, payload map[string]interface{}) *http.Response {
	t.Helper()
	data, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	headers := map[string]string{"Content-Type": "application/json"}
	return s.mustRequest(t, client, method, path, bytes.NewReader(data), headers)
}

func decodeJSON(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	body := readBody(t, resp)
	if err := json.Unmarshal([]byte(body), dst); err != nil {
		t.Fatalf("failed to decode json: %v\nbody=%s", err, body)
	}
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read response body: %v", err)
	}
	return string(data)
}

func idStr(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
