package api

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/micronutri/internal/db"
	"github.com/terraincognita07/micronutri/internal/i18n"
	"github.com/terraincognita07/micronutri/internal/models"
	"gorm.io/gorm"
)

const testSecretKey = "test-secret-key-0123456789abcdef"

var csrfTokenPattern = regexp.MustCompile(`name="csrf_token" value="([^"]+)"`)

func newWizardTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	_, testFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("resolve current test file path")
	}

	apiDir := filepath.Dir(testFile)
	internalDir := filepath.Dir(apiDir)
	templatesDir := filepath.Join(internalDir, "templates")
	databasePath := filepath.Join(t.TempDir(), "micronutri-test.db")

	database, err := db.OpenSQLite(databasePath, false)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		db.Close(database)
	})

	i18nManager, err := i18n.NewManager("en")
	if err != nil {
		t.Fatalf("init i18n: %v", err)
	}

	handler, err := NewHandler(database, testSecretKey, templatesDir, i18nManager, false, 2*time.Hour)
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}

	app := fiber.New(fiber.Config{ErrorHandler: handler.ErrorHandler})
	app.Use(handler.LanguageMiddleware)
	RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return app, database
}

// wizardTestClient replays cookies between requests the way a browser would.
type wizardTestClient struct {
	t       *testing.T
	app     *fiber.App
	cookies map[string]string
}

type wizardTestResponse struct {
	Status   int
	Location string
	Body     string
	Cookies  []*http.Cookie
}

func newWizardTestClient(t *testing.T, app *fiber.App) *wizardTestClient {
	return &wizardTestClient{t: t, app: app, cookies: map[string]string{}}
}

func (client *wizardTestClient) get(path string) wizardTestResponse {
	client.t.Helper()
	return client.do(http.MethodGet, path, nil, nil)
}

func (client *wizardTestClient) post(path string, form url.Values) wizardTestResponse {
	client.t.Helper()
	return client.do(http.MethodPost, path, form, nil)
}

func (client *wizardTestClient) do(method string, path string, form url.Values, headers map[string]string) wizardTestResponse {
	client.t.Helper()

	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}
	request := httptest.NewRequest(method, path, body)
	if form != nil {
		request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	request.Header.Set("Accept-Language", "en")
	for name, value := range headers {
		request.Header.Set(name, value)
	}
	if header := client.cookieHeader(); header != "" {
		request.Header.Set("Cookie", header)
	}

	response, err := client.app.Test(request, -1)
	if err != nil {
		client.t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		client.t.Fatalf("read %s %s body: %v", method, path, err)
	}

	cookies := response.Cookies()
	now := time.Now()
	for _, cookie := range cookies {
		if cookie.Value == "" || (!cookie.Expires.IsZero() && cookie.Expires.Before(now)) {
			delete(client.cookies, cookie.Name)
			continue
		}
		client.cookies[cookie.Name] = cookie.Value
	}

	return wizardTestResponse{
		Status:   response.StatusCode,
		Location: response.Header.Get("Location"),
		Body:     string(raw),
		Cookies:  cookies,
	}
}

func (client *wizardTestClient) cookieHeader() string {
	parts := make([]string, 0, len(client.cookies))
	for name, value := range client.cookies {
		parts = append(parts, name+"="+value)
	}
	return strings.Join(parts, "; ")
}

// csrfToken loads the given page and returns the token embedded in its form.
func (client *wizardTestClient) csrfToken(path string) string {
	client.t.Helper()

	response := client.get(path)
	if response.Status != http.StatusOK {
		client.t.Fatalf("expected 200 for %s, got %d", path, response.Status)
	}
	return extractCSRFToken(client.t, response.Body)
}

func extractCSRFToken(t *testing.T, body string) string {
	t.Helper()

	matches := csrfTokenPattern.FindStringSubmatch(body)
	if len(matches) != 2 {
		t.Fatal("expected csrf token in rendered form")
	}
	return matches[1]
}

func expectRedirect(t *testing.T, response wizardTestResponse, location string) {
	t.Helper()

	if response.Status != http.StatusSeeOther {
		t.Fatalf("expected status 303, got %d: %s", response.Status, response.Body)
	}
	if response.Location != location {
		t.Fatalf("expected redirect to %q, got %q", location, response.Location)
	}
}

func validStep1Form(csrfToken string) url.Values {
	return url.Values{
		"csrf_token": {csrfToken},
		"email":      {"Ana@Example.com"},
		"name":       {"Ana Souza"},
		"phone":      {"(11) 98765-4321"},
		"age":        {"30"},
		"weight_kg":  {"70"},
	}
}

func validStep2Form(csrfToken string) url.Values {
	return url.Values{
		"csrf_token":        {csrfToken},
		"happy_with_body":   {"no"},
		"wants_fast_change": {"yes"},
		"tired_of_mirror":   {"yes"},
	}
}

func validStep3Form(csrfToken string) url.Values {
	return url.Values{
		"csrf_token":     {csrfToken},
		"goal":           {"maintain"},
		"meals_per_day":  {"3"},
		"sex":            {"male"},
		"height_cm":      {"175"},
		"activity_level": {"sedentary"},
	}
}

// advanceThroughStep3 completes the first three steps and returns the
// session's CSRF token.
func advanceThroughStep3(t *testing.T, client *wizardTestClient) string {
	t.Helper()

	token := client.csrfToken("/")
	expectRedirect(t, client.post("/", validStep1Form(token)), "/step/2")
	expectRedirect(t, client.post("/step/2", validStep2Form(token)), "/step/3")
	expectRedirect(t, client.post("/step/3", validStep3Form(token)), "/macros")
	return token
}

// advanceToReview completes every stage up to the review page and returns
// the session's CSRF token.
func advanceToReview(t *testing.T, client *wizardTestClient) string {
	t.Helper()

	token := advanceThroughStep3(t, client)
	expectRedirect(t, client.post("/macros/confirm", url.Values{"csrf_token": {token}}), "/step/4")
	expectRedirect(t, client.post("/step/4", url.Values{
		"csrf_token":   {token},
		"allergy_tags": {"lactose"},
	}), "/step/5")
	expectRedirect(t, client.post("/step/5", url.Values{"csrf_token": {token}}), "/review")
	return token
}

func loadLead(t *testing.T, database *gorm.DB, email string) models.Lead {
	t.Helper()

	lead := models.Lead{}
	if err := database.Where("email = ?", email).First(&lead).Error; err != nil {
		t.Fatalf("load lead %s: %v", email, err)
	}
	return lead
}

func countRows(t *testing.T, database *gorm.DB, table string) int64 {
	t.Helper()

	var count int64
	if err := database.Table(table).Count(&count).Error; err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return count
}
