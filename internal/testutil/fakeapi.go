package testutil

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/labstack/echo/v4"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// FakeAPI is an HTTP server speaking the task REST API, for exercising the
// real client end to end. Records are stored raw so tests can seed legacy
// shapes (the "_id" and "litle" keys, missing status, ...).
type FakeAPI struct {
	mu       sync.Mutex
	records  []map[string]any // newest first
	accounts map[string]apiAccount
	tokens   map[string]string // token -> user id

	lastQuery  url.Values
	lastHeader http.Header

	// WrapList wraps GET /tasks replies as {"tasks": [...]}.
	WrapList bool

	server *httptest.Server
}

type apiAccount struct {
	ID       string
	Name     string
	Email    string
	Password string
}

// NewFakeAPI starts a FakeAPI that is closed when the test ends.
func NewFakeAPI(t *testing.T) *FakeAPI {
	t.Helper()
	f := &FakeAPI{
		accounts: make(map[string]apiAccount),
		tokens:   make(map[string]string),
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.POST("/auth/signup", f.signup)
	e.POST("/auth/login", f.login)

	g := e.Group("/tasks", f.requireToken)
	g.GET("", f.listTasks)
	g.POST("", f.createTask)
	g.GET("/:id", f.getTask)
	g.PUT("/:id", f.updateTask)
	g.DELETE("/:id", f.deleteTask)

	f.server = httptest.NewServer(e)
	t.Cleanup(f.server.Close)
	return f
}

// URL returns the API base URL.
func (f *FakeAPI) URL() string {
	return f.server.URL
}

// AddRecord seeds a raw task record at the end of the list.
func (f *FakeAPI) AddRecord(rec map[string]any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, rec)
}

// Records returns a copy of the stored records.
func (f *FakeAPI) Records() []map[string]any {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]map[string]any(nil), f.records...)
}

// IssueToken registers an account and returns a valid bearer token for it.
func (f *FakeAPI) IssueToken(name, email, password string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	acct := f.addAccount(name, email, password)
	return f.issue(acct.ID)
}

// LastQuery returns the query of the most recent request.
func (f *FakeAPI) LastQuery() url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastQuery
}

// LastHeader returns the headers of the most recent request.
func (f *FakeAPI) LastHeader() http.Header {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastHeader
}

func (f *FakeAPI) addAccount(name, email, password string) apiAccount {
	acct := apiAccount{ID: uuid.NewString(), Name: name, Email: email, Password: password}
	f.accounts[email] = acct
	return acct
}

func (f *FakeAPI) issue(userID string) string {
	token := uuid.NewString()
	f.tokens[token] = userID
	return token
}

func (f *FakeAPI) record(c echo.Context) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastQuery = c.QueryParams()
	f.lastHeader = c.Request().Header.Clone()
}

func message(c echo.Context, code int, msg string) error {
	return c.JSON(code, map[string]string{"message": msg})
}

func (f *FakeAPI) requireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		f.record(c)
		token := strings.TrimPrefix(c.Request().Header.Get(echo.HeaderAuthorization), "Bearer ")
		f.mu.Lock()
		_, ok := f.tokens[token]
		f.mu.Unlock()
		if !ok {
			return message(c, http.StatusUnauthorized, "Not authorized, token failed")
		}
		return next(c)
	}
}

func decodeBody(c echo.Context) (map[string]any, error) {
	var m map[string]any
	err := json.NewDecoder(c.Request().Body).Decode(&m)
	return m, err
}

func (f *FakeAPI) authReply(c echo.Context, code int, acct apiAccount) error {
	f.mu.Lock()
	token := f.issue(acct.ID)
	f.mu.Unlock()
	return c.JSON(code, map[string]any{
		"user":  map[string]string{"_id": acct.ID, "name": acct.Name, "email": acct.Email},
		"token": token,
	})
}

func (f *FakeAPI) signup(c echo.Context) error {
	f.record(c)
	var in struct{ Name, Email, Password string }
	if err := json.NewDecoder(c.Request().Body).Decode(&in); err != nil || in.Email == "" || in.Password == "" {
		return message(c, http.StatusBadRequest, "Please add all fields")
	}
	f.mu.Lock()
	_, exists := f.accounts[in.Email]
	var acct apiAccount
	if !exists {
		acct = f.addAccount(in.Name, in.Email, in.Password)
	}
	f.mu.Unlock()
	if exists {
		return message(c, http.StatusBadRequest, "User already exists")
	}
	return f.authReply(c, http.StatusCreated, acct)
}

func (f *FakeAPI) login(c echo.Context) error {
	f.record(c)
	var in struct{ Email, Password string }
	if err := json.NewDecoder(c.Request().Body).Decode(&in); err != nil {
		return message(c, http.StatusBadRequest, "Invalid request")
	}
	f.mu.Lock()
	acct, ok := f.accounts[in.Email]
	f.mu.Unlock()
	if !ok || acct.Password != in.Password {
		return message(c, http.StatusUnauthorized, "Invalid credentials")
	}
	return f.authReply(c, http.StatusOK, acct)
}

func (f *FakeAPI) listTasks(c echo.Context) error {
	records := f.Records()
	if f.WrapList {
		return c.JSON(http.StatusOK, map[string]any{"tasks": records})
	}
	return c.JSON(http.StatusOK, records)
}

// find returns the index of the record with the given id; callers hold mu.
func (f *FakeAPI) find(id string) int {
	for i, r := range f.records {
		if r["_id"] == id || r["id"] == id {
			return i
		}
	}
	return -1
}

func (f *FakeAPI) getTask(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.find(c.Param("id"))
	if i < 0 {
		return message(c, http.StatusNotFound, "Task not found")
	}
	return c.JSON(http.StatusOK, f.records[i])
}

func (f *FakeAPI) createTask(c echo.Context) error {
	in, err := decodeBody(c)
	if err != nil {
		return message(c, http.StatusBadRequest, "Invalid request")
	}
	if title, _ := in["title"].(string); strings.TrimSpace(title) == "" {
		return message(c, http.StatusBadRequest, "Title is required")
	}
	in["_id"] = uuid.NewString()
	in["createdAt"] = time.Now().UTC().Format(time.RFC3339Nano)

	f.mu.Lock()
	f.records = append([]map[string]any{in}, f.records...)
	f.mu.Unlock()
	return c.JSON(http.StatusCreated, map[string]any{"task": in})
}

func (f *FakeAPI) updateTask(c echo.Context) error {
	in, err := decodeBody(c)
	if err != nil {
		return message(c, http.StatusBadRequest, "Invalid request")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.find(c.Param("id"))
	if i < 0 {
		return message(c, http.StatusNotFound, "Task not found")
	}
	rec := make(map[string]any, len(f.records[i]))
	for k, v := range f.records[i] {
		rec[k] = v
	}
	for k, v := range in {
		if v == nil {
			delete(rec, k)
			continue
		}
		rec[k] = v
	}
	f.records[i] = rec
	return c.JSON(http.StatusOK, rec)
}

func (f *FakeAPI) deleteTask(c echo.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.find(c.Param("id"))
	if i < 0 {
		return message(c, http.StatusNotFound, "Task not found")
	}
	f.records = append(f.records[:i], f.records[i+1:]...)
	return message(c, http.StatusOK, "Task deleted")
}
