package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"custcrm/internal/auth"
	apperrors "custcrm/internal/errors"
	"custcrm/internal/handler"
	"custcrm/internal/model"
	"custcrm/internal/router"
	"custcrm/internal/service"
)

const maxUpload = 1 << 20

type testServer struct {
	e         *echo.Echo
	jwt       *auth.JWTService
	users     staticUsers
	customers *MockCustomerService
	importer  *MockImportService
	reports   *MockReportService
	userSvc   *MockUserService
	authSvc   *MockAuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ts := &testServer{
		e:         echo.New(),
		jwt:       auth.NewJWTService("test-secret", time.Hour),
		users:     staticUsers{},
		customers: new(MockCustomerService),
		importer:  new(MockImportService),
		reports:   new(MockReportService),
		userSvc:   new(MockUserService),
		authSvc:   new(MockAuthService),
	}
	sessions := auth.NewSessionManager(ts.jwt, allowAllTokens{}, ts.users, auth.SessionOptions{}, zerolog.Nop())

	router.Register(ts.e, router.Handlers{
		Auth:      handler.NewAuthHandler(ts.authSvc, sessions),
		Customers: handler.NewCustomerHandler(ts.customers, ts.importer, ts.reports, maxUpload),
		Users:     handler.NewUserHandler(ts.userSvc),
		Health:    handler.NewHealthHandler(nil),
	}, sessions, router.Options{MaxUploadBytes: maxUpload}, zerolog.Nop())
	return ts
}

// login registers an account with role and returns its session cookie.
func (ts *testServer) login(t *testing.T, id uint, role model.Role) *http.Cookie {
	t.Helper()
	u := &model.User{ID: id, Username: fmt.Sprintf("user%d", id), IsActive: true}
	u.SetRole(role)
	ts.users[id] = u
	token, _, err := ts.jwt.GenerateSessionToken(u)
	require.NoError(t, err)
	return &http.Cookie{Name: auth.DefaultCookieName, Value: token}
}

func (ts *testServer) do(req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	ts.e.ServeHTTP(rec, req)
	return rec
}

func formRequest(method, target string, values url.Values) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return req
}

func multipartRequest(t *testing.T, target string, fields map[string]string, fileField, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		part, err := w.CreateFormFile(fileField, filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return req
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) apperrors.ErrorResponse {
	t.Helper()
	var body apperrors.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestUnauthenticatedRequestsRedirectToLogin(t *testing.T) {
	ts := newTestServer(t)

	for _, path := range []string{"/", "/customers/3/", "/users/", "/customers/download/pdf/", "/profile/edit/"} {
		rec := ts.do(httptest.NewRequest(http.MethodGet, path, nil), nil)
		assert.Equal(t, http.StatusFound, rec.Code, path)
		assert.Equal(t, "/login/?next="+url.QueryEscape(path), rec.Header().Get(echo.HeaderLocation), path)
	}

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/healthz", nil), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogin(t *testing.T) {
	ts := newTestServer(t)
	user := &model.User{ID: 1, Username: "sam"}
	ts.authSvc.On("Login", mock.Anything, "sam", "pw").Return(&service.Session{
		Token: "signed", TokenID: "jti", ExpiresAt: time.Now().Add(time.Hour), User: user,
	}, nil)
	ts.authSvc.On("Login", mock.Anything, "sam", "bad").Return(nil, apperrors.ErrInvalidCredentials)

	rec := ts.do(formRequest(http.MethodPost, "/login/", url.Values{"username": {"sam"}, "password": {"pw"}, "next": {"/customers/2/"}}), nil)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/customers/2/", rec.Header().Get(echo.HeaderLocation))
	assert.Contains(t, rec.Header().Get("Set-Cookie"), auth.DefaultCookieName+"=signed")
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "HttpOnly")

	rec = ts.do(formRequest(http.MethodPost, "/login/?next=https://evil.example/", url.Values{"username": {"sam"}, "password": {"pw"}}), nil)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))

	rec = ts.do(formRequest(http.MethodPost, "/login/", url.Values{"username": {"sam"}, "password": {"bad"}}), nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid credentials", decodeError(t, rec).Error)
}

func TestLoginFormRedirectsSignedInUsers(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.login(t, 1, model.RoleUser)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/login/", nil), cookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/login/?next=/users/", nil), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"error":"","next":"/users/"}`, rec.Body.String())
}

func TestLogout(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.login(t, 1, model.RoleUser)
	ts.authSvc.On("Logout", mock.Anything, mock.MatchedBy(func(id *auth.Identity) bool {
		return id != nil && id.UserID == 1 && id.TokenID != ""
	})).Return(nil)

	rec := ts.do(httptest.NewRequest(http.MethodPost, "/logout/", nil), cookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login/", rec.Header().Get(echo.HeaderLocation))
	assert.Contains(t, rec.Header().Get("Set-Cookie"), auth.DefaultCookieName+"=;")
	ts.authSvc.AssertExpectations(t)
}

func TestCustomerList(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.login(t, 1, model.RoleUser)
	ts.customers.On("ListCustomers", mock.Anything).Return([]model.Customer{{ID: 2, FirstName: "Bo"}, {ID: 1, FirstName: "Ann"}}, nil)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var body handler.CustomerListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Customers, 2)
	assert.Equal(t, "Bo", body.Customers[0].FirstName)
	assert.Empty(t, body.Message)
}

func TestCustomerCreate(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.login(t, 1, model.RoleUser)
	ts.customers.On("CreateCustomer", mock.Anything, service.CustomerInput{
		FirstName: "Ann", LastName: "Lee", Email: "a@x.com", Image: []byte("photo"),
	}).Return(&model.Customer{ID: 9}, nil)

	req := multipartRequest(t, "/customers/add/", map[string]string{
		"first_name": "Ann", "last_name": "Lee", "email": "a@x.com",
	}, "image", "a.png", []byte("photo"))
	rec := ts.do(req, cookie)

	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
	ts.customers.AssertExpectations(t)
}

func TestCustomerCreateValidation(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.login(t, 1, model.RoleUser)

	rec := ts.do(formRequest(http.MethodPost, "/customers/add/", url.Values{"email": {"not-an-email"}, "phone": {strings.Repeat("9", 31)}}), cookie)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decodeError(t, rec)
	assert.Equal(t, "VALIDATION_FAILED", body.Code)
	assert.Contains(t, body.Fields, "first_name")
	assert.Contains(t, body.Fields, "email")
	assert.Contains(t, body.Fields, "phone")
	ts.customers.AssertNotCalled(t, "CreateCustomer", mock.Anything, mock.Anything)
}

func TestCustomerUpdateClearsImage(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.login(t, 1, model.RoleUser)
	ts.customers.On("UpdateCustomer", mock.Anything, uint(4), service.CustomerInput{FirstName: "Ann", ClearImage: true}).
		Return(&model.Customer{ID: 4}, nil)

	rec := ts.do(formRequest(http.MethodPost, "/customers/4/edit/", url.Values{"first_name": {"Ann"}, "image-clear": {"on"}}), cookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	ts.customers.AssertExpectations(t)
}

func TestCustomerDetailAndDelete(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.login(t, 1, model.RoleUser)
	ts.customers.On("GetCustomer", mock.Anything, uint(4)).Return(&model.Customer{ID: 4, FirstName: "Ann"}, nil)
	ts.customers.On("GetCustomer", mock.Anything, uint(5)).Return(nil, apperrors.ErrCustomerNotFound)
	ts.customers.On("DeleteCustomer", mock.Anything, uint(4)).Return(nil)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/customers/4/delete/", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"confirm_delete":true`)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/customers/5/", nil), cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "CUSTOMER_NOT_FOUND", decodeError(t, rec).Code)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/customers/abc/", nil), cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = ts.do(httptest.NewRequest(http.MethodPost, "/customers/4/delete/", nil), cookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
}

func TestBulkUpload(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.login(t, 3, model.RoleTeamLead)
	data := []byte("First Name,last_name,email\nAnn,Lee,a@x.com\n")
	ts.importer.On("Import", mock.Anything, service.Upload{Filename: "people.csv", Data: data, UserID: 3}).
		Return(&service.ImportResult{Imported: 1}, nil)
	ts.customers.On("ListCustomers", mock.Anything).Return([]model.Customer{{ID: 1, FirstName: "Ann"}}, nil)

	rec := ts.do(multipartRequest(t, "/customers/bulk-upload/", nil, "excel_file", "people.csv", data), cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	var body handler.CustomerListResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Customers imported successfully.", body.Message)
	require.NotNil(t, body.Imported)
	assert.Equal(t, 1, *body.Imported)
}

func TestBulkUploadFailures(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.login(t, 1, model.RoleUser)
	ts.importer.On("Import", mock.Anything, mock.Anything).
		Return(nil, &apperrors.ImportError{Row: 3, Imported: 2, Err: assert.AnError})

	rec := ts.do(multipartRequest(t, "/customers/bulk-upload/", nil, "excel_file", "five.csv", []byte("x")), cookie)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeError(t, rec)
	assert.True(t, strings.HasPrefix(body.Error, "Error processing file: row 3: "))
	require.NotNil(t, body.Imported)
	assert.Equal(t, 2, *body.Imported)

	rec = ts.do(multipartRequest(t, "/customers/bulk-upload/", map[string]string{"note": "no file"}, "", "", nil), cookie)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Fields, "excel_file")
}

func TestDownloads(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.login(t, 1, model.RoleUser)
	ts.reports.On("RenderAll", mock.Anything).Return(&service.File{Name: "customers.pdf", ContentType: "application/pdf", Content: []byte("%PDF-all")}, nil)
	ts.reports.On("RenderOne", mock.Anything, uint(7)).Return(&service.File{Name: "customer_7.pdf", ContentType: "application/pdf", Content: []byte("%PDF-one")}, nil)
	ts.reports.On("RenderOne", mock.Anything, uint(8)).Return(nil, apperrors.ErrCustomerNotFound)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/customers/download/pdf/", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, `attachment; filename="customers.pdf"`, rec.Header().Get(echo.HeaderContentDisposition))
	assert.Equal(t, "%PDF-all", rec.Body.String())

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/customers/7/download/", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, `attachment; filename="customer_7.pdf"`, rec.Header().Get(echo.HeaderContentDisposition))

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/customers/8/download/", nil), cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDownloadRenderFailure(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.login(t, 1, model.RoleUser)
	ts.reports.On("RenderAll", mock.Anything).Return(nil, &apperrors.RenderError{Err: assert.AnError})

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/customers/download/pdf/", nil), cookie)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "RENDER_FAILED", decodeError(t, rec).Code)
	assert.NotContains(t, rec.Header().Get(echo.HeaderContentType), "application/pdf")
}

func TestUserRoutesRequireStaff(t *testing.T) {
	ts := newTestServer(t)
	plain := ts.login(t, 1, model.RoleUser)
	lead := ts.login(t, 2, model.RoleTeamLead)
	ts.userSvc.On("ListUsers", mock.Anything).Return([]model.User{{ID: 2, Username: "lead", IsStaff: true}}, nil)

	rec := ts.do(httptest.NewRequest(http.MethodGet, "/users/", nil), plain)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(httptest.NewRequest(http.MethodGet, "/users/", nil), lead)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"role":"team_lead"`)
}

func TestUserCreateAndEdit(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.login(t, 1, model.RoleAdmin)

	ts.userSvc.On("CreateUser", mock.Anything, service.UserInput{Username: "sam", Password: "pw", Role: model.RoleTeamLead}).
		Return(&model.User{ID: 5}, nil)
	rec := ts.do(formRequest(http.MethodPost, "/users/add/", url.Values{"username": {"sam"}, "password": {"pw"}, "role": {"team_lead"}}), admin)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/users/", rec.Header().Get(echo.HeaderLocation))

	rec = ts.do(formRequest(http.MethodPost, "/users/add/", url.Values{"username": {"sam"}, "role": {"owner"}}), admin)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeError(t, rec).Fields, "role")

	existing := &model.User{ID: 5, Username: "sam"}
	existing.SetRole(model.RoleTeamLead)
	ts.userSvc.On("GetUser", mock.Anything, uint(5)).Return(existing, nil)
	rec = ts.do(httptest.NewRequest(http.MethodGet, "/users/5/edit/", nil), admin)
	require.Equal(t, http.StatusOK, rec.Code)
	var form handler.UserFormResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &form))
	assert.Equal(t, "team_lead", form.Form.Role)
	assert.Equal(t, "Edit", form.Action)

	ts.userSvc.On("UpdateUser", mock.Anything, uint(5), service.UserInput{Username: "sam", Role: model.RoleUser}).
		Return(existing, nil)
	rec = ts.do(formRequest(http.MethodPost, "/users/5/edit/", url.Values{"username": {"sam"}, "password": {""}, "role": {"user"}}), admin)
	assert.Equal(t, http.StatusFound, rec.Code)
	ts.userSvc.AssertExpectations(t)
}

func TestTeamLeadCannotManageAdmins(t *testing.T) {
	ts := newTestServer(t)
	lead := ts.login(t, 2, model.RoleTeamLead)

	rec := ts.do(formRequest(http.MethodPost, "/users/add/", url.Values{"username": {"boss"}, "password": {"pw"}, "role": {"admin"}}), lead)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", decodeError(t, rec).Code)

	admin := &model.User{ID: 7, Username: "root"}
	admin.SetRole(model.RoleAdmin)
	ts.userSvc.On("GetUser", mock.Anything, uint(7)).Return(admin, nil)

	rec = ts.do(formRequest(http.MethodPost, "/users/7/edit/", url.Values{"username": {"root"}, "role": {"user"}}), lead)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = ts.do(formRequest(http.MethodPost, "/users/7/delete/", nil), lead)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	plain := &model.User{ID: 8, Username: "pat"}
	plain.SetRole(model.RoleUser)
	ts.userSvc.On("GetUser", mock.Anything, uint(8)).Return(plain, nil)

	rec = ts.do(formRequest(http.MethodPost, "/users/8/edit/", url.Values{"username": {"pat"}, "role": {"admin"}}), lead)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	ts.userSvc.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
	ts.userSvc.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything)
	ts.userSvc.AssertNotCalled(t, "DeleteUser", mock.Anything, mock.Anything)
}

func TestTeamLeadManagesNonAdmins(t *testing.T) {
	ts := newTestServer(t)
	lead := ts.login(t, 2, model.RoleTeamLead)

	ts.userSvc.On("CreateUser", mock.Anything, service.UserInput{Username: "sam", Password: "pw", Role: model.RoleTeamLead}).
		Return(&model.User{ID: 5}, nil)
	rec := ts.do(formRequest(http.MethodPost, "/users/add/", url.Values{"username": {"sam"}, "password": {"pw"}, "role": {"team_lead"}}), lead)
	assert.Equal(t, http.StatusFound, rec.Code)

	existing := &model.User{ID: 5, Username: "sam"}
	existing.SetRole(model.RoleTeamLead)
	ts.userSvc.On("GetUser", mock.Anything, uint(5)).Return(existing, nil)
	ts.userSvc.On("DeleteUser", mock.Anything, uint(5)).Return(nil)
	rec = ts.do(formRequest(http.MethodPost, "/users/5/delete/", nil), lead)
	assert.Equal(t, http.StatusFound, rec.Code)
	ts.userSvc.AssertExpectations(t)
}

func TestProfileEdit(t *testing.T) {
	ts := newTestServer(t)
	cookie := ts.login(t, 4, model.RoleUser)
	ts.userSvc.On("UpdateProfile", mock.Anything, uint(4), service.ProfileInput{Username: "me", Email: "me@x.com"}).
		Return(&model.User{ID: 4}, nil)

	rec := ts.do(formRequest(http.MethodPost, "/profile/edit/", url.Values{"username": {"me"}, "email": {"me@x.com"}, "role": {"admin"}}), cookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/", rec.Header().Get(echo.HeaderLocation))
	ts.userSvc.AssertExpectations(t)
}

func TestReadiness(t *testing.T) {
	e := echo.New()
	h := handler.NewHealthHandler(map[string]handler.Check{
		"mysql": func(context.Context) error { return nil },
		"redis": func(context.Context) error { return errors.New("connection refused") },
	})

	rec := httptest.NewRecorder()
	require.NoError(t, h.Readiness(e.NewContext(httptest.NewRequest(http.MethodGet, "/healthz/ready", nil), rec)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var body handler.ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "degraded", body.Status)
	assert.Len(t, body.Dependencies, 2)

	healthy := handler.NewHealthHandler(map[string]handler.Check{"mysql": func(context.Context) error { return nil }})
	rec = httptest.NewRecorder()
	require.NoError(t, healthy.Readiness(e.NewContext(httptest.NewRequest(http.MethodGet, "/healthz/ready", nil), rec)))
	assert.Equal(t, http.StatusOK, rec.Code)
}
