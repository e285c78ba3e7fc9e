package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Anurup-SarKar/JPK-service/internal/password"
	"github.com/Anurup-SarKar/JPK-service/internal/service"
)

func newUserTestEnv(t *testing.T) (*UserHandler, *memUsers, *password.Policy) {
	t.Helper()
	policy := password.NewPolicy(bcrypt.MinCost)
	users := newMemUsers()
	return NewUserHandler(service.NewUserService(users, policy)), users, policy
}

func doJSONWithParams(h echo.HandlerFunc, method, body string, paramNames, paramValues []string) (*httptest.ResponseRecorder, ApiResponse) {
	e := echo.New()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames(paramNames...)
	c.SetParamValues(paramValues...)
	_ = h(c)

	var resp ApiResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	return rec, resp
}

func TestUserCreate(t *testing.T) {
	h, users, policy := newUserTestEnv(t)
	pre := policy.Digest("Secret#2024!")

	body := fmt.Sprintf(`{"username":"jdoe","email":"JDoe@Example.com","password":%q,"fullName":"John Doe"}`, pre)
	rec, resp := doJSON(h.Create, body)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User created", resp.StatusMessage)

	data := resp.Data.(map[string]any)
	assert.Equal(t, "jdoe", data["username"])
	assert.Equal(t, "jdoe@example.com", data["email"])
	assert.Equal(t, "John Doe", data["fullName"])
	assert.Equal(t, true, data["isActive"], "active defaults to true when omitted")
	_, hasHash := data["passwordHash"]
	assert.False(t, hasHash)

	stored := users.users[1]
	assert.True(t, policy.IsSealed(stored.PasswordHash))
}

func TestUserCreate_Validation(t *testing.T) {
	h, _, policy := newUserTestEnv(t)
	pre := policy.Digest("Secret#2024!")

	rec, resp := doJSON(h.Create, fmt.Sprintf(`{"username":"","email":"bad","password":%q}`, pre))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Validation failed", resp.StatusMessage)
	fields := resp.Data.(map[string]any)
	assert.Contains(t, fields, "username")
	assert.Contains(t, fields, "email")

	// A raw password fails the pre-hash gate inside the service.
	rec, resp = doJSON(h.Create, `{"username":"jdoe","email":"jdoe@example.com","password":"raw"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, password.ErrInvalidPreHash.Error(), resp.StatusMessage)
}

func TestUserCreate_DuplicateUsername(t *testing.T) {
	h, users, policy := newUserTestEnv(t)
	pre := policy.Digest("Secret#2024!")
	users.seed("jdoe", "existing@example.com", "$2a$12$hash")

	rec, resp := doJSON(h.Create, fmt.Sprintf(`{"username":"jdoe","email":"new@example.com","password":%q}`, pre))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Username already exists", resp.StatusMessage)
}

func TestUserList(t *testing.T) {
	h, users, _ := newUserTestEnv(t)
	users.seed("a", "a@example.com", "$2a$12$a")
	users.seed("b", "b@example.com", "$2a$12$b")

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	_ = h.List(e.NewContext(req, rec))

	var resp ApiResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User list", resp.StatusMessage)
	assert.Len(t, resp.Data, 2)
}

func TestUserUpdate_ByPathID(t *testing.T) {
	h, users, _ := newUserTestEnv(t)
	u := users.seed("jdoe", "jdoe@example.com", "$2a$12$hash")

	rec, resp := doJSONWithParams(h.Update, http.MethodPut,
		`{"fullName":"John Doe","isActive":false}`,
		[]string{"id"}, []string{fmt.Sprint(u.ID)})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User updated", resp.StatusMessage)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "John Doe", data["fullName"])
	assert.Equal(t, false, data["isActive"])
	assert.Equal(t, "jdoe", data["username"], "untouched fields survive")
}

func TestUserUpdate_UnknownID(t *testing.T) {
	h, _, _ := newUserTestEnv(t)

	rec, resp := doJSONWithParams(h.Update, http.MethodPut,
		`{"fullName":"x"}`, []string{"id"}, []string{"42"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User not found", resp.StatusMessage)
}

func TestUserUpdateByEmail(t *testing.T) {
	h, users, _ := newUserTestEnv(t)
	users.seed("jdoe", "jdoe@example.com", "$2a$12$hash")

	rec, resp := doJSON(h.UpdateByEmail,
		`{"email":"JDoe@Example.com","fullName":"John Doe"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User updated", resp.StatusMessage)
	data := resp.Data.(map[string]any)
	assert.Equal(t, "John Doe", data["fullName"])
	assert.Equal(t, "jdoe@example.com", data["email"])
}

func TestUserDelete(t *testing.T) {
	h, users, _ := newUserTestEnv(t)
	u := users.seed("jdoe", "jdoe@example.com", "$2a$12$hash")
	users.seed("other", "other@example.com", "$2a$12$hash2")

	rec, resp := doJSONWithParams(h.Delete, http.MethodDelete, "",
		[]string{"id"}, []string{fmt.Sprint(u.ID)})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User deleted", resp.StatusMessage)

	rec, resp = doJSON(h.DeleteByEmail, `{"email":"other@example.com"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "User deleted", resp.StatusMessage)
	assert.Empty(t, users.users)

	rec, resp = doJSON(h.DeleteByEmail, `{"email":"ghost@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "User not found", resp.StatusMessage)
}
