package controllers_test

import (
	"net/http"
	"regexp"
	"testing"

	"github.com/Govind-619/SkinSphere/models"
	"github.com/Govind-619/SkinSphere/testutil"
	"github.com/Govind-619/SkinSphere/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var verifyLinkPattern = regexp.MustCompile(`verify-email\?token=([A-Za-z0-9_\-\.]+)`)

func refreshCookie(t *testing.T, resp *http.Response) string {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == utils.RefreshCookieName {
			return c.Value
		}
	}
	t.Fatalf("no %s cookie in response", utils.RefreshCookieName)
	return ""
}

func TestAuthFlow(t *testing.T) {
	api := newTestAPI(t)

	register := map[string]interface{}{
		"name":             "Tran Thi B",
		"email":            "Thi.B@Example.com",
		"password":         "Passw0rd!",
		"confirm_password": "Passw0rd!",
		"skin_type":        "Dry",
	}
	w := testutil.Request(t, api.router, http.MethodPost, "/api/auth/register", register, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var stored models.User
	require.NoError(t, api.db.Where("email = ?", "thi.b@example.com").First(&stored).Error)
	assert.False(t, stored.IsVerified)
	assert.Equal(t, models.RoleUser, stored.Role)
	assert.Equal(t, models.SkinTypeDry, stored.SkinType)

	login := map[string]string{"email": "thi.b@example.com", "password": "Passw0rd!"}
	w = testutil.Request(t, api.router, http.MethodPost, "/api/auth/login", login, "")
	assert.Equal(t, http.StatusForbidden, w.Code, "unverified accounts cannot log in")

	sent := api.mail.Messages()
	require.Len(t, sent, 1)
	match := verifyLinkPattern.FindStringSubmatch(sent[0].Body)
	require.Len(t, match, 2, sent[0].Body)
	w = testutil.Request(t, api.router, http.MethodGet, "/api/auth/verify-email?token="+match[1], nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = testutil.Request(t, api.router, http.MethodPost, "/api/auth/login", login, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var session struct {
		Token string `json:"token"`
	}
	testutil.Decode(t, w, &session)
	require.NotEmpty(t, session.Token)
	refresh := refreshCookie(t, w.Result())

	w = testutil.Request(t, api.router, http.MethodGet, "/api/users/profile", nil, session.Token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = testutil.Request(t, api.router, http.MethodPost, "/api/auth/refresh", nil, "", "Cookie", utils.RefreshCookieName+"="+refresh)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = testutil.Request(t, api.router, http.MethodPost, "/api/auth/logout", nil, session.Token, "Cookie", utils.RefreshCookieName+"="+refresh)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = testutil.Request(t, api.router, http.MethodGet, "/api/users/profile", nil, session.Token)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "revoked access token")

	w = testutil.Request(t, api.router, http.MethodPost, "/api/auth/refresh", nil, "", "Cookie", utils.RefreshCookieName+"="+refresh)
	assert.Equal(t, http.StatusUnauthorized, w.Code, "revoked refresh token")
}

func TestRegister_Rejected(t *testing.T) {
	api := newTestAPI(t)
	existing := testutil.CreateUser(t, api.db, models.RoleUser, 0)

	base := func() map[string]interface{} {
		return map[string]interface{}{
			"name":             "Le Van C",
			"email":            "c@example.com",
			"password":         "Passw0rd1",
			"confirm_password": "Passw0rd1",
		}
	}
	tests := []struct {
		name   string
		mutate func(map[string]interface{})
		reason string
	}{
		{"duplicate email", func(b map[string]interface{}) { b["email"] = existing.Email }, "DUPLICATE"},
		{"weak password", func(b map[string]interface{}) { b["password"], b["confirm_password"] = "short", "short" }, "INVALID_INPUT"},
		{"passwords differ", func(b map[string]interface{}) { b["confirm_password"] = "Passw0rd2" }, "INVALID_INPUT"},
		{"bad skin type", func(b map[string]interface{}) { b["skin_type"] = "Scaly" }, "INVALID_INPUT"},
		{"short name", func(b map[string]interface{}) { b["name"] = "C" }, "INVALID_INPUT"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := base()
			tt.mutate(body)
			w := testutil.Request(t, api.router, http.MethodPost, "/api/auth/register", body, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tt.reason, testutil.ErrorReason(t, w))
		})
	}
}

func TestLogin_Rejected(t *testing.T) {
	api := newTestAPI(t)
	user := testutil.CreateUser(t, api.db, models.RoleUser, 0)
	banned := testutil.CreateUser(t, api.db, models.RoleUser, 0)
	require.NoError(t, api.db.Model(&banned).Update("is_banned", true).Error)

	w := testutil.Request(t, api.router, http.MethodPost, "/api/auth/login",
		map[string]string{"email": user.Email, "password": "wrong-pass1"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = testutil.Request(t, api.router, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "nobody@example.com", "password": "Secret123"}, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = testutil.Request(t, api.router, http.MethodPost, "/api/auth/login",
		map[string]string{"email": banned.Email, "password": "Secret123"}, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = testutil.Request(t, api.router, http.MethodGet, "/api/users/profile", nil, testutil.Token(t, banned))
	assert.Equal(t, http.StatusForbidden, w.Code, "a banned user's live token stops working")
}

func TestAuthMiddleware_BadTokens(t *testing.T) {
	api := newTestAPI(t)
	user := testutil.CreateUser(t, api.db, models.RoleUser, 0)

	assert.Equal(t, http.StatusUnauthorized, testutil.Request(t, api.router, http.MethodGet, "/api/orders", nil, "").Code)
	assert.Equal(t, http.StatusUnauthorized, testutil.Request(t, api.router, http.MethodGet, "/api/orders", nil, "not-a-jwt").Code)

	refresh, err := utils.GenerateRefreshToken(&user)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, testutil.Request(t, api.router, http.MethodGet, "/api/orders", nil, refresh).Code,
		"refresh tokens are not bearer tokens")

	token := testutil.Token(t, user)
	require.NoError(t, api.db.Delete(&user).Error)
	assert.Equal(t, http.StatusUnauthorized, testutil.Request(t, api.router, http.MethodGet, "/api/orders", nil, token).Code)
}
