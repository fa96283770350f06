package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/rajkumar/portfolio-site/internal/api/middleware"
	"github.com/rajkumar/portfolio-site/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// doRequest issues a request with an optional JSON body and session cookie.
// A string body is sent raw, anything else is marshalled.
func doRequest(t *testing.T, method, url string, body interface{}, cookie *http.Cookie) *http.Response {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func authCookie(resp *http.Response) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == middleware.AuthCookie {
			return c
		}
	}
	return nil
}

func TestAuthHandler_Login(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, password := testutil.NewUserBuilder().
		WithUsername("loginuser").
		WithPassword("correcthorse").
		Build(t, ts.DB.DB)

	tests := []struct {
		name           string
		request        map[string]string
		expectedStatus int
		expectedError  string
	}{
		{
			name: "successful login",
			request: map[string]string{
				"username": user.Username,
				"password": password,
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "wrong password",
			request: map[string]string{
				"username": user.Username,
				"password": "wrongpassword",
			},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid credentials",
		},
		{
			name: "unknown user gets the same response as wrong password",
			request: map[string]string{
				"username": "nobody",
				"password": "whatever",
			},
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Invalid credentials",
		},
		{
			name: "missing password",
			request: map[string]string{
				"username": user.Username,
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "empty body",
			request:        map[string]string{},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doRequest(t, http.MethodPost, ts.APIURL("/auth/login"), tt.request, nil)
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.expectedError != "" {
				testutil.AssertErrorResponse(t, resp, tt.expectedStatus, tt.expectedError)
			}

			cookie := authCookie(resp)
			if tt.expectedStatus == http.StatusOK {
				require.NotNil(t, cookie, "login must set the session cookie")
				assert.True(t, cookie.HttpOnly)
				assert.Equal(t, "/", cookie.Path)
				assert.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
				assert.Equal(t, int(ts.Config.TokenTTL().Seconds()), cookie.MaxAge)
				assert.False(t, cookie.Secure, "secure flag is off outside production")
			} else {
				assert.Nil(t, cookie, "failed login must not set a cookie")
			}
		})
	}
}

func TestAuthHandler_Me(t *testing.T) {
	ts := testutil.NewTestServer(t)

	t.Run("anonymous is unauthorized", func(t *testing.T) {
		resp := doRequest(t, http.MethodGet, ts.APIURL("/auth/me"), nil, nil)
		defer resp.Body.Close()
		testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, "Unauthorized")
	})

	t.Run("logged-in user sees their identity", func(t *testing.T) {
		user, cookie := testutil.NewUserBuilder().WithUsername("me_user").BuildAndLogin(t, ts)

		resp := doRequest(t, http.MethodGet, ts.APIURL("/auth/me"), nil, cookie)
		defer resp.Body.Close()

		testutil.AssertStatusCode(t, resp, http.StatusOK)
		var body struct {
			User struct {
				Username string `json:"username"`
				Role     string `json:"role"`
			} `json:"user"`
		}
		testutil.AssertJSONResponse(t, resp, &body)
		assert.Equal(t, user.Username, body.User.Username)
		assert.Equal(t, "user", body.User.Role)
	})

	t.Run("garbage cookie collapses to anonymous", func(t *testing.T) {
		bad := &http.Cookie{Name: middleware.AuthCookie, Value: "garbage"}
		resp := doRequest(t, http.MethodGet, ts.APIURL("/auth/me"), nil, bad)
		defer resp.Body.Close()
		testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)
	})
}

func TestAuthHandler_Logout(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, cookie := testutil.NewUserBuilder().WithUsername("bye_user").BuildAndLogin(t, ts)

	resp := doRequest(t, http.MethodPost, ts.APIURL("/auth/logout"), nil, cookie)
	defer resp.Body.Close()

	testutil.AssertStatusCode(t, resp, http.StatusOK)
	cleared := authCookie(resp)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
	assert.Less(t, cleared.MaxAge, 0, "logout must expire the cookie")
}
