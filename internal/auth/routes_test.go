package auth

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifier_DefaultRules(t *testing.T) {
	c := NewDefaultClassifier()

	cases := []struct {
		method string
		path   string
		want   Access
	}{
		{http.MethodGet, "/api/posts", Public},
		{http.MethodGet, "/api/posts/", Public},
		{http.MethodHead, "/api/posts", Public},
		{http.MethodGet, "/api/posts/page", Public},
		{http.MethodGet, "/api/categories", Public},
		{http.MethodGet, "/api/categories/page", Public},
		{http.MethodGet, "/api/configs", Public},
		{http.MethodGet, "/api/posts/42", Protected},
		{http.MethodGet, "/api/categories/7", Protected},
		{http.MethodGet, "/api/assets", Protected},

		{http.MethodPost, "/api/posts/42/view", Public},
		{http.MethodPost, "/api/posts/42/like", Public},
		{http.MethodPost, "/api/posts/42/unlike", Public},
		{http.MethodPost, "/api/posts//like", Protected},
		{http.MethodPost, "/api/posts/42/share", Protected},
		{http.MethodPost, "/api/posts/42/like/extra", Protected},
		{http.MethodGet, "/api/posts/42/like", Protected},
		{http.MethodPut, "/api/posts/42/like", Protected},
		{http.MethodPost, "/api/posts", Protected},
		{http.MethodPost, "/api/configs", Protected},
		{http.MethodDelete, "/api/posts/42", Protected},

		{http.MethodPost, "/api/auth/login", Public},
		{http.MethodPost, "/api/auth/logout", Public},
		{http.MethodGet, "/api/auth/session", Public},
		{http.MethodPost, "/api/authx/login", Protected},

		{http.MethodOptions, "/api/posts/42", Public},
		{http.MethodOptions, "/", Public},
		{"options", "/api/configs", Public},

		{http.MethodGet, "/api/unknown", Protected},
		{"PURGE", "/api/posts", Protected},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, c.Classify(tc.method, tc.path), "%s %s", tc.method, tc.path)
	}
}

func TestClassifier_EmptyTableIsFailClosed(t *testing.T) {
	c := NewClassifier(nil)
	assert.Equal(t, Protected, c.Classify(http.MethodGet, "/api/posts"))
	assert.Equal(t, Protected, c.Classify(http.MethodOptions, "/"))
}

func TestClassifier_FirstMatchWins(t *testing.T) {
	c := NewClassifier([]RouteRule{
		{Methods: []string{http.MethodGet}, Pattern: "/admin/:id", Access: Protected},
		{Methods: []string{AnyMethod}, Pattern: "/admin/*", Access: Public},
	})
	assert.Equal(t, Protected, c.Classify(http.MethodGet, "/admin/1"))
	assert.Equal(t, Public, c.Classify(http.MethodPost, "/admin/1"))
	assert.Equal(t, Public, c.Classify(http.MethodGet, "/admin/1/2"))
}

func TestAccess_String(t *testing.T) {
	assert.Equal(t, "public", Public.String())
	assert.Equal(t, "protected", Protected.String())
}
