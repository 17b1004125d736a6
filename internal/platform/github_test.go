package platform

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newGitHubTestServer returns a client pointed at a stub GitHub API. The
// enterprise URL machinery prefixes every request path with /api/v3.
func newGitHubTestServer(t *testing.T, handler http.HandlerFunc) Client {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.URL.Path = strings.TrimPrefix(r.URL.Path, "/api/v3")
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	client, err := NewGitHubClient(Credential{
		Kind:    KindGitHub,
		Token:   "test-token",
		BaseURL: server.URL + "/",
	})
	require.NoError(t, err)
	return client
}

func TestGitHubBearerAuthentication(t *testing.T) {
	var gotAuth string
	client := newGitHubTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode(map[string]string{"login": "lcgerke"})
	})

	user, err := client.GetCurrentUser(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "lcgerke", user.Login)
	assert.Equal(t, "Bearer test-token", gotAuth)
}

func TestGitHubGetUserOrganizations(t *testing.T) {
	client := newGitHubTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/user/orgs", r.URL.Path)
		_ = json.NewEncoder(w).Encode([]map[string]string{
			{"login": "acme"},
			{"login": "widgets-inc"},
		})
	})

	orgs, err := client.GetUserOrganizations(context.Background())
	require.NoError(t, err)
	require.Len(t, orgs, 2)
	assert.Equal(t, "acme", orgs[0].Login)
	assert.Equal(t, OwnerOrganization, orgs[0].Kind)
}

func TestGitHubRepositoryExists(t *testing.T) {
	client := newGitHubTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/repos/lcgerke/present" {
			_ = json.NewEncoder(w).Encode(map[string]any{"name": "present"})
			return
		}
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})
	})

	exists, err := client.RepositoryExists(context.Background(), "lcgerke", "present")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = client.RepositoryExists(context.Background(), "lcgerke", "absent")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGitHubGetRepositoryAbsence(t *testing.T) {
	client := newGitHubTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})
	})

	repo, err := client.GetRepository(context.Background(), "lcgerke", "absent")
	require.NoError(t, err)
	assert.Nil(t, repo)
}

func TestGitHubCreateUserRepository(t *testing.T) {
	client := newGitHubTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/user/repos", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "widget", body["name"])

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"name":           "widget",
			"full_name":      "lcgerke/widget",
			"private":        true,
			"clone_url":      "https://github.com/lcgerke/widget.git",
			"ssh_url":        "git@github.com:lcgerke/widget.git",
			"default_branch": "main",
			"owner":          map[string]string{"login": "lcgerke", "type": "User"},
		})
	})

	repo, err := client.CreateUserRepository(context.Background(), RepositoryOptions{
		Name:    "widget",
		Private: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "lcgerke/widget", repo.FullName)
	assert.Equal(t, "main", repo.DefaultBranch)
	assert.Equal(t, OwnerUser, repo.Owner.Kind)
}

func TestGitHubCreateOrganizationRepository(t *testing.T) {
	client := newGitHubTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/orgs/acme/repos", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"name":      "widget",
			"full_name": "acme/widget",
			"owner":     map[string]string{"login": "acme", "type": "Organization"},
		})
	})

	repo, err := client.CreateOrganizationRepository(context.Background(), "acme", RepositoryOptions{Name: "widget"})
	require.NoError(t, err)
	assert.Equal(t, OwnerOrganization, repo.Owner.Kind)
	// Default branch falls back to main when the API omits it
	assert.Equal(t, "main", repo.DefaultBranch)
}

func TestGitHubCreateReleaseGeneratesNotes(t *testing.T) {
	client := newGitHubTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "v1.0.0", body["tag_name"])
		assert.Equal(t, true, body["generate_release_notes"])
		_, hasBody := body["body"]
		assert.False(t, hasBody, "empty body must not be sent when generating notes")

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"tag_name": "v1.0.0",
			"name":     "v1.0.0",
			"body":     "generated notes",
		})
	})

	release, err := client.CreateRelease(context.Background(), "lcgerke", "widget", ReleaseOptions{
		TagName:       "v1.0.0",
		Name:          "v1.0.0",
		GenerateNotes: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "generated notes", release.Body)
}

func TestGitHubGetLatestReleaseAbsence(t *testing.T) {
	client := newGitHubTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Not Found"})
	})

	release, err := client.GetLatestRelease(context.Background(), "lcgerke", "widget")
	require.NoError(t, err)
	assert.Nil(t, release)

	exists, err := client.ReleaseExists(context.Background(), "lcgerke", "widget", "v1.0.0")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGitHubErrorClassification(t *testing.T) {
	client := newGitHubTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Bad credentials"})
	})

	_, err := client.GetCurrentUser(context.Background())
	require.Error(t, err)
	assert.True(t, IsAuthError(err))

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, KindGitHub, apiErr.Platform)
}

func TestGitHubCompareURL(t *testing.T) {
	client, err := NewGitHubClient(Credential{Kind: KindGitHub, Token: "t"})
	require.NoError(t, err)
	assert.Equal(t,
		"https://github.com/lcgerke/widget/compare/v1.0.0...v1.1.0",
		client.CompareURL("lcgerke", "widget", "v1.0.0", "v1.1.0"))
}

func TestFactorySelectsByKind(t *testing.T) {
	github, err := NewClient(Credential{Kind: KindGitHub, Token: "t"})
	require.NoError(t, err)
	assert.Equal(t, KindGitHub, github.Kind())

	gitee, err := NewClient(Credential{Kind: KindGitee, Token: "t"})
	require.NoError(t, err)
	assert.Equal(t, KindGitee, gitee.Kind())

	_, err = NewClient(Credential{Kind: "sourcehut", Token: "t"})
	require.Error(t, err)

	_, err = NewClient(Credential{Kind: KindGitHub})
	require.Error(t, err, "missing token must be rejected")
}
