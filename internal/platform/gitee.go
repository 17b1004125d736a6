package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/lcgerke/gitflow/internal/constants"
)

// Gitee has no maintained Go SDK, so this adapter speaks the v5 REST API
// directly. Gitee authenticates with the token as a query parameter instead of
// a bearer header; that difference stays inside this file.

const giteeDefaultBaseURL = "https://gitee.com/api/v5"

// giteeClient implements Client against the Gitee v5 API
type giteeClient struct {
	httpClient *http.Client
	baseURL    string
	webURL     string
	token      string
}

// NewGiteeClient creates a Gitee platform client
func NewGiteeClient(cred Credential) (Client, error) {
	baseURL := cred.BaseURL
	if baseURL == "" {
		baseURL = giteeDefaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	return &giteeClient{
		httpClient: &http.Client{Timeout: constants.PlatformCallTimeout},
		baseURL:    baseURL,
		webURL:     strings.TrimSuffix(baseURL, "/api/v5"),
		token:      cred.Token,
	}, nil
}

// Kind returns "gitee"
func (c *giteeClient) Kind() Kind {
	return KindGitee
}

// giteeError is the error payload Gitee returns
type giteeError struct {
	Message string `json:"message"`
}

// do performs one API call, decoding the response into out when non-nil
func (c *giteeClient) do(ctx context.Context, method, path string, body, out any) error {
	endpoint, err := url.Parse(c.baseURL + path)
	if err != nil {
		return classify(KindGitee, 0, fmt.Sprintf("invalid endpoint %s", path), err)
	}

	// Token travels as a query parameter on every call
	query := endpoint.Query()
	query.Set("access_token", c.token)
	endpoint.RawQuery = query.Encode()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return classify(KindGitee, 0, "failed to encode request body", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return classify(KindGitee, 0, "failed to build request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return classify(KindGitee, 0, fmt.Sprintf("%s %s failed", method, path), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiMsg giteeError
		data, _ := io.ReadAll(resp.Body)
		message := fmt.Sprintf("%s %s", method, path)
		if json.Unmarshal(data, &apiMsg) == nil && apiMsg.Message != "" {
			message = fmt.Sprintf("%s: %s", message, apiMsg.Message)
		}
		return classify(KindGitee, resp.StatusCode, message, nil)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return classify(KindGitee, resp.StatusCode, "failed to decode response", err)
		}
	}

	return nil
}

// giteeUser is the subset of the user payload we consume
type giteeUser struct {
	Login string `json:"login"`
}

// giteeRepo is the subset of the repository payload we consume
type giteeRepo struct {
	Name          string `json:"name"`
	FullName      string `json:"full_name"`
	Private       bool   `json:"private"`
	HTMLURL       string `json:"html_url"`
	SSHURL        string `json:"ssh_url"`
	DefaultBranch string `json:"default_branch"`
	Owner         struct {
		Login string `json:"login"`
	} `json:"owner"`
	Namespace struct {
		Type string `json:"type"`
	} `json:"namespace"`
}

// giteeRelease is the subset of the release payload we consume
type giteeRelease struct {
	TagName         string    `json:"tag_name"`
	Name            string    `json:"name"`
	Body            string    `json:"body"`
	TargetCommitish string    `json:"target_commitish"`
	Prerelease      bool      `json:"prerelease"`
	CreatedAt       time.Time `json:"created_at"`
}

// GetCurrentUser returns the authenticated user
func (c *giteeClient) GetCurrentUser(ctx context.Context) (*Owner, error) {
	var user giteeUser
	if err := c.do(ctx, http.MethodGet, "/user", nil, &user); err != nil {
		return nil, err
	}
	return &Owner{Login: user.Login, Kind: OwnerUser}, nil
}

// GetUserOrganizations returns organizations the authenticated user belongs to
func (c *giteeClient) GetUserOrganizations(ctx context.Context) ([]Owner, error) {
	var orgs []giteeUser
	if err := c.do(ctx, http.MethodGet, "/user/orgs", nil, &orgs); err != nil {
		return nil, err
	}

	owners := make([]Owner, 0, len(orgs))
	for _, org := range orgs {
		owners = append(owners, Owner{Login: org.Login, Kind: OwnerOrganization})
	}
	return owners, nil
}

// RepositoryExists checks whether the repository is reachable
func (c *giteeClient) RepositoryExists(ctx context.Context, owner, name string) (bool, error) {
	var repo giteeRepo
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/repos/%s/%s", owner, name), nil, &repo)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// giteeCreateRepoRequest is the repository-creation payload
type giteeCreateRepoRequest struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Private     bool   `json:"private"`
}

// CreateUserRepository creates a repository owned by the authenticated user
func (c *giteeClient) CreateUserRepository(ctx context.Context, opts RepositoryOptions) (*Repository, error) {
	return c.createRepository(ctx, "/user/repos", opts)
}

// CreateOrganizationRepository creates a repository under an organization
func (c *giteeClient) CreateOrganizationRepository(ctx context.Context, org string, opts RepositoryOptions) (*Repository, error) {
	return c.createRepository(ctx, fmt.Sprintf("/orgs/%s/repos", org), opts)
}

func (c *giteeClient) createRepository(ctx context.Context, path string, opts RepositoryOptions) (*Repository, error) {
	request := giteeCreateRepoRequest{
		Name:        opts.Name,
		Description: opts.Description,
		Private:     opts.Private,
	}

	var repo giteeRepo
	if err := c.do(ctx, http.MethodPost, path, request, &repo); err != nil {
		return nil, err
	}
	return c.convertRepository(repo), nil
}

// GetRepository fetches repository metadata, nil when absent
func (c *giteeClient) GetRepository(ctx context.Context, owner, name string) (*Repository, error) {
	var repo giteeRepo
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/repos/%s/%s", owner, name), nil, &repo)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return c.convertRepository(repo), nil
}

// DeleteRepository deletes a repository
func (c *giteeClient) DeleteRepository(ctx context.Context, owner, name string) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/repos/%s/%s", owner, name), nil, nil)
}

// UpdateDefaultBranch sets the repository's default branch.
// Gitee's repository PATCH requires the name field to be present.
func (c *giteeClient) UpdateDefaultBranch(ctx context.Context, owner, name, branch string) error {
	request := map[string]string{
		"name":           name,
		"default_branch": branch,
	}
	return c.do(ctx, http.MethodPatch, fmt.Sprintf("/repos/%s/%s", owner, name), request, nil)
}

// giteeCreateReleaseRequest is the release-creation payload
type giteeCreateReleaseRequest struct {
	TagName         string `json:"tag_name"`
	Name            string `json:"name"`
	Body            string `json:"body"`
	TargetCommitish string `json:"target_commitish,omitempty"`
	Prerelease      bool   `json:"prerelease"`
}

// CreateRelease publishes a release. Gitee cannot generate notes, so an empty
// body stays empty; Gitee also has no draft concept.
func (c *giteeClient) CreateRelease(ctx context.Context, owner, name string, opts ReleaseOptions) (*Release, error) {
	request := giteeCreateReleaseRequest{
		TagName:         opts.TagName,
		Name:            opts.Name,
		Body:            opts.Body,
		TargetCommitish: opts.TargetCommitish,
		Prerelease:      opts.Prerelease,
	}
	if request.Body == "" {
		// Gitee rejects empty bodies
		request.Body = opts.Name
	}

	var release giteeRelease
	path := fmt.Sprintf("/repos/%s/%s/releases", owner, name)
	if err := c.do(ctx, http.MethodPost, path, request, &release); err != nil {
		return nil, err
	}
	return convertGiteeRelease(release), nil
}

// GetLatestRelease returns the most recent release, nil when none exists
func (c *giteeClient) GetLatestRelease(ctx context.Context, owner, name string) (*Release, error) {
	var release giteeRelease
	path := fmt.Sprintf("/repos/%s/%s/releases/latest", owner, name)
	err := c.do(ctx, http.MethodGet, path, nil, &release)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return convertGiteeRelease(release), nil
}

// ReleaseExists checks whether a release for the tag exists
func (c *giteeClient) ReleaseExists(ctx context.Context, owner, name, tag string) (bool, error) {
	var release giteeRelease
	path := fmt.Sprintf("/repos/%s/%s/releases/tags/%s", owner, name, tag)
	err := c.do(ctx, http.MethodGet, path, nil, &release)
	if err != nil {
		if IsNotFound(err) {
			return false, nil
		}
		return false, err
	}
	// Gitee answers 200 with an empty object for unknown tags
	return release.TagName != "", nil
}

// CompareURL returns the Gitee compare page for two refs
func (c *giteeClient) CompareURL(owner, name, base, head string) string {
	return fmt.Sprintf("%s/%s/%s/compare/%s...%s", c.webURL, owner, name, base, head)
}

// convertRepository maps the wire type onto ours
func (c *giteeClient) convertRepository(repo giteeRepo) *Repository {
	ownerKind := OwnerUser
	if repo.Namespace.Type == "group" {
		ownerKind = OwnerOrganization
	}

	defaultBranch := repo.DefaultBranch
	if defaultBranch == "" {
		// Gitee predates the main rename and still defaults to master
		defaultBranch = constants.MasterBranch
	}

	return &Repository{
		Name:          repo.Name,
		FullName:      repo.FullName,
		Private:       repo.Private,
		CloneURL:      repo.HTMLURL,
		SSHURL:        repo.SSHURL,
		DefaultBranch: defaultBranch,
		Owner: Owner{
			Login: repo.Owner.Login,
			Kind:  ownerKind,
		},
	}
}

func convertGiteeRelease(release giteeRelease) *Release {
	return &Release{
		TagName:         release.TagName,
		Name:            release.Name,
		Body:            release.Body,
		TargetCommitish: release.TargetCommitish,
		Prerelease:      release.Prerelease,
		PublishedAt:     release.CreatedAt,
	}
}
