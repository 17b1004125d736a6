package platform

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v58/github"
	"golang.org/x/oauth2"

	"github.com/lcgerke/gitflow/internal/constants"
)

// githubClient implements Client against the GitHub REST API
type githubClient struct {
	client *github.Client
	webURL string
}

// NewGitHubClient creates a GitHub platform client. A non-empty BaseURL in the
// credential targets a GitHub Enterprise deployment.
func NewGitHubClient(cred Credential) (Client, error) {
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cred.Token})
	tc := oauth2.NewClient(context.Background(), ts)

	client := github.NewClient(tc)
	webURL := "https://github.com"
	if cred.BaseURL != "" {
		var err error
		client, err = client.WithEnterpriseURLs(cred.BaseURL, cred.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub base URL: %w", err)
		}
		webURL = strings.TrimSuffix(cred.BaseURL, "/")
	}

	return &githubClient{
		client: client,
		webURL: webURL,
	}, nil
}

// Kind returns "github"
func (c *githubClient) Kind() Kind {
	return KindGitHub
}

// wrapErr converts a go-github failure into an *APIError
func (c *githubClient) wrapErr(resp *github.Response, operation string, err error) error {
	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	return classify(KindGitHub, statusCode, fmt.Sprintf("%s failed: %v", operation, err), err)
}

// isNotFound reports whether a response carries HTTP 404
func isNotFound(resp *github.Response) bool {
	return resp != nil && resp.StatusCode == http.StatusNotFound
}

// GetCurrentUser returns the authenticated user
func (c *githubClient) GetCurrentUser(ctx context.Context) (*Owner, error) {
	user, resp, err := c.client.Users.Get(ctx, "")
	if err != nil {
		return nil, c.wrapErr(resp, "get current user", err)
	}

	return &Owner{Login: user.GetLogin(), Kind: OwnerUser}, nil
}

// GetUserOrganizations returns organizations the authenticated user belongs to
func (c *githubClient) GetUserOrganizations(ctx context.Context) ([]Owner, error) {
	orgs, resp, err := c.client.Organizations.List(ctx, "", nil)
	if err != nil {
		return nil, c.wrapErr(resp, "list organizations", err)
	}

	owners := make([]Owner, 0, len(orgs))
	for _, org := range orgs {
		owners = append(owners, Owner{Login: org.GetLogin(), Kind: OwnerOrganization})
	}
	return owners, nil
}

// RepositoryExists checks whether the repository is reachable
func (c *githubClient) RepositoryExists(ctx context.Context, owner, name string) (bool, error) {
	_, resp, err := c.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		if isNotFound(resp) {
			return false, nil
		}
		return false, c.wrapErr(resp, "get repository", err)
	}
	return true, nil
}

// CreateUserRepository creates a repository owned by the authenticated user
func (c *githubClient) CreateUserRepository(ctx context.Context, opts RepositoryOptions) (*Repository, error) {
	return c.createRepository(ctx, "", opts)
}

// CreateOrganizationRepository creates a repository under an organization
func (c *githubClient) CreateOrganizationRepository(ctx context.Context, org string, opts RepositoryOptions) (*Repository, error) {
	return c.createRepository(ctx, org, opts)
}

func (c *githubClient) createRepository(ctx context.Context, org string, opts RepositoryOptions) (*Repository, error) {
	repo, resp, err := c.client.Repositories.Create(ctx, org, &github.Repository{
		Name:        github.String(opts.Name),
		Description: github.String(opts.Description),
		Private:     github.Bool(opts.Private),
	})
	if err != nil {
		return nil, c.wrapErr(resp, "create repository", err)
	}

	return c.convertRepository(repo), nil
}

// GetRepository fetches repository metadata, nil when absent
func (c *githubClient) GetRepository(ctx context.Context, owner, name string) (*Repository, error) {
	repo, resp, err := c.client.Repositories.Get(ctx, owner, name)
	if err != nil {
		if isNotFound(resp) {
			return nil, nil
		}
		return nil, c.wrapErr(resp, "get repository", err)
	}
	return c.convertRepository(repo), nil
}

// DeleteRepository deletes a repository
func (c *githubClient) DeleteRepository(ctx context.Context, owner, name string) error {
	resp, err := c.client.Repositories.Delete(ctx, owner, name)
	if err != nil {
		return c.wrapErr(resp, "delete repository", err)
	}
	return nil
}

// UpdateDefaultBranch sets the repository's default branch
func (c *githubClient) UpdateDefaultBranch(ctx context.Context, owner, name, branch string) error {
	_, resp, err := c.client.Repositories.Edit(ctx, owner, name, &github.Repository{
		DefaultBranch: github.String(branch),
	})
	if err != nil {
		return c.wrapErr(resp, "update default branch", err)
	}
	return nil
}

// CreateRelease publishes a release. When GenerateNotes is set and no body was
// supplied, GitHub synthesizes the body from merged changes.
func (c *githubClient) CreateRelease(ctx context.Context, owner, name string, opts ReleaseOptions) (*Release, error) {
	release := &github.RepositoryRelease{
		TagName:    github.String(opts.TagName),
		Name:       github.String(opts.Name),
		Draft:      github.Bool(opts.Draft),
		Prerelease: github.Bool(opts.Prerelease),
	}
	if opts.TargetCommitish != "" {
		release.TargetCommitish = github.String(opts.TargetCommitish)
	}
	if opts.Body != "" {
		release.Body = github.String(opts.Body)
	} else if opts.GenerateNotes {
		release.GenerateReleaseNotes = github.Bool(true)
	}

	created, resp, err := c.client.Repositories.CreateRelease(ctx, owner, name, release)
	if err != nil {
		return nil, c.wrapErr(resp, "create release", err)
	}
	return convertGitHubRelease(created), nil
}

// GetLatestRelease returns the most recent release, nil when none exists
func (c *githubClient) GetLatestRelease(ctx context.Context, owner, name string) (*Release, error) {
	release, resp, err := c.client.Repositories.GetLatestRelease(ctx, owner, name)
	if err != nil {
		if isNotFound(resp) {
			return nil, nil
		}
		return nil, c.wrapErr(resp, "get latest release", err)
	}
	return convertGitHubRelease(release), nil
}

// ReleaseExists checks whether a release for the tag exists
func (c *githubClient) ReleaseExists(ctx context.Context, owner, name, tag string) (bool, error) {
	_, resp, err := c.client.Repositories.GetReleaseByTag(ctx, owner, name, tag)
	if err != nil {
		if isNotFound(resp) {
			return false, nil
		}
		return false, c.wrapErr(resp, "get release by tag", err)
	}
	return true, nil
}

// CompareURL returns the GitHub compare page for two refs
func (c *githubClient) CompareURL(owner, name, base, head string) string {
	return fmt.Sprintf("%s/%s/%s/compare/%s...%s", c.webURL, owner, name, base, head)
}

// convertRepository maps the SDK type onto ours
func (c *githubClient) convertRepository(repo *github.Repository) *Repository {
	ownerKind := OwnerUser
	if repo.GetOwner().GetType() == "Organization" {
		ownerKind = OwnerOrganization
	}

	defaultBranch := repo.GetDefaultBranch()
	if defaultBranch == "" {
		defaultBranch = constants.DefaultMainBranch
	}

	return &Repository{
		Name:          repo.GetName(),
		FullName:      repo.GetFullName(),
		Private:       repo.GetPrivate(),
		CloneURL:      repo.GetCloneURL(),
		SSHURL:        repo.GetSSHURL(),
		DefaultBranch: defaultBranch,
		Owner: Owner{
			Login: repo.GetOwner().GetLogin(),
			Kind:  ownerKind,
		},
	}
}

func convertGitHubRelease(release *github.RepositoryRelease) *Release {
	return &Release{
		TagName:         release.GetTagName(),
		Name:            release.GetName(),
		Body:            release.GetBody(),
		TargetCommitish: release.GetTargetCommitish(),
		Draft:           release.GetDraft(),
		Prerelease:      release.GetPrerelease(),
		PublishedAt:     release.GetPublishedAt().Time,
	}
}
