// Package platform provides a platform-agnostic client for remote Git hosting
// services. Two implementations exist, GitHub and Gitee; callers hold only the
// Client interface and never branch on the concrete platform.
package platform

import (
	"context"
	"time"
)

// Kind identifies a hosting platform
type Kind string

const (
	KindGitHub Kind = "github"
	KindGitee  Kind = "gitee"
)

// OwnerKind distinguishes user-owned from organization-owned repositories
type OwnerKind string

const (
	OwnerUser         OwnerKind = "user"
	OwnerOrganization OwnerKind = "org"
)

// Credential carries what a client needs to authenticate.
// BaseURL is only set for enterprise deployments.
type Credential struct {
	Kind    Kind
	Token   string
	BaseURL string
}

// Owner is a user or organization on the platform
type Owner struct {
	Login string
	Kind  OwnerKind
}

// Repository describes a remote repository
type Repository struct {
	Name          string
	FullName      string
	Private       bool
	CloneURL      string
	SSHURL        string
	DefaultBranch string
	Owner         Owner
}

// RepositoryOptions are the inputs to repository creation
type RepositoryOptions struct {
	Name        string
	Description string
	Private     bool
}

// ReleaseOptions are the inputs to release creation
type ReleaseOptions struct {
	TagName         string
	Name            string
	Body            string
	TargetCommitish string
	Draft           bool
	Prerelease      bool
	// GenerateNotes asks the platform to synthesize the body when ours is
	// empty. Ignored by platforms without that capability.
	GenerateNotes bool
}

// Release describes a published release
type Release struct {
	TagName         string
	Name            string
	Body            string
	TargetCommitish string
	Draft           bool
	Prerelease      bool
	PublishedAt     time.Time
}

// Client is the capability set every hosting platform adapter implements.
// A remote "not found" is reported as an absence value (nil or false), never
// as an error; every other failure is an *APIError.
type Client interface {
	// Kind returns the platform tag the client was constructed with
	Kind() Kind

	// User and organization lookup
	GetCurrentUser(ctx context.Context) (*Owner, error)
	GetUserOrganizations(ctx context.Context) ([]Owner, error)

	// Repository CRUD
	RepositoryExists(ctx context.Context, owner, name string) (bool, error)
	CreateUserRepository(ctx context.Context, opts RepositoryOptions) (*Repository, error)
	CreateOrganizationRepository(ctx context.Context, org string, opts RepositoryOptions) (*Repository, error)
	GetRepository(ctx context.Context, owner, name string) (*Repository, error)
	DeleteRepository(ctx context.Context, owner, name string) error
	UpdateDefaultBranch(ctx context.Context, owner, name, branch string) error

	// Releases
	CreateRelease(ctx context.Context, owner, name string, opts ReleaseOptions) (*Release, error)
	GetLatestRelease(ctx context.Context, owner, name string) (*Release, error)
	ReleaseExists(ctx context.Context, owner, name, tag string) (bool, error)

	// CompareURL returns the web URL comparing two refs, for release notes
	CompareURL(owner, name, base, head string) string
}
