package config

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	errs "github.com/lcgerke/gitflow/internal/errors"
	"github.com/lcgerke/gitflow/internal/git"
	"github.com/lcgerke/gitflow/internal/platform"
	"github.com/lcgerke/gitflow/internal/vault"
)

// envTokens lists the environment variables consulted per platform,
// in precedence order.
var envTokens = map[platform.Kind][]string{
	platform.KindGitHub: {"GITHUB_TOKEN", "GH_TOKEN"},
	platform.KindGitee:  {"GITEE_TOKEN"},
}

// ghHost is the host entry shape of the gh CLI's hosts.yml
type ghHost struct {
	OAuthToken string `yaml:"oauth_token"`
}

// CredentialResolver finds an access token for a platform. Sources are tried
// in a fixed order: environment, gh CLI config, git config, Vault.
type CredentialResolver struct {
	git    *git.Client
	logger *zap.Logger

	// ghHostsPath overrides the gh hosts.yml location in tests
	ghHostsPath string
}

// NewCredentialResolver creates a resolver over the given repository
func NewCredentialResolver(gitClient *git.Client, logger *zap.Logger) *CredentialResolver {
	return &CredentialResolver{git: gitClient, logger: logger}
}

// Resolve returns a credential for the platform, or a config error naming
// every source it tried.
func (r *CredentialResolver) Resolve(ctx context.Context, kind platform.Kind) (platform.Credential, error) {
	if token := r.fromEnv(kind); token != "" {
		r.logger.Debug("resolved token from environment", zap.String("platform", string(kind)))
		return platform.Credential{Kind: kind, Token: token}, nil
	}

	if kind == platform.KindGitHub {
		if token := r.fromGhConfig(); token != "" {
			r.logger.Debug("resolved token from gh CLI config")
			return platform.Credential{Kind: kind, Token: token}, nil
		}
	}

	if token := r.git.ConfigGet(string(kind) + ".token"); token != "" {
		r.logger.Debug("resolved token from git config", zap.String("platform", string(kind)))
		return platform.Credential{Kind: kind, Token: token}, nil
	}

	if token := r.fromVault(ctx, kind); token != "" {
		r.logger.Debug("resolved token from vault", zap.String("platform", string(kind)))
		return platform.Credential{Kind: kind, Token: token}, nil
	}

	return platform.Credential{}, errs.TokenNotFound(string(kind))
}

// fromEnv checks the platform's environment variables
func (r *CredentialResolver) fromEnv(kind platform.Kind) string {
	for _, name := range envTokens[kind] {
		if token := os.Getenv(name); token != "" {
			return token
		}
	}
	return ""
}

// fromGhConfig reads the oauth token the gh CLI stores for github.com
func (r *CredentialResolver) fromGhConfig() string {
	path := r.ghHostsPath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		path = filepath.Join(home, ".config", "gh", "hosts.yml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return ""
	}

	hosts := map[string]ghHost{}
	if err := yaml.Unmarshal(data, &hosts); err != nil {
		return ""
	}
	return hosts["github.com"].OAuthToken
}

// fromVault tries the Vault token store, silently skipping it when the
// server is not configured or unreachable.
func (r *CredentialResolver) fromVault(ctx context.Context, kind platform.Kind) string {
	if os.Getenv("VAULT_ADDR") == "" {
		return ""
	}

	client, err := vault.NewClient()
	if err != nil {
		return ""
	}
	if !client.IsReachable(ctx) {
		r.logger.Debug("vault configured but unreachable, skipping")
		return ""
	}

	token, err := client.GetToken(ctx, string(kind))
	if err != nil {
		r.logger.Debug("vault token lookup failed", zap.Error(err))
		return ""
	}
	return token
}
