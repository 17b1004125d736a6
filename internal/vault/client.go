// Package vault reads platform access tokens from a HashiCorp Vault KV store.
// It is the last resort of the credential chain; everything here degrades to
// "not found" when Vault is unreachable.
package vault

import (
	"context"
	"fmt"
	"time"

	vault "github.com/hashicorp/vault/api"
)

const (
	mountPath    = "secret"
	healthProbe  = 2 * time.Second
	tokenPathFmt = "gitflow/%s/token"
)

// Client wraps the Vault API client
type Client struct {
	client *vault.Client
}

// NewClient creates a Vault client from the standard environment
// (VAULT_ADDR, VAULT_TOKEN).
func NewClient() (*Client, error) {
	config := vault.DefaultConfig()
	if config == nil {
		return nil, fmt.Errorf("failed to create default vault config")
	}

	client, err := vault.NewClient(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}

	return &Client{client: client}, nil
}

// IsReachable checks whether the Vault server answers its health endpoint
func (c *Client) IsReachable(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, healthProbe)
	defer cancel()

	_, err := c.client.Sys().HealthWithContext(ctx)
	return err == nil
}

// GetToken reads the access token stored for a platform at
// secret/gitflow/<platform>/token under the key "token".
func (c *Client) GetToken(ctx context.Context, platform string) (string, error) {
	path := fmt.Sprintf(tokenPathFmt, platform)
	secret, err := c.client.KVv2(mountPath).Get(ctx, path)
	if err != nil {
		return "", fmt.Errorf("failed to read secret at %s: %w", path, err)
	}
	if secret == nil || secret.Data == nil {
		return "", fmt.Errorf("no data found at %s", path)
	}

	token, ok := secret.Data["token"].(string)
	if !ok || token == "" {
		return "", fmt.Errorf("secret at %s has no 'token' field", path)
	}
	return token, nil
}

// PutToken stores the access token for a platform
func (c *Client) PutToken(ctx context.Context, platform, token string) error {
	path := fmt.Sprintf(tokenPathFmt, platform)
	_, err := c.client.KVv2(mountPath).Put(ctx, path, map[string]interface{}{
		"token": token,
	})
	if err != nil {
		return fmt.Errorf("failed to write secret at %s: %w", path, err)
	}
	return nil
}
