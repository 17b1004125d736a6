package platform

import "fmt"

// NewClient creates the platform client matching the credential's kind
func NewClient(cred Credential) (Client, error) {
	if cred.Token == "" {
		return nil, fmt.Errorf("%s: access token is required", cred.Kind)
	}

	switch cred.Kind {
	case KindGitHub:
		return NewGitHubClient(cred)
	case KindGitee:
		return NewGiteeClient(cred)
	default:
		return nil, fmt.Errorf("unsupported platform: %s", cred.Kind)
	}
}
