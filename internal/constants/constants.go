package constants

import "time"

// Remote names
const (
	DefaultRemote = "origin"
)

// Branch names
const (
	DefaultMainBranch    = "main"
	MasterBranch         = "master"
	DefaultDevelopBranch = "develop"
)

// Config keys persisted by the init phase
const (
	ConfigKeyPlatform  = "platform"
	ConfigKeyOwnerKind = "owner-kind"
	ConfigKeyOwner     = "owner"
)

// Generated repository artifacts
const (
	IgnoreFileName       = ".gitignore"
	ReleaseManifestName  = ".gitflow-release.yml"
	DefaultVersionPrefix = "v"
)

// Timeouts
const (
	DefaultFetchTimeout     = 30 * time.Second
	DefaultOperationTimeout = 10 * time.Second
	QuickOperationTimeout   = 5 * time.Second
	PlatformCallTimeout     = 30 * time.Second
)
