// Package errors defines the typed error taxonomy shared by the workflow engine.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Kind categorizes workflow errors for handling and rendering
type Kind string

const (
	KindValidation Kind = "validation"
	KindRepository Kind = "repository"
	KindPlatform   Kind = "platform"
	KindConfig     Kind = "config"
)

// FlowError represents a structured error with context
type FlowError struct {
	Kind    Kind
	Message string
	Hint    string
	Err     error
}

func (e *FlowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *FlowError) Unwrap() error {
	return e.Err
}

// UserFriendlyMessage returns a user-friendly error message with hint
func (e *FlowError) UserFriendlyMessage() string {
	msg := e.Message
	if e.Hint != "" {
		msg += "\n\nSuggestion: " + e.Hint
	}
	return msg
}

// New creates a new FlowError
func New(kind Kind, message string) *FlowError {
	return &FlowError{
		Kind:    kind,
		Message: message,
	}
}

// Wrap wraps an existing error with context
func Wrap(kind Kind, message string, err error) *FlowError {
	return &FlowError{
		Kind:    kind,
		Message: message,
		Err:     err,
	}
}

// WithHint adds a hint to an error
func WithHint(err *FlowError, hint string) *FlowError {
	err.Hint = hint
	return err
}

// IsKind reports whether err is a FlowError of the given kind
func IsKind(err error, kind Kind) bool {
	var fe *FlowError
	if stderrors.As(err, &fe) {
		return fe.Kind == kind
	}
	return false
}

// IsValidation reports whether err is a precondition violation
func IsValidation(err error) bool { return IsKind(err, KindValidation) }

// IsRepository reports whether err is a local git failure
func IsRepository(err error) bool { return IsKind(err, KindRepository) }

// IsPlatform reports whether err is a remote API failure
func IsPlatform(err error) bool { return IsKind(err, KindPlatform) }

// Common error constructors

// GitCommand wraps a failed git primitive with its name and diagnostic output
func GitCommand(primitive string, err error) *FlowError {
	return Wrap(KindRepository, fmt.Sprintf("git %s failed", primitive), err)
}

// NoDevelopBranch signals that publish has nothing to work with
func NoDevelopBranch(pattern string) *FlowError {
	return WithHint(
		New(KindValidation, fmt.Sprintf("no develop branch matching '%s' found locally or on the remote", pattern)),
		"Run 'gitflow commit' first to create a develop branch with your changes.",
	)
}

// ConflictsExist signals that the working tree has unresolved merge conflicts
func ConflictsExist(count int) *FlowError {
	return WithHint(
		New(KindValidation, fmt.Sprintf("working tree has %d conflicted file(s)", count)),
		"Resolve the conflicts, stage the files, then re-run the command.",
	)
}

// InvalidVersion signals a string that does not parse as semver
func InvalidVersion(value string) *FlowError {
	return WithHint(
		New(KindValidation, fmt.Sprintf("'%s' is not a valid semantic version", value)),
		"Use the form MAJOR.MINOR.PATCH, e.g. 1.2.0 or v1.2.0.",
	)
}

// VersionNotIncreased signals a version that would move backwards
func VersionNotIncreased(current, proposed string) *FlowError {
	return New(KindValidation,
		fmt.Sprintf("version %s is not greater than the current version %s", proposed, current))
}

// NotARepository signals that the working directory has no git repository
func NotARepository(path string) *FlowError {
	return WithHint(
		New(KindRepository, fmt.Sprintf("'%s' is not a git repository", path)),
		"Run 'gitflow init <repo-name>' to initialize one.",
	)
}

// ConfigRead wraps a failure to read a local config entry
func ConfigRead(key string, err error) *FlowError {
	return WithHint(
		Wrap(KindConfig, fmt.Sprintf("failed to read config entry '%s'", key), err),
		"Run 'gitflow init' to regenerate the local configuration.",
	)
}

// ConfigWrite wraps a failure to persist a local config entry
func ConfigWrite(key string, err error) *FlowError {
	return Wrap(KindConfig, fmt.Sprintf("failed to write config entry '%s'", key), err)
}

// TokenNotFound signals that no credential could be resolved for a platform
func TokenNotFound(platform string) *FlowError {
	return WithHint(
		New(KindConfig, fmt.Sprintf("no access token found for %s", platform)),
		fmt.Sprintf("Set the %s_TOKEN environment variable or store the token in Vault.", strings.ToUpper(platform)),
	)
}
