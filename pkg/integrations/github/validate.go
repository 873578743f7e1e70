package github

import (
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidRef is returned when an owner, login or repository name cannot
// name a GitHub resource.
var ErrInvalidRef = errors.New("invalid github reference")

var (
	// GitHub usernames/orgs: 1-39 alphanumeric or hyphen, not starting with hyphen
	validOwner = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9-]{0,38}$`)
	// GitHub repo names: 1-100 alphanumeric, hyphen, underscore, or dot
	validRepo = regexp.MustCompile(`^[a-zA-Z0-9._-]{1,100}$`)
)

// ValidateOwner validates a GitHub username or organization name.
func ValidateOwner(owner string) error {
	if owner == "" {
		return fmt.Errorf("%w: owner is required", ErrInvalidRef)
	}
	if !validOwner.MatchString(owner) {
		return fmt.Errorf("%w: owner %q must be 1-39 alphanumeric characters or hyphens", ErrInvalidRef, owner)
	}
	return nil
}

// ValidateRepo validates a GitHub repository name.
func ValidateRepo(repo string) error {
	if repo == "" {
		return fmt.Errorf("%w: repo is required", ErrInvalidRef)
	}
	if repo == "." || repo == ".." || !validRepo.MatchString(repo) {
		return fmt.Errorf("%w: repo %q must be 1-100 alphanumeric characters, hyphens, underscores, or dots", ErrInvalidRef, repo)
	}
	return nil
}

// ValidateRepoRef validates both owner and repo parameters.
func ValidateRepoRef(owner, repo string) error {
	if err := ValidateOwner(owner); err != nil {
		return err
	}
	return ValidateRepo(repo)
}
