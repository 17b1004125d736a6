// Package notes synthesizes categorized release notes from a commit log.
// Classification is a pure, totally-ordered rule list so it stays testable
// without any git or network call.
package notes

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lcgerke/gitflow/internal/git"
)

// conventionalRegex matches a Conventional-Commits subject line with an
// optional scope and breaking marker: "feat(auth)!: add login"
var conventionalRegex = regexp.MustCompile(`^(feat|fix|docs|chore)(\([^)]*\))?(!)?:\s*(.+)$`)

const breakingMarker = "BREAKING CHANGE"

// entry is one classified commit
type entry struct {
	message   string
	shortHash string
}

// rule pairs a predicate with the category it assigns. Rules are evaluated
// top to bottom; the first match wins.
type rule struct {
	match    func(commit git.Commit) (string, bool)
	category Category
}

// conventionalCategory maps a conventional prefix onto a category
var conventionalCategory = map[string]Category{
	"feat":  CategoryFeature,
	"fix":   CategoryFix,
	"docs":  CategoryDocs,
	"chore": CategoryChore,
}

// rules builds the ordered rule list for a configuration
func rules(cfg Config) []rule {
	list := []rule{
		// Explicit breaking marker in the body outranks everything
		{
			category: CategoryBreaking,
			match: func(commit git.Commit) (string, bool) {
				if !strings.Contains(commit.Body, breakingMarker) {
					return "", false
				}
				return conventionalMessage(commit.Subject), true
			},
		},
		// Conventional prefix with the "!" breaking suffix
		{
			category: CategoryBreaking,
			match: func(commit git.Commit) (string, bool) {
				matches := conventionalRegex.FindStringSubmatch(commit.Subject)
				if matches == nil || matches[3] != "!" {
					return "", false
				}
				return matches[4], true
			},
		},
	}

	// One rule per conventional prefix, in section order
	for _, prefix := range []string{"feat", "fix", "docs", "chore"} {
		prefix := prefix
		list = append(list, rule{
			category: conventionalCategory[prefix],
			match: func(commit git.Commit) (string, bool) {
				matches := conventionalRegex.FindStringSubmatch(commit.Subject)
				if matches == nil || matches[1] != prefix {
					return "", false
				}
				return matches[4], true
			},
		})
	}

	if cfg.SmartCategorize {
		for _, category := range []Category{CategoryBreaking, CategoryFeature, CategoryFix, CategoryDocs, CategoryChore} {
			keywords := cfg.keywords(category)
			if len(keywords) == 0 {
				continue
			}
			category := category
			list = append(list, rule{
				category: category,
				match: func(commit git.Commit) (string, bool) {
					lower := strings.ToLower(commit.Subject)
					for _, keyword := range keywords {
						if strings.Contains(lower, keyword) {
							return commit.Subject, true
						}
					}
					return "", false
				},
			})
		}
	}

	// Catch-all
	list = append(list, rule{
		category: CategoryOther,
		match: func(commit git.Commit) (string, bool) {
			return commit.Subject, true
		},
	})

	return list
}

// conventionalMessage strips a conventional prefix when present
func conventionalMessage(subject string) string {
	if matches := conventionalRegex.FindStringSubmatch(subject); matches != nil {
		return matches[4]
	}
	return subject
}

// isConventional reports whether a commit is conventionally formatted,
// counting the body breaking marker as conventional.
func isConventional(commit git.Commit) bool {
	return conventionalRegex.MatchString(commit.Subject) ||
		strings.Contains(commit.Body, breakingMarker)
}

// Generate renders categorized markdown release notes for a commit range.
// compareURL, when non-empty, is appended as a full-changelog link. When
// fewer than cfg.MinConventional commits are conventionally formatted the
// result is an empty string, signaling the caller to fall back to the
// platform's generated notes.
func Generate(commits []git.Commit, cfg Config, compareURL string) string {
	if len(commits) == 0 {
		return ""
	}

	conventional := 0
	for _, commit := range commits {
		if isConventional(commit) {
			conventional++
		}
	}
	if conventional < cfg.MinConventional {
		return ""
	}

	ruleList := rules(cfg)
	sections := make(map[Category][]entry)
	for _, commit := range commits {
		for _, r := range ruleList {
			message, ok := r.match(commit)
			if !ok {
				continue
			}
			sections[r.category] = append(sections[r.category], entry{
				message:   message,
				shortHash: commit.ShortHash,
			})
			break
		}
	}

	var b strings.Builder
	b.WriteString("## What's Changed\n")
	for _, category := range sectionOrder {
		entries := sections[category]
		if len(entries) == 0 {
			continue
		}

		fmt.Fprintf(&b, "\n### %s\n\n", cfg.title(category))
		for _, e := range entries {
			if e.shortHash != "" {
				fmt.Fprintf(&b, "- %s (%s)\n", e.message, e.shortHash)
			} else {
				fmt.Fprintf(&b, "- %s\n", e.message)
			}
		}
	}

	if compareURL != "" {
		fmt.Fprintf(&b, "\n**Full Changelog**: %s\n", compareURL)
	}

	return b.String()
}

// Generator retrieves the commit log and renders notes for tag ranges
type Generator struct {
	git *git.Client
	cfg Config
}

// NewGenerator creates a release notes generator
func NewGenerator(gitClient *git.Client, cfg Config) *Generator {
	return &Generator{git: gitClient, cfg: cfg}
}

// ForRange generates notes for commits in previousTag..target. An empty
// previousTag covers the full history.
func (g *Generator) ForRange(previousTag, target, compareURL string) (string, error) {
	commits, err := g.git.Log(previousTag, target)
	if err != nil {
		return "", err
	}
	return Generate(commits, g.cfg, compareURL), nil
}
