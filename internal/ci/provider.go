package ci

import "strings"

// Provider describes where one CI system exposes its tag and branch.
type Provider struct {
	// Name identifies the provider in logs and output.
	Name string
	// TagVar is the variable holding the tag, if the provider has one.
	TagVar string
	// BranchVar is the variable holding the branch, if the provider has one.
	BranchVar string
	// RefNameVar and RefTypeVar describe providers that expose one ref name
	// plus a type discriminator instead of separate tag and branch variables.
	RefNameVar string
	RefTypeVar string
}

// Provider names.
const (
	ProviderCircleCI      = "circleci"
	ProviderTravis        = "travis"
	ProviderGitHubActions = "github-actions"
	ProviderGitLab        = "gitlab"
)

// DefaultProviders returns the supported providers in precedence order.
func DefaultProviders() []Provider {
	return []Provider{
		{Name: ProviderCircleCI, TagVar: "CIRCLE_TAG", BranchVar: "CIRCLE_BRANCH"},
		{Name: ProviderTravis, TagVar: "TRAVIS_TAG", BranchVar: "TRAVIS_BRANCH"},
		{Name: ProviderGitHubActions, RefNameVar: "GITHUB_REF_NAME", RefTypeVar: "GITHUB_REF_TYPE"},
		{Name: ProviderGitLab, TagVar: "CI_COMMIT_TAG", BranchVar: "CI_COMMIT_BRANCH"},
	}
}

func (p Provider) signals(lookup LookupFunc) (tag, branch string) {
	tag = read(lookup, p.TagVar)
	branch = read(lookup, p.BranchVar)

	if p.RefNameVar != "" {
		name := read(lookup, p.RefNameVar)
		switch strings.ToLower(read(lookup, p.RefTypeVar)) {
		case "tag":
			tag = name
		case "branch":
			branch = name
		}
	}
	return tag, branch
}

func read(lookup LookupFunc, key string) string {
	if key == "" {
		return ""
	}
	v, ok := lookup(key)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}
