// Package ci captures the CI environment signals that decide whether a
// release is due.
//
// Signals are read once into an immutable Context. Providers are consulted in
// a fixed order and the first provider that supplies any signal wins; signals
// from different providers are never merged.
package ci

import (
	"os"
	"strings"
)

// Context is a snapshot of the CI signals at invocation time.
// Empty strings mean the signal is absent.
type Context struct {
	// Provider names the CI provider the signals came from, or is empty when
	// no provider supplied a signal.
	Provider string `json:"provider,omitempty"`
	// Tag is the git tag the build was triggered for.
	Tag string `json:"tag,omitempty"`
	// Branch is the git branch the build was triggered for.
	Branch string `json:"branch,omitempty"`
}

// HasTag reports whether a tag signal is present.
func (c Context) HasTag() bool {
	return c.Tag != ""
}

// HasBranch reports whether a branch signal is present.
func (c Context) HasBranch() bool {
	return c.Branch != ""
}

// Detected reports whether any provider supplied a signal.
func (c Context) Detected() bool {
	return c.HasTag() || c.HasBranch()
}

// LookupFunc reads one environment variable. It has the shape of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Capture builds a Context from lookup using the default provider order.
func Capture(lookup LookupFunc) Context {
	return CaptureWith(DefaultProviders(), lookup)
}

// CaptureWith builds a Context from lookup, consulting providers in order.
func CaptureWith(providers []Provider, lookup LookupFunc) Context {
	for _, p := range providers {
		tag, branch := p.signals(lookup)
		if tag == "" && branch == "" {
			continue
		}
		return Context{Provider: p.Name, Tag: tag, Branch: branch}
	}
	return Context{}
}

// FromEnviron snapshots environ (as returned by os.Environ) and captures a
// Context from the copy, so later changes to the process environment cannot
// affect the decision.
func FromEnviron(environ []string) Context {
	snapshot := make(map[string]string, len(environ))
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		snapshot[key] = value
	}
	return Capture(func(key string) (string, bool) {
		v, ok := snapshot[key]
		return v, ok
	})
}

// FromProcess captures a Context from the current process environment.
func FromProcess() Context {
	return FromEnviron(os.Environ())
}
