// Package conflict parses the conflict markers git writes into files when a
// merge cannot be resolved automatically, and rewrites those files according
// to a resolution policy.
package conflict

import (
	"fmt"
	"strings"
)

// Policy is the strategy applied to every conflicted hunk
type Policy int

const (
	// KeepLocal keeps the current branch's side ("ours")
	KeepLocal Policy = iota
	// KeepIncoming keeps the merged-in branch's side ("theirs")
	KeepIncoming
	// Union keeps the local lines followed by the incoming lines
	Union
)

// DefaultPolicy is used when no policy is configured
const DefaultPolicy = KeepLocal

var policyNames = map[Policy]string{
	KeepLocal:    "keep-local",
	KeepIncoming: "keep-incoming",
	Union:        "union",
}

var policyAliases = map[string]Policy{
	"keep-local":    KeepLocal,
	"local":         KeepLocal,
	"ours":          KeepLocal,
	"keep-incoming": KeepIncoming,
	"incoming":      KeepIncoming,
	"theirs":        KeepIncoming,
	"union":         Union,
	"both":          Union,
	"textual-merge": Union,
}

func (p Policy) String() string {
	if name, ok := policyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Policy(%d)", int(p))
}

// Valid reports whether p is one of the declared policies
func (p Policy) Valid() bool {
	_, ok := policyNames[p]
	return ok
}

// Description is a one-line explanation shown in prompts and help text
func (p Policy) Description() string {
	switch p {
	case KeepLocal:
		return "keep the current branch's version of each conflicting hunk"
	case KeepIncoming:
		return "keep the merged branch's version of each conflicting hunk"
	case Union:
		return "keep both versions, current branch first"
	default:
		return ""
	}
}

// Policies returns every policy in declaration order
func Policies() []Policy {
	return []Policy{KeepLocal, KeepIncoming, Union}
}

// ParsePolicy converts a policy name or alias to a Policy
func ParsePolicy(s string) (Policy, error) {
	if p, ok := policyAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return p, nil
	}
	names := make([]string, 0, len(policyNames))
	for _, p := range Policies() {
		names = append(names, p.String())
	}
	return 0, fmt.Errorf("unknown conflict policy %q (valid: %s)", s, strings.Join(names, ", "))
}

// MarshalText implements encoding.TextMarshaler
func (p Policy) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("invalid conflict policy %d", int(p))
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
