package medusa

import (
	"strings"

	"github.com/mattn/go-zglob"
	"github.com/pkg/errors"
)

// ErrEmptySelector is returned when a selector has no patterns.
var ErrEmptySelector = errors.New("medusa: empty selector")

// Resolver turns a selector into the nodes it selects under container.
type Resolver interface {
	Resolve(container *Node, selector string) ([]*Node, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(container *Node, selector string) ([]*Node, error)

// Resolve calls f.
func (f ResolverFunc) Resolve(container *Node, selector string) ([]*Node, error) {
	return f(container, selector)
}

// GlobResolver selects descendants of the container whose name, or whose
// slash-separated path below the container, matches a glob pattern. Several
// patterns may be separated by commas. "**" crosses path segments:
//
//	"m-snake"          every node named m-snake
//	"list/*"           direct children of a child named list
//	"hud/**/badge-*"   badge-* nodes anywhere below hud
//
// Matches are returned in depth-first tree order without duplicates.
type GlobResolver struct{}

// Resolve implements Resolver.
func (GlobResolver) Resolve(container *Node, selector string) ([]*Node, error) {
	if container == nil {
		return nil, errors.New("medusa: nil container")
	}
	var patterns []string
	for _, p := range strings.Split(selector, ",") {
		if p = strings.TrimSpace(p); p != "" {
			patterns = append(patterns, p)
		}
	}
	if len(patterns) == 0 {
		return nil, ErrEmptySelector
	}

	var (
		out     []*Node
		walkErr error
	)
	container.Walk(func(n *Node) bool {
		if walkErr != nil {
			return false
		}
		path := n.PathFrom(container)
		for _, p := range patterns {
			ok, err := matchNode(p, n.Name, path)
			if err != nil {
				walkErr = errors.Wrapf(err, "selector %q", p)
				return false
			}
			if ok {
				out = append(out, n)
				break
			}
		}
		return true
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return out, nil
}

func matchNode(pattern, name, path string) (bool, error) {
	if !strings.Contains(pattern, "/") {
		return zglob.Match(pattern, name)
	}
	return zglob.Match(pattern, path)
}
