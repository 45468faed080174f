package auth

import (
	"net/http"
	"strings"
)

// Access is the authentication requirement of a route.
type Access int

const (
	// Protected routes require a valid, non-revoked token.
	Protected Access = iota
	// Public routes are served without a token.
	Public
)

func (a Access) String() string {
	if a == Public {
		return "public"
	}
	return "protected"
}

// AnyMethod matches every HTTP method in a RouteRule.
const AnyMethod = "*"

// RouteRule maps a set of methods and a path pattern to an Access value.
//
// Patterns are slash separated. A segment starting with ':' matches exactly
// one non-empty segment; a final '*' segment matches any remainder, including
// none.
type RouteRule struct {
	Methods []string
	Pattern string
	Access  Access
}

var (
	readMethods  = []string{http.MethodGet, http.MethodHead}
	writeMethods = []string{http.MethodPost}
)

// DefaultRules is the route table of the content API. Rules are evaluated in
// order; the first match decides.
var DefaultRules = []RouteRule{
	{Methods: []string{http.MethodOptions}, Pattern: "*", Access: Public},
	{Methods: []string{AnyMethod}, Pattern: "/api/auth/*", Access: Public},

	{Methods: readMethods, Pattern: "/api/posts", Access: Public},
	{Methods: readMethods, Pattern: "/api/posts/page", Access: Public},
	{Methods: readMethods, Pattern: "/api/categories", Access: Public},
	{Methods: readMethods, Pattern: "/api/categories/page", Access: Public},
	{Methods: readMethods, Pattern: "/api/configs", Access: Public},

	{Methods: writeMethods, Pattern: "/api/posts/:id/view", Access: Public},
	{Methods: writeMethods, Pattern: "/api/posts/:id/like", Access: Public},
	{Methods: writeMethods, Pattern: "/api/posts/:id/unlike", Access: Public},
}

type compiledRule struct {
	methods  map[string]struct{}
	anyVerb  bool
	segments []string
	access   Access
}

// Classifier decides per request whether authentication is required.
// It is immutable after construction and safe for concurrent use.
type Classifier struct {
	rules []compiledRule
}

// NewClassifier compiles rules. Requests matching no rule are Protected.
func NewClassifier(rules []RouteRule) *Classifier {
	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		cr := compiledRule{
			methods:  make(map[string]struct{}, len(r.Methods)),
			segments: splitPath(r.Pattern),
			access:   r.Access,
		}
		for _, m := range r.Methods {
			if m == AnyMethod {
				cr.anyVerb = true
				continue
			}
			cr.methods[strings.ToUpper(m)] = struct{}{}
		}
		compiled = append(compiled, cr)
	}
	return &Classifier{rules: compiled}
}

// NewDefaultClassifier returns a classifier over DefaultRules.
func NewDefaultClassifier() *Classifier {
	return NewClassifier(DefaultRules)
}

// Classify returns the access requirement for method and path.
func (c *Classifier) Classify(method, path string) Access {
	method = strings.ToUpper(method)
	segments := splitPath(path)

	for _, r := range c.rules {
		if !r.anyVerb {
			if _, ok := r.methods[method]; !ok {
				continue
			}
		}
		if matchSegments(r.segments, segments) {
			return r.access
		}
	}
	return Protected
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func matchSegments(pattern, path []string) bool {
	for i, seg := range pattern {
		if seg == "*" && i == len(pattern)-1 {
			return true
		}
		if i >= len(path) {
			return false
		}
		switch {
		case strings.HasPrefix(seg, ":"):
			if path[i] == "" {
				return false
			}
		case seg != path[i]:
			return false
		}
	}
	return len(pattern) == len(path)
}
