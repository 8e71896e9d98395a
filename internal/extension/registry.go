// Package extension renders HTML contributions into named points of pages.
//
// Pages call Render for their points, features Register contributors at
// startup. Nothing is patched into templates, a page without a Render call for
// a point never shows its contributions.
package extension

import (
	"errors"
	"html/template"
	"slices"
	"strings"
	"sync"
)

// Point names a place in a page where contributions are rendered.
type Point string

// Known injection points.
const (
	PointHTMLHead     Point = "html.head"
	PointAuthPage     Point = "auth.page"
	PointProfilePage  Point = "profile.page"
	PointOrgaSettings Point = "orga.settings"
)

var (
	// ErrUnknownPoint is returned when registering for a point no page renders.
	ErrUnknownPoint = errors.New("unknown extension point")
	// ErrNilContributor is returned when registering nil.
	ErrNilContributor = errors.New("contributor is nil")
)

// Context is what a contributor knows about the request.
type Context struct {
	// Path of the current request.
	Path string
	// Next is where the user continues after signing in.
	Next string
	// HidePasswordUI is the password form decision for this request.
	HidePasswordUI bool
	// Authenticated is set when a user is logged in.
	Authenticated bool
}

// Contributor renders one fragment.
type Contributor interface {
	Contribute(ctx Context) template.HTML
}

// ContributorFunc adapts a function to Contributor.
type ContributorFunc func(ctx Context) template.HTML

// Contribute calls f.
func (f ContributorFunc) Contribute(ctx Context) template.HTML {
	return f(ctx)
}

// Registry holds the contributors per point.
type Registry struct {
	mu           sync.RWMutex
	contributors map[Point][]Contributor
}

// NewRegistry returns a registry accepting the known points.
func NewRegistry() *Registry {
	return &Registry{
		contributors: map[Point][]Contributor{
			PointHTMLHead:     nil,
			PointAuthPage:     nil,
			PointProfilePage:  nil,
			PointOrgaSettings: nil,
		},
	}
}

// Register appends c to point.
func (r *Registry) Register(point Point, c Contributor) error {
	if c == nil {
		return ErrNilContributor
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	list, ok := r.contributors[point]
	if !ok {
		return errors.Join(ErrUnknownPoint, errors.New(string(point)))
	}

	r.contributors[point] = append(list, c)

	return nil
}

// Render concatenates the fragments of point in registration order.
func (r *Registry) Render(point Point, ctx Context) template.HTML {
	r.mu.RLock()
	list := slices.Clone(r.contributors[point])
	r.mu.RUnlock()

	var b strings.Builder

	for _, c := range list {
		b.WriteString(string(c.Contribute(ctx)))
	}

	return template.HTML(b.String()) //nolint:gosec
}

// Points returns the known points, sorted.
func (r *Registry) Points() []Point {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Point, 0, len(r.contributors))
	for p := range r.contributors {
		out = append(out, p)
	}

	slices.Sort(out)

	return out
}
