// Package registry holds the named, versioned baseline collection. It is
// populated once at startup and read-only afterwards; mutation concurrent
// with lookups is not supported.
package registry

import (
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/cases"

	"github.com/sells-group/eval-cli/internal/model"
)

var (
	// ErrDuplicateName is returned when a baseline name or alias is
	// already registered.
	ErrDuplicateName = eris.New("registry: duplicate baseline name")
	// ErrNotFound is returned by Lookup for unknown baseline names.
	ErrNotFound = eris.New("registry: baseline not found")
)

// Registry indexes baselines by folded name and alias.
type Registry struct {
	names  []string
	byName map[string]*model.TestBaseline
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		byName: make(map[string]*model.TestBaseline),
	}
}

// fold canonicalizes a name for case-insensitive lookup.
func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// Register validates b and adds it under its test name plus any declared
// aliases. Registration order is preserved for Names.
func (r *Registry) Register(b *model.TestBaseline) error {
	if err := b.Validate(); err != nil {
		return eris.Wrap(err, "registry: register")
	}

	keys := append([]string{b.TestName}, b.Aliases...)
	for _, k := range keys {
		if _, exists := r.byName[fold(k)]; exists {
			return eris.Wrapf(ErrDuplicateName, "%q", k)
		}
	}

	for _, k := range keys {
		r.byName[fold(k)] = b
	}
	r.names = append(r.names, b.TestName)

	return nil
}

// Lookup finds a baseline by name or alias, case-insensitively. The
// not-found error lists every registered name.
func (r *Registry) Lookup(name string) (*model.TestBaseline, error) {
	if b, ok := r.byName[fold(name)]; ok {
		return b, nil
	}
	return nil, eris.Wrapf(ErrNotFound, "%q (registered: %s)", name, strings.Join(r.names, ", "))
}

// Names returns all registered baseline names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Len returns the number of registered baselines.
func (r *Registry) Len() int {
	return len(r.names)
}
