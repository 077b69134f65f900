package maildispatch

import (
	"sort"
	"strings"
	"sync"

	"github.com/Emmastro/mail-dispatch/internal/core"
	"github.com/Emmastro/mail-dispatch/internal/providers/azure"
	"github.com/Emmastro/mail-dispatch/internal/providers/pubsub"
	"github.com/Emmastro/mail-dispatch/internal/providers/sendgrid"
	"github.com/Emmastro/mail-dispatch/internal/providers/ses"
)

// Built-in provider names.
const (
	ProviderSendGrid = sendgrid.Name
	ProviderAWSSES   = ses.Name
	ProviderAzure    = azure.Name
	ProviderGCP      = pubsub.Name
)

// Registry maps lower-cased provider names to provider factories. It is
// open for extension: additional providers can be registered at runtime
// without touching the built-in set. All methods are safe for concurrent
// use.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]core.Factory
}

// NewRegistry creates a registry pre-populated with the built-in providers.
func NewRegistry() *Registry {
	return &Registry{
		factories: map[string]core.Factory{
			sendgrid.Name: sendgrid.New,
			ses.Name:      ses.New,
			azure.Name:    azure.New,
			pubsub.Name:   pubsub.New,
		},
	}
}

// Register adds or replaces a provider factory. The name is lower-cased so
// lookups are case-insensitive.
func (r *Registry) Register(name string, factory core.Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[strings.ToLower(name)] = factory
}

// Lookup returns the factory registered under the lower-cased name.
func (r *Registry) Lookup(name string) (core.Factory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	factory, ok := r.factories[strings.ToLower(name)]
	return factory, ok
}

// Names returns the sorted list of registered provider names.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the registry used by New unless WithRegistry
// overrides it.
var DefaultRegistry = NewRegistry()

// Register adds a provider factory to the default registry.
func Register(name string, factory core.Factory) {
	DefaultRegistry.Register(name, factory)
}
