package sections

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/lumenworks/sectioncms/internal/validation"
)

var (
	ErrTypeRequired = errors.New("sections: type is required")
	ErrTypeExists   = errors.New("sections: type already registered")
)

// Definition describes one section type: the JSON schema its content must satisfy
// and, optionally, the typed variant it decodes into.
type Definition struct {
	Type   Type
	Schema map[string]any
	// New returns a pointer to an empty typed variant. When nil, content decodes
	// into GenericContent.
	New func() Content
}

type registryEntry struct {
	definition Definition
	schema     *validation.Schema
}

// Registry is the dispatch table from section type to content validator and decoder.
type Registry struct {
	mu      sync.RWMutex
	entries map[Type]registryEntry
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[Type]registryEntry)}
}

// DefaultRegistry returns a registry holding every built-in section type.
func DefaultRegistry() *Registry {
	registry := NewRegistry()
	for _, def := range builtinDefinitions() {
		if err := registry.Register(def); err != nil {
			panic(err)
		}
	}
	return registry
}

// Register compiles and stores a definition. Registering a type twice fails.
func (r *Registry) Register(def Definition) error {
	if r == nil {
		return ErrTypeRequired
	}
	def.Type = Type(strings.TrimSpace(string(def.Type)))
	if def.Type == "" {
		return ErrTypeRequired
	}
	compiled, err := validation.Compile("section."+string(def.Type), def.Schema)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries == nil {
		r.entries = make(map[Type]registryEntry)
	}
	if _, exists := r.entries[def.Type]; exists {
		return fmt.Errorf("%w: %s", ErrTypeExists, def.Type)
	}
	r.entries[def.Type] = registryEntry{definition: def, schema: compiled}
	return nil
}

// Has reports whether a type is registered.
func (r *Registry) Has(sectionType Type) bool {
	_, ok := r.lookup(sectionType)
	return ok
}

// Types lists registered types in lexical order.
func (r *Registry) Types() []Type {
	if r == nil {
		return nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Type, 0, len(r.entries))
	for key := range r.entries {
		out = append(out, key)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Validate checks content against the schema registered for sectionType and returns
// it unchanged on success. Failures are *validation.Error values listing every
// offending path.
func (r *Registry) Validate(sectionType Type, content map[string]any) (map[string]any, error) {
	entry, ok := r.lookup(sectionType)
	if !ok {
		return nil, unknownTypeError(sectionType)
	}
	if content == nil {
		content = map[string]any{}
	}
	if err := entry.schema.Validate(content); err != nil {
		return nil, err
	}
	return content, nil
}

// Decode validates content and converts it into its typed variant.
func (r *Registry) Decode(sectionType Type, content map[string]any) (Content, error) {
	validated, err := r.Validate(sectionType, content)
	if err != nil {
		return nil, err
	}
	entry, _ := r.lookup(sectionType)
	if entry.definition.New == nil {
		return GenericContent{Kind: sectionType, Fields: validated}, nil
	}
	encoded, err := json.Marshal(validated)
	if err != nil {
		return nil, fmt.Errorf("sections: encode %s content: %w", sectionType, err)
	}
	target := entry.definition.New()
	if err := json.Unmarshal(encoded, target); err != nil {
		return nil, validation.NewError(validation.Issue{Message: err.Error()})
	}
	return target, nil
}

func (r *Registry) lookup(sectionType Type) (registryEntry, bool) {
	if r == nil {
		return registryEntry{}, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[Type(strings.TrimSpace(string(sectionType)))]
	return entry, ok
}

func unknownTypeError(sectionType Type) error {
	return validation.NewError(validation.Issue{
		Path:    "/type",
		Message: fmt.Sprintf("unknown section type %q", sectionType),
	})
}
