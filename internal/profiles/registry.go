// Package profiles provides the read-only crop profile registry.
package profiles

import (
	"sort"
	"strings"
	"unicode"

	"github.com/agrichain/agrichain/internal/domain"
)

// Registry maps crop identities to storage profiles and classifier classes.
// It is built once and safe for concurrent reads.
type Registry struct {
	profiles    map[string]domain.CropProfile
	fallback    domain.CropProfile
	equivalence map[string]domain.EquivalenceClass
	names       []string
}

// NewRegistry builds the registry from the built-in catalogue.
func NewRegistry() *Registry {
	r := &Registry{
		profiles:    make(map[string]domain.CropProfile, len(catalogue)),
		equivalence: make(map[string]domain.EquivalenceClass, len(equivalence)),
	}
	for _, p := range catalogue {
		if p.Name == domain.DefaultCropName {
			r.fallback = p
			continue
		}
		r.profiles[p.Name] = p
		r.names = append(r.names, p.Name)
	}
	for k, v := range equivalence {
		r.equivalence[k] = v
	}
	sort.Strings(r.names)
	return r
}

// Lookup returns the profile for crop, or the Default profile when the crop
// is unknown. It never fails.
func (r *Registry) Lookup(crop string) domain.CropProfile {
	if p, ok := r.profiles[Normalize(crop)]; ok {
		return p
	}
	return r.fallback
}

// Known reports whether crop has its own profile.
func (r *Registry) Known(crop string) bool {
	_, ok := r.profiles[Normalize(crop)]
	return ok
}

// NearestEquivalent returns the classifier class closest to crop.
func (r *Registry) NearestEquivalent(crop string) domain.EquivalenceClass {
	if c, ok := r.equivalence[Normalize(crop)]; ok {
		return c
	}
	return domain.DefaultEquivalence
}

// Crops returns the sorted crop names, excluding Default.
func (r *Registry) Crops() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Normalize trims s and title-cases each word, so " sweet potato " becomes
// "Sweet Potato". A letter is upper-cased when it follows a non-letter.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
			continue
		}
		b.WriteRune(r)
		prevLetter = false
	}
	return b.String()
}
