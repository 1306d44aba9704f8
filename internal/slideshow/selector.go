package slideshow

import "math/rand/v2"

// Rand is the random source used for transition picks. *rand.Rand from
// math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

// PickRandom picks uniformly among catalog entries other than the random
// sentinel and last. When that leaves nothing it picks from the full set.
func PickRandom(catalog []TransitionSpec, last string, r Rand) TransitionSpec {
	all := make([]TransitionSpec, 0, len(catalog))
	candidates := make([]TransitionSpec, 0, len(catalog))
	for _, t := range catalog {
		if t.Name == RandomTransition {
			continue
		}
		all = append(all, t)
		if t.Name != last {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) == 0 {
		candidates = all
	}
	if len(candidates) == 0 {
		return TransitionSpec{}
	}
	return candidates[r.IntN(len(candidates))]
}

// TransitionSelector resolves the transition to play for the current slide.
// In random mode it re-picks on every slide change and on first use,
// never repeating the previous pick.
type TransitionSelector struct {
	rand        Rand
	catalog     []TransitionSpec
	active      TransitionSpec
	lastUsed    string
	prevIndex   int
	initialized bool
}

// NewTransitionSelector creates a selector over the built-in catalog. A nil
// source uses the global math/rand/v2 generator.
func NewTransitionSelector(r Rand) *TransitionSelector {
	return NewTransitionSelectorWithCatalog(Transitions(), r)
}

// NewTransitionSelectorWithCatalog creates a selector over a custom catalog
func NewTransitionSelectorWithCatalog(catalog []TransitionSpec, r Rand) *TransitionSelector {
	if r == nil {
		r = globalRand{}
	}
	s := &TransitionSelector{
		rand:    r,
		catalog: catalog,
	}
	if len(catalog) > 0 {
		s.active = catalog[0]
	}
	return s
}

// Select updates and returns the active transition for slide index under mode
// (a catalog name or RandomTransition).
func (s *TransitionSelector) Select(index int, mode string) TransitionSpec {
	if mode == RandomTransition {
		if !s.initialized || index != s.prevIndex {
			s.active = PickRandom(s.catalog, s.lastUsed, s.rand)
			s.lastUsed = s.active.Name
			s.initialized = true
		}
	} else {
		for _, t := range s.catalog {
			if t.Name == mode {
				s.active = t
				break
			}
		}
		s.lastUsed = ""
		s.initialized = false
	}
	s.prevIndex = index
	return s.active
}

// Active returns the transition chosen by the last Select call
func (s *TransitionSelector) Active() TransitionSpec {
	return s.active
}

// LastUsed returns the last random pick, or "" outside random mode
func (s *TransitionSelector) LastUsed() string {
	return s.lastUsed
}

// Reset forgets all history so the next Select behaves like a first render
func (s *TransitionSelector) Reset() {
	s.lastUsed = ""
	s.initialized = false
	s.prevIndex = 0
}
