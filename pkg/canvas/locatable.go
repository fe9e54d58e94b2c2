package canvas

// Locatable is anything that can be assigned a solved pixel rectangle.
// Implementations may predeclare a fixed width or height (e.g. a legend box
// of known size); the solver turns each declared dimension into an implicit
// equation. Implementations must be comparable pointers: the registry
// deduplicates by identity.
type Locatable interface {
	// FixedWidth returns a predeclared width, if any.
	FixedWidth() (float64, bool)

	// FixedHeight returns a predeclared height, if any.
	FixedHeight() (float64, bool)

	// SetLocation receives the solved rectangle after a successful layout.
	SetLocation(Location)
}

// IndexedLocatables is an append-only, duplicate-rejecting registry of
// locatables. The index of a locatable is stable for the life of the
// registry and addresses its four-column block (left, bottom, right, top)
// in the layout system matrix.
type IndexedLocatables struct {
	objs []Locatable
}

// Add registers loc and returns its index. If loc is already registered,
// Add returns the existing index and reports added = false.
func (l *IndexedLocatables) Add(loc Locatable) (index int, added bool) {
	if i, ok := l.Index(loc); ok {
		return i, false
	}
	l.objs = append(l.objs, loc)
	return len(l.objs) - 1, true
}

// Index returns the index of loc, if registered.
func (l *IndexedLocatables) Index(loc Locatable) (int, bool) {
	for i, o := range l.objs {
		if o == loc {
			return i, true
		}
	}
	return 0, false
}

// Len returns the number of registered locatables.
func (l *IndexedLocatables) Len() int { return len(l.objs) }

// At returns the locatable at index i.
func (l *IndexedLocatables) At(i int) Locatable { return l.objs[i] }

// SetLocation pushes a solved rectangle into the locatable at index i.
func (l *IndexedLocatables) SetLocation(i int, loc Location) {
	l.objs[i].SetLocation(loc)
}
