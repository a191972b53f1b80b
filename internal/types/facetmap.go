package types

// FacetMap maps Miller indices to the directories holding their
// calculation outputs. Iteration order is insertion order; a plain Go map
// would shuffle rows between runs. Overwriting a key keeps its original
// position, matching how explicit entries and discovered directories merge.
type FacetMap struct {
	keys []Miller
	dirs map[Miller]string
}

func NewFacetMap() *FacetMap {
	return &FacetMap{dirs: make(map[Miller]string)}
}

// Set adds or replaces the directory for m.
func (f *FacetMap) Set(m Miller, dir string) {
	if _, ok := f.dirs[m]; !ok {
		f.keys = append(f.keys, m)
	}
	f.dirs[m] = dir
}

// Get returns the directory for m.
func (f *FacetMap) Get(m Miller) (string, bool) {
	d, ok := f.dirs[m]
	return d, ok
}

// Keys returns the Miller indices in insertion order. The slice is shared;
// callers must not modify it.
func (f *FacetMap) Keys() []Miller {
	return f.keys
}

func (f *FacetMap) Len() int {
	return len(f.keys)
}
