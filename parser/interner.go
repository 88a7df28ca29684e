package parser

// Interner maintains a pool of canonical strings so that repeated account
// names and currency codes share one backing instance. Ledger
// files repeat these heavily; interning trims a measurable slice of the
// allocation volume.
type Interner struct {
	pool map[string]string
}

// NewInterner creates an interner with the given initial capacity.
func NewInterner(capacity int) *Interner {
	return &Interner{pool: make(map[string]string, capacity)}
}

// Intern returns the canonical instance of s, installing it on first sight.
func (i *Interner) Intern(s string) string {
	if interned, ok := i.pool[s]; ok {
		return interned
	}
	i.pool[s] = s
	return s
}

// InternBytes interns the string form of b. The temporary string created
// for the map lookup is optimized away by the compiler on the hit path.
func (i *Interner) InternBytes(b []byte) string {
	if interned, ok := i.pool[string(b)]; ok {
		return interned
	}
	s := string(b)
	i.pool[s] = s
	return s
}

// Size returns the number of unique strings in the pool.
func (i *Interner) Size() int {
	return len(i.pool)
}
