package pipeline

import "sync"

// ClaimSet tracks canonical filenames that already exist in the library or
// have been claimed during the current run. Claiming is atomic: exactly one
// caller wins a given name, so a track identified twice across batches or
// runs is written once.
type ClaimSet struct {
	mu    sync.Mutex
	names map[string]struct{}
}

// NewClaimSet returns an empty claim set.
func NewClaimSet() *ClaimSet {
	return &ClaimSet{names: make(map[string]struct{})}
}

// Seed marks names as already taken without claiming them to a caller.
// Used at startup with filenames scanned from the existing library.
func (c *ClaimSet) Seed(names []string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, name := range names {
		c.names[name] = struct{}{}
	}
}

// Claim attempts to take name. It returns true if the caller won the claim
// and false if the name was already taken.
func (c *ClaimSet) Claim(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, taken := c.names[name]; taken {
		return false
	}
	c.names[name] = struct{}{}
	return true
}

// Has reports whether name is already claimed.
func (c *ClaimSet) Has(name string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, taken := c.names[name]
	return taken
}

// Len returns the number of claimed names.
func (c *ClaimSet) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.names)
}
