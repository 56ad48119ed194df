package naming

import "sync"

// Registry tracks the date+sanitized-title keys issued during one scraping
// run so genuinely different reports landing on the same key can be told
// apart. It is created empty per run and never persisted; counts only grow.
// All methods are goroutine-safe, though the baseline pipeline is
// sequential.
type Registry struct {
	mu     sync.Mutex
	counts map[registryKey]int
}

type registryKey struct {
	date  string
	title string
}

// NewRegistry creates a ready-to-use registry.
func NewRegistry() *Registry {
	return &Registry{counts: make(map[registryKey]int)}
}

// Claim records one more report for the date+title key and returns how many
// distinct reports had already claimed it. The lookup and increment form a
// single critical section so the collision count stays consistent if callers
// ever parallelize.
func (r *Registry) Claim(datePart, sanitizedTitle string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := registryKey{date: datePart, title: sanitizedTitle}
	n := r.counts[k]
	r.counts[k] = n + 1
	return n
}

// Len reports the number of distinct keys claimed so far.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.counts)
}
