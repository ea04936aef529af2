package usecase

import "sync"

// Registry is the append-only set of wallet addresses known to the process.
type Registry struct {
	mu        sync.RWMutex
	addresses []string
	index     map[string]struct{}
	onAdd     []func(address string)
}

func NewRegistry() *Registry {
	return &Registry{index: make(map[string]struct{})}
}

// Add appends the unknown addresses and returns them in order.
func (r *Registry) Add(addresses ...string) []string {
	r.mu.Lock()
	added := make([]string, 0, len(addresses))
	for _, address := range addresses {
		if address == "" {
			continue
		}
		if _, ok := r.index[address]; ok {
			continue
		}
		r.index[address] = struct{}{}
		r.addresses = append(r.addresses, address)
		added = append(added, address)
	}
	handlers := append([]func(string){}, r.onAdd...)
	r.mu.Unlock()

	for _, address := range added {
		for _, fn := range handlers {
			fn(address)
		}
	}
	return added
}

func (r *Registry) Contains(address string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.index[address]
	return ok
}

func (r *Registry) Addresses() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.addresses...)
}

// Last returns the most recently added address.
func (r *Registry) Last() (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.addresses) == 0 {
		return "", false
	}
	return r.addresses[len(r.addresses)-1], true
}

// OnAdd registers fn for addresses added from now on.
func (r *Registry) OnAdd(fn func(address string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onAdd = append(r.onAdd, fn)
}
