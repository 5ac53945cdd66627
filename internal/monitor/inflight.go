package monitor

import (
	"sort"
	"strconv"
)

// Keys for the in-flight action guard.
func KillKey(pid int) string         { return "kill:" + strconv.Itoa(pid) }
func UninstallKey(name string) string { return "uninstall:" + name }
func CleanKey(name string) string     { return "clean:" + name }

// ReloadAppsKey guards the app inventory fetch.
const ReloadAppsKey = "apps:reload"

// Inflight tracks actions that have been issued and not yet answered.
// An action whose key is pending is not issued again. Only the update
// pipeline touches it, so it has no lock.
type Inflight struct {
	pending map[string]struct{}
}

// NewInflight returns an empty guard.
func NewInflight() *Inflight {
	return &Inflight{pending: make(map[string]struct{})}
}

// Begin marks key as in flight. It returns false when key is already
// pending, in which case the caller must not issue the action.
func (f *Inflight) Begin(key string) bool {
	if _, ok := f.pending[key]; ok {
		return false
	}
	f.pending[key] = struct{}{}
	return true
}

// End releases key.
func (f *Inflight) End(key string) {
	delete(f.pending, key)
}

// Pending reports whether key is in flight.
func (f *Inflight) Pending(key string) bool {
	_, ok := f.pending[key]
	return ok
}

// Len returns the number of actions in flight.
func (f *Inflight) Len() int {
	return len(f.pending)
}

// Keys returns the pending keys in sorted order.
func (f *Inflight) Keys() []string {
	keys := make([]string, 0, len(f.pending))
	for k := range f.pending {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
