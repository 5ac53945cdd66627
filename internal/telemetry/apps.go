package telemetry

import "strings"

// FilterApps returns the apps whose name or version contains query,
// case-insensitively. A blank query returns apps unchanged.
func FilterApps(apps []AppEntry, query string) []AppEntry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return apps
	}

	out := make([]AppEntry, 0, len(apps))
	for _, a := range apps {
		if strings.Contains(strings.ToLower(a.Name), q) ||
			strings.Contains(strings.ToLower(a.Version), q) {
			out = append(out, a)
		}
	}
	return out
}

// FindApp returns the app with the given name.
func FindApp(apps []AppEntry, name string) (AppEntry, bool) {
	for _, a := range apps {
		if a.Name == name {
			return a, true
		}
	}
	return AppEntry{}, false
}
