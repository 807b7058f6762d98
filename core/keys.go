package core

import "strings"

// ComputeEffectiveKey returns the component key used on the remote server.
// An explicit key always wins. Otherwise the key is derived as
// "<projectKey>[:<branch>]:<resourceKey>", and the project itself
// (empty resourceKey) is addressed as "<projectKey>[:<branch>]".
func ComputeEffectiveKey(explicit, projectKey, branch, resourceKey string) string {
	if explicit != "" {
		return explicit
	}
	var b strings.Builder
	b.WriteString(projectKey)
	if branch != "" {
		b.WriteString(":")
		b.WriteString(branch)
	}
	if resourceKey != "" {
		b.WriteString(":")
		b.WriteString(resourceKey)
	}
	return b.String()
}
