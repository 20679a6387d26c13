// Package proctitle names the running process so ps and top show its role.
package proctitle

import "strings"

// compose joins name and role as "name:role" and cuts the result to limit bytes,
// shortening the role first.
func compose(name, role string, limit int) string {
	name = strings.TrimSpace(name)
	role = strings.TrimSpace(role)
	title := name
	if role != "" {
		title = name + ":" + role
	}
	if limit > 0 && len(title) > limit {
		title = title[:limit]
	}
	return strings.TrimSuffix(title, ":")
}
