package agents

import (
	"cmp"
	"net/url"
	"strings"
)

// Filters contains optional filtering criteria for agent config listings.
type Filters struct {
	Name   *string
	Status *SyncStatus
}

// FiltersFromQuery extracts filter values from URL query parameters.
func FiltersFromQuery(values url.Values) Filters {
	var f Filters
	if n := values.Get("name"); n != "" {
		f.Name = &n
	}
	if st := SyncStatus(values.Get("status")); st != "" {
		f.Status = &st
	}
	return f
}

func (f Filters) match(c *AgentConfig) bool {
	if f.Name != nil && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(*f.Name)) {
		return false
	}
	if f.Status != nil && c.SyncStatus != *f.Status {
		return false
	}
	return true
}

// compareField orders configs by a sortable field. Unknown fields compare equal.
func compareField(a, b *AgentConfig, field string) int {
	switch field {
	case "name":
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	case "created_at":
		return a.CreatedAt.Compare(b.CreatedAt)
	case "updated_at":
		return a.UpdatedAt.Compare(b.UpdatedAt)
	case "sync_status":
		return cmp.Compare(a.SyncStatus, b.SyncStatus)
	}
	return 0
}
