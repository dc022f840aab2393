package catalog

import (
	"strings"

	"github.com/youruser/iconscreen/internal/util"
)

type FilterOptions struct {
	IDs       []string `json:"ids"`
	FreeWords string   `json:"free_words"`
	// RemoteOnly keeps entries whose icon is an http(s) URL.
	RemoteOnly bool `json:"remote_only"`
}

// Filter narrows a catalog. Every free word must appear (case-insensitive) in
// the title or description.
func Filter(entries []Entry, opt FilterOptions) []Entry {
	var out []Entry
	ids := map[string]bool{}
	for _, id := range opt.IDs {
		ids[id] = true
	}
	words := strings.Fields(strings.ToLower(opt.FreeWords))
	for _, e := range entries {
		if len(ids) > 0 && !ids[e.ID] {
			continue
		}
		if opt.RemoteOnly && !util.IsURL(e.Icon) {
			continue
		}
		if len(words) > 0 {
			hay := strings.ToLower(e.Title + " " + e.Description)
			ok := true
			for _, w := range words {
				if !strings.Contains(hay, w) {
					ok = false
					break
				}
			}
			if !ok {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}
