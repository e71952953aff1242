package service

import (
	"encoding/json"
)

// parseKeptImages decodes the client's serialized list of image URLs to keep.
//
// Anything that is not a JSON array of strings decodes to an empty list, which
// means "keep none". That includes an absent field (""), "null" and truncated
// input. Clients have relied on this lenient fallback, so a malformed list is
// never an error.
func parseKeptImages(raw string) []string {
	var kept []string
	if err := json.Unmarshal([]byte(raw), &kept); err != nil || kept == nil {
		return []string{}
	}
	return kept
}

// reconcileImages splits existing into the images to keep and the images to
// remove. Only URLs already present in existing can be kept; duplicates in
// requested are dropped and the client's order is preserved.
func reconcileImages(existing, requested []string) (kept, removed []string) {
	present := make(map[string]struct{}, len(existing))
	for _, url := range existing {
		present[url] = struct{}{}
	}

	kept = make([]string, 0, len(requested))
	keep := make(map[string]struct{}, len(requested))
	for _, url := range requested {
		if _, ok := present[url]; !ok {
			continue
		}
		if _, dup := keep[url]; dup {
			continue
		}
		keep[url] = struct{}{}
		kept = append(kept, url)
	}

	removed = make([]string, 0, len(existing))
	for _, url := range existing {
		if _, ok := keep[url]; !ok {
			removed = append(removed, url)
		}
	}
	return kept, removed
}
