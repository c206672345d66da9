package avatar

import (
	"math/rand"
	"net/url"
	"strconv"
)

const apiBase = "https://api.dicebear.com/9.x/notionists/svg"

const backgroundPalette = "b6e3f4,c0aede,d1d4f9"

// URL builds a deterministic avatar URL seeded by the collaborator name.
// An empty name falls back to a random seed.
func URL(name string) string {
	seed := name
	if seed == "" {
		seed = strconv.FormatInt(rand.Int63(), 36)
	}
	return apiBase + "?seed=" + url.QueryEscape(seed) + "&backgroundColor=" + backgroundPalette
}
