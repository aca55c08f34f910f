package domain

import "sort"

// Counter is a weighted tag counter with zero-default lookup. It is the
// accumulator behind every preference vector in a Profile.
type Counter map[string]float64

// Add accumulates weight for a tag.
func (c Counter) Add(tag string, weight float64) {
	c[tag] += weight
}

// Get returns the accumulated weight for a tag, or 0 if absent.
func (c Counter) Get(tag string) float64 {
	return c[tag]
}

// Mean returns the mean of all weights, or 0 for an empty counter.
func (c Counter) Mean() float64 {
	if len(c) == 0 {
		return 0
	}
	var sum float64
	for _, w := range c {
		sum += w
	}
	return sum / float64(len(c))
}

// WeightedTag pairs a tag name with its accumulated weight.
type WeightedTag struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// Top returns the most-weighted tag. Ties break on the lexicographically
// smaller name so the result is stable across runs.
func (c Counter) Top() (string, float64) {
	var best string
	var bestWeight float64
	for tag, w := range c {
		if best == "" || w > bestWeight || (w == bestWeight && tag < best) {
			best = tag
			bestWeight = w
		}
	}
	return best, bestWeight
}

// TopN returns the n most-weighted tags in descending order.
func (c Counter) TopN(n int) []WeightedTag {
	tags := make([]WeightedTag, 0, len(c))
	for tag, w := range c {
		tags = append(tags, WeightedTag{Name: tag, Weight: w})
	}
	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Weight != tags[j].Weight {
			return tags[i].Weight > tags[j].Weight
		}
		return tags[i].Name < tags[j].Name
	})
	if n < len(tags) {
		tags = tags[:n]
	}
	return tags
}

// Profile is the ephemeral taste model computed from the library snapshot.
// It is rebuilt on every call and never persisted.
type Profile struct {
	Genres     Counter `json:"genres"`
	Themes     Counter `json:"themes"`
	Keywords   Counter `json:"keywords"`
	Developers Counter `json:"developers"`
	GameModes  Counter `json:"game_modes"`

	DislikedGenres     Counter `json:"disliked_genres"`
	DislikedThemes     Counter `json:"disliked_themes"`
	DislikedKeywords   Counter `json:"disliked_keywords"`
	DislikedDevelopers Counter `json:"disliked_developers"`

	NegativeKeywords Counter `json:"negative_keywords"`

	TotalMinutes int    `json:"total_minutes"`
	FavoriteGame string `json:"favorite_game"`
	GamerType    string `json:"gamer_type"`
}

// NewProfile returns a Profile with all counters initialized.
func NewProfile() *Profile {
	return &Profile{
		Genres:             Counter{},
		Themes:             Counter{},
		Keywords:           Counter{},
		Developers:         Counter{},
		GameModes:          Counter{},
		DislikedGenres:     Counter{},
		DislikedThemes:     Counter{},
		DislikedKeywords:   Counter{},
		DislikedDevelopers: Counter{},
		NegativeKeywords:   Counter{},
	}
}
