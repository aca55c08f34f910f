package profile

import "fmt"

// archetypes maps a top genre (in normalized tag casing) to a persona title.
var archetypes = map[string]string{
	"Role-Playing (Rpg)":         "Dungeon Master",
	"Adventure":                  "Mythic Explorer",
	"Shooter":                    "Sharpshooter",
	"Strategy":                   "Grand Strategist",
	"Turn-Based Strategy (Tbs)":  "Tactician",
	"Real Time Strategy (Rts)":   "Commander",
	"Puzzle":                     "Mastermind",
	"Racing":                     "Speed Demon",
	"Sport":                      "MVP",
	"Fighting":                   "Grand Champion",
	"Simulator":                  "Architect",
	"Platform":                   "Platform Pro",
	"Indie":                      "Indie Connoisseur",
	"Hack And Slash/Beat 'Em Up": "Warrior",
}

// gamerType derives the persona label from the dominant genre and lifetime
// playtime. Total hours set the seniority prefix.
func gamerType(topGenre string, totalMinutes int) string {
	base, ok := archetypes[topGenre]
	if !ok {
		base = fmt.Sprintf("%s Enthusiast", topGenre)
	}

	hours := float64(totalMinutes) / 60
	var prefix string
	switch {
	case hours > 1000:
		prefix = "Legendary"
	case hours > 500:
		prefix = "Elite"
	case hours > 100:
		prefix = "Veteran"
	case hours > 20:
		prefix = "Seasoned"
	default:
		prefix = "Aspiring"
	}

	return prefix + " " + base
}
