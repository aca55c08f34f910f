// Package normalize provides utilities for normalizing titles and catalog tags.
package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	bracketRe = regexp.MustCompile(`\[.*?\]`)
	parenRe   = regexp.MustCompile(`\(.*?\)`)
	symbolRe  = regexp.MustCompile(`[©®™℠]`)
	nonWordRe = regexp.MustCompile(`[^a-z0-9\s]`)
	spaceRe   = regexp.MustCompile(`\s+`)

	titleCaser = cases.Title(language.English)
)

// Title normalizes a game title for matching across storefronts.
//   - Lowercase
//   - Removes content in brackets/parentheses (e.g., "Game (GOTY Edition)" -> "game")
//   - Removes special characters
//   - Collapses whitespace
func Title(title string) string {
	if title == "" {
		return ""
	}

	t := strings.ToLower(title)
	t = bracketRe.ReplaceAllString(t, "")
	t = parenRe.ReplaceAllString(t, "")

	// Replace copyright/trademark symbols with space to avoid word fusion.
	t = symbolRe.ReplaceAllString(t, " ")
	t = nonWordRe.ReplaceAllString(t, "")
	t = spaceRe.ReplaceAllString(t, " ")

	return strings.TrimSpace(t)
}

// TagTitle normalizes a genre or theme name by title-casing each word.
// Embedded acronyms lose their casing ("RPG" -> "Rpg"); that is deliberate:
// the whole pipeline normalizes through this one function, so profile keys
// and candidate tags always agree.
func TagTitle(tag string) string {
	return titleCaser.String(strings.ToLower(tag))
}

// TagTitles applies TagTitle to every element of a list.
func TagTitles(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = TagTitle(t)
	}
	return out
}

// Keyword normalizes a keyword name (lowercase, trimmed).
func Keyword(kw string) string {
	return strings.ToLower(strings.TrimSpace(kw))
}

// Keywords applies Keyword to every element of a list.
func Keywords(kws []string) []string {
	if len(kws) == 0 {
		return nil
	}
	out := make([]string, len(kws))
	for i, k := range kws {
		out[i] = Keyword(k)
	}
	return out
}
