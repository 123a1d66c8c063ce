// Package ingest turns raw OCR transcripts into candidate ingredient tokens.
//
// Processing happens in two stages. ExtractIngredientSection isolates the
// ingredient list from the rest of the label, and Tokenizer splits that list
// into cleaned, filtered, de-duplicated tokens.
package ingest

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Markers that introduce an ingredient list, in priority order. At equal
// positions the earlier entry wins, so "ingredients:" consumes its colon.
var sectionMarkers = []string{
	"ingredients:",
	"ingredients",
	"contains:",
	"contains",
	"made with:",
	"made from:",
	"composition:",
	"allergen information:",
	"allergen advice:",
	"allergy advice:",
}

// Boilerplate that follows the ingredient list. Each match cuts itself and
// everything after it.
var sectionSuffixes = []string{
	"may contain",
	"manufactured in",
	"produced in",
	`nutrition(?:al)? information`,
	"storage:",
	"store in",
	"best before",
	"use by",
	"packed in",
	"produced for",
	"distributed by",
}

var (
	markerPattern = regexp.MustCompile(`(?i)\b(?:` + alternation(sectionMarkers, true) + `)`)
	suffixPattern = regexp.MustCompile(`(?i)\b(?:` + alternation(sectionSuffixes, false) + `)`)
)

const sectionTrim = " \t\r\n.,;:"

// ExtractIngredientSection returns the ingredient list part of a transcript.
// Text up to and including the earliest marker is dropped; when no marker is
// present the whole transcript is used. Trailing boilerplate ("Best before",
// "May contain traces of ...") is cut off.
func ExtractIngredientSection(text string) string {
	text = norm.NFKC.String(text)
	if strings.TrimSpace(text) == "" {
		return ""
	}

	if loc := markerPattern.FindStringIndex(text); loc != nil {
		text = text[loc[1]:]
	}
	if loc := suffixPattern.FindStringIndex(text); loc != nil {
		text = text[:loc[0]]
	}
	return strings.Trim(text, sectionTrim)
}

// HasMarker reports whether text contains an ingredient list marker.
func HasMarker(text string) bool {
	return markerPattern.MatchString(norm.NFKC.String(text))
}

func alternation(terms []string, quote bool) string {
	parts := make([]string, len(terms))
	for i, t := range terms {
		if quote {
			t = regexp.QuoteMeta(t)
		}
		parts[i] = t
	}
	return strings.Join(parts, "|")
}
