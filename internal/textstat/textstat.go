// Package textstat counts words, characters and paragraphs.
package textstat

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Counts is the result of Count. Text is the counted input.
type Counts struct {
	WordCount              int    `json:"wordCount"`
	CharacterCount         int    `json:"characterCount"`
	CharacterCountNoSpaces int    `json:"characterCountNoSpaces"`
	ParagraphCount         int    `json:"paragraphCount"`
	Text                   string `json:"text"`
}

// Count measures text. Characters are runes; paragraphs are blocks
// separated by "\n\n" that contain something other than whitespace.
func Count(text string) Counts {
	noSpaces := 0
	for _, r := range text {
		if !unicode.IsSpace(r) {
			noSpaces++
		}
	}

	paragraphs := 0
	for _, p := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(p) != "" {
			paragraphs++
		}
	}

	return Counts{
		WordCount:              len(strings.Fields(text)),
		CharacterCount:         utf8.RuneCountInString(text),
		CharacterCountNoSpaces: noSpaces,
		ParagraphCount:         paragraphs,
		Text:                   text,
	}
}
