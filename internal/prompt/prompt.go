// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package prompt combines extracted paper text with a user template into
// the single message sent to the model.
package prompt

import "strings"

// Placeholder marks where the paper text goes in a template.
const Placeholder = "{text}"

// MaxTextChars caps the paper text inserted into any prompt, in characters,
// to stay inside model context limits.
const MaxTextChars = 3500

// DefaultTemplate asks for a structured reading of the paper.
const DefaultTemplate = "Please read the following paper and summarize it as structured points:\n" +
	"1. Core problem\n" +
	"2. Method\n" +
	"3. Contributions\n" +
	"4. Results and evaluation\n" +
	"5. Applicable scenarios and limitations\n" +
	"Here is the paper content:\n\n" +
	Placeholder

// Build returns the prompt for text. A blank template selects
// DefaultTemplate. Every Placeholder in the template is replaced by the
// capped text; a template without one gets the capped text appended after
// a blank line.
func Build(text, template string) string {
	capped := Truncate(text, MaxTextChars)

	if strings.TrimSpace(template) == "" {
		return strings.ReplaceAll(DefaultTemplate, Placeholder, capped)
	}
	if strings.Contains(template, Placeholder) {
		return strings.ReplaceAll(template, Placeholder, capped)
	}
	return template + "\n\n" + capped
}

// Truncate returns the first n characters of s. It never splits a
// multi-byte character.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
