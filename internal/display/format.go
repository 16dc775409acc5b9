// Package display renders numbers, durations, and message templates for
// player-facing text.
package display

import (
	"fmt"

	"github.com/muesli/reflow/wordwrap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const DefaultWidth = 80

var scorePrinter = message.NewPrinter(language.English)

// FormatScore renders a score with thousands grouping: 1234567 becomes
// "1,234,567".
func FormatScore(score int) string {
	return scorePrinter.Sprintf("%d", score)
}

// FormatPlayTime renders elapsed seconds as MM:SS, growing to HH:MM:SS at
// an hour. Negative input clamps to zero.
func FormatPlayTime(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}

	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}

// Wrap word-wraps text to DefaultWidth, preserving ANSI escape sequences.
func Wrap(text string) string {
	return wordwrap.String(text, DefaultWidth)
}
