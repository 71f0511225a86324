package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAnswer(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase", "I Understand", "i understand"},
		{"surrounding whitespace", "  head over heels  ", "head over heels"},
		{"collapsed whitespace", "read \t between\n\nthe  lines", "read between the lines"},
		{"apostrophes stripped", "it's a small world", "its a small world"},
		{"hyphens stripped", "merry-go-round", "merrygoround"},
		{"trailing punctuation", "once in a blue moon!", "once in a blue moon"},
		{"empty", "", ""},
		{"only punctuation", "?!.,", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeAnswer(tt.input))
		})
	}
}

func TestCheckGuess(t *testing.T) {
	tests := []struct {
		name   string
		answer string
		guess  string
		want   bool
	}{
		{"exact match", "I understand", "I understand", true},
		{"case insensitive", "Head Over Heels", "head over heels", true},
		{"punctuation ignored", "it's now or never", "its now or never", true},
		{"whitespace collapsed", "blue  moon", "blue moon", true},
		{"wrong guess", "I understand", "I misunderstand", false},
		{"empty guess", "I understand", "", false},
		{"empty answer never matches", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CheckGuess(tt.answer, tt.guess))
		})
	}
}
