package service

import (
	"strings"

	"github.com/musicbesties/api/internal/model"
)

// Intent is the category a chat message was classified into.
type Intent string

const (
	IntentStart        Intent = "start"
	IntentGreeting     Intent = "greeting"
	IntentArtistLookup Intent = "artist_lookup"
	IntentCuration     Intent = "curation"
	IntentProfile      Intent = "profile"
	IntentHelp         Intent = "help"
	IntentFallback     Intent = "fallback"
)

var (
	greetingWords = []string{"hello", "hi", "hey", "greetings", "howdy"}
	musicWords    = []string{"artist", "music", "favorite", "obsession"}
	questionWords = []string{"who", "what"}
	profileWords  = []string{"profile", "view", "show", "see", "curation"}
	helpWords     = []string{"help", "how", "what can you do"}
)

// Classify maps a message to an intent by keyword containment.
// Categories are tried in a fixed order and the first match wins,
// so "hey, how can you help me" is a greeting.
func Classify(message string) Intent {
	if message == model.StartConversation {
		return IntentStart
	}

	msg := strings.ToLower(message)
	switch {
	case containsAny(msg, greetingWords):
		return IntentGreeting
	case containsAny(msg, musicWords):
		if containsAny(msg, questionWords) {
			return IntentArtistLookup
		}
		return IntentCuration
	case containsAny(msg, profileWords):
		return IntentProfile
	case containsAny(msg, helpWords):
		return IntentHelp
	default:
		return IntentFallback
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
