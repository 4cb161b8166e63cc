package service

import (
	"fmt"

	"github.com/musicbesties/api/internal/model"
)

// Fixed reply texts.
const (
	WelcomeText = "👋 Hi there! I'm your AI concierge for Music Besties. I'm here to help you curate your music obsession and find your music tribe. What would you like to do today?"

	greetingText       = "Hello! Welcome to Music Besties. I'm here to help you curate your music obsession."
	greetingInviteText = " Would you like to start by telling me about your favorite artist?"

	artistFoundFormat   = "Your current music obsession is %s. Would you like to see your curated albums and songs?"
	artistMissingText   = "I couldn't find information about your current music obsession. Would you like to set one?"
	artistErrorText     = "I encountered an error retrieving your music obsession. Would you like to set a new one?"
	noPrimaryArtistText = "You haven't set a music obsession yet. Would you like to do that now?"

	curationInviteText = "I'd love to help you curate your music obsession. Let's get started!"

	profileOpenText  = "I've opened your music curation in the sideboard. Take a look!"
	profileEmptyText = "You don't have any music curated yet. Would you like to start now?"

	helpText = "I can help you with the following:\n" +
		"1. Curate your music obsession by selecting your favorite artist, albums, and songs\n" +
		"2. View your music curation profile\n" +
		"3. Get recommendations based on your music taste\n" +
		"4. Find your music tribe (coming soon!)\n" +
		"\n" +
		"What would you like to do?"

	FallbackText = "I'm your AI concierge for music curation. How can I help you today?"
)

// Ids and payload tags shared with the frontend.
const (
	actionStartCuration = "start_curation"
	actionViewProfile   = "view_profile"
	moduleMusicCuration = "music_curation"

	processedByRules = "rule_based_system"
	processedByLLM   = "llm"
)

// ComposeInput is everything the rule-based composer needs.
type ComposeInput struct {
	Intent  Intent
	UserID  string
	Profile *model.Profile
	// Artist is the resolved primary artist, nil when not found.
	Artist *model.Artist
	// ArtistLookupFailed is set when resolving the primary artist errored.
	ArtistLookupFailed bool
}

// Compose builds the rule-based reply for an intent. It performs no I/O and
// leaves the message timestamp unset.
func Compose(in ComposeInput) *model.ChatReply {
	reply := newReply(FallbackText, processedByRules)

	switch in.Intent {
	case IntentStart:
		return welcomeReply()

	case IntentGreeting:
		reply.Message.Content = greetingText
		if !in.Profile.HasPrimaryArtist() {
			reply.Message.Content += greetingInviteText
			reply.SuggestedActions = append(reply.SuggestedActions, curateAction("Start Music Curation"))
		}

	case IntentArtistLookup:
		switch {
		case !in.Profile.HasPrimaryArtist():
			reply.Message.Content = noPrimaryArtistText
			reply.SuggestedActions = append(reply.SuggestedActions, curateAction("Set Music Obsession"))
		case in.ArtistLookupFailed:
			reply.Message.Content = artistErrorText
			reply.SuggestedActions = append(reply.SuggestedActions, curateAction("Set Music Obsession"))
		case in.Artist == nil:
			reply.Message.Content = artistMissingText
			reply.SuggestedActions = append(reply.SuggestedActions, curateAction("Set Music Obsession"))
		default:
			reply.Message.Content = fmt.Sprintf(artistFoundFormat, in.Artist.Name)
			reply.SideboardContent = curationSideboard(in.UserID)
		}

	case IntentCuration:
		reply.Message.Content = curationInviteText
		reply.ContextModules = append(reply.ContextModules, model.ContextModule{
			ID:          "music_curation_module",
			Type:        moduleMusicCuration,
			Title:       "Music Curation",
			Description: "Let's find your music obsession!",
		})

	case IntentProfile:
		if in.Profile.HasPrimaryArtist() {
			reply.Message.Content = profileOpenText
			reply.SideboardContent = curationSideboard(in.UserID)
		} else {
			reply.Message.Content = profileEmptyText
			reply.SuggestedActions = append(reply.SuggestedActions, curateAction("Start Music Curation"))
		}

	case IntentHelp:
		reply.Message.Content = helpText
		reply.SuggestedActions = append(reply.SuggestedActions,
			curateAction("Curate Music"),
			viewProfileAction(),
		)
	}

	return reply
}

func welcomeReply() *model.ChatReply {
	reply := newReply(WelcomeText, "")
	reply.SuggestedActions = append(reply.SuggestedActions,
		curateAction("Curate Music"),
		viewProfileAction(),
	)
	return reply
}

func newReply(content, processedBy string) *model.ChatReply {
	msg := model.Message{
		Content: content,
		Sender:  model.SenderAI,
	}
	if processedBy != "" {
		msg.Metadata = map[string]any{"processed_by": processedBy}
	}
	return &model.ChatReply{
		Message:          msg,
		SuggestedActions: []model.SuggestedAction{},
		ContextModules:   []model.ContextModule{},
	}
}

func curateAction(label string) model.SuggestedAction {
	return model.SuggestedAction{
		ID:     actionStartCuration,
		Label:  label,
		Action: model.ActionTriggerModule,
		Module: moduleMusicCuration,
	}
}

func viewProfileAction() model.SuggestedAction {
	return model.SuggestedAction{
		ID:          actionViewProfile,
		Label:       "View Profile",
		Action:      model.ActionShowSideboard,
		ContentType: moduleMusicCuration,
	}
}

func curationSideboard(userID string) *model.SideboardPayload {
	return &model.SideboardPayload{
		Type: moduleMusicCuration,
		Data: map[string]string{"user_id": userID},
	}
}
