package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSideboardPayloadFlattensData(t *testing.T) {
	p := SideboardPayload{Type: "music_curation", Data: map[string]string{"user_id": "u1"}}

	b, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"music_curation","user_id":"u1"}`, string(b))

	var back SideboardPayload
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, p, back)
}

func TestChatReplyOmitsNothingStructural(t *testing.T) {
	b, err := json.Marshal(ChatReply{Message: Message{Content: "hi", Sender: SenderAI}})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"message": {"content": "hi", "sender": "ai"},
		"suggested_actions": null,
		"context_modules": null,
		"sideboard_content": null
	}`, string(b))
}

func TestChatRequestDecodesHistory(t *testing.T) {
	body := `{"message":"hey","context":{"conversation_history":[{"sender":"ai","content":"hi"}],"other":1}}`

	var req ChatRequest
	require.NoError(t, json.Unmarshal([]byte(body), &req))
	require.NotNil(t, req.Context)
	require.Len(t, req.Context.ConversationHistory, 1)
	assert.Equal(t, SenderAI, req.Context.ConversationHistory[0].Sender)
}

func TestProfilePrimaryArtist(t *testing.T) {
	var nilProfile *Profile
	assert.False(t, nilProfile.HasPrimaryArtist())

	empty := ""
	assert.False(t, (&Profile{PrimaryArtistID: &empty}).HasPrimaryArtist())

	id := "artist-1"
	p := &Profile{PrimaryArtistID: &id}
	assert.True(t, p.HasPrimaryArtist())
	assert.Equal(t, "artist-1", p.PrimaryArtist())
}
