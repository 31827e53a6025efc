package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageConstructors(t *testing.T) {
	assert.Equal(t, RoleSystem, NewSystemMessage("s").Role)
	assert.Equal(t, RoleUser, NewUserMessage("u").Role)
	assert.Equal(t, RoleAssistant, NewAssistantMessage("a").Role)
}

func TestMessage_Multimodal(t *testing.T) {
	m := NewUserPartsMessage(TextPart("describe "), ImagePart("data:image/png;base64,AAA"), TextPart("this"))
	assert.True(t, m.IsMultimodal())
	assert.Equal(t, "describe this", m.Text())

	plain := NewUserMessage("hello")
	assert.False(t, plain.IsMultimodal())
	assert.Equal(t, "hello", plain.Text())

	audio := NewUserPartsMessage(AudioPart("AAA", "mp3"))
	assert.True(t, audio.IsMultimodal())
	assert.Equal(t, "mp3", audio.Parts[0].AudioFormat)
}
