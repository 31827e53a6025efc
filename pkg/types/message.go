package types

// MessageRole is the author of a conversation message.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"    // RoleSystem carries the assistant persona and instructions.
	RoleUser      MessageRole = "user"      // RoleUser carries the prompt and any attached media.
	RoleAssistant MessageRole = "assistant" // RoleAssistant carries model output.
)

// PartType identifies the kind of a ContentPart.
type PartType string

const (
	PartText  PartType = "text"  // PartText is plain text.
	PartImage PartType = "image" // PartImage is an image referenced by data URL.
	PartAudio PartType = "audio" // PartAudio is base64 audio with a format such as "mp3" or "wav".
)

// ContentPart is one piece of a multimodal message.
type ContentPart struct {
	Type PartType

	// Text is set for PartText.
	Text string

	// ImageURL is a data: URL (or remote URL) for PartImage.
	ImageURL string

	// AudioData is base64-encoded audio for PartAudio.
	AudioData string

	// AudioFormat is the container for AudioData, e.g. "mp3" or "wav".
	AudioFormat string
}

// TextPart builds a text part.
func TextPart(text string) ContentPart {
	return ContentPart{Type: PartText, Text: text}
}

// ImagePart builds an image part from a data or remote URL.
func ImagePart(url string) ContentPart {
	return ContentPart{Type: PartImage, ImageURL: url}
}

// AudioPart builds an audio part from base64 data.
func AudioPart(data, format string) ContentPart {
	return ContentPart{Type: PartAudio, AudioData: data, AudioFormat: format}
}

// Message is a single conversation message. When Parts is non-empty it takes
// precedence over Content.
type Message struct {
	Role    MessageRole
	Content string
	Parts   []ContentPart
}

// NewSystemMessage creates a system message.
func NewSystemMessage(content string) *Message {
	return &Message{Role: RoleSystem, Content: content}
}

// NewUserMessage creates a plain text user message.
func NewUserMessage(content string) *Message {
	return &Message{Role: RoleUser, Content: content}
}

// NewUserPartsMessage creates a multimodal user message.
func NewUserPartsMessage(parts ...ContentPart) *Message {
	return &Message{Role: RoleUser, Parts: parts}
}

// NewAssistantMessage creates an assistant message.
func NewAssistantMessage(content string) *Message {
	return &Message{Role: RoleAssistant, Content: content}
}

// IsMultimodal reports whether the message carries non-text parts.
func (m *Message) IsMultimodal() bool {
	for _, p := range m.Parts {
		if p.Type != PartText {
			return true
		}
	}
	return false
}

// Text returns the message text: Content, or the concatenated text parts.
func (m *Message) Text() string {
	if len(m.Parts) == 0 {
		return m.Content
	}
	var out string
	for _, p := range m.Parts {
		if p.Type == PartText {
			out += p.Text
		}
	}
	return out
}

// ModelInfo describes the model behind a provider.
type ModelInfo struct {
	Metadata          map[string]interface{}
	Provider          string
	Name              string
	MaxTokens         int
	SupportsStreaming bool
}
