package llm

import "strings"

const completionsPath = "/chat/completions"

// Endpoint normalizes an OpenAI compatible base URL to its chat completions
// route. URLs already ending in the route are kept as is
func Endpoint(base string) string {
	base = strings.TrimRight(base, "/")
	if strings.HasSuffix(base, completionsPath) {
		return base
	}
	return base + completionsPath
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

// chatMessage content is a string for text turns and a part list for images
type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL string `json:"url"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func imageTurn(prompt, url string) chatMessage {
	return chatMessage{Role: "user", Content: []contentPart{
		{Type: "text", Text: prompt},
		{Type: "image_url", ImageURL: &imageURL{URL: url}},
	}}
}
