package forward

import (
	"bytes"
	"encoding/json"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"adwarden/internal/core/markup"
)

// Segment is one element of a structured chat message
type Segment interface{ isSegment() }

// Text is plain text
type Text struct{ Text string }

// Image is an inline picture; URL may be empty when the adapter omitted it
type Image struct{ URL string }

// ForwardRef points at another forward bundle
type ForwardRef struct{ ID string }

// Node is a forward node with an optional id and nested segments
type Node struct {
	ID       string
	Children []Segment
}

// Rich carries rich-text content verbatim
type Rich struct{ Content string }

// Unknown keeps the fields of unrecognised segments that may still carry
// images, forward ids or text
type Unknown struct {
	Type     string
	ImageURL string
	ID       string
	Content  string
	Data     string
}

func (Text) isSegment() {}
func (Image) isSegment() {}
func (ForwardRef) isSegment() {}
func (Node) isSegment() {}
func (Rich) isSegment() {}
func (Unknown) isSegment() {}

// RawSegment is the wire shape {type, data}
type RawSegment struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// Message is one entry of a forward bundle. RawText wins over Segments when set
type Message struct {
	RawText  *string
	Segments []Segment
}

var (
	imageExt     = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|gif|bmp|webp|svg)$`)
	forwardLikes = []string{"forward", "node", "share", "json", "xml"}
)

// DecodeSegments converts wire segments into the tagged form. Segments with
// nothing usable are dropped
func DecodeSegments(raw []RawSegment) []Segment {
	out := make([]Segment, 0, len(raw))
	for _, r := range raw {
		if s, ok := decodeSegment(r); ok {
			out = append(out, s)
		}
	}
	return out
}

func decodeSegment(r RawSegment) (Segment, bool) {
	d := r.Data
	switch {
	case r.Type == "text" && str(d, "text") != "":
		return Text{Text: str(d, "text")}, true
	case r.Type == "image" && d != nil:
		return Image{URL: first(d, "url", "file", "src")}, true
	case (r.Type == "pic" || r.Type == "photo" || r.Type == "img") && d != nil:
		return Image{URL: first(d, "url", "file", "src", "path")}, true
	case r.Type == "forward" && idOf(d) != "":
		return ForwardRef{ID: idOf(d)}, true
	case r.Type == "node" && d != nil:
		return Node{ID: idOf(d), Children: DecodeSegments(rawList(d["message"]))}, true
	case r.Type == "rich" && d != nil:
		return Rich{Content: str(d, "content")}, true
	case d != nil:
		u := Unknown{Type: r.Type, Content: str(d, "content"), Data: str(d, "data")}
		if img := first(d, "url", "file", "src", "path", "image"); looksLikeImage(img) {
			u.ImageURL = img
		}
		if slices.Contains(forwardLikes, r.Type) {
			u.ID = str(d, "id")
		}
		return u, true
	default:
		return nil, false
	}
}

// parts splits segments into text, forward and image renderings, depth first
func parts(segs []Segment) (texts, forwards, images []string) {
	var walk func([]Segment)
	walk = func(ss []Segment) {
		for _, s := range ss {
			switch v := s.(type) {
			case Text:
				texts = append(texts, v.Text)
			case Image:
				if v.URL != "" {
					images = append(images, markup.ImageTag(markup.FixImageURL(v.URL)))
				}
			case ForwardRef:
				forwards = append(forwards, markup.ForwardTag(v.ID))
			case Node:
				if v.ID != "" {
					forwards = append(forwards, markup.ForwardTag(v.ID))
				}
				walk(v.Children)
			case Rich:
				if v.Content != "" {
					texts = append(texts, v.Content)
				}
			case Unknown:
				if v.ImageURL != "" {
					images = append(images, markup.ImageTag(markup.FixImageURL(v.ImageURL)))
				}
				if v.ID != "" {
					forwards = append(forwards, markup.ForwardTag(v.ID))
				}
				if v.Content != "" {
					texts = append(texts, v.Content)
				}
				if v.Data != "" && markup.IsForwardReference(v.Data) {
					texts = append(texts, v.Data)
				}
			}
		}
	}
	walk(segs)
	return texts, forwards, images
}

// leaf renders a bundle message into the text the rest of the pipeline sees
func leaf(m Message) string {
	if m.RawText != nil {
		return markup.ConvertCQImages(strings.TrimSpace(*m.RawText))
	}
	texts, forwards, images := parts(m.Segments)
	body := strings.TrimSpace(strings.Join(append(texts, forwards...), ""))
	return body + strings.Join(images, "")
}

type wireMessage struct {
	RawMessage *string         `json:"raw_message"`
	Message    json.RawMessage `json:"message"`
}

// DecodeBundle parses a get_forward_msg payload: either a message array or an
// object with a messages array. A string valued message field is treated as raw text
func DecodeBundle(data []byte) ([]Message, error) {
	var list []wireMessage
	if err := json.Unmarshal(data, &list); err != nil {
		var wrapped struct {
			Messages []wireMessage `json:"messages"`
		}
		if err2 := json.Unmarshal(data, &wrapped); err2 != nil {
			return nil, err
		}
		list = wrapped.Messages
	}

	out := make([]Message, 0, len(list))
	for _, w := range list {
		m := Message{RawText: w.RawMessage}
		if m.RawText == nil && len(w.Message) > 0 {
			var segs []RawSegment
			if decodeNumbers(w.Message, &segs) == nil {
				m.Segments = DecodeSegments(segs)
			} else {
				var s string
				if json.Unmarshal(w.Message, &s) == nil {
					m.RawText = &s
				}
			}
		}
		out = append(out, m)
	}
	return out, nil
}

// decodeNumbers keeps numeric ids as json.Number; message and forward ids
// exceed float64 precision
func decodeNumbers(data []byte, v any) error {
	d := json.NewDecoder(bytes.NewReader(data))
	d.UseNumber()
	return d.Decode(v)
}

func str(d map[string]any, key string) string {
	s, _ := d[key].(string)
	return s
}

func first(d map[string]any, keys ...string) string {
	for _, k := range keys {
		if s := str(d, k); s != "" {
			return s
		}
	}
	return ""
}

// idOf accepts string or numeric ids
func idOf(d map[string]any) string {
	switch v := d["id"].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	}
	return ""
}

func looksLikeImage(u string) bool {
	return u != "" && (imageExt.MatchString(u) || strings.Contains(u, "image") || strings.Contains(u, "pic"))
}

func rawList(v any) []RawSegment {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]RawSegment, 0, len(items))
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		typ, _ := m["type"].(string)
		data, _ := m["data"].(map[string]any)
		out = append(out, RawSegment{Type: typ, Data: data})
	}
	return out
}
