package image

import (
	"strings"

	"github.com/goccy/go-json"
	"github.com/samber/lo"
)

// OutputItem is one entry of a responses API "output" array. Concrete types
// are MessageItem, ImageGenerationCallItem and UnknownItem.
type OutputItem interface {
	outputItem()
}

type MessageItem struct {
	Content []ContentPart `json:"content"`
}

type ContentPart struct {
	Type        string `json:"type"`
	Text        string `json:"text"`
	ImageBase64 string `json:"image_base64"`
	B64JSON     string `json:"b64_json"`
}

type ImageGenerationCallItem struct {
	Result      string `json:"result"`
	B64JSON     string `json:"b64_json"`
	ImageBase64 string `json:"image_base64"`
}

type UnknownItem struct {
	Type string
}

func (MessageItem) outputItem()             {}
func (ImageGenerationCallItem) outputItem() {}
func (UnknownItem) outputItem()             {}

type OutputItems []OutputItem

func (o *OutputItems) UnmarshalJSON(data []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(data, &raws); err != nil {
		return err
	}

	items := make(OutputItems, 0, len(raws))
	for _, raw := range raws {
		items = append(items, decodeOutputItem(raw))
	}
	*o = items
	return nil
}

// decodeOutputItem never fails: items that are not objects or whose known
// type has an unexpected shape become UnknownItem so siblings still decode.
func decodeOutputItem(raw json.RawMessage) OutputItem {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return UnknownItem{}
	}

	switch head.Type {
	case "message":
		var item MessageItem
		if err := json.Unmarshal(raw, &item); err != nil {
			return UnknownItem{Type: head.Type}
		}
		return item
	case "image_generation_call":
		var item ImageGenerationCallItem
		if err := json.Unmarshal(raw, &item); err != nil {
			return UnknownItem{Type: head.Type}
		}
		return item
	default:
		return UnknownItem{Type: head.Type}
	}
}

// Image returns the first base64 image payload. Dedicated image generation
// items win over images embedded in message content.
func (o OutputItems) Image() (string, bool) {
	for _, item := range o {
		if call, ok := item.(ImageGenerationCallItem); ok {
			if b64, ok := lo.Coalesce(call.Result, call.B64JSON, call.ImageBase64); ok {
				return b64, true
			}
		}
	}
	for _, item := range o {
		if msg, ok := item.(MessageItem); ok {
			for _, part := range msg.Content {
				if b64, ok := lo.Coalesce(part.ImageBase64, part.B64JSON); ok {
					return b64, true
				}
			}
		}
	}
	return "", false
}

// Text joins every text fragment of message items in order.
func (o OutputItems) Text() string {
	var fragments []string
	for _, item := range o {
		switch item := item.(type) {
		case MessageItem:
			for _, part := range item.Content {
				if (part.Type == "output_text" || part.Type == "text") && part.Text != "" {
					fragments = append(fragments, part.Text)
				}
			}
		case ImageGenerationCallItem, UnknownItem:
		}
	}
	return strings.TrimSpace(strings.Join(fragments, "\n"))
}
