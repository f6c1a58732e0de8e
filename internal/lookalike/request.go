package lookalike

import (
	"math"
	"strings"

	"github.com/goccy/go-json"
	"github.com/samber/lo"
)

type Lang string

const (
	LangEN Lang = "en"
	LangKO Lang = "ko"
)

const imageDataURLPrefix = "data:image/"

var (
	defaultAnimalType = map[Lang]string{
		LangEN: "cat",
		LangKO: "고양이",
	}
	defaultTraitsText = map[Lang]string{
		LangEN: "balanced expression, clear eyes, natural skin tone, medium contrast, calm mood",
		LangKO: "균형 잡힌 표정, 또렷한 눈매, 자연스러운 피부톤, 중간 대비, 차분한 분위기",
	}
)

// Request is a validated lookalike request. AnimalType and TraitsText are
// always populated, falling back to the language defaults.
type Request struct {
	ImageDataURL string `json:"-"`
	Lang         Lang   `json:"lang"`
	Reroll       bool   `json:"reroll"`
	AnimalType   string `json:"animalType"`
	TraitsText   string `json:"traitsText"`
}

type Result struct {
	ImageDataURL string `json:"imageDataUrl"`
	AnalysisText string `json:"analysisText"`
}

// ParseRequest decodes and validates a raw request body. Fields are read
// loosely: wrong-typed optional values are treated as absent rather than
// rejected.
func ParseRequest(body []byte) (Request, error) {
	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return Request{}, NewInvalidBody()
	}

	fields, _ := raw.(map[string]any)
	lang := ParseLang(fields["lang"])

	imageDataURL, _ := fields["imageDataUrl"].(string)
	if !strings.HasPrefix(imageDataURL, imageDataURLPrefix) {
		return Request{}, NewMissingImage()
	}

	return Request{
		ImageDataURL: imageDataURL,
		Lang:         lang,
		Reroll:       Truthy(fields["reroll"]),
		AnimalType:   stringOrDefault(fields["animalType"], defaultAnimalType[lang]),
		TraitsText:   stringOrDefault(fields["traitsText"], defaultTraitsText[lang]),
	}, nil
}

// ParseLang maps anything other than the literal "en" to Korean.
func ParseLang(v any) Lang {
	s, _ := v.(string)
	return lo.Ternary(s == string(LangEN), LangEN, LangKO)
}

// Truthy reports whether a decoded JSON value would be truthy in a browser.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0 && !math.IsNaN(t)
	case json.Number:
		f, err := t.Float64()
		return err != nil || (f != 0 && !math.IsNaN(f))
	case string:
		return t != ""
	default:
		return true
	}
}

func stringOrDefault(v any, def string) string {
	s, ok := v.(string)
	if !ok {
		return def
	}
	s = strings.TrimSpace(s)
	return lo.Ternary(s != "", s, def)
}
