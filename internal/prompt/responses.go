package prompt

import (
	"strings"

	"github.com/dmorgan81/lookalike/internal/lookalike"
)

// Instructions is the two-part prompt for the multimodal responses provider.
// Task is followed by the source photo and the outfit reference in the user turn.
type Instructions struct {
	System string
	Task   string
}

const systemInstruction = "You are a portrait artist. First analyze the face in the user's photo " +
	"(face shape, eyes, brows, nose, mouth, skin tone, hair, expression), then generate a stylized portrait " +
	"of the same person wearing an animal costume hoodie. Preserve the person's identity and expression. " +
	"Use the outfit reference image only for costume style; never copy logos, text or watermarks from it."

var taskSteps = map[lookalike.Lang][]string{
	lookalike.LangEN: {
		"1. Analyze the facial features of the person in the first image.",
		"2. Pick the animal whose impression best matches those features.",
		"3. Study the outfit reference in the second image for the costume hoodie vibe.",
		"4. Generate one 1024x1024 portrait of the same person wearing that animal costume hoodie.",
		"5. Keep the face recognizable: same eyes, face shape, skin tone and expression.",
	},
	lookalike.LangKO: {
		"1. 첫 번째 이미지 속 인물의 얼굴 특징을 분석하세요.",
		"2. 그 특징과 인상이 가장 닮은 동물을 고르세요.",
		"3. 두 번째 이미지의 의상 참고 자료에서 동물 후드 의상의 분위기를 파악하세요.",
		"4. 같은 인물이 그 동물 후드 의상을 입은 1024x1024 초상화 한 장을 생성하세요.",
		"5. 눈매, 얼굴형, 피부톤, 표정을 유지해 인물을 알아볼 수 있게 하세요.",
	},
}

var analysisRequest = map[lookalike.Lang]string{
	lookalike.LangEN: "Then write a short analysis note (2-3 sentences, in English) explaining which facial traits led to the chosen animal.",
	lookalike.LangKO: "그리고 어떤 얼굴 특징 때문에 그 동물을 골랐는지 한국어로 2~3문장의 짧은 분석 노트를 작성하세요.",
}

var closing = map[bool]map[lookalike.Lang]string{
	false: {
		lookalike.LangEN: "Generate the first version faithfully.",
		lookalike.LangKO: "첫 번째 결과를 충실하게 생성하세요.",
	},
	true: {
		lookalike.LangEN: "This is a reroll: create a clearly different variation from previous output while keeping identity cues.",
		lookalike.LangKO: "다시 생성 요청입니다: 이전 결과와 확실히 다른 변형으로 생성하되 인물 정체성 힌트는 유지하세요.",
	},
}

func Responses(lang lookalike.Lang, reroll bool) Instructions {
	if lang != lookalike.LangEN {
		lang = lookalike.LangKO
	}

	lines := append([]string{}, taskSteps[lang]...)
	lines = append(lines, analysisRequest[lang], closing[reroll][lang])

	return Instructions{
		System: systemInstruction,
		Task:   strings.Join(lines, "\n"),
	}
}
