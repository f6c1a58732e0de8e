package prompt

import (
	"fmt"
	"strings"

	"github.com/dmorgan81/lookalike/internal/lookalike"
)

const OutfitReferenceURL = "https://d29hudvzbgrxww.cloudfront.net/public/product/2023011516445-a757c3d3-be926ff4c87a.jpg"

type Params struct {
	Lang       lookalike.Lang
	AnimalType string
	TraitsText string
	Reroll     bool
}

func ParamsFrom(req lookalike.Request) Params {
	return Params{
		Lang:       req.Lang,
		AnimalType: req.AnimalType,
		TraitsText: req.TraitsText,
		Reroll:     req.Reroll,
	}
}

var variationClause = map[lookalike.Lang]string{
	lookalike.LangEN: "Create a clearly different variation from previous output while keeping identity cues.",
	lookalike.LangKO: "이전 결과와 확실히 다른 변형으로 생성하되 인물 정체성 힌트는 유지.",
}

// Build renders the text-to-image prompt. The output depends only on params.
func Build(p Params) string {
	variation := ""
	if p.Reroll {
		variation = variationClause[p.Lang]
	}

	if p.Lang == lookalike.LangEN {
		return strings.TrimSpace(fmt.Sprintf(
			"Ultra-detailed anime portrait of a real person wearing %s animal hoodie costume, "+
				"cinematic lighting, realistic eyes and skin texture, high detail face rendering, natural asymmetry, "+
				"expression fidelity, premium illustration quality, no text, no watermark. "+
				"Use this outfit vibe reference: %s. "+
				"Face traits: %s. %s",
			p.AnimalType, OutfitReferenceURL, p.TraitsText, variation))
	}

	return strings.TrimSpace(fmt.Sprintf(
		"%s 동물 후드 의상을 입은 실사형 애니 초상화, 시네마틱 조명, "+
			"눈빛/피부 질감의 사실적 표현, 얼굴 디테일 고해상도, 자연스러운 좌우 비대칭, "+
			"표정 재현도 강화, 고급 일러스트 퀄리티, 텍스트/워터마크 없음. "+
			"의상 분위기 참고: %s. "+
			"얼굴 특징: %s. %s",
		p.AnimalType, OutfitReferenceURL, p.TraitsText, variation))
}

// Analysis is the locally synthesized note returned alongside a text-to-image result.
func Analysis(p Params) string {
	if p.Lang == lookalike.LangEN {
		return fmt.Sprintf("Applied traits: %s. Animal style: %s.", p.TraitsText, p.AnimalType)
	}
	return fmt.Sprintf("적용된 특징: %s. 동물 스타일: %s.", p.TraitsText, p.AnimalType)
}
