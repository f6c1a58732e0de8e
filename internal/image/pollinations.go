package image

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/dmorgan81/lookalike/internal/config"
	"github.com/dmorgan81/lookalike/internal/log"
	"github.com/dmorgan81/lookalike/internal/lookalike"
	"github.com/dmorgan81/lookalike/internal/prompt"
	"github.com/samber/do"
	"github.com/samber/lo"
)

// FirstSeed is used for every non-reroll generation so identical inputs
// produce identical images.
const FirstSeed = 424242

const defaultImageType = "image/jpeg"

type PollinationsGenerator struct {
	Client  *http.Client
	BaseURL string
	Model   string
	Key     string
	Seed    func(reroll bool) int
}

func NewPollinationsGenerator(i *do.Injector) (Generator, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return &PollinationsGenerator{
		Client:  do.MustInvoke[*http.Client](i),
		BaseURL: cfg.Pollinations.BaseURL,
		Model:   cfg.Pollinations.Model,
		Key:     cfg.Pollinations.APIKey,
		Seed:    RandomSeed,
	}, nil
}

func RandomSeed(reroll bool) int {
	return lo.Ternary(reroll, rand.IntN(1000000), FirstSeed)
}

func (g *PollinationsGenerator) Generate(ctx context.Context, req lookalike.Request) (lookalike.Result, error) {
	params := prompt.ParamsFrom(req)
	seed := g.seed(req.Reroll)

	log := log.FromContextOrDiscard(ctx).WithGroup("pollinations").With("model", g.Model, "seed", seed, "lang", req.Lang)
	log.Info("generating image")

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, g.url(prompt.Build(params), seed), nil)
	if err != nil {
		return lookalike.Result{}, lookalike.NewInternalError(err)
	}
	if g.Key != "" {
		httpReq.Header.Set("Authorization", "Bearer "+g.Key)
	}

	resp, err := g.Client.Do(httpReq)
	if err != nil {
		return lookalike.Result{}, lookalike.WrapProvider("Pollinations", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		detail := lookalike.Truncate(string(body), errorSnippet)
		log.Warn("provider rejected request", "status", resp.StatusCode)
		if resp.StatusCode == http.StatusUnauthorized {
			return lookalike.Result{}, lookalike.NewAuthError(
				"Pollinations authentication failed. Set POLLINATIONS_API_KEY and restart server. " +
					"Provider response: " + detail)
		}
		return lookalike.Result{}, lookalike.NewProviderError(resp.StatusCode,
			fmt.Sprintf("Pollinations API error (%d): %s", resp.StatusCode, detail))
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return lookalike.Result{}, lookalike.WrapProvider("Pollinations", err)
	}
	contentType := lo.Ternary(resp.Header.Get("Content-Type") != "", resp.Header.Get("Content-Type"), defaultImageType)
	log.Info("received image", "content_type", contentType, "bytes", len(data))

	return lookalike.Result{
		ImageDataURL: lookalike.DataURL(contentType, data),
		AnalysisText: prompt.Analysis(params),
	}, nil
}

func (g *PollinationsGenerator) seed(reroll bool) int {
	if g.Seed == nil {
		return RandomSeed(reroll)
	}
	return g.Seed(reroll)
}

func (g *PollinationsGenerator) url(text string, seed int) string {
	size := strconv.Itoa(imageSize)
	query := url.Values{
		"model":   {g.Model},
		"width":   {size},
		"height":  {size},
		"seed":    {strconv.Itoa(seed)},
		"nologo":  {"true"},
		"safe":    {"true"},
		"enhance": {"true"},
	}
	if g.Key != "" {
		query.Set("key", g.Key)
	}
	escaped := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return fmt.Sprintf("%s/image/%s?%s", strings.TrimRight(g.BaseURL, "/"), escaped, query.Encode())
}
