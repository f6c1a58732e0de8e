package image

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dmorgan81/lookalike/internal/config"
	"github.com/dmorgan81/lookalike/internal/log"
	"github.com/dmorgan81/lookalike/internal/lookalike"
	"github.com/dmorgan81/lookalike/internal/prompt"
	"github.com/goccy/go-json"
	"github.com/samber/do"
)

type responsesRequest struct {
	Model      string         `json:"model"`
	Input      []inputMessage `json:"input"`
	Tools      []imageTool    `json:"tools"`
	ToolChoice toolChoice     `json:"tool_choice"`
}

type inputMessage struct {
	Role    string         `json:"role"`
	Content []inputContent `json:"content"`
}

type inputContent struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
}

type imageTool struct {
	Type    string `json:"type"`
	Quality string `json:"quality"`
	Size    string `json:"size"`
}

type toolChoice struct {
	Type string `json:"type"`
}

type responsesResponse struct {
	Output OutputItems `json:"output"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

type OpenAIGenerator struct {
	Client  *http.Client
	BaseURL string
	Model   string
	Key     string
}

func NewOpenAIGenerator(i *do.Injector) (Generator, error) {
	cfg := do.MustInvoke[*config.Config](i)
	return &OpenAIGenerator{
		Client:  do.MustInvoke[*http.Client](i),
		BaseURL: cfg.OpenAI.BaseURL,
		Model:   cfg.OpenAI.Model,
		Key:     cfg.OpenAI.APIKey,
	}, nil
}

func (g *OpenAIGenerator) Generate(ctx context.Context, req lookalike.Request) (lookalike.Result, error) {
	if g.Key == "" {
		return lookalike.Result{}, lookalike.NewConfigError("OPENAI_API_KEY is not configured on the server")
	}

	log := log.FromContextOrDiscard(ctx).WithGroup("openai").With("model", g.Model, "lang", req.Lang, "reroll", req.Reroll)
	log.Info("generating image via responses api")

	body, err := json.Marshal(g.payload(req))
	if err != nil {
		return lookalike.Result{}, lookalike.NewInternalError(err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, strings.TrimRight(g.BaseURL, "/")+"/responses", bytes.NewReader(body))
	if err != nil {
		return lookalike.Result{}, lookalike.NewInternalError(err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.Key)

	resp, err := g.Client.Do(httpReq)
	if err != nil {
		return lookalike.Result{}, lookalike.WrapProvider("OpenAI", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return lookalike.Result{}, lookalike.WrapProvider("OpenAI", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Warn("provider rejected request", "status", resp.StatusCode)
		return lookalike.Result{}, lookalike.NewProviderError(resp.StatusCode,
			fmt.Sprintf("OpenAI API error (%d): %s", resp.StatusCode, errorMessage(data)))
	}

	var out responsesResponse
	if err := json.Unmarshal(data, &out); err != nil {
		noImage := lookalike.NewNoImageError()
		noImage.Err = err
		return lookalike.Result{}, noImage
	}

	b64, ok := out.Output.Image()
	if !ok {
		log.Warn("no image in provider response", "items", len(out.Output))
		return lookalike.Result{}, lookalike.NewNoImageError()
	}
	log.Info("received image", "bytes_b64", len(b64))

	return lookalike.Result{
		ImageDataURL: lookalike.DataURLFromBase64("image/png", b64),
		AnalysisText: out.Output.Text(),
	}, nil
}

func (g *OpenAIGenerator) payload(req lookalike.Request) responsesRequest {
	instructions := prompt.Responses(req.Lang, req.Reroll)
	size := fmt.Sprintf("%dx%d", imageSize, imageSize)

	return responsesRequest{
		Model: g.Model,
		Input: []inputMessage{
			{
				Role:    "system",
				Content: []inputContent{{Type: "input_text", Text: instructions.System}},
			},
			{
				Role: "user",
				Content: []inputContent{
					{Type: "input_text", Text: instructions.Task},
					{Type: "input_image", ImageURL: req.ImageDataURL},
					{Type: "input_image", ImageURL: prompt.OutfitReferenceURL},
				},
			},
		},
		Tools:      []imageTool{{Type: "image_generation", Quality: "high", Size: size}},
		ToolChoice: toolChoice{Type: "image_generation"},
	}
}

func errorMessage(body []byte) string {
	var e apiError
	if err := json.Unmarshal(body, &e); err == nil && e.Error.Message != "" {
		return e.Error.Message
	}
	return lookalike.Truncate(string(body), errorSnippet)
}
