// Package gemini provides the Google Gemini integration behind the
// AIService port: schema-constrained recipe generation, best-effort
// illustration synthesis and the Bunny persona chat.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"strings"

	"github.com/bunnybakes/v1/internal/domain/chat"
	"github.com/bunnybakes/v1/internal/domain/recipe"
	"github.com/bunnybakes/v1/internal/infrastructure/config"
	"github.com/bunnybakes/v1/internal/ports/outbound"
	"github.com/bunnybakes/v1/pkg/errors"
	"go.uber.org/zap"
)

// systemPersona is the fixed instruction for the chat assistant.
const systemPersona = "你是一位可爱的小兔烘焙师，名字叫'Bunny'（小兔）。你戴着蓝色贝雷帽，非常热情、活泼。" +
	"你说话时喜欢用可爱的语气和颜文字（如 (🐰✧), (≧◡≦) ）。你非常专业，解释烘焙知识时通俗易懂。请使用简体中文。"

// emptyReplyFallback is appended verbatim when the provider returns an
// empty chat reply.
const emptyReplyFallback = "(｡•́︿•̀｡) 哎呀，面粉迷住眼睛了，能再说一遍吗？"

// Client implements the AIService interface against the Gemini REST API.
// Every call is one-shot: no retries, no backoff, no response caching.
type Client struct {
	cfg    config.AIConfig
	http   *http.Client
	logger *zap.Logger
	seed   func() int
}

var _ outbound.AIService = (*Client)(nil)

// NewClient creates a new Gemini client
func NewClient(cfg config.AIConfig, logger *zap.Logger) *Client {
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.RequestTimeout},
		logger: logger.Named("gemini"),
		seed:   func() int { return rand.Intn(10000) },
	}
}

// Gemini API structures

type generateContentRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseMIMEType string       `json:"responseMimeType,omitempty"`
	ResponseSchema   *schema      `json:"responseSchema,omitempty"`
	ImageConfig      *imageConfig `json:"imageConfig,omitempty"`
}

type imageConfig struct {
	AspectRatio string `json:"aspectRatio,omitempty"`
}

type generateContentResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content content `json:"content"`
}

// GenerateRecipeFromText requests a schema-constrained recipe for a text
// prompt plus dietary restrictions.
func (c *Client) GenerateRecipeFromText(ctx context.Context, prompt, dietary string) (*recipe.Recipe, error) {
	instruction := fmt.Sprintf("请根据以下要求创建一个详细的烘焙食谱： %q。\n"+
		"饮食限制/偏好： %q。\n"+
		"请确保这是一个烘焙食谱（面包、蛋糕、饼干、糕点等）。\n"+
		"请使用简体中文（Simplified Chinese）回复。", prompt, dietary)

	req := generateContentRequest{
		Contents: []content{{Parts: []part{{Text: instruction}}}},
		GenerationConfig: &generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   recipeSchema(),
		},
	}

	text, err := c.generateText(ctx, c.cfg.TextModel, req)
	if err != nil {
		return nil, err
	}

	return c.parseRecipe(text)
}

// GenerateRecipeFromImage infers a recipe from an uploaded dish photo.
// The uploaded image is kept as the recipe's illustration.
func (c *Client) GenerateRecipeFromImage(ctx context.Context, imageData, mimeType string) (*recipe.Recipe, error) {
	instruction := "请分析这张美食图片。识别这是什么烘焙食品（如果不是烘焙食品，请提供最接近的烘焙做法或拒绝）。\n" +
		"反推其主要食材和大概的制作步骤，生成一份详细的食谱。\n" +
		"请使用简体中文回复，并严格遵守JSON格式。"

	req := generateContentRequest{
		Contents: []content{{Parts: []part{
			{InlineData: &inlineData{MimeType: mimeType, Data: stripDataURL(imageData)}},
			{Text: instruction},
		}}},
		GenerationConfig: &generationConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   recipeSchema(),
		},
	}

	text, err := c.generateText(ctx, c.cfg.TextModel, req)
	if err != nil {
		return nil, err
	}

	parsed, err := c.parseRecipe(text)
	if err != nil {
		return nil, err
	}

	withImage := parsed.WithImage(imageData)
	return &withImage, nil
}

// GenerateIllustration produces an illustration URL for a recipe title.
// Best effort: one synthesis attempt, then the public fallback service.
// The result is always a usable URL string.
func (c *Client) GenerateIllustration(ctx context.Context, title string) string {
	prompt := fmt.Sprintf("Professional food photography of %s, delicious, bakery style, "+
		"soft lighting, 4k, high detail, centered composition.", title)

	req := generateContentRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: &generationConfig{
			ImageConfig: &imageConfig{AspectRatio: "4:3"},
		},
	}

	resp, err := c.call(ctx, c.cfg.ImageModel, req)
	if err != nil {
		c.logger.Warn("image synthesis failed, using fallback", zap.Error(err))
		return c.fallbackIllustrationURL(title)
	}

	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			if p.InlineData != nil && p.InlineData.Data != "" {
				return "data:image/png;base64," + p.InlineData.Data
			}
		}
	}

	c.logger.Warn("image synthesis returned no image data, using fallback",
		zap.String("title", title))
	return c.fallbackIllustrationURL(title)
}

// fallbackIllustrationURL builds a URL against the keyless prompt-to-image
// redirection service, seeded randomly so repeated requests vary.
func (c *Client) fallbackIllustrationURL(title string) string {
	prompt := url.QueryEscape(title + " bakery food delicious photography")
	return fmt.Sprintf("%s/prompt/%s?width=800&height=600&nologo=true&seed=%d&model=flux",
		strings.TrimSuffix(c.cfg.FallbackImage, "/"), prompt, c.seed())
}

// Chat replays the conversation under the Bunny persona and sends the new
// message. An empty provider reply degrades to the canned fallback line.
func (c *Client) Chat(ctx context.Context, history []chat.Message, message string) (string, error) {
	contents := make([]content, 0, len(history)+1)
	for _, m := range history {
		contents = append(contents, content{
			Role:  string(m.Role),
			Parts: []part{{Text: m.Text}},
		})
	}
	contents = append(contents, content{
		Role:  string(chat.RoleUser),
		Parts: []part{{Text: message}},
	})

	req := generateContentRequest{
		Contents:          contents,
		SystemInstruction: &content{Parts: []part{{Text: systemPersona}}},
	}

	text, err := c.generateText(ctx, c.cfg.TextModel, req)
	if err != nil {
		// A call that succeeded but produced no text is an empty reply,
		// not a failure. Only transport and provider errors surface.
		if errors.Is(err, errors.CodeGenerationFailed) {
			return emptyReplyFallback, nil
		}
		return "", errors.NewChatError(err)
	}
	if strings.TrimSpace(text) == "" {
		return emptyReplyFallback, nil
	}
	return text, nil
}

// generateText calls the provider and returns the first candidate's text.
func (c *Client) generateText(ctx context.Context, model string, req generateContentRequest) (string, error) {
	resp, err := c.call(ctx, model, req)
	if err != nil {
		return "", err
	}

	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			if p.Text != "" {
				return p.Text, nil
			}
		}
	}

	return "", errors.NewGenerationError("provider returned no text", nil)
}

// call performs one generateContent request against the given model.
func (c *Client) call(ctx context.Context, model string, reqBody generateContentRequest) (*generateContentResponse, error) {
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/models/%s:generateContent",
		strings.TrimSuffix(c.cfg.BaseURL, "/"), model)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.cfg.APIKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.NewExternalServiceError("gemini", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, errors.NewExternalServiceError("gemini",
			fmt.Errorf("API error %d: %s", resp.StatusCode, string(body)))
	}

	var genResp generateContentResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	c.logger.Debug("generateContent call succeeded",
		zap.String("model", model),
		zap.Int("candidates", len(genResp.Candidates)),
	)

	return &genResp, nil
}

// parseRecipe parses the schema-constrained JSON text into a Recipe and
// stamps a fresh ID on it.
func (c *Client) parseRecipe(text string) (*recipe.Recipe, error) {
	text = strings.TrimSpace(text)

	// Guard against providers wrapping JSON in extra prose.
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end <= start {
		return nil, errors.NewGenerationError("no valid JSON found in response", nil)
	}

	var parsed recipe.Recipe
	if err := json.Unmarshal([]byte(text[start:end+1]), &parsed); err != nil {
		c.logger.Error("failed to parse recipe JSON", zap.Error(err))
		return nil, errors.NewGenerationError("response is not valid recipe JSON", err)
	}

	result, err := recipe.NewFromGeneration(parsed)
	if err != nil {
		return nil, errors.NewGenerationError("response violates recipe schema", err)
	}

	return result, nil
}

// stripDataURL drops a data-URL header so only raw base64 is sent inline.
func stripDataURL(imageData string) string {
	if i := strings.Index(imageData, ";base64,"); i != -1 {
		return imageData[i+len(";base64,"):]
	}
	return imageData
}
