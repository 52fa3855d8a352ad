package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/bunnybakes/v1/internal/domain/chat"
	"github.com/bunnybakes/v1/internal/infrastructure/config"
	apperrors "github.com/bunnybakes/v1/pkg/errors"
)

// roundTripFunc lets a test script the provider's wire responses.
type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func textResponse(text string) *http.Response {
	resp := generateContentResponse{
		Candidates: []candidate{{Content: content{
			Role:  "model",
			Parts: []part{{Text: text}},
		}}},
	}
	body, _ := json.Marshal(resp)
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(string(body))),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func inlineImageResponse(data string) *http.Response {
	resp := generateContentResponse{
		Candidates: []candidate{{Content: content{
			Role:  "model",
			Parts: []part{{InlineData: &inlineData{MimeType: "image/png", Data: data}}}}},
		},
	}
	body, _ := json.Marshal(resp)
	return &http.Response{
		StatusCode: http.StatusOK,
		Body:       io.NopCloser(strings.NewReader(string(body))),
	}
}

const validRecipeJSON = `{
	"title": "海绵蛋糕",
	"description": "松软的经典蛋糕",
	"prepTime": "20分钟",
	"cookTime": "35分钟",
	"difficulty": "简单",
	"ingredients": [{"name": "低筋面粉", "amount": "100g"}],
	"steps": [{"stepNumber": 1, "instruction": "打发蛋清。"}],
	"tags": ["蛋糕"]
}`

// ClientTestSuite provides a test suite for the Gemini client
type ClientTestSuite struct {
	suite.Suite
}

func (suite *ClientTestSuite) newClient(rt roundTripFunc) *Client {
	c := NewClient(config.AIConfig{
		APIKey:         "test-key",
		BaseURL:        "https://generativelanguage.googleapis.com/v1beta",
		TextModel:      "gemini-3-flash-preview",
		ImageModel:     "gemini-2.5-flash-image",
		RequestTimeout: 5 * time.Second,
		FallbackImage:  "https://image.pollinations.ai",
	}, zap.NewNop())
	c.http = &http.Client{Transport: rt}
	c.seed = func() int { return 1234 }
	return c
}

func (suite *ClientTestSuite) TestGenerateRecipeFromText() {
	suite.Run("ValidJSON_ProducesRecipeWithFreshID", func() {
		var captured *http.Request
		client := suite.newClient(func(req *http.Request) (*http.Response, error) {
			captured = req
			return textResponse(validRecipeJSON), nil
		})

		recipe, err := client.GenerateRecipeFromText(context.Background(), "海绵蛋糕", "无")

		require.NoError(suite.T(), err)
		require.NotNil(suite.T(), recipe)
		assert.NotEmpty(suite.T(), recipe.ID)
		assert.Equal(suite.T(), "海绵蛋糕", recipe.Title)

		require.NotNil(suite.T(), captured)
		assert.Equal(suite.T(), http.MethodPost, captured.Method)
		assert.Contains(suite.T(), captured.URL.Path, "gemini-3-flash-preview:generateContent")
		assert.Equal(suite.T(), "test-key", captured.Header.Get("x-goog-api-key"))
	})

	suite.Run("JSONWrappedInProse_IsStillParsed", func() {
		client := suite.newClient(func(req *http.Request) (*http.Response, error) {
			return textResponse("好的，这是您的食谱：\n" + validRecipeJSON + "\n希望您喜欢！"), nil
		})

		recipe, err := client.GenerateRecipeFromText(context.Background(), "海绵蛋糕", "")

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "海绵蛋糕", recipe.Title)
	})

	suite.Run("NonJSONReply_ReturnsGenerationError", func() {
		client := suite.newClient(func(req *http.Request) (*http.Response, error) {
			return textResponse("抱歉，我做不到。"), nil
		})

		recipe, err := client.GenerateRecipeFromText(context.Background(), "x", "")

		assert.Nil(suite.T(), recipe)
		assert.Equal(suite.T(), apperrors.CodeGenerationFailed, apperrors.GetCode(err))
	})

	suite.Run("SchemaViolation_ReturnsGenerationError", func() {
		client := suite.newClient(func(req *http.Request) (*http.Response, error) {
			return textResponse(`{"title": "", "ingredients": [], "steps": []}`), nil
		})

		recipe, err := client.GenerateRecipeFromText(context.Background(), "x", "")

		assert.Nil(suite.T(), recipe)
		assert.Equal(suite.T(), apperrors.CodeGenerationFailed, apperrors.GetCode(err))
	})

	suite.Run("ProviderHTTPError_ReturnsExternalServiceError", func() {
		client := suite.newClient(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusTooManyRequests,
				Body:       io.NopCloser(strings.NewReader(`{"error": "quota"}`)),
			}, nil
		})

		recipe, err := client.GenerateRecipeFromText(context.Background(), "x", "")

		assert.Nil(suite.T(), recipe)
		assert.Equal(suite.T(), apperrors.CodeExternalServiceError, apperrors.GetCode(err))
	})

	suite.Run("EmptyCandidates_ReturnsGenerationError", func() {
		client := suite.newClient(func(req *http.Request) (*http.Response, error) {
			return textResponse(""), nil
		})

		recipe, err := client.GenerateRecipeFromText(context.Background(), "x", "")

		assert.Nil(suite.T(), recipe)
		assert.Equal(suite.T(), apperrors.CodeGenerationFailed, apperrors.GetCode(err))
	})
}

func (suite *ClientTestSuite) TestGenerateRecipeFromImage() {
	suite.Run("UploadedPhoto_BecomesTheIllustration", func() {
		var payload generateContentRequest
		client := suite.newClient(func(req *http.Request) (*http.Response, error) {
			body, _ := io.ReadAll(req.Body)
			_ = json.Unmarshal(body, &payload)
			return textResponse(validRecipeJSON), nil
		})

		dataURL := "data:image/jpeg;base64,aGVsbG8="
		recipe, err := client.GenerateRecipeFromImage(context.Background(), dataURL, "image/jpeg")

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), dataURL, recipe.ImageURL)

		// Only the raw base64 goes over the wire.
		require.NotEmpty(suite.T(), payload.Contents)
		require.NotNil(suite.T(), payload.Contents[0].Parts[0].InlineData)
		assert.Equal(suite.T(), "aGVsbG8=", payload.Contents[0].Parts[0].InlineData.Data)
		assert.Equal(suite.T(), "image/jpeg", payload.Contents[0].Parts[0].InlineData.MimeType)
	})
}

func (suite *ClientTestSuite) TestGenerateIllustration() {
	suite.Run("InlineImage_ReturnsDataURL", func() {
		client := suite.newClient(func(req *http.Request) (*http.Response, error) {
			return inlineImageResponse("Zm9vYmFy"), nil
		})

		url := client.GenerateIllustration(context.Background(), "海绵蛋糕")

		assert.Equal(suite.T(), "data:image/png;base64,Zm9vYmFy", url)
	})

	suite.Run("TransportFailure_ReturnsFallbackURL", func() {
		client := suite.newClient(func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		})

		url := client.GenerateIllustration(context.Background(), "海绵蛋糕")

		pattern := regexp.MustCompile(
			`^https://image\.pollinations\.ai/prompt/[^?]+\?width=800&height=600&nologo=true&seed=\d+&model=flux$`)
		assert.Regexp(suite.T(), pattern, url)
		assert.Contains(suite.T(), url, "bakery") // encoded prompt keeps the styling keywords
		assert.Contains(suite.T(), url, fmt.Sprintf("seed=%d", 1234))
	})

	suite.Run("NoImageData_ReturnsFallbackURL", func() {
		client := suite.newClient(func(req *http.Request) (*http.Response, error) {
			return textResponse("no image here"), nil
		})

		url := client.GenerateIllustration(context.Background(), "红丝绒蛋糕")

		assert.True(suite.T(), strings.HasPrefix(url, "https://image.pollinations.ai/prompt/"))
	})
}

func (suite *ClientTestSuite) TestChat() {
	suite.Run("HistoryAndPersona_AreReplayed", func() {
		var payload generateContentRequest
		client := suite.newClient(func(req *http.Request) (*http.Response, error) {
			body, _ := io.ReadAll(req.Body)
			_ = json.Unmarshal(body, &payload)
			return textResponse("巧克力要隔水融化哦 (🐰✧)"), nil
		})

		history := []chat.Message{
			chat.NewMessage(chat.RoleUser, "你好"),
			chat.NewMessage(chat.RoleModel, "你好呀！(≧◡≦)"),
		}
		reply, err := client.Chat(context.Background(), history, "巧克力怎么融化？")

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "巧克力要隔水融化哦 (🐰✧)", reply)

		require.Len(suite.T(), payload.Contents, 3)
		assert.Equal(suite.T(), "user", payload.Contents[0].Role)
		assert.Equal(suite.T(), "model", payload.Contents[1].Role)
		assert.Equal(suite.T(), "user", payload.Contents[2].Role)
		assert.Equal(suite.T(), "巧克力怎么融化？", payload.Contents[2].Parts[0].Text)
		require.NotNil(suite.T(), payload.SystemInstruction)
		assert.Contains(suite.T(), payload.SystemInstruction.Parts[0].Text, "Bunny")
	})

	suite.Run("WhitespaceReply_DegradesToCannedLine", func() {
		client := suite.newClient(func(req *http.Request) (*http.Response, error) {
			return textResponse("   "), nil
		})

		reply, err := client.Chat(context.Background(), nil, "在吗？")

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "(｡•́︿•̀｡) 哎呀，面粉迷住眼睛了，能再说一遍吗？", reply)
	})

	suite.Run("NoCandidates_DegradesToCannedLine", func() {
		client := suite.newClient(func(req *http.Request) (*http.Response, error) {
			return &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader(`{"candidates": []}`)),
			}, nil
		})

		reply, err := client.Chat(context.Background(), nil, "在吗？")

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "(｡•́︿•̀｡) 哎呀，面粉迷住眼睛了，能再说一遍吗？", reply)
	})

	suite.Run("EmptyTextPart_DegradesToCannedLine", func() {
		client := suite.newClient(func(req *http.Request) (*http.Response, error) {
			return textResponse(""), nil
		})

		reply, err := client.Chat(context.Background(), nil, "在吗？")

		require.NoError(suite.T(), err)
		assert.Equal(suite.T(), "(｡•́︿•̀｡) 哎呀，面粉迷住眼睛了，能再说一遍吗？", reply)
	})

	suite.Run("TransportFailure_ReturnsChatError", func() {
		client := suite.newClient(func(req *http.Request) (*http.Response, error) {
			return nil, errors.New("timeout")
		})

		reply, err := client.Chat(context.Background(), nil, "在吗？")

		assert.Empty(suite.T(), reply)
		assert.Equal(suite.T(), apperrors.CodeChatFailed, apperrors.GetCode(err))
	})
}

func (suite *ClientTestSuite) TestRecipeSchema() {
	suite.Run("DifficultyEnum_MatchesDomainValues", func() {
		s := recipeSchema()

		difficulty, ok := s.Properties["difficulty"]
		require.True(suite.T(), ok)
		assert.ElementsMatch(suite.T(), []string{"简单", "中等", "困难"}, difficulty.Enum)
	})

	suite.Run("RequiredFields_CoverValidation", func() {
		s := recipeSchema()

		assert.ElementsMatch(suite.T(),
			[]string{"title", "ingredients", "steps", "prepTime", "cookTime", "difficulty"},
			s.Required)
	})
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}
