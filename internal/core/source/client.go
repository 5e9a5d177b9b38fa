// Package source 從外部食譜服務讀取食材記錄
package source

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"recipe-shopping/internal/infrastructure/config"
	"recipe-shopping/internal/pkg/common"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// ingredientsPath 依食譜 ID 批次查詢食材的路徑
const ingredientsPath = "/recipes/ingredients"

// Client 食譜服務客戶端
type Client struct {
	client *resty.Client
}

// ingredientsResponse 食譜服務回應
type ingredientsResponse struct {
	Ingredients []common.IngredientRecord `json:"ingredients"`
}

// NewClient 建立客戶端，BaseURL 未設定時回傳 nil
func NewClient(cfg *config.RecipeStoreConfig) *Client {
	if cfg.BaseURL == "" {
		return nil
	}

	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetHeader("Accept", "application/json").
		AddRetryCondition(func(r *resty.Response, err error) bool {
			return err != nil || r.StatusCode() >= http.StatusInternalServerError
		})
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}

	return &Client{client: client}
}

// FetchIngredients 取得指定食譜的所有食材記錄
func (c *Client) FetchIngredients(ctx context.Context, recipeIDs []int64) ([]common.IngredientRecord, error) {
	if len(recipeIDs) == 0 {
		return []common.IngredientRecord{}, nil
	}

	ids := make([]string, len(recipeIDs))
	for i, id := range recipeIDs {
		ids[i] = strconv.FormatInt(id, 10)
	}

	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("recipe_ids", strings.Join(ids, ",")).
		Get(ingredientsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to recipe store: %w", err)
	}

	if resp.StatusCode() != http.StatusOK {
		common.LogWarn("食譜服務回應錯誤",
			zap.Int("status", resp.StatusCode()),
			zap.Int("recipes", len(recipeIDs)),
		)
		return nil, fmt.Errorf("recipe store returned status %d: %s", resp.StatusCode(), resp.String())
	}

	var result ingredientsResponse
	if err := common.ParseJSONBytes(resp.Body(), &result); err != nil {
		return nil, fmt.Errorf("failed to parse recipe store response: %w", err)
	}

	common.LogDebug("已載入食材記錄",
		zap.Int("recipes", len(recipeIDs)),
		zap.Int("record_count", len(result.Ingredients)),
		zap.String("ingredients", common.FormatRecords(result.Ingredients)),
	)
	return result.Ingredients, nil
}
