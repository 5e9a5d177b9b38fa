package shopping

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"recipe-shopping/internal/core/shopping/cache"
	"recipe-shopping/internal/core/shopping/queue"
	"recipe-shopping/internal/core/unit"
	"recipe-shopping/internal/pkg/common"

	"go.uber.org/zap"
)

// RecordSource 依食譜 ID 提供食材記錄
type RecordSource interface {
	FetchIngredients(ctx context.Context, recipeIDs []int64) ([]common.IngredientRecord, error)
}

// GenerateRequest 產生購物清單的請求
//
// Records 為空時向食譜服務讀取 RecipeIDs 的食材。
// OnHand 以彙總鍵 "name|class" 對應使用者已有的量。
type GenerateRequest struct {
	RecipeIDs []int64                   `json:"recipe_ids"`
	Records   []common.IngredientRecord `json:"records,omitempty"`
	OnHand    map[string]common.OnHand  `json:"on_hand,omitempty"`
	RequestID string                    `json:"-"`
}

// ShoppingEntry 購物清單中的一列
type ShoppingEntry struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Unit     string `json:"unit"`
}

// ShoppingList 購物清單
type ShoppingList struct {
	Entries          []ShoppingEntry `json:"entries"`
	Warnings         []string        `json:"warnings,omitempty"`
	UnsupportedUnits []string        `json:"unsupported_units,omitempty"`
	Cached           bool            `json:"cached"`
}

// BatchResult 批次中單一請求的結果
type BatchResult struct {
	Index int           `json:"index"`
	List  *ShoppingList `json:"list,omitempty"`
	Error string        `json:"error,omitempty"`
}

// Service 購物清單服務
type Service struct {
	cache  cache.Store
	source RecordSource
	queue  *queue.Manager
}

// NewService 創建購物清單服務，三個依賴都可以為 nil
func NewService(store cache.Store, src RecordSource, q *queue.Manager) *Service {
	return &Service{
		cache:  store,
		source: src,
		queue:  q,
	}
}

// Generate 產生購物清單，結果依請求指紋快取
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (*ShoppingList, error) {
	start := time.Now()

	key, err := fingerprint(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fingerprint request: %w", err)
	}

	if list, ok := s.lookup(ctx, key); ok {
		return list, nil
	}

	records := req.Records
	if len(records) == 0 && len(req.RecipeIDs) > 0 {
		if s.source == nil {
			return nil, common.ErrSourceUnavailable
		}
		records, err = s.source.FetchIngredients(ctx, req.RecipeIDs)
		if err != nil {
			common.LogError("讀取食材失敗",
				zap.String("request_id", req.RequestID),
				zap.Error(err),
			)
			return nil, common.ErrRecipeStoreFailed.WithErr(err)
		}
	}

	list := BuildList(records, req.RecipeIDs, req.OnHand)
	s.store(ctx, key, list)

	common.LogAggregation(req.RequestID, len(records), len(list.Entries), time.Since(start))
	return list, nil
}

// GenerateBatch 透過隊列平行產生多份購物清單，結果依輸入順序回傳
func (s *Service) GenerateBatch(ctx context.Context, reqs []GenerateRequest) []BatchResult {
	results := make([]BatchResult, len(reqs))
	pending := make([]<-chan queue.Result, len(reqs))

	for i, req := range reqs {
		results[i].Index = i
		if s.queue == nil {
			list, err := s.Generate(ctx, req)
			results[i] = batchResult(i, list, err)
			continue
		}

		req := req
		ch, err := s.queue.Enqueue(ctx, func(jobCtx context.Context) (any, error) {
			return s.Generate(jobCtx, req)
		})
		if err != nil {
			results[i] = batchResult(i, nil, err)
			continue
		}
		pending[i] = ch
	}

	for i, ch := range pending {
		if ch == nil {
			continue
		}
		select {
		case res := <-ch:
			list, _ := res.Value.(*ShoppingList)
			results[i] = batchResult(i, list, res.Error)
		case <-ctx.Done():
			results[i] = batchResult(i, nil, ctx.Err())
		}
	}
	return results
}

func batchResult(i int, list *ShoppingList, err error) BatchResult {
	if err != nil {
		var customErr *common.CustomError
		if errors.As(err, &customErr) {
			return BatchResult{Index: i, Error: customErr.Message}
		}
		return BatchResult{Index: i, Error: err.Error()}
	}
	return BatchResult{Index: i, List: list}
}

// BuildList 彙總所選食譜、扣除現有量，再換算成購買單位
func BuildList(records []common.IngredientRecord, selected []int64, onHand map[string]common.OnHand) *ShoppingList {
	list := &ShoppingList{Entries: []ShoppingEntry{}}
	list.UnsupportedUnits = unsupportedUnits(records, selected)

	for _, row := range Aggregate(records, selected) {
		remaining := row.TotalBase

		if have, ok := onHand[row.Key()]; ok {
			haveBase, err := onHandToBase(have, row)
			if err != nil {
				list.Warnings = append(list.Warnings, err.Error())
			} else {
				remaining -= haveBase
			}
		}

		if remaining <= epsilon {
			continue
		}

		sugg := Suggest(remaining, row.BaseUnit, row.DisplayName)
		list.Entries = append(list.Entries, ShoppingEntry{
			Key:      row.Key(),
			Name:     row.DisplayName,
			Quantity: sugg.Quantity,
			Unit:     sugg.Unit,
		})
	}
	return list
}

// packageLabel 購買單位標籤代表的基準量
type packageLabel struct {
	baseUnit string
	class    unit.Class
	factor   float64
}

// packageLabels Suggest 產生的包裝標籤，無法直接交給 unit.ConvertToBase
var packageLabels = map[string]packageLabel{
	"eggs (dozen)":      {baseUnit: unit.BaseUnitCount, class: unit.Count, factor: 12},
	"eggs (half dozen)": {baseUnit: unit.BaseUnitCount, class: unit.Count, factor: 6},
	"count":             {baseUnit: unit.BaseUnitCount, class: unit.Count, factor: 1},
	flourBagLabel:       {baseUnit: unit.BaseUnitVolume, class: unit.Volume, factor: flourBagTsp},
}

// onHandToBase 將使用者已有的量換算成該列的基準單位
// 未指定單位時視為該列顯示的購買單位；計數類別還需要相同的計數名詞
func onHandToBase(have common.OnHand, row AggregatedQuantity) (float64, error) {
	label := have.Unit
	if label == "" {
		label = Suggest(row.TotalBase, row.BaseUnit, row.DisplayName).Unit
	}

	var (
		base     float64
		baseUnit string
		class    unit.Class
	)
	if pkg, ok := packageLabels[label]; ok {
		base, baseUnit, class = have.Quantity*pkg.factor, pkg.baseUnit, pkg.class
	} else {
		qty := have.Quantity
		base, baseUnit, class = unit.ConvertToBase(&qty, label, row.DisplayName)
	}

	if class != row.Class || (class == unit.Count && baseUnit != row.BaseUnit) {
		return 0, fmt.Errorf("%w: %s (%s) vs %s", common.ErrIncompatibleOnHand, row.DisplayName, label, row.BaseUnit)
	}
	return base, nil
}

// unsupportedUnits 列出所選食譜中無法換算的單位（已排序、去重）
func unsupportedUnits(records []common.IngredientRecord, selected []int64) []string {
	want := make(map[int64]struct{}, len(selected))
	for _, id := range selected {
		want[id] = struct{}{}
	}

	seen := make(map[string]struct{})
	var units []string
	for _, rec := range records {
		if _, ok := want[rec.RecipeID]; !ok || !unit.IsUnsupported(rec.Unit) {
			continue
		}
		if _, dup := seen[rec.Unit]; dup {
			continue
		}
		seen[rec.Unit] = struct{}{}
		units = append(units, rec.Unit)
	}
	sort.Strings(units)
	return units
}

func (s *Service) lookup(ctx context.Context, key string) (*ShoppingList, bool) {
	if s.cache == nil {
		return nil, false
	}

	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, common.ErrCacheMiss) {
			common.LogWarn("快取讀取失敗", zap.Error(err))
		}
		return nil, false
	}

	var list ShoppingList
	if err := json.Unmarshal(data, &list); err != nil {
		common.LogWarn("快取資料損毀", zap.String("鍵", key), zap.Error(err))
		return nil, false
	}
	list.Cached = true
	return &list, true
}

func (s *Service) store(ctx context.Context, key string, list *ShoppingList) {
	if s.cache == nil {
		return
	}

	data, err := json.Marshal(list)
	if err != nil {
		common.LogWarn("快取序列化失敗", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, key, data); err != nil {
		common.LogWarn("快取寫入失敗", zap.String("鍵", key), zap.Error(err))
	}
}

// fingerprint 以排序後的食譜 ID、食材與現有量計算快取鍵
func fingerprint(req GenerateRequest) (string, error) {
	ids := append([]int64(nil), req.RecipeIDs...)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	data, err := json.Marshal(struct {
		RecipeIDs []int64                   `json:"recipe_ids"`
		Records   []common.IngredientRecord `json:"records"`
		OnHand    map[string]common.OnHand  `json:"on_hand"`
	}{ids, req.Records, req.OnHand})
	if err != nil {
		return "", err
	}
	return cache.Fingerprint(data), nil
}
