package shopping

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"recipe-shopping/internal/core/shopping/cache"
	"recipe-shopping/internal/core/shopping/queue"
	"recipe-shopping/internal/infrastructure/config"
	"recipe-shopping/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	records []common.IngredientRecord
	err     error
	calls   int32
}

func (f *fakeSource) FetchIngredients(_ context.Context, recipeIDs []int64) ([]common.IngredientRecord, error) {
	atomic.AddInt32(&f.calls, 1)
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func newTestCache(t *testing.T) *cache.Manager {
	t.Helper()
	m := cache.NewManager(&config.CacheConfig{Enabled: true, MaxSize: 100, TTL: time.Minute})
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestBuildList(t *testing.T) {
	t.Parallel()

	records := append(
		recordsFromLines(t, 1, "2 cups flour", "3 eggs", "1 tsp salt"),
		recordsFromLines(t, 2, "1 cup flour", "1 handful spinach")...,
	)

	list := BuildList(records, []int64{1, 2}, nil)
	require.Len(t, list.Entries, 4)

	byKey := make(map[string]ShoppingEntry, len(list.Entries))
	for _, e := range list.Entries {
		byKey[e.Key] = e
	}

	assert.Equal(t, ShoppingEntry{Key: "flour|volume", Name: "flour", Quantity: "3", Unit: "cup"}, byKey["flour|volume"])
	assert.Equal(t, ShoppingEntry{Key: "eggs|count", Name: "eggs", Quantity: "6", Unit: "eggs (half dozen)"}, byKey["eggs|count"])
	assert.Equal(t, "tsp", byKey["salt|volume"].Unit)
	assert.Equal(t, "handful spinach", byKey["handful spinach|count"].Name)
	assert.Empty(t, list.Warnings)
}

func TestBuildList_UnsupportedUnits(t *testing.T) {
	t.Parallel()

	records := []common.IngredientRecord{
		{RecipeID: 1, Name: "spinach", Quantity: common.Float64(2), Unit: "handful"},
		{RecipeID: 1, Name: "kale", Quantity: common.Float64(1), Unit: "handful"},
		{RecipeID: 1, Name: "salt", Quantity: common.Float64(1), Unit: "smidgen"},
		{RecipeID: 2, Name: "rice", Quantity: common.Float64(1), Unit: "sack"},
	}

	list := BuildList(records, []int64{1}, nil)
	assert.Equal(t, []string{"handful", "smidgen"}, list.UnsupportedUnits)
	assert.Len(t, list.Entries, 3)
}

func TestBuildList_OnHand(t *testing.T) {
	t.Parallel()

	records := recordsFromLines(t, 1,
		"3 cups flour",
		"2 sticks butter",
		"12 eggs",
		"1 lb beef",
		"2 cloves garlic",
	)

	tests := []struct {
		name        string
		onHand      map[string]common.OnHand
		wantKey     string
		wantEntry   *ShoppingEntry
		wantWarning bool
	}{
		{
			name:      "displayed unit subtracts",
			onHand:    map[string]common.OnHand{"flour|volume": {Quantity: 1}},
			wantKey:   "flour|volume",
			wantEntry: &ShoppingEntry{Key: "flour|volume", Name: "flour", Quantity: "2", Unit: "cup"},
		},
		{
			name:      "explicit unit converts",
			onHand:    map[string]common.OnHand{"flour|volume": {Quantity: 8, Unit: "tbsp"}},
			wantKey:   "flour|volume",
			wantEntry: &ShoppingEntry{Key: "flour|volume", Name: "flour", Quantity: "2 1/2", Unit: "cup"},
		},
		{
			name:    "covered rows are dropped",
			onHand:  map[string]common.OnHand{"butter|volume": {Quantity: 2}},
			wantKey: "butter|volume",
		},
		{
			name:      "dozen label",
			onHand:    map[string]common.OnHand{"eggs|count": {Quantity: 0.5, Unit: "eggs (dozen)"}},
			wantKey:   "eggs|count",
			wantEntry: &ShoppingEntry{Key: "eggs|count", Name: "eggs", Quantity: "6", Unit: "eggs (half dozen)"},
		},
		{
			name:      "weight in ounces",
			onHand:    map[string]common.OnHand{"beef|weight": {Quantity: 4, Unit: "oz"}},
			wantKey:   "beef|weight",
			wantEntry: &ShoppingEntry{Key: "beef|weight", Name: "beef", Quantity: "3/4", Unit: "lb"},
		},
		{
			name:        "incompatible unit warns",
			onHand:      map[string]common.OnHand{"beef|weight": {Quantity: 1, Unit: "cup"}},
			wantKey:     "beef|weight",
			wantEntry:   &ShoppingEntry{Key: "beef|weight", Name: "beef", Quantity: "1", Unit: "lb"},
			wantWarning: true,
		},
		{
			name:      "count noun",
			onHand:    map[string]common.OnHand{"garlic|count": {Quantity: 1}},
			wantKey:   "garlic|count",
			wantEntry: &ShoppingEntry{Key: "garlic|count", Name: "garlic", Quantity: "1", Unit: "clove"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			list := BuildList(records, []int64{1}, tc.onHand)

			var got *ShoppingEntry
			for i := range list.Entries {
				if list.Entries[i].Key == tc.wantKey {
					got = &list.Entries[i]
				}
			}

			if tc.wantEntry == nil {
				assert.Nil(t, got)
				assert.Len(t, list.Entries, 4)
			} else {
				require.NotNil(t, got)
				assert.Equal(t, *tc.wantEntry, *got)
				assert.Len(t, list.Entries, 5)
			}

			if tc.wantWarning {
				require.Len(t, list.Warnings, 1)
				assert.Contains(t, list.Warnings[0], common.ErrIncompatibleOnHand.Error())
			} else {
				assert.Empty(t, list.Warnings)
			}
		})
	}
}

func TestBuildList_OnHandInDisplayedUnit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		key  string
		have float64
		want *ShoppingEntry
	}{
		{"butter sticks", "1 cup butter", "butter|volume", 1, &ShoppingEntry{Key: "butter|volume", Name: "butter", Quantity: "1", Unit: "stick"}},
		{"half dozen eggs", "3 eggs", "eggs|count", 1, nil},
		{"dozen eggs", "8 eggs", "eggs|count", 0.5, &ShoppingEntry{Key: "eggs|count", Name: "eggs", Quantity: "6", Unit: "eggs (half dozen)"}},
		{"flour cups", "2 cups flour", "flour|volume", 1, &ShoppingEntry{Key: "flour|volume", Name: "flour", Quantity: "1", Unit: "cup"}},
		{"flour bag", "6 cups flour", "flour|volume", 1, nil},
		{"milk cups", "2 cups milk", "milk|volume", 1, &ShoppingEntry{Key: "milk|volume", Name: "milk", Quantity: "1", Unit: "cup"}},
		{"milk gallon", "6 cups milk", "milk|volume", 0.25, &ShoppingEntry{Key: "milk|volume", Name: "milk", Quantity: "2", Unit: "cup"}},
		{"generic volume", "4 cups broth", "broth|volume", 0.5, &ShoppingEntry{Key: "broth|volume", Name: "broth", Quantity: "1", Unit: "pint"}},
		{"weight", "3 lb chicken", "chicken|weight", 1, &ShoppingEntry{Key: "chicken|weight", Name: "chicken", Quantity: "2", Unit: "lb"}},
		{"count noun", "3 cloves garlic", "garlic|count", 1, &ShoppingEntry{Key: "garlic|count", Name: "garlic", Quantity: "2", Unit: "clove"}},
		{"plain count", "3 lemons", "lemons|count", 1, &ShoppingEntry{Key: "lemons|count", Name: "lemons", Quantity: "2", Unit: "count"}},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			records := recordsFromLines(t, 1, tc.line)
			list := BuildList(records, []int64{1}, map[string]common.OnHand{tc.key: {Quantity: tc.have}})

			assert.Empty(t, list.Warnings)
			if tc.want == nil {
				assert.Empty(t, list.Entries)
				return
			}
			require.Len(t, list.Entries, 1)
			assert.Equal(t, *tc.want, list.Entries[0])
		})
	}
}

func TestBuildList_OnHandCountNounMismatch(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		line   string
		key    string
		onHand common.OnHand
		want   ShoppingEntry
	}{
		{
			name:   "head is not a clove",
			line:   "3 cloves garlic",
			key:    "garlic|count",
			onHand: common.OnHand{Quantity: 1, Unit: "head"},
			want:   ShoppingEntry{Key: "garlic|count", Name: "garlic", Quantity: "3", Unit: "clove"},
		},
		{
			name:   "clove is not an egg",
			line:   "3 eggs",
			key:    "eggs|count",
			onHand: common.OnHand{Quantity: 2, Unit: "clove"},
			want:   ShoppingEntry{Key: "eggs|count", Name: "eggs", Quantity: "6", Unit: "eggs (half dozen)"},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			records := recordsFromLines(t, 1, tc.line)
			list := BuildList(records, []int64{1}, map[string]common.OnHand{tc.key: tc.onHand})

			require.Len(t, list.Entries, 1)
			assert.Equal(t, tc.want, list.Entries[0])
			require.Len(t, list.Warnings, 1)
			assert.Contains(t, list.Warnings[0], common.ErrIncompatibleOnHand.Error())
		})
	}
}

func TestBuildList_SuggestsFromDisplayName(t *testing.T) {
	t.Parallel()

	records := []common.IngredientRecord{
		{RecipeID: 1, Name: "shortening (or butter)", Quantity: common.Float64(1), Unit: "stick"},
	}

	list := BuildList(records, []int64{1}, nil)
	require.Len(t, list.Entries, 1)
	assert.Equal(t, ShoppingEntry{Key: "shortening|volume", Name: "shortening (or butter)", Quantity: "1", Unit: "stick"}, list.Entries[0])
}

func TestService_GenerateInlineAndCached(t *testing.T) {
	store := newTestCache(t)
	svc := NewService(store, nil, nil)

	req := GenerateRequest{
		RecipeIDs: []int64{1, 2},
		Records: append(
			recordsFromLines(t, 1, "2 cups milk"),
			recordsFromLines(t, 2, "1 stick butter")...,
		),
	}

	first, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	require.Len(t, first.Entries, 2)

	second, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Entries, second.Entries)

	// 食譜順序不同仍命中同一個快取鍵
	req.RecipeIDs = []int64{2, 1}
	req.RequestID = "other"
	third, err := svc.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, third.Cached)
}

func TestService_GenerateFromSource(t *testing.T) {
	src := &fakeSource{records: recordsFromLines(t, 5, "1 lb beef", "2 cloves garlic")}
	svc := NewService(nil, src, nil)

	list, err := svc.Generate(context.Background(), GenerateRequest{RecipeIDs: []int64{5}})
	require.NoError(t, err)
	assert.Len(t, list.Entries, 2)
	assert.Equal(t, int32(1), atomic.LoadInt32(&src.calls))
}

func TestService_GenerateErrors(t *testing.T) {
	_, err := NewService(nil, nil, nil).Generate(context.Background(), GenerateRequest{RecipeIDs: []int64{1}})
	assert.ErrorIs(t, err, common.ErrSourceUnavailable)

	upstream := errors.New("connection refused")
	svc := NewService(nil, &fakeSource{err: upstream}, nil)
	_, err = svc.Generate(context.Background(), GenerateRequest{RecipeIDs: []int64{1}})
	require.Error(t, err)
	assert.ErrorIs(t, err, upstream)

	var customErr *common.CustomError
	require.True(t, errors.As(err, &customErr))
	assert.Equal(t, common.ErrRecipeStoreFailed.Code, customErr.Code)
}

func TestService_GenerateEmptySelection(t *testing.T) {
	src := &fakeSource{}
	svc := NewService(nil, src, nil)

	list, err := svc.Generate(context.Background(), GenerateRequest{})
	require.NoError(t, err)
	assert.NotNil(t, list.Entries)
	assert.Empty(t, list.Entries)
	assert.Equal(t, int32(0), atomic.LoadInt32(&src.calls))
}

func TestService_GenerateBatch(t *testing.T) {
	q := queue.NewManager(&config.QueueConfig{Workers: 2, MaxSize: 10})
	defer q.Close()

	svc := NewService(nil, nil, q)
	reqs := []GenerateRequest{
		{RecipeIDs: []int64{1}, Records: recordsFromLines(t, 1, "1 cup flour")},
		{RecipeIDs: []int64{2}},
		{RecipeIDs: []int64{3}, Records: recordsFromLines(t, 3, "13 eggs")},
	}

	results := svc.GenerateBatch(context.Background(), reqs)
	require.Len(t, results, 3)

	assert.Equal(t, 0, results[0].Index)
	require.NotNil(t, results[0].List)
	assert.Equal(t, "1", results[0].List.Entries[0].Quantity)

	assert.Nil(t, results[1].List)
	assert.Equal(t, common.ErrSourceUnavailable.Error(), results[1].Error)

	require.NotNil(t, results[2].List)
	assert.Equal(t, "24", results[2].List.Entries[0].Quantity)
	assert.Equal(t, int64(3), q.Status().ProcessedCount)
}

func TestService_GenerateBatchWithoutQueue(t *testing.T) {
	svc := NewService(nil, nil, nil)
	results := svc.GenerateBatch(context.Background(), []GenerateRequest{
		{RecipeIDs: []int64{1}, Records: recordsFromLines(t, 1, "2 tbsp olive oil")},
	})
	require.Len(t, results, 1)
	require.NotNil(t, results[0].List)
	assert.Equal(t, ShoppingEntry{Key: "olive oil|volume", Name: "olive oil", Quantity: "1/8", Unit: "cup"}, results[0].List.Entries[0])
}
