package recommendation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	aiservice "gift-recommender/internal/core/ai/service"
	"gift-recommender/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const placeholderURL = "https://images.example.com/placeholder.jpg"

type stubGenerator struct {
	content string
	err     error
	prompt  string
}

func (s *stubGenerator) ProcessRequest(_ context.Context, prompt string) (*aiservice.Response, error) {
	s.prompt = prompt
	if s.err != nil {
		return nil, s.err
	}
	return &aiservice.Response{Content: s.content}, nil
}

type stubCatalog struct {
	products []common.Product
	err      error
}

func (s stubCatalog) List(context.Context) ([]common.Product, error) {
	return s.products, s.err
}

// stubResolver 模擬圖片搜尋：目錄圖片優先，否則依查詢字串產生 URL
type stubResolver struct {
	mu      sync.Mutex
	queries []string
}

func (s *stubResolver) Resolve(_ context.Context, c common.Candidate, matched *common.Product) string {
	if matched != nil && matched.ImageURL != "" {
		return matched.ImageURL
	}
	s.mu.Lock()
	s.queries = append(s.queries, c.ImageSearchQuery)
	s.mu.Unlock()
	if strings.Contains(c.ImageSearchQuery, "nothing") {
		return placeholderURL
	}
	return "https://img/" + strings.ReplaceAll(c.ImageSearchQuery, " ", "-")
}

// barrierResolver 在同時進行的呼叫數達到 want 之前阻塞，記錄最大並行數
type barrierResolver struct {
	want     int32
	inFlight atomic.Int32
	peak     atomic.Int32
	once     sync.Once
	release  chan struct{}
}

func newBarrierResolver(want int32) *barrierResolver {
	return &barrierResolver{want: want, release: make(chan struct{})}
}

func (b *barrierResolver) Resolve(_ context.Context, c common.Candidate, _ *common.Product) string {
	n := b.inFlight.Add(1)
	defer b.inFlight.Add(-1)
	for {
		peak := b.peak.Load()
		if n <= peak || b.peak.CompareAndSwap(peak, n) {
			break
		}
	}
	if n >= b.want {
		b.once.Do(func() { close(b.release) })
	}
	select {
	case <-b.release:
	case <-time.After(time.Second):
	}
	return "https://img/" + strings.ReplaceAll(c.ImageSearchQuery, " ", "-")
}

func sampleSurvey(t *testing.T) common.SurveyInput {
	var survey common.SurveyInput
	err := json.Unmarshal([]byte(`{
		"relationship": "Friend",
		"age": "25-34",
		"gender": "Female",
		"occasion": "Birthday",
		"interests": ["Reading", "Music"],
		"personality": ["Creative"],
		"budget": [1000],
		"additionalInfo": "Loves tea"
	}`), &survey)
	require.NoError(t, err)
	return survey
}

func eightGifts() string {
	items := make([]string, 8)
	for i := range items {
		items[i] = fmt.Sprintf(`{"name":"Gift %d","description":"d","approximatePrice":%d,"category":"Books","reason":"r","imageSearchQuery":"gift %d"}`, i, 100*(i+1), i)
	}
	return "Here you go!\n```json\n[" + strings.Join(items, ",") + "]\n```"
}

func TestGenerateEndToEnd(t *testing.T) {
	generator := &stubGenerator{content: eightGifts()}
	catalog := stubCatalog{products: []common.Product{
		{ID: "p3", Name: "gift 3", Category: "books", ImageURL: "https://catalog/3.jpg"},
		{ID: "p5", Name: "Gift 5", Category: "Books", ImageURL: ""},
	}}
	resolver := &stubResolver{}
	svc := NewService(generator, catalog, resolver, Options{CandidateCount: 8, ImageConcurrency: 3})

	gifts, err := svc.Generate(context.Background(), sampleSurvey(t))
	require.NoError(t, err)
	require.Len(t, gifts, 8)

	for i, g := range gifts {
		assert.Equal(t, fmt.Sprintf("Gift %d", i), g.Name, "order preserved")
		assert.NotEmpty(t, g.ImageURL)
		assert.True(t, strings.HasPrefix(g.ID, fmt.Sprintf("gemini_gift_%d-", i)))
	}

	assert.True(t, gifts[3].IsCatalogMatch)
	assert.Equal(t, "https://catalog/3.jpg", gifts[3].ImageURL)
	assert.True(t, gifts[5].IsCatalogMatch)
	assert.Equal(t, "https://img/gift-5", gifts[5].ImageURL)
	assert.False(t, gifts[0].IsCatalogMatch)
	assert.Equal(t, 200.0, gifts[1].Price)

	assert.Contains(t, generator.prompt, "Friend")
	assert.Contains(t, generator.prompt, "Reading, Music")
	assert.Contains(t, generator.prompt, "₹1000")
	assert.Contains(t, generator.prompt, "Loves tea")
	assert.Contains(t, generator.prompt, "25-34")
	assert.Len(t, resolver.queries, 7)
}

func TestGenerateDuplicateCandidatesMatchOnce(t *testing.T) {
	generator := &stubGenerator{content: `[{"name":"Mug","category":"Kitchen"},{"name":"Mug","category":"Kitchen"}]`}
	catalog := stubCatalog{products: []common.Product{{ID: "p1", Name: "Mug", Category: "Kitchen", ImageURL: "https://catalog/mug.jpg"}}}
	svc := NewService(generator, catalog, &stubResolver{}, Options{ImageConcurrency: 4})

	gifts, err := svc.Generate(context.Background(), sampleSurvey(t))
	require.NoError(t, err)
	require.Len(t, gifts, 2)
	assert.True(t, gifts[0].IsCatalogMatch)
	assert.False(t, gifts[1].IsCatalogMatch)
	assert.Equal(t, "https://catalog/mug.jpg", gifts[0].ImageURL)
	assert.NotEqual(t, "https://catalog/mug.jpg", gifts[1].ImageURL)
}

func TestGenerateDegradesOnParseFailure(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"no array", "Sorry, I cannot help with that."},
		{"unbalanced", `[{"name":"Mug"}`},
		{"invalid json", `[{"name":}]`},
		{"empty array", `[]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(&stubGenerator{content: tt.content}, stubCatalog{}, &stubResolver{}, Options{})
			gifts, err := svc.Generate(context.Background(), sampleSurvey(t))
			require.NoError(t, err)
			assert.NotNil(t, gifts)
			assert.Empty(t, gifts)
		})
	}
}

func TestGenerateProviderFailure(t *testing.T) {
	generator := &stubGenerator{err: fmt.Errorf("%w: boom", aiservice.ErrProviderUnavailable)}
	svc := NewService(generator, stubCatalog{}, &stubResolver{}, Options{})

	_, err := svc.Generate(context.Background(), sampleSurvey(t))
	assert.ErrorIs(t, err, aiservice.ErrProviderUnavailable)
}

func TestGenerateCatalogFailureIsEmptyCatalog(t *testing.T) {
	generator := &stubGenerator{content: `[{"name":"Mug","category":"Kitchen","imageSearchQuery":"nothing here"}]`}
	svc := NewService(generator, stubCatalog{err: errors.New("db down")}, &stubResolver{}, Options{})

	gifts, err := svc.Generate(context.Background(), sampleSurvey(t))
	require.NoError(t, err)
	require.Len(t, gifts, 1)
	assert.False(t, gifts[0].IsCatalogMatch)
	assert.Equal(t, placeholderURL, gifts[0].ImageURL)
}

func TestGenerateResolvesImagesConcurrently(t *testing.T) {
	resolver := newBarrierResolver(4)
	svc := NewService(&stubGenerator{content: eightGifts()}, stubCatalog{}, resolver, Options{CandidateCount: 8, ImageConcurrency: 4})

	start := time.Now()
	gifts, err := svc.Generate(context.Background(), sampleSurvey(t))
	require.NoError(t, err)
	require.Len(t, gifts, 8)

	assert.Equal(t, int32(4), resolver.peak.Load(), "resolutions overlap up to the concurrency limit")
	assert.Less(t, time.Since(start), time.Second)
	for i, g := range gifts {
		assert.Equal(t, fmt.Sprintf("Gift %d", i), g.Name)
		assert.Equal(t, fmt.Sprintf("https://img/gift-%d", i), g.ImageURL)
	}
}
