package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/andresuchdata/retail-forecast/backend-go/internal/catalog"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/client"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/dashboard"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/domain"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/order"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/report"
	"github.com/andresuchdata/retail-forecast/backend-go/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	mu    sync.Mutex
	calls int
	resp  *domain.ForecastResponse
	err   error
	// gate, when set, blocks Fetch for the given month until closed.
	gate map[int]chan struct{}
}

func (f *fakeFetcher) Fetch(ctx context.Context, req domain.ForecastRequest) (*domain.ForecastResponse, error) {
	f.mu.Lock()
	f.calls++
	gate := f.gate[req.Month]
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if f.err != nil {
		return nil, f.err
	}
	resp := *f.resp
	resp.MonthlyTrends = []domain.MonthlyTrendPoint{{Month: domain.MonthLabel(req.Month), Sales: req.Month * 100}}
	return &resp, nil
}

type memoryCache struct {
	mu    sync.Mutex
	items map[domain.ForecastRequest]*domain.ForecastResponse
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: make(map[domain.ForecastRequest]*domain.ForecastResponse)}
}

func (c *memoryCache) Get(_ context.Context, req domain.ForecastRequest) (*domain.ForecastResponse, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	resp, ok := c.items[req]
	return resp, ok, nil
}

func (c *memoryCache) Set(_ context.Context, req domain.ForecastRequest, resp *domain.ForecastResponse) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[req] = resp
	return nil
}

func (c *memoryCache) InvalidateAll(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[domain.ForecastRequest]*domain.ForecastResponse)
	return nil
}

type fakeSource struct {
	products []domain.CatalogProduct
	err      error
}

func (f fakeSource) Products(context.Context) ([]domain.CatalogProduct, error) {
	return f.products, f.err
}

type fakeRepo struct {
	products []domain.CatalogProduct
}

func (r *fakeRepo) ListProducts(context.Context) ([]domain.CatalogProduct, error) {
	return r.products, nil
}

func (r *fakeRepo) ListCategories(context.Context) ([]string, error) {
	return catalog.Categories(catalog.FromProducts(r.products)), nil
}

func (r *fakeRepo) UpsertProducts(_ context.Context, products []domain.CatalogProduct) (int, error) {
	r.products = append(r.products, products...)
	return len(products), nil
}

func (r *fakeRepo) EnsureSchema(context.Context) error { return nil }

func testStore() *dashboard.Store {
	n := 0
	return dashboard.NewStore(dashboard.Env{
		NewOrderID: func() string {
			n++
			return fmt.Sprintf("ORD-%d", n)
		},
		Now: func() time.Time { return time.Date(2024, 12, 5, 9, 0, 0, 0, time.UTC) },
	})
}

func forecastFixture() *domain.ForecastResponse {
	return &domain.ForecastResponse{
		ProductAnalysis: []domain.ForecastRecord{
			{Product: "A", Category: "X", Stock: 10, PredictedDemand: 30, Price: domain.Float64(2), Cost: domain.Float64(1)},
			{Product: "B", Category: "Y", Stock: 50, PredictedDemand: 20, Price: domain.Float64(5), Cost: domain.Float64(3)},
			{Product: "", Category: "Y", Stock: 1, PredictedDemand: 1},
		},
	}
}

func TestAnalyzeAppliesResult(t *testing.T) {
	store := testStore()
	svc := NewAnalysisService(&fakeFetcher{resp: forecastFixture()}, nil, store, nil)

	res, err := svc.Analyze(context.Background(), domain.ForecastRequest{Year: 2024, Month: 1, Holidays: 2})
	require.NoError(t, err)

	assert.True(t, res.Applied)
	assert.Equal(t, uint64(1), res.Seq)
	assert.Equal(t, 1, res.Dropped)
	assert.Equal(t, 50, res.Analysis.TotalUnits)
	assert.Equal(t, "43.75", res.Financials.ProfitMarginPct)

	latest, err := svc.Latest()
	require.NoError(t, err)
	assert.Equal(t, res.Analysis, latest.Analysis)
	assert.Equal(t, domain.ForecastRequest{Year: 2024, Month: 1, Holidays: 2}, latest.Request)
}

func TestAnalyzeRejectsInvalidRequest(t *testing.T) {
	fetcher := &fakeFetcher{resp: forecastFixture()}
	svc := NewAnalysisService(fetcher, nil, testStore(), nil)

	_, err := svc.Analyze(context.Background(), domain.ForecastRequest{Year: 2024, Month: 13})
	assert.ErrorIs(t, err, domain.ErrInvalidMonth)
	assert.Zero(t, fetcher.calls)
}

func TestAnalyzeFailureSetsSessionError(t *testing.T) {
	store := testStore()
	boom := errors.New("connection refused")
	svc := NewAnalysisService(&fakeFetcher{err: boom}, nil, store, nil)

	_, err := svc.Analyze(context.Background(), domain.ForecastRequest{Year: 2024, Month: 1})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, dashboard.AnalysisFailedMessage, store.Snapshot().Analysis.Error)
	assert.False(t, store.Snapshot().Analysis.Pending)

	_, err = svc.Latest()
	assert.ErrorIs(t, err, ErrNoAnalysis)
}

func TestAnalyzeUsesCache(t *testing.T) {
	fetcher := &fakeFetcher{resp: forecastFixture()}
	svc := NewAnalysisService(fetcher, newMemoryCache(), testStore(), nil)
	req := domain.ForecastRequest{Year: 2024, Month: 3}

	first, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, 1, fetcher.calls)
	assert.Equal(t, first.Analysis, second.Analysis)
}

func forecastServer(t *testing.T, body string) *client.ForecastClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return client.NewForecastClient(srv.URL, time.Second)
}

func TestAnalyzeCountsDroppedRecordsFromUpstream(t *testing.T) {
	store := testStore()
	fc := forecastServer(t, `{
		"product_analysis": [
			{"product": "A", "category": "X", "stock": 10, "predicted_demand": 30, "price": 2, "cost": 1},
			{"product": "", "category": "X", "stock": 1, "predicted_demand": 1},
			{"product": "C", "category": "X", "stock": -3, "predicted_demand": 1}
		],
		"monthly_trends": [{"month": "Jan", "sales": 10}]
	}`)
	svc := NewAnalysisService(fc, nil, store, nil)

	res, err := svc.Analyze(context.Background(), domain.ForecastRequest{Year: 2024, Month: 1})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Dropped)
	assert.Equal(t, 30, res.Analysis.TotalUnits)

	assert.Equal(t, 2, store.Snapshot().Analysis.Dropped)
	latest, err := svc.Latest()
	require.NoError(t, err)
	assert.Equal(t, 2, latest.Dropped)
}

func TestAnalyzeMalformedUpstreamBodyIsNoData(t *testing.T) {
	store := testStore()
	cache := newMemoryCache()
	svc := NewAnalysisService(forecastServer(t, `{"product_analysis":"oops","monthly_trends":5}`), cache, store, nil)

	res, err := svc.Analyze(context.Background(), domain.ForecastRequest{Year: 2024, Month: 1})
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Zero(t, res.Analysis.TotalUnits)
	assert.Empty(t, res.Analysis.CategoryTotals)
	assert.Equal(t, "0.00", res.Financials.TotalRevenue)

	st := store.Snapshot()
	assert.Empty(t, st.Analysis.Error)
	assert.False(t, st.Analysis.Pending)
	require.NotNil(t, st.Analysis.Result)
	assert.Empty(t, cache.items, "empty answers are not cached")
}

func TestSlowEarlierRequestDoesNotOverwriteNewer(t *testing.T) {
	store := testStore()
	gate := make(chan struct{})
	fetcher := &fakeFetcher{resp: forecastFixture(), gate: map[int]chan struct{}{1: gate}}
	svc := NewAnalysisService(fetcher, nil, store, nil)

	slow := make(chan *AnalysisResult, 1)
	go func() {
		res, err := svc.Analyze(context.Background(), domain.ForecastRequest{Year: 2024, Month: 1})
		assert.NoError(t, err)
		slow <- res
	}()

	require.Eventually(t, func() bool {
		return store.Snapshot().Analysis.LatestSeq == 1
	}, time.Second, time.Millisecond)

	fast, err := svc.Analyze(context.Background(), domain.ForecastRequest{Year: 2024, Month: 2})
	require.NoError(t, err)
	assert.True(t, fast.Applied)

	close(gate)
	res := <-slow
	assert.False(t, res.Applied)

	st := store.Snapshot()
	assert.Equal(t, uint64(2), st.Analysis.AppliedSeq)
	assert.Equal(t, []string{"February"}, st.Analysis.Result.Trend.Labels)
}

func TestExportUploadsReport(t *testing.T) {
	objects := storage.NewMemoryStorage()
	svc := NewAnalysisService(&fakeFetcher{resp: forecastFixture()}, nil, testStore(), report.NewExporter(objects, "reports"))

	key, err := svc.Export(context.Background(), domain.ForecastRequest{Year: 2024, Month: 1})
	require.NoError(t, err)

	_, ok := objects.Object(key)
	assert.True(t, ok)
}

func TestExportWithoutStorage(t *testing.T) {
	svc := NewAnalysisService(&fakeFetcher{resp: forecastFixture()}, nil, testStore(), nil)

	_, err := svc.Export(context.Background(), domain.ForecastRequest{Year: 2024, Month: 1})
	assert.ErrorIs(t, err, report.ErrStorageDisabled)
}

func TestCatalogServiceLoad(t *testing.T) {
	store := testStore()
	svc := NewCatalogService(fakeSource{products: catalog.SampleProducts()}, nil, store)

	require.NoError(t, svc.EnsureLoaded(context.Background()))

	assert.Equal(t, []string{"Biscuits", "Breakfast & Mixes", "Dairy"}, svc.Categories())
	dairy := svc.Products("Dairy")
	require.Len(t, dairy, 2)
	assert.Equal(t, "P0031", dairy[0].ID)
	assert.Empty(t, svc.Products(""))
	assert.Len(t, svc.QuickProducts(), 5)

	qty, err := svc.Suggest("P0025")
	require.NoError(t, err)
	assert.Equal(t, 14, qty)

	qty, err = svc.Suggest("")
	require.NoError(t, err)
	assert.Zero(t, qty)

	_, err = svc.Suggest("P9999")
	assert.ErrorIs(t, err, ErrProductNotFound)

	_, err = svc.ServedProducts(context.Background())
	assert.ErrorIs(t, err, ErrCatalogNotServed)
}

func TestCatalogServiceLoadFailure(t *testing.T) {
	store := testStore()
	svc := NewCatalogService(fakeSource{err: errors.New("timeout")}, nil, store)

	err := svc.Load(context.Background())
	assert.Error(t, err)
	assert.Equal(t, dashboard.CatalogFailedMessage, store.Snapshot().CatalogError)
	assert.False(t, store.Snapshot().CatalogLoaded)
}

func TestCatalogServiceFromRepository(t *testing.T) {
	repo := &fakeRepo{products: catalog.SampleProducts()}
	svc := NewCatalogService(RepositorySource{Repo: repo}, repo, testStore())

	require.NoError(t, svc.Load(context.Background()))
	assert.Len(t, svc.QuickProducts(), 5)

	served, err := svc.ServedProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, catalog.SampleProducts(), served)
}

func TestOrderServicePlace(t *testing.T) {
	store := testStore()
	require.NoError(t, NewCatalogService(fakeSource{products: catalog.SampleProducts()}, nil, store).Load(context.Background()))
	svc := NewOrderService(store)

	rec, err := svc.Place("P0026", 18, false)
	require.NoError(t, err)
	assert.Equal(t, "ORD-1", rec.OrderID)
	assert.Equal(t, "MTR Dosa Mix", rec.ProductName)
	assert.Equal(t, "SPL005", rec.SupplierID)
	assert.Equal(t, 18, rec.Quantity)
	assert.Equal(t, order.SuccessMessage, rec.Message)
	assert.Equal(t, order.PhaseResultShown, svc.Current().Phase)

	quick, err := svc.Place("P0040", 3, true)
	require.NoError(t, err)
	assert.Equal(t, "ORD-2", quick.OrderID)
	assert.Equal(t, "ORD-2", svc.Current().Current.OrderID)

	st, err := svc.Dismiss()
	require.NoError(t, err)
	assert.Equal(t, order.Idle(), st)
}

func TestOrderServiceRejections(t *testing.T) {
	store := testStore()
	require.NoError(t, NewCatalogService(fakeSource{products: catalog.SampleProducts()}, nil, store).Load(context.Background()))
	svc := NewOrderService(store)
	before := store.Snapshot()

	_, err := svc.Place("P0026", 0, false)
	assert.ErrorIs(t, err, order.ErrInvalidQuantity)

	_, err = svc.Place("P0026", -4, true)
	assert.ErrorIs(t, err, order.ErrInvalidQuantity)

	_, err = svc.Place("P9999", 5, false)
	assert.ErrorIs(t, err, order.ErrUnresolvedProduct)

	_, err = svc.Place("P9999", 5, true)
	assert.ErrorIs(t, err, order.ErrUnresolvedProduct)

	assert.Equal(t, before, store.Snapshot())

	rec, err := svc.Place("P0026", 1, false)
	require.NoError(t, err)
	assert.Equal(t, "ORD-1", rec.OrderID)
}

func TestBootstrap(t *testing.T) {
	store := testStore()
	catalogSvc := NewCatalogService(fakeSource{products: catalog.SampleProducts()}, nil, store)
	analysisSvc := NewAnalysisService(&fakeFetcher{resp: forecastFixture()}, nil, store, nil)

	require.NoError(t, Bootstrap(context.Background(), catalogSvc, analysisSvc, domain.ForecastRequest{Year: 2024, Month: 1}))

	st := store.Snapshot()
	assert.True(t, st.CatalogLoaded)
	assert.NotNil(t, st.Analysis.Result)
}

func TestBootstrapReportsFailureButLoadsTheRest(t *testing.T) {
	store := testStore()
	catalogSvc := NewCatalogService(fakeSource{err: errors.New("down")}, nil, store)
	analysisSvc := NewAnalysisService(&fakeFetcher{resp: forecastFixture()}, nil, store, nil)

	err := Bootstrap(context.Background(), catalogSvc, analysisSvc, domain.ForecastRequest{Year: 2024, Month: 1})
	assert.Error(t, err)
	assert.NotNil(t, store.Snapshot().Analysis.Result)
}

func TestFlushCache(t *testing.T) {
	fetcher := &fakeFetcher{resp: forecastFixture()}
	svc := NewAnalysisService(fetcher, newMemoryCache(), testStore(), nil)
	req := domain.ForecastRequest{Year: 2024, Month: 3}

	_, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)
	require.NoError(t, svc.FlushCache(context.Background()))

	res, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, res.Cached)
	assert.Equal(t, 2, fetcher.calls)
}

func TestServedCategories(t *testing.T) {
	_, err := NewCatalogService(fakeSource{}, nil, testStore()).ServedCategories(context.Background())
	assert.ErrorIs(t, err, ErrCatalogNotServed)

	repo := &fakeRepo{products: catalog.SampleProducts()}
	cats, err := NewCatalogService(RepositorySource{Repo: repo}, repo, testStore()).ServedCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Biscuits", "Breakfast & Mixes", "Dairy"}, cats)
}

func TestOrderServiceSetPeriod(t *testing.T) {
	store := testStore()
	svc := NewOrderService(store)

	form, err := svc.SetPeriod(2025, 2)
	require.NoError(t, err)
	assert.Equal(t, 2025, form.Year)
	assert.Equal(t, 2, form.Month)

	_, err = svc.SetPeriod(2025, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidMonth)
	_, err = svc.SetPeriod(0, 5)
	assert.ErrorIs(t, err, domain.ErrInvalidYear)
	assert.Equal(t, 2, store.Snapshot().Form.Month)
}
