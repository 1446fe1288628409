package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"fipe-web/domain"
)

type fakeCatalog struct {
	years      []domain.CatalogItem
	prices     map[string]string
	priceCalls []string
	delay      time.Duration
}

func (f *fakeCatalog) Years(_ context.Context, _ domain.VehicleType, _, _ string) []domain.CatalogItem {
	return f.years
}

func (f *fakeCatalog) Price(_ context.Context, q domain.PriceQuery) (domain.PriceRecord, bool) {
	f.priceCalls = append(f.priceCalls, q.YearID)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	price, ok := f.prices[q.YearID]
	if !ok {
		return domain.PriceRecord{}, false
	}
	return domain.PriceRecord{Price: price, Year: q.YearID}, true
}

func TestBuildSeries_DropsFailedYears(t *testing.T) {
	catalog := &fakeCatalog{
		years: []domain.CatalogItem{
			{Code: "A", Name: "2012 Gasolina"},
			{Code: "B", Name: "2013 Gasolina"},
			{Code: "C", Name: "2014 Gasolina"},
		},
		prices: map[string]string{
			"A": "R$ 18.000,00",
			"C": "R$ 21.500,50",
		},
	}
	service := NewChartService(catalog, 0, zaptest.NewLogger(t))

	series, err := service.BuildSeries(context.Background(), domain.VehicleCars, "21", "4828")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(series) != 2 {
		t.Fatalf("expected 2 points, got %d", len(series))
	}
	if series[0].YearLabel != "2012 Gasolina" || series[0].Price != 18000 {
		t.Errorf("unexpected first point %+v", series[0])
	}
	if series[1].YearLabel != "2014 Gasolina" || series[1].Price != 21500.5 {
		t.Errorf("unexpected second point %+v", series[1])
	}
	if len(catalog.priceCalls) != 3 {
		t.Errorf("expected one price call per year, got %v", catalog.priceCalls)
	}
}

func TestBuildSeries_AllFailuresIsEmpty(t *testing.T) {
	catalog := &fakeCatalog{
		years: []domain.CatalogItem{{Code: "A", Name: "2012"}, {Code: "B", Name: "2013"}},
	}
	service := NewChartService(catalog, 0, zaptest.NewLogger(t))

	series, err := service.BuildSeries(context.Background(), domain.VehicleCars, "1", "2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if series == nil || len(series) != 0 {
		t.Errorf("expected empty series, got %+v", series)
	}

	png, err := service.RenderPNG(series)
	if err != nil || png != nil {
		t.Errorf("expected no image and no error, got %d bytes, %v", len(png), err)
	}
}

func TestBuildSeries_NoYears(t *testing.T) {
	service := NewChartService(&fakeCatalog{}, 0, zaptest.NewLogger(t))

	series, err := service.BuildSeries(context.Background(), domain.VehicleCars, "1", "2")
	if err != nil || len(series) != 0 {
		t.Errorf("expected empty series, got %+v, %v", series, err)
	}
}

func TestBuildSeries_MalformedPriceFails(t *testing.T) {
	catalog := &fakeCatalog{
		years:  []domain.CatalogItem{{Code: "A", Name: "2012"}},
		prices: map[string]string{"A": "consulte"},
	}
	service := NewChartService(catalog, 0, zaptest.NewLogger(t))

	_, err := service.BuildSeries(context.Background(), domain.VehicleCars, "1", "2")
	if !errors.Is(err, domain.ErrParse) {
		t.Errorf("expected parse error, got %v", err)
	}
}

func TestBuildSeries_SortsByNumericYear(t *testing.T) {
	catalog := &fakeCatalog{
		years: []domain.CatalogItem{
			{Code: "zk", Name: "32000 Gasolina"},
			{Code: "y9", Name: "999"},
			{Code: "y15", Name: "2015 Diesel"},
			{Code: "y15g", Name: "2015 Gasolina"},
			{Code: "nn", Name: "Zero KM"},
			{Code: "y10", Name: "2010 Gasolina"},
		},
		prices: map[string]string{
			"zk":   "R$ 90.000,00",
			"y9":   "R$ 1.000,00",
			"y15":  "R$ 50.000,00",
			"y15g": "R$ 48.000,00",
			"nn":   "R$ 95.000,00",
			"y10":  "R$ 30.000,00",
		},
	}
	service := NewChartService(catalog, 0, zaptest.NewLogger(t))

	series, err := service.BuildSeries(context.Background(), domain.VehicleCars, "1", "2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"999", "2010 Gasolina", "2015 Diesel", "2015 Gasolina", "32000 Gasolina", "Zero KM"}
	if len(series) != len(want) {
		t.Fatalf("expected %d points, got %d", len(want), len(series))
	}
	for i, label := range want {
		if series[i].YearLabel != label {
			t.Errorf("position %d: expected %q, got %q", i, label, series[i].YearLabel)
		}
	}
}

func TestRenderPNG(t *testing.T) {
	service := NewChartService(&fakeCatalog{}, 0, zaptest.NewLogger(t))

	png, err := service.RenderPNG([]domain.PricePoint{
		{YearLabel: "2013 Gasolina", Year: 2013, HasYear: true, Price: 20000},
		{YearLabel: "2014 Gasolina", Year: 2014, HasYear: true, Price: 22000},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")) {
		t.Errorf("expected PNG output")
	}
}

func TestRenderPNG_SinglePoint(t *testing.T) {
	service := NewChartService(&fakeCatalog{}, 0, zaptest.NewLogger(t))

	png, err := service.RenderPNG([]domain.PricePoint{{YearLabel: "2014", Year: 2014, HasYear: true, Price: 22000}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(png) == 0 {
		t.Errorf("expected an image")
	}
}

func TestBuildSeries_StopsAtBudget(t *testing.T) {
	catalog := &fakeCatalog{
		years: []domain.CatalogItem{
			{Code: "A", Name: "2010"},
			{Code: "B", Name: "2011"},
			{Code: "C", Name: "2012"},
			{Code: "D", Name: "2013"},
		},
		prices: map[string]string{
			"A": "R$ 10.000,00",
			"B": "R$ 11.000,00",
			"C": "R$ 12.000,00",
			"D": "R$ 13.000,00",
		},
		delay: 40 * time.Millisecond,
	}
	service := NewChartService(catalog, 60*time.Millisecond, zaptest.NewLogger(t))

	series, err := service.BuildSeries(context.Background(), domain.VehicleCars, "1", "2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(catalog.priceCalls) >= 4 {
		t.Errorf("expected lookups to stop at the budget, got %v", catalog.priceCalls)
	}
	if len(series) == 0 || len(series) >= 4 {
		t.Errorf("expected a partial series, got %d points", len(series))
	}
}

func TestBuildSeries_CanceledContext(t *testing.T) {
	catalog := &fakeCatalog{
		years:  []domain.CatalogItem{{Code: "A", Name: "2010"}},
		prices: map[string]string{"A": "R$ 10.000,00"},
	}
	service := NewChartService(catalog, time.Second, zaptest.NewLogger(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	series, err := service.BuildSeries(ctx, domain.VehicleCars, "1", "2")
	if err != nil || len(series) != 0 {
		t.Errorf("expected empty series, got %+v, %v", series, err)
	}
	if len(catalog.priceCalls) != 0 {
		t.Errorf("expected no price lookups, got %v", catalog.priceCalls)
	}
}
