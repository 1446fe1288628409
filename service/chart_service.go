package service

import (
	"bytes"
	"context"
	"fmt"
	"image/color"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"fipe-web/domain"
)

// YearPriceLookup is the part of the catalog the chart needs.
type YearPriceLookup interface {
	Years(ctx context.Context, vehicleType domain.VehicleType, brandID, modelID string) []domain.CatalogItem
	Price(ctx context.Context, q domain.PriceQuery) (domain.PriceRecord, bool)
}

const (
	chartTitle  = "Preço do Veículo ao Longo dos Anos"
	chartXLabel = "Ano"
	chartYLabel = "Preço (R$)"
)

type ChartService struct {
	catalog YearPriceLookup
	budget  time.Duration
	log     *zap.Logger
}

// NewChartService builds a chart service. A positive budget bounds the
// whole series lookup; years not reached in time are left out.
func NewChartService(catalog YearPriceLookup, budget time.Duration, log *zap.Logger) *ChartService {
	return &ChartService{catalog: catalog, budget: budget, log: log}
}

// BuildSeries looks up the price of every model year of a vehicle, one
// request at a time, and returns the series ordered by year. Years whose
// lookup fails or that are past the budget are left out. A price that
// cannot be parsed aborts the build.
func (s *ChartService) BuildSeries(
	ctx context.Context,
	vehicleType domain.VehicleType,
	brandID, modelID string,
) ([]domain.PricePoint, error) {

	if s.budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.budget)
		defer cancel()
	}

	years := s.catalog.Years(ctx, vehicleType, brandID, modelID)
	series := make([]domain.PricePoint, 0, len(years))

	for i, y := range years {
		if err := ctx.Err(); err != nil {
			s.log.Warn("price series cut short",
				zap.Int("years_fetched", i),
				zap.Int("years_total", len(years)),
				zap.Error(err))
			break
		}

		record, ok := s.catalog.Price(ctx, domain.PriceQuery{
			VehicleType: vehicleType,
			BrandID:     brandID,
			ModelID:     modelID,
			YearID:      string(y.Code),
		})
		if !ok {
			s.log.Debug("dropping year without price", zap.String("year", y.Name))
			continue
		}

		price, err := ParseBRL(record.Price)
		if err != nil {
			return nil, fmt.Errorf("price for year %q: %w", y.Name, err)
		}

		year, hasYear := domain.ParseModelYear(y.Name)
		series = append(series, domain.PricePoint{
			YearLabel: y.Name,
			Year:      year,
			HasYear:   hasYear,
			Price:     price.InexactFloat64(),
		})
	}

	SortSeries(series)
	return series, nil
}

// SortSeries orders points by numeric model year. Points without a
// numeric year go last, ordered by label.
func SortSeries(series []domain.PricePoint) {
	sort.SliceStable(series, func(i, j int) bool {
		a, b := series[i], series[j]
		switch {
		case a.HasYear && b.HasYear:
			if a.Year != b.Year {
				return a.Year < b.Year
			}
			return a.YearLabel < b.YearLabel
		case a.HasYear != b.HasYear:
			return a.HasYear
		default:
			return a.YearLabel < b.YearLabel
		}
	})
}

// RenderPNG draws the series as a line chart. An empty series yields no
// image and no error.
func (s *ChartService) RenderPNG(series []domain.PricePoint) ([]byte, error) {
	if len(series) == 0 {
		return nil, nil
	}

	p := plot.New()
	p.Title.Text = chartTitle
	p.X.Label.Text = chartXLabel
	p.Y.Label.Text = chartYLabel
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	p.Y.Tick.Marker = brlTicks{}

	pts := make(plotter.XYs, len(series))
	labels := make([]string, len(series))
	for i, pt := range series {
		pts[i].X = float64(i)
		pts[i].Y = pt.Price
		labels[i] = pt.YearLabel
	}

	line, points, err := plotter.NewLinePoints(pts)
	if err != nil {
		return nil, fmt.Errorf("building chart lines: %w", err)
	}
	blue := color.RGBA{B: 255, A: 255}
	line.Color = blue
	points.Shape = draw.CircleGlyph{}
	points.Color = blue

	p.Add(plotter.NewGrid(), line, points)
	p.NominalX(labels...)

	w, err := p.WriterTo(10*vg.Inch, 6*vg.Inch, "png")
	if err != nil {
		return nil, fmt.Errorf("rendering chart: %w", err)
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("encoding chart: %w", err)
	}
	return buf.Bytes(), nil
}

// brlTicks labels the price axis in reais.
type brlTicks struct{}

func (brlTicks) Ticks(min, max float64) []plot.Tick {
	ticks := plot.DefaultTicks{}.Ticks(min, max)
	for i := range ticks {
		if ticks[i].Label == "" {
			continue
		}
		ticks[i].Label = FormatBRL(decimal.NewFromFloat(ticks[i].Value))
	}
	return ticks
}
