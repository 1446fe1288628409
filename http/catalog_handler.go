package http

import (
	"context"
	"encoding/base64"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"fipe-web/domain"
	"fipe-web/repository"
	"fipe-web/service"
)

// Catalog is the set of lookups offered by the pricing API.
type Catalog interface {
	Brands(ctx context.Context, vehicleType domain.VehicleType) []domain.CatalogItem
	Models(ctx context.Context, vehicleType domain.VehicleType, brandID string) []domain.CatalogItem
	Years(ctx context.Context, vehicleType domain.VehicleType, brandID, modelID string) []domain.CatalogItem
	Price(ctx context.Context, q domain.PriceQuery) (domain.PriceRecord, bool)
}

type CatalogHandler struct {
	catalog Catalog
	charts  *service.ChartService
	history repository.HistoryRepository
	render  *Renderer
	log     *zap.Logger
}

func NewCatalogHandler(
	catalog Catalog,
	charts *service.ChartService,
	history repository.HistoryRepository,
	render *Renderer,
	log *zap.Logger,
) *CatalogHandler {
	return &CatalogHandler{
		catalog: catalog,
		charts:  charts,
		history: history,
		render:  render,
		log:     log,
	}
}

type listPage struct {
	VehicleType domain.VehicleType
	BrandID     string
	ModelID     string
	Items       []domain.CatalogItem
}

type pricePage struct {
	Record *domain.PriceRecord
	Chart  template.URL
}

func (h *CatalogHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, http.StatusOK, "index.html", struct {
		VehicleTypes []domain.VehicleType
	}{domain.VehicleTypes})
}

func (h *CatalogHandler) Brands(w http.ResponseWriter, r *http.Request) {
	vehicleType, ok := vehicleTypeFromForm(w, r)
	if !ok {
		return
	}

	h.render.Render(w, http.StatusOK, "brands.html", listPage{
		VehicleType: vehicleType,
		Items:       h.catalog.Brands(r.Context(), vehicleType),
	})
}

func (h *CatalogHandler) Models(w http.ResponseWriter, r *http.Request) {
	vehicleType, ok := vehicleTypeFromForm(w, r)
	if !ok {
		return
	}
	fields, ok := requiredFormValues(w, r, "brand_id")
	if !ok {
		return
	}

	h.render.Render(w, http.StatusOK, "models.html", listPage{
		VehicleType: vehicleType,
		BrandID:     fields[0],
		Items:       h.catalog.Models(r.Context(), vehicleType, fields[0]),
	})
}

func (h *CatalogHandler) Years(w http.ResponseWriter, r *http.Request) {
	vehicleType, ok := vehicleTypeFromForm(w, r)
	if !ok {
		return
	}
	fields, ok := requiredFormValues(w, r, "brand_id", "model_id")
	if !ok {
		return
	}

	h.render.Render(w, http.StatusOK, "years.html", listPage{
		VehicleType: vehicleType,
		BrandID:     fields[0],
		ModelID:     fields[1],
		Items:       h.catalog.Years(r.Context(), vehicleType, fields[0], fields[1]),
	})
}

// Price shows the price of one model year, records it in the history and
// charts the price of every year of the model.
func (h *CatalogHandler) Price(w http.ResponseWriter, r *http.Request) {
	vehicleType, ok := vehicleTypeFromForm(w, r)
	if !ok {
		return
	}
	fields, ok := requiredFormValues(w, r, "brand_id", "model_id", "year_id")
	if !ok {
		return
	}
	ctx := r.Context()
	query := domain.PriceQuery{
		VehicleType: vehicleType,
		BrandID:     fields[0],
		ModelID:     fields[1],
		YearID:      fields[2],
	}

	var page pricePage
	if record, found := h.catalog.Price(ctx, query); found {
		page.Record = &record
		if err := h.history.Append(ctx, domain.NewHistoryEntry(vehicleType, record)); err != nil {
			h.log.Error("appending history", zap.Error(err))
		}
	}

	page.Chart = h.chart(ctx, query)

	h.render.Render(w, http.StatusOK, "price.html", page)
}

func (h *CatalogHandler) chart(ctx context.Context, q domain.PriceQuery) template.URL {
	series, err := h.charts.BuildSeries(ctx, q.VehicleType, q.BrandID, q.ModelID)
	if err != nil {
		h.log.Error("building price series",
			zap.String("brand_id", q.BrandID),
			zap.String("model_id", q.ModelID),
			zap.Error(err))
		return ""
	}

	png, err := h.charts.RenderPNG(series)
	if err != nil {
		h.log.Error("rendering price chart", zap.Error(err))
		return ""
	}
	if png == nil {
		return ""
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(png))
}
