package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"fipe-web/domain"
)

// CatalogClient queries the FIPE catalog API. Every lookup degrades to an
// empty result when the API answers with a non-success status or cannot
// be reached; the failure is only logged.
type CatalogClient struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

type modelsResponse struct {
	Models []domain.CatalogItem `json:"modelos"`
}

type priceResponse struct {
	Price          string      `json:"Valor"`
	Brand          string      `json:"Marca"`
	Model          string      `json:"Modelo"`
	ModelYear      domain.Code `json:"AnoModelo"`
	Fuel           string      `json:"Combustivel"`
	FipeCode       string      `json:"CodigoFipe"`
	ReferenceMonth string      `json:"MesReferencia"`
}

func NewCatalogClient(baseURL string, timeout time.Duration, log *zap.Logger) *CatalogClient {
	if baseURL == "" {
		baseURL = DefaultCatalogBaseURL
	}
	return &CatalogClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// Brands lists the brands of a vehicle type.
func (c *CatalogClient) Brands(ctx context.Context, vehicleType domain.VehicleType) []domain.CatalogItem {
	var items []domain.CatalogItem
	if err := c.getJSON(ctx, &items, string(vehicleType), "marcas"); err != nil {
		c.logFailure("brands", err)
		return []domain.CatalogItem{}
	}
	return nonNil(items)
}

// Models lists the models of a brand.
func (c *CatalogClient) Models(ctx context.Context, vehicleType domain.VehicleType, brandID string) []domain.CatalogItem {
	var resp modelsResponse
	if err := c.getJSON(ctx, &resp, string(vehicleType), "marcas", brandID, "modelos"); err != nil {
		c.logFailure("models", err)
		return []domain.CatalogItem{}
	}
	return nonNil(resp.Models)
}

// Years lists the model years available for a model.
func (c *CatalogClient) Years(ctx context.Context, vehicleType domain.VehicleType, brandID, modelID string) []domain.CatalogItem {
	var items []domain.CatalogItem
	if err := c.getJSON(ctx, &items, string(vehicleType), "marcas", brandID, "modelos", modelID, "anos"); err != nil {
		c.logFailure("years", err)
		return []domain.CatalogItem{}
	}
	return nonNil(items)
}

// Price returns the price record for one model year. The boolean is false
// when the lookup failed.
func (c *CatalogClient) Price(ctx context.Context, q domain.PriceQuery) (domain.PriceRecord, bool) {
	var resp priceResponse
	err := c.getJSON(ctx, &resp,
		string(q.VehicleType), "marcas", q.BrandID, "modelos", q.ModelID, "anos", q.YearID)
	if err != nil {
		c.logFailure("price", err)
		return domain.PriceRecord{}, false
	}

	return domain.PriceRecord{
		Price:          resp.Price,
		Brand:          resp.Brand,
		Model:          resp.Model,
		Year:           string(resp.ModelYear),
		Fuel:           resp.Fuel,
		FipeCode:       resp.FipeCode,
		ReferenceMonth: resp.ReferenceMonth,
	}, true
}

func (c *CatalogClient) endpoint(segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	return c.baseURL + "/" + strings.Join(escaped, "/")
}

func (c *CatalogClient) getJSON(ctx context.Context, out any, segments ...string) error {
	endpoint := c.endpoint(segments...)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return domain.RemoteUnavailable("building request for "+endpoint, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.RemoteUnavailable("request to "+endpoint+" failed", err)
	}
	defer resp.Body.Close()

	c.log.Debug("catalog request",
		zap.String("url", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		return domain.RemoteUnavailable(
			fmt.Sprintf("%s returned status %d", endpoint, resp.StatusCode), nil)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.RemoteUnavailable("decoding response from "+endpoint, err)
	}
	return nil
}

func (c *CatalogClient) logFailure(lookup string, err error) {
	c.log.Warn("catalog lookup returned no data",
		zap.String("lookup", lookup),
		zap.Error(err),
	)
}

func nonNil(items []domain.CatalogItem) []domain.CatalogItem {
	if items == nil {
		return []domain.CatalogItem{}
	}
	return items
}
