package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"fipe-web/domain"
	"fipe-web/service"
)

type FinancingHandler struct {
	service *service.FinancingService
	render  *Renderer
	log     *zap.Logger
}

func NewFinancingHandler(service *service.FinancingService, render *Renderer, log *zap.Logger) *FinancingHandler {
	return &FinancingHandler{service: service, render: render, log: log}
}

type financingForm struct {
	VehicleValue string
	InterestRate string
	Months       string
	Error        string
}

func (h *FinancingHandler) Form(w http.ResponseWriter, r *http.Request) {
	h.render.Render(w, http.StatusOK, "financing_form.html", financingForm{})
}

func (h *FinancingHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	form := financingForm{
		VehicleValue: strings.TrimSpace(r.PostForm.Get("vehicle_value")),
		InterestRate: strings.TrimSpace(r.PostForm.Get("interest_rate")),
		Months:       strings.TrimSpace(r.PostForm.Get("months")),
	}

	input, err := parseFinancingForm(form)
	if err != nil {
		form.Error = err.Error()
		h.render.Render(w, http.StatusBadRequest, "financing_form.html", form)
		return
	}

	result, err := h.service.Calculate(input)
	if err != nil {
		if !errors.Is(err, domain.ErrInvalidArgument) {
			h.log.Error("calculating financing", zap.Error(err))
		}
		form.Error = err.Error()
		h.render.Render(w, http.StatusBadRequest, "financing_form.html", form)
		return
	}

	h.render.Render(w, http.StatusOK, "financing_result.html", result)
}

func parseFinancingForm(form financingForm) (domain.FinancingInput, error) {
	principal, err := service.ParseBRL(form.VehicleValue)
	if err != nil {
		return domain.FinancingInput{}, err
	}

	rate, err := strconv.ParseFloat(strings.Replace(form.InterestRate, ",", ".", 1), 64)
	if err != nil {
		return domain.FinancingInput{}, domain.InvalidArgument("taxa de juros inválida: %q", form.InterestRate)
	}

	months, err := strconv.Atoi(form.Months)
	if err != nil {
		return domain.FinancingInput{}, domain.InvalidArgument("prazo inválido: %q", form.Months)
	}

	return domain.FinancingInput{
		Principal:         principal.InexactFloat64(),
		AnnualRatePercent: rate,
		TermMonths:        months,
	}, nil
}
