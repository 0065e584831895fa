package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	gocommand "github.com/goliatone/go-command"
	canvas "github.com/goliatone/go-report-canvas/components/canvas"
	"github.com/goliatone/go-report-canvas/components/canvas/commands"
	"github.com/goliatone/go-report-canvas/components/canvas/queries"
)

// Executor is the command surface transports program against.
type Executor interface {
	Save(ctx context.Context, input commands.SaveReportInput) error
	Load(ctx context.Context, input commands.LoadReportInput) error
	Delete(ctx context.Context, input commands.DeleteReportInput) error
	NewDashboard(ctx context.Context, input commands.NewDashboardInput) error
	AddPage(ctx context.Context, input commands.AddPageInput) error
	RenamePage(ctx context.Context, input commands.RenamePageInput) error
	DeletePage(ctx context.Context, input commands.DeletePageInput) error
	SwitchPage(ctx context.Context, input commands.SwitchPageInput) error
	AddWidget(ctx context.Context, input commands.AddWidgetInput) error
	RemoveWidget(ctx context.Context, input commands.RemoveWidgetInput) error
	MoveWidget(ctx context.Context, input commands.MoveWidgetInput) error
	UpdateLayout(ctx context.Context, input commands.UpdateLayoutInput) error
	DropTool(ctx context.Context, input commands.DropToolInput) error
	UpdateText(ctx context.Context, input commands.UpdateTextInput) error
	SetSlicerColumn(ctx context.Context, input commands.SetSlicerColumnInput) error
	ConfigureSelector(ctx context.Context, input commands.ConfigureSelectorInput) error
	SetFilter(ctx context.Context, input commands.SetFilterInput) error
	ClearFilters(ctx context.Context, input commands.ClearFiltersInput) error
	ApplySelection(ctx context.Context, input commands.ApplySelectionInput) error
	PublishChart(ctx context.Context, input commands.PublishChartInput) error

	CanvasState(ctx context.Context, req queries.CanvasRequest) (queries.CanvasState, error)
	ListReports(ctx context.Context, req queries.ListReportsRequest) ([]canvas.Report, error)
	Share(ctx context.Context, req queries.ShareReportRequest) (canvas.ShareLink, error)
	PublicReport(ctx context.Context, req queries.PublicViewRequest) (canvas.PublicReport, error)
	UniqueValues(ctx context.Context, req queries.UniqueValuesRequest) ([]string, error)
}

// Handlers exposes plain net/http endpoints backed by shared commands, for
// applications that do not mount the router integration.
type Handlers struct {
	Save    gocommand.Commander[commands.SaveReportInput]
	Load    gocommand.Commander[commands.LoadReportInput]
	Layout  gocommand.Commander[commands.UpdateLayoutInput]
	Filter  gocommand.Commander[commands.SetFilterInput]
	Canvas  gocommand.Querier[queries.CanvasRequest, queries.CanvasState]
	Reports gocommand.Querier[queries.ListReportsRequest, []canvas.Report]
	Public  gocommand.Querier[queries.PublicViewRequest, canvas.PublicReport]
}

func (h *Handlers) HandleSaveReport(w http.ResponseWriter, r *http.Request) {
	var payload commands.SaveReportInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Save.Execute(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusCreated)
}

func (h *Handlers) HandleLoadReport(w http.ResponseWriter, r *http.Request) {
	var payload commands.LoadReportInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Load.Execute(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleUpdateLayout(w http.ResponseWriter, r *http.Request) {
	var payload commands.UpdateLayoutInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Layout.Execute(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handlers) HandleSetFilter(w http.ResponseWriter, r *http.Request) {
	var payload commands.SetFilterInput
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := h.Filter.Execute(r.Context(), payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (h *Handlers) HandleCanvasState(w http.ResponseWriter, r *http.Request, req queries.CanvasRequest) {
	state, err := h.Canvas.Query(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *Handlers) HandleListReports(w http.ResponseWriter, r *http.Request, req queries.ListReportsRequest) {
	reports, err := h.Reports.Query(r.Context(), req)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, reports)
}

func (h *Handlers) HandlePublicReport(w http.ResponseWriter, r *http.Request, token string) {
	report, err := h.Public.Query(r.Context(), queries.PublicViewRequest{Token: token})
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
