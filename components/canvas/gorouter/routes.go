package gorouter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	router "github.com/goliatone/go-router"

	canvas "github.com/goliatone/go-report-canvas/components/canvas"
	"github.com/goliatone/go-report-canvas/components/canvas/commands"
	"github.com/goliatone/go-report-canvas/components/canvas/httpapi"
	"github.com/goliatone/go-report-canvas/components/canvas/queries"
)

// ProjectResolver extracts the project a request addresses. The default
// reads the "project_id" local set by upstream auth middleware and falls
// back to the :project route parameter.
type ProjectResolver func(router.Context) (int64, error)

// Config wires go-router with canvas commands and queries.
type Config[T any] struct {
	Router          router.Router[T]
	API             httpapi.Executor
	ProjectResolver ProjectResolver
	BasePath        string
	Routes          RouteConfig
}

// RouteConfig customizes the relative paths used for canvas endpoints.
type RouteConfig struct {
	Canvas         string
	NewCanvas      string
	Pages          string
	PageID         string
	PageActivate   string
	Widgets        string
	WidgetID       string
	WidgetMove     string
	WidgetText     string
	WidgetSlicer   string
	WidgetSelector string
	Layout         string
	Tools          string
	Filters        string
	Selection      string
	Reports        string
	ReportID       string
	Share          string
	Values         string
	Handoff        string
	PublicReport   string
}

// Register mounts canvas routes on a go-router router. Everything under the
// base path assumes upstream authentication; the public report route is
// mounted at the router root and needs none.
func Register[T any](cfg Config[T]) error {
	if cfg.Router == nil {
		return errors.New("gorouter: router is required")
	}
	if cfg.API == nil {
		return errors.New("gorouter: api executor is required")
	}
	routes := defaultRouteConfig(cfg.Routes)
	base := cfg.BasePath
	if base == "" {
		base = "/projects/:project"
	}
	resolveProject := cfg.ProjectResolver
	if resolveProject == nil {
		resolveProject = defaultProjectResolver
	}

	group := cfg.Router.Group(base)
	registerCanvas(group, cfg.API, resolveProject, routes)
	registerReports(group, cfg.API, resolveProject, routes)

	cfg.Router.Get(routes.PublicReport, router.WrapHandler(func(ctx router.Context) error {
		token := ctx.Param("token")
		if token == "" {
			return respondError(ctx, http.StatusBadRequest, errors.New("share token is required"))
		}
		report, err := cfg.API.PublicReport(ctx.Context(), queries.PublicViewRequest{Token: token})
		if err != nil {
			if errors.Is(err, canvas.ErrShareNotFound) {
				return respondError(ctx, http.StatusNotFound, err)
			}
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, report)
	}))

	return nil
}

func registerCanvas[T any](r router.Router[T], api httpapi.Executor, resolve ProjectResolver, routes RouteConfig) {
	r.Get(routes.Canvas, router.WrapHandler(func(ctx router.Context) error {
		projectID, err := resolve(ctx)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		state, err := api.CanvasState(ctx.Context(), queries.CanvasRequest{ProjectID: projectID})
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, state)
	}))

	r.Post(routes.Pages, router.WrapHandler(func(ctx router.Context) error {
		projectID, err := resolve(ctx)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		var payload commands.AddPageInput
		if len(ctx.Body()) > 0 {
			if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
				return respondError(ctx, http.StatusBadRequest, err)
			}
		}
		payload.ProjectID = projectID
		if err := api.AddPage(ctx.Context(), payload); err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusCreated, map[string]string{"status": "created"})
	}))

	r.Put(routes.PageID, router.WrapHandler(func(ctx router.Context) error {
		projectID, err := resolve(ctx)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		index, err := strconv.Atoi(ctx.Param("page"))
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, errors.New("page index is required"))
		}
		var payload commands.RenamePageInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		payload.ProjectID = projectID
		payload.PageIndex = index
		if err := api.RenamePage(ctx.Context(), payload); err != nil {
			return canvasError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "renamed"})
	}))

	r.Post(routes.PageActivate, router.WrapHandler(func(ctx router.Context) error {
		projectID, err := resolve(ctx)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		index, err := strconv.Atoi(ctx.Param("page"))
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, errors.New("page index is required"))
		}
		input := commands.SwitchPageInput{ProjectID: projectID, PageIndex: index}
		if err := api.SwitchPage(ctx.Context(), input); err != nil {
			return canvasError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "activated"})
	}))

	r.Delete(routes.PageID, router.WrapHandler(func(ctx router.Context) error {
		projectID, err := resolve(ctx)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		index, err := strconv.Atoi(ctx.Param("page"))
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, errors.New("page index is required"))
		}
		input := commands.DeletePageInput{ProjectID: projectID, PageIndex: index}
		if err := api.DeletePage(ctx.Context(), input); err != nil {
			return canvasError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "deleted"})
	}))

	r.Post(routes.Widgets, router.WrapHandler(func(ctx router.Context) error {
		projectID, err := resolve(ctx)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		var payload commands.AddWidgetInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		payload.ProjectID = projectID
		if err := api.AddWidget(ctx.Context(), payload); err != nil {
			return canvasError(ctx, err)
		}
		return ctx.JSON(http.StatusCreated, map[string]string{"status": "created"})
	}))

	r.Delete(routes.WidgetID, router.WrapHandler(func(ctx router.Context) error {
		projectID, err := resolve(ctx)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		widgetID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, errors.New("widget id is required"))
		}
		pageIndex, _ := strconv.Atoi(ctx.Query("page"))
		input := commands.RemoveWidgetInput{
			ProjectID: projectID,
			PageIndex: pageIndex,
			WidgetID:  widgetID,
		}
		if err := api.RemoveWidget(ctx.Context(), input); err != nil {
			return canvasError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "removed"})
	}))

	r.Post(routes.WidgetMove, router.WrapHandler(func(ctx router.Context) error {
		projectID, err := resolve(ctx)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		widgetID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, errors.New("widget id is required"))
		}
		var payload commands.MoveWidgetInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		payload.ProjectID = projectID
		payload.WidgetID = widgetID
		if err := api.MoveWidget(ctx.Context(), payload); err != nil {
			return canvasError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "moved"})
	}))

	r.Put(routes.WidgetText, router.WrapHandler(func(ctx router.Context) error {
		projectID, err := resolve(ctx)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		widgetID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, errors.New("widget id is required"))
		}
		var payload commands.UpdateTextInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		payload.ProjectID = projectID
		payload.WidgetID = widgetID
		if err := api.UpdateText(ctx.Context(), payload); err != nil {
			return canvasError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "updated"})
	}))

	r.Put(routes.WidgetSlicer, router.WrapHandler(func(ctx router.Context) error {
		projectID, err := resolve(ctx)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		widgetID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, errors.New("widget id is required"))
		}
		var payload commands.SetSlicerColumnInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		payload.ProjectID = projectID
		payload.WidgetID = widgetID
		if err := api.SetSlicerColumn(ctx.Context(), payload); err != nil {
			return canvasError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "updated"})
	}))

	r.Put(routes.WidgetSelector, router.WrapHandler(func(ctx router.Context) error {
		projectID, err := resolve(ctx)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		widgetID, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, errors.New("widget id is required"))
		}
		var payload commands.ConfigureSelectorInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		payload.ProjectID = projectID
		payload.WidgetID = widgetID
		if err := api.ConfigureSelector(ctx.Context(), payload); err != nil {
			return canvasError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "updated"})
	}))

	r.Post(routes.NewCanvas, router.WrapHandler(func(ctx router.Context) error {
		projectID, err := resolve(ctx)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.NewDashboard(ctx.Context(), commands.NewDashboardInput{ProjectID: projectID}); err != nil {
			return canvasError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "reset"})
	}))

	r.Post(routes.Layout, router.WrapHandler(func(ctx router.Context) error {
		projectID, err := resolve(ctx)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		var payload commands.UpdateLayoutInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		payload.ProjectID = projectID
		if err := api.UpdateLayout(ctx.Context(), payload); err != nil {
			return canvasError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "updated"})
	}))

	r.Post(routes.Tools, router.WrapHandler(func(ctx router.Context) error {
		projectID, err := resolve(ctx)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		var payload commands.DropToolInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		payload.ProjectID = projectID
		if err := api.DropTool(ctx.Context(), payload); err != nil {
			return canvasError(ctx, err)
		}
		return ctx.JSON(http.StatusCreated, map[string]string{"status": "created"})
	}))

	r.Post(routes.Filters, router.WrapHandler(func(ctx router.Context) error {
		projectID, err := resolve(ctx)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		var payload commands.SetFilterInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		payload.ProjectID = projectID
		if err := api.SetFilter(ctx.Context(), payload); err != nil {
			return canvasError(ctx, err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "applied"})
	}))

	r.Delete(routes.Filters, router.WrapHandler(func(ctx router.Context) error {
		projectID, err := resolve(ctx)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		input := commands.ClearFiltersInput{
			ProjectID:  projectID,
			ColumnName: ctx.Query("column"),
		}
		if err := api.ClearFilters(ctx.Context(), input); err != nil {
			return canvasError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "cleared"})
	}))

	r.Post(routes.Selection, router.WrapHandler(func(ctx router.Context) error {
		projectID, err := resolve(ctx)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		var payload commands.ApplySelectionInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		payload.ProjectID = projectID
		if err := api.ApplySelection(ctx.Context(), payload); err != nil {
			return canvasError(ctx, err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "applied"})
	}))

	r.Get(routes.Values, router.WrapHandler(func(ctx router.Context) error {
		projectID, err := resolve(ctx)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		column := ctx.Query("column")
		if column == "" {
			return respondError(ctx, http.StatusBadRequest, errors.New("column is required"))
		}
		values, err := api.UniqueValues(ctx.Context(), queries.UniqueValuesRequest{
			ProjectID:  projectID,
			ColumnName: column,
		})
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, map[string]any{"values": values})
	}))

	r.Post(routes.Handoff, router.WrapHandler(func(ctx router.Context) error {
		projectID, err := resolve(ctx)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		var payload commands.PublishChartInput
		if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		payload.Chart.ProjectID = projectID
		if err := api.PublishChart(ctx.Context(), payload); err != nil {
			return canvasError(ctx, err)
		}
		return ctx.JSON(http.StatusAccepted, map[string]string{"status": "staged"})
	}))
}

func registerReports[T any](r router.Router[T], api httpapi.Executor, resolve ProjectResolver, routes RouteConfig) {
	r.Get(routes.Reports, router.WrapHandler(func(ctx router.Context) error {
		projectID, err := resolve(ctx)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		reports, err := api.ListReports(ctx.Context(), queries.ListReportsRequest{ProjectID: projectID})
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusOK, reports)
	}))

	r.Post(routes.Reports, router.WrapHandler(func(ctx router.Context) error {
		projectID, err := resolve(ctx)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		var payload commands.SaveReportInput
		if len(ctx.Body()) > 0 {
			if err := json.Unmarshal(ctx.Body(), &payload); err != nil {
				return respondError(ctx, http.StatusBadRequest, err)
			}
		}
		payload.ProjectID = projectID
		if err := api.Save(ctx.Context(), payload); err != nil {
			return canvasError(ctx, err)
		}
		state, err := api.CanvasState(ctx.Context(), queries.CanvasRequest{ProjectID: projectID})
		if err != nil {
			return respondError(ctx, http.StatusInternalServerError, err)
		}
		return ctx.JSON(http.StatusCreated, state.Active)
	}))

	r.Post(routes.ReportID, router.WrapHandler(func(ctx router.Context) error {
		projectID, err := resolve(ctx)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		input := commands.LoadReportInput{
			ProjectID: projectID,
			ReportID:  ctx.Param("id"),
		}
		if err := api.Load(ctx.Context(), input); err != nil {
			return canvasError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "loaded"})
	}))

	r.Delete(routes.ReportID, router.WrapHandler(func(ctx router.Context) error {
		projectID, err := resolve(ctx)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		if err := api.Delete(ctx.Context(), commands.DeleteReportInput{ProjectID: projectID}); err != nil {
			return canvasError(ctx, err)
		}
		return ctx.JSON(http.StatusOK, map[string]string{"status": "deleted"})
	}))

	r.Post(routes.Share, router.WrapHandler(func(ctx router.Context) error {
		projectID, err := resolve(ctx)
		if err != nil {
			return respondError(ctx, http.StatusBadRequest, err)
		}
		link, err := api.Share(ctx.Context(), queries.ShareReportRequest{ProjectID: projectID})
		if err != nil {
			return canvasError(ctx, err)
		}
		return ctx.JSON(http.StatusCreated, link)
	}))
}

// canvasError maps domain errors onto HTTP status codes.
func canvasError(ctx router.Context, err error) error {
	switch {
	case errors.Is(err, canvas.ErrLastPage),
		errors.Is(err, canvas.ErrEmptyTitle),
		errors.Is(err, canvas.ErrUnsavedReport):
		return respondError(ctx, http.StatusConflict, err)
	case errors.Is(err, canvas.ErrPageOutOfRange),
		errors.Is(err, canvas.ErrWidgetNotFound):
		return respondError(ctx, http.StatusNotFound, err)
	case errors.Is(err, canvas.ErrAccessDenied):
		return respondError(ctx, http.StatusForbidden, err)
	default:
		return respondError(ctx, http.StatusInternalServerError, err)
	}
}

func defaultProjectResolver(ctx router.Context) (int64, error) {
	if v, ok := ctx.Locals("project_id").(int64); ok {
		return v, nil
	}
	if raw := ctx.Param("project"); raw != "" {
		return strconv.ParseInt(raw, 10, 64)
	}
	return 0, errors.New("project id is required")
}

func respondError(ctx router.Context, status int, err error) error {
	return ctx.JSON(status, map[string]string{"error": err.Error()})
}

func defaultRouteConfig(routes RouteConfig) RouteConfig {
	if routes.Canvas == "" {
		routes.Canvas = "/canvas"
	}
	if routes.NewCanvas == "" {
		routes.NewCanvas = "/canvas/new"
	}
	if routes.Pages == "" {
		routes.Pages = "/canvas/pages"
	}
	if routes.PageID == "" {
		routes.PageID = "/canvas/pages/:page"
	}
	if routes.PageActivate == "" {
		routes.PageActivate = "/canvas/pages/:page/activate"
	}
	if routes.Widgets == "" {
		routes.Widgets = "/canvas/widgets"
	}
	if routes.WidgetID == "" {
		routes.WidgetID = "/canvas/widgets/:id"
	}
	if routes.WidgetMove == "" {
		routes.WidgetMove = "/canvas/widgets/:id/move"
	}
	if routes.WidgetText == "" {
		routes.WidgetText = "/canvas/widgets/:id/text"
	}
	if routes.WidgetSlicer == "" {
		routes.WidgetSlicer = "/canvas/widgets/:id/slicer"
	}
	if routes.WidgetSelector == "" {
		routes.WidgetSelector = "/canvas/widgets/:id/selector"
	}
	if routes.Layout == "" {
		routes.Layout = "/canvas/layout"
	}
	if routes.Tools == "" {
		routes.Tools = "/canvas/tools"
	}
	if routes.Filters == "" {
		routes.Filters = "/canvas/filters"
	}
	if routes.Selection == "" {
		routes.Selection = "/canvas/selection"
	}
	if routes.Reports == "" {
		routes.Reports = "/reports"
	}
	if routes.ReportID == "" {
		routes.ReportID = "/reports/:id"
	}
	if routes.Share == "" {
		routes.Share = "/reports/share"
	}
	if routes.Values == "" {
		routes.Values = "/canvas/values"
	}
	if routes.Handoff == "" {
		routes.Handoff = "/canvas/handoff"
	}
	if routes.PublicReport == "" {
		routes.PublicReport = "/public/reports/:token"
	}
	return routes
}
