package httpapi

import (
	"context"

	canvas "github.com/goliatone/go-report-canvas/components/canvas"
	"github.com/goliatone/go-report-canvas/components/canvas/commands"
	"github.com/goliatone/go-report-canvas/components/canvas/queries"
)

// CommandExecutor bundles the command and query instances behind the
// Executor interface.
type CommandExecutor struct {
	SaveCmd         *commands.SaveReportCommand
	LoadCmd         *commands.LoadReportCommand
	DeleteCmd       *commands.DeleteReportCommand
	NewDashboardCmd *commands.NewDashboardCommand
	AddPageCmd      *commands.AddPageCommand
	RenamePageCmd   *commands.RenamePageCommand
	DeletePageCmd   *commands.DeletePageCommand
	SwitchPageCmd   *commands.SwitchPageCommand
	AddWidgetCmd    *commands.AddWidgetCommand
	RemoveWidgetCmd *commands.RemoveWidgetCommand
	MoveWidgetCmd   *commands.MoveWidgetCommand
	LayoutCmd       *commands.UpdateLayoutCommand
	DropToolCmd     *commands.DropToolCommand
	TextCmd         *commands.UpdateTextCommand
	SlicerCmd       *commands.SetSlicerColumnCommand
	SelectorCmd     *commands.ConfigureSelectorCommand
	FilterCmd       *commands.SetFilterCommand
	ClearCmd        *commands.ClearFiltersCommand
	SelectionCmd    *commands.ApplySelectionCommand
	PublishCmd      *commands.PublishChartCommand

	CanvasQry  *queries.CanvasQuery
	ReportsQry *queries.ListReportsQuery
	ShareQry   *queries.ShareReportQuery
	PublicQry  *queries.PublicReportQuery
	ValuesQry  *queries.UniqueValuesQuery
}

var _ Executor = (*CommandExecutor)(nil)

// ExecutorConfig wires a full command set from shared collaborators.
type ExecutorConfig struct {
	Resolver  commands.CanvasResolver
	Mailbox   canvas.HandoffMailbox
	Viewer    *canvas.PublicViewer
	Validator canvas.WidgetValidator
	Telemetry commands.Telemetry
}

// NewCommandExecutor builds the default executor.
func NewCommandExecutor(cfg ExecutorConfig) *CommandExecutor {
	resolver := cfg.Resolver
	telemetry := cfg.Telemetry
	return &CommandExecutor{
		SaveCmd:         commands.NewSaveReportCommand(resolver, telemetry),
		LoadCmd:         commands.NewLoadReportCommand(resolver, telemetry),
		DeleteCmd:       commands.NewDeleteReportCommand(resolver, telemetry),
		NewDashboardCmd: commands.NewNewDashboardCommand(resolver, telemetry),
		AddPageCmd:      commands.NewAddPageCommand(resolver, telemetry),
		RenamePageCmd:   commands.NewRenamePageCommand(resolver, telemetry),
		DeletePageCmd:   commands.NewDeletePageCommand(resolver, telemetry),
		SwitchPageCmd:   commands.NewSwitchPageCommand(resolver),
		AddWidgetCmd:    commands.NewAddWidgetCommand(resolver, cfg.Validator, telemetry),
		RemoveWidgetCmd: commands.NewRemoveWidgetCommand(resolver, telemetry),
		MoveWidgetCmd:   commands.NewMoveWidgetCommand(resolver, telemetry),
		LayoutCmd:       commands.NewUpdateLayoutCommand(resolver),
		DropToolCmd:     commands.NewDropToolCommand(resolver, telemetry),
		TextCmd:         commands.NewUpdateTextCommand(resolver),
		SlicerCmd:       commands.NewSetSlicerColumnCommand(resolver),
		SelectorCmd:     commands.NewConfigureSelectorCommand(resolver),
		FilterCmd:       commands.NewSetFilterCommand(resolver, telemetry),
		ClearCmd:        commands.NewClearFiltersCommand(resolver),
		SelectionCmd:    commands.NewApplySelectionCommand(resolver, telemetry),
		PublishCmd:      commands.NewPublishChartCommand(cfg.Mailbox, telemetry),
		CanvasQry:       queries.NewCanvasQuery(resolver),
		ReportsQry:      queries.NewListReportsQuery(resolver),
		ShareQry:        queries.NewShareReportQuery(resolver),
		PublicQry:       queries.NewPublicReportQuery(cfg.Viewer),
		ValuesQry:       queries.NewUniqueValuesQuery(resolver),
	}
}

func (e *CommandExecutor) Save(ctx context.Context, input commands.SaveReportInput) error {
	return e.SaveCmd.Execute(ctx, input)
}

func (e *CommandExecutor) Load(ctx context.Context, input commands.LoadReportInput) error {
	return e.LoadCmd.Execute(ctx, input)
}

func (e *CommandExecutor) Delete(ctx context.Context, input commands.DeleteReportInput) error {
	return e.DeleteCmd.Execute(ctx, input)
}

func (e *CommandExecutor) NewDashboard(ctx context.Context, input commands.NewDashboardInput) error {
	return e.NewDashboardCmd.Execute(ctx, input)
}

func (e *CommandExecutor) AddPage(ctx context.Context, input commands.AddPageInput) error {
	return e.AddPageCmd.Execute(ctx, input)
}

func (e *CommandExecutor) RenamePage(ctx context.Context, input commands.RenamePageInput) error {
	return e.RenamePageCmd.Execute(ctx, input)
}

func (e *CommandExecutor) DeletePage(ctx context.Context, input commands.DeletePageInput) error {
	return e.DeletePageCmd.Execute(ctx, input)
}

func (e *CommandExecutor) SwitchPage(ctx context.Context, input commands.SwitchPageInput) error {
	return e.SwitchPageCmd.Execute(ctx, input)
}

func (e *CommandExecutor) AddWidget(ctx context.Context, input commands.AddWidgetInput) error {
	return e.AddWidgetCmd.Execute(ctx, input)
}

func (e *CommandExecutor) RemoveWidget(ctx context.Context, input commands.RemoveWidgetInput) error {
	return e.RemoveWidgetCmd.Execute(ctx, input)
}

func (e *CommandExecutor) MoveWidget(ctx context.Context, input commands.MoveWidgetInput) error {
	return e.MoveWidgetCmd.Execute(ctx, input)
}

func (e *CommandExecutor) UpdateLayout(ctx context.Context, input commands.UpdateLayoutInput) error {
	return e.LayoutCmd.Execute(ctx, input)
}

func (e *CommandExecutor) DropTool(ctx context.Context, input commands.DropToolInput) error {
	return e.DropToolCmd.Execute(ctx, input)
}

func (e *CommandExecutor) UpdateText(ctx context.Context, input commands.UpdateTextInput) error {
	return e.TextCmd.Execute(ctx, input)
}

func (e *CommandExecutor) SetSlicerColumn(ctx context.Context, input commands.SetSlicerColumnInput) error {
	return e.SlicerCmd.Execute(ctx, input)
}

func (e *CommandExecutor) ConfigureSelector(ctx context.Context, input commands.ConfigureSelectorInput) error {
	return e.SelectorCmd.Execute(ctx, input)
}

func (e *CommandExecutor) SetFilter(ctx context.Context, input commands.SetFilterInput) error {
	return e.FilterCmd.Execute(ctx, input)
}

func (e *CommandExecutor) ClearFilters(ctx context.Context, input commands.ClearFiltersInput) error {
	return e.ClearCmd.Execute(ctx, input)
}

func (e *CommandExecutor) ApplySelection(ctx context.Context, input commands.ApplySelectionInput) error {
	return e.SelectionCmd.Execute(ctx, input)
}

func (e *CommandExecutor) PublishChart(ctx context.Context, input commands.PublishChartInput) error {
	return e.PublishCmd.Execute(ctx, input)
}

func (e *CommandExecutor) CanvasState(ctx context.Context, req queries.CanvasRequest) (queries.CanvasState, error) {
	return e.CanvasQry.Query(ctx, req)
}

func (e *CommandExecutor) ListReports(ctx context.Context, req queries.ListReportsRequest) ([]canvas.Report, error) {
	return e.ReportsQry.Query(ctx, req)
}

func (e *CommandExecutor) Share(ctx context.Context, req queries.ShareReportRequest) (canvas.ShareLink, error) {
	return e.ShareQry.Query(ctx, req)
}

func (e *CommandExecutor) PublicReport(ctx context.Context, req queries.PublicViewRequest) (canvas.PublicReport, error) {
	return e.PublicQry.Query(ctx, req)
}

func (e *CommandExecutor) UniqueValues(ctx context.Context, req queries.UniqueValuesRequest) ([]string, error) {
	return e.ValuesQry.Query(ctx, req)
}
