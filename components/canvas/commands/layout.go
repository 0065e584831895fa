package commands

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	canvas "github.com/goliatone/go-report-canvas/components/canvas"
)

// UpdateLayoutInput reconciles a grid change against a page.
type UpdateLayoutInput struct {
	ProjectID int64                `json:"projectId"`
	PageIndex int                  `json:"pageIndex"`
	Entries   []canvas.LayoutEntry `json:"layout"`
}

// UpdateLayoutCommand applies drag, resize, and reflow results. Widget
// existence never changes through this path.
type UpdateLayoutCommand struct {
	resolver CanvasResolver
}

// NewUpdateLayoutCommand creates the command.
func NewUpdateLayoutCommand(resolver CanvasResolver) *UpdateLayoutCommand {
	return &UpdateLayoutCommand{resolver: resolver}
}

var _ gocommand.Commander[UpdateLayoutInput] = (*UpdateLayoutCommand)(nil)

// Execute applies the layout update.
func (c *UpdateLayoutCommand) Execute(ctx context.Context, msg UpdateLayoutInput) error {
	if c.resolver == nil {
		return errMissingResolver
	}
	session, err := c.resolver.Canvas(ctx, msg.ProjectID)
	if err != nil {
		return err
	}
	return session.UpdateLayout(msg.PageIndex, msg.Entries)
}

// DropToolInput finishes a toolbox drag on the active page.
type DropToolInput struct {
	ProjectID int64  `json:"projectId"`
	ToolCode  string `json:"toolCode"`
	X         int    `json:"x"`
	Y         int    `json:"y"`
}

// DropToolCommand materializes a toolbox tool as a widget at the drop cell.
type DropToolCommand struct {
	resolver  CanvasResolver
	telemetry Telemetry
}

// NewDropToolCommand creates the command.
func NewDropToolCommand(resolver CanvasResolver, telemetry Telemetry) *DropToolCommand {
	return &DropToolCommand{resolver: resolver, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[DropToolInput] = (*DropToolCommand)(nil)

// Execute drops the tool.
func (c *DropToolCommand) Execute(ctx context.Context, msg DropToolInput) error {
	if c.resolver == nil {
		return errMissingResolver
	}
	session, err := c.resolver.Canvas(ctx, msg.ProjectID)
	if err != nil {
		return err
	}
	widget, err := session.DropTool(canvas.DropEvent{
		ToolCode: msg.ToolCode,
		X:        msg.X,
		Y:        msg.Y,
	})
	if err != nil {
		return err
	}
	if widget != nil {
		c.telemetry.Record(ctx, "canvas.command.tool.drop", map[string]any{
			"project_id":  msg.ProjectID,
			"widget_id":   widget.WidgetID(),
			"widget_type": string(widget.Type()),
		})
	}
	return nil
}
