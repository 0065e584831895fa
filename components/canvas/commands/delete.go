package commands

import (
	"context"

	gocommand "github.com/goliatone/go-command"
)

// DeleteReportInput destroys the project's active saved report.
type DeleteReportInput struct {
	ProjectID int64 `json:"projectId"`
}

// DeleteReportCommand deletes the active report, its share links with it,
// and resets the canvas to a blank dashboard.
type DeleteReportCommand struct {
	resolver  CanvasResolver
	telemetry Telemetry
}

// NewDeleteReportCommand creates the command.
func NewDeleteReportCommand(resolver CanvasResolver, telemetry Telemetry) *DeleteReportCommand {
	return &DeleteReportCommand{resolver: resolver, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[DeleteReportInput] = (*DeleteReportCommand)(nil)

// Execute deletes the active report.
func (c *DeleteReportCommand) Execute(ctx context.Context, msg DeleteReportInput) error {
	if c.resolver == nil {
		return errMissingResolver
	}
	session, err := c.resolver.Canvas(ctx, msg.ProjectID)
	if err != nil {
		return err
	}
	if err := session.DeleteReport(ctx); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "canvas.command.delete", map[string]any{
		"project_id": msg.ProjectID,
	})
	return nil
}
