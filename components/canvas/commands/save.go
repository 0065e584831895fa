package commands

import (
	"context"

	gocommand "github.com/goliatone/go-command"
)

// SaveReportInput persists a project's working canvas.
type SaveReportInput struct {
	ProjectID int64 `json:"projectId"`
	// Title overrides the working title when set.
	Title string `json:"title,omitempty"`
}

// SaveReportCommand persists the canvas, creating a report on first save and
// updating it afterwards.
type SaveReportCommand struct {
	resolver  CanvasResolver
	telemetry Telemetry
}

// NewSaveReportCommand creates the command.
func NewSaveReportCommand(resolver CanvasResolver, telemetry Telemetry) *SaveReportCommand {
	return &SaveReportCommand{resolver: resolver, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SaveReportInput] = (*SaveReportCommand)(nil)

// Execute saves the canvas as a durable report.
func (c *SaveReportCommand) Execute(ctx context.Context, msg SaveReportInput) error {
	if c.resolver == nil {
		return errMissingResolver
	}
	session, err := c.resolver.Canvas(ctx, msg.ProjectID)
	if err != nil {
		return err
	}
	if msg.Title != "" {
		session.SetTitle(msg.Title)
	}
	report, err := session.SaveReport(ctx)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "canvas.command.save", map[string]any{
		"project_id": msg.ProjectID,
		"report_id":  report.ID,
	})
	return nil
}
