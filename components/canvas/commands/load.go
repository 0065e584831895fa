package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// LoadReportInput replaces the project's canvas with a saved report.
type LoadReportInput struct {
	ProjectID int64  `json:"projectId"`
	ReportID  string `json:"reportId"`
}

// LoadReportCommand loads a saved report into the working canvas.
type LoadReportCommand struct {
	resolver  CanvasResolver
	telemetry Telemetry
}

// NewLoadReportCommand creates the command.
func NewLoadReportCommand(resolver CanvasResolver, telemetry Telemetry) *LoadReportCommand {
	return &LoadReportCommand{resolver: resolver, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[LoadReportInput] = (*LoadReportCommand)(nil)

// Execute loads the report.
func (c *LoadReportCommand) Execute(ctx context.Context, msg LoadReportInput) error {
	if c.resolver == nil {
		return errMissingResolver
	}
	if msg.ReportID == "" {
		return errors.New("commands: report id is required")
	}
	session, err := c.resolver.Canvas(ctx, msg.ProjectID)
	if err != nil {
		return err
	}
	if err := session.LoadReport(ctx, msg.ReportID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "canvas.command.load", map[string]any{
		"project_id": msg.ProjectID,
		"report_id":  msg.ReportID,
	})
	return nil
}
