package commands

import (
	"context"

	gocommand "github.com/goliatone/go-command"
)

// NewDashboardInput resets a project's canvas to a blank dashboard.
type NewDashboardInput struct {
	ProjectID int64 `json:"projectId"`
}

// NewDashboardCommand clears the ephemeral snapshot and starts a fresh
// unsaved canvas.
type NewDashboardCommand struct {
	resolver  CanvasResolver
	telemetry Telemetry
}

// NewNewDashboardCommand creates the command.
func NewNewDashboardCommand(resolver CanvasResolver, telemetry Telemetry) *NewDashboardCommand {
	return &NewDashboardCommand{resolver: resolver, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[NewDashboardInput] = (*NewDashboardCommand)(nil)

// Execute resets the canvas.
func (c *NewDashboardCommand) Execute(ctx context.Context, msg NewDashboardInput) error {
	if c.resolver == nil {
		return errMissingResolver
	}
	session, err := c.resolver.Canvas(ctx, msg.ProjectID)
	if err != nil {
		return err
	}
	session.NewDashboard()
	c.telemetry.Record(ctx, "canvas.command.new_dashboard", map[string]any{
		"project_id": msg.ProjectID,
	})
	return nil
}
