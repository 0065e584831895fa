package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	canvas "github.com/goliatone/go-report-canvas/components/canvas"
)

// PublishChartInput stages a generated chart for hand-off into the canvas.
type PublishChartInput struct {
	Chart canvas.HandoffMessage `json:"chart"`
}

// PublishChartCommand is the entry point the chart generation surface uses
// to send a finished chart to the canvas. The mailbox holds one chart; a new
// publish replaces an unconsumed one.
type PublishChartCommand struct {
	mailbox   canvas.HandoffMailbox
	telemetry Telemetry
}

// NewPublishChartCommand creates the command.
func NewPublishChartCommand(mailbox canvas.HandoffMailbox, telemetry Telemetry) *PublishChartCommand {
	return &PublishChartCommand{mailbox: mailbox, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[PublishChartInput] = (*PublishChartCommand)(nil)

// Execute stages the chart.
func (c *PublishChartCommand) Execute(ctx context.Context, msg PublishChartInput) error {
	if c.mailbox == nil {
		return errors.New("commands: hand-off mailbox is required")
	}
	if msg.Chart.ID == 0 {
		return errors.New("commands: chart id is required")
	}
	c.mailbox.Publish(msg.Chart)
	c.telemetry.Record(ctx, "canvas.command.handoff.publish", map[string]any{
		"project_id": msg.Chart.ProjectID,
		"chart_id":   msg.Chart.ID,
	})
	return nil
}
