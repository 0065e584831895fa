package commands

import (
	"context"
	"encoding/json"
	"errors"

	gocommand "github.com/goliatone/go-command"
	canvas "github.com/goliatone/go-report-canvas/components/canvas"
)

// AddWidgetInput places a serialized widget and its layout entry on a page.
type AddWidgetInput struct {
	ProjectID int64              `json:"projectId"`
	PageIndex int                `json:"pageIndex"`
	Widget    json.RawMessage    `json:"widget"`
	Layout    canvas.LayoutEntry `json:"layout"`
}

// AddWidgetCommand validates and places a widget/layout pair atomically.
type AddWidgetCommand struct {
	resolver  CanvasResolver
	validator canvas.WidgetValidator
	telemetry Telemetry
}

// NewAddWidgetCommand creates the command. A nil validator skips payload
// validation.
func NewAddWidgetCommand(resolver CanvasResolver, validator canvas.WidgetValidator, telemetry Telemetry) *AddWidgetCommand {
	return &AddWidgetCommand{
		resolver:  resolver,
		validator: validator,
		telemetry: normalizeTelemetry(telemetry),
	}
}

var _ gocommand.Commander[AddWidgetInput] = (*AddWidgetCommand)(nil)

// Execute decodes, validates, and places the widget.
func (c *AddWidgetCommand) Execute(ctx context.Context, msg AddWidgetInput) error {
	if c.resolver == nil {
		return errMissingResolver
	}
	if len(msg.Widget) == 0 {
		return errors.New("commands: widget payload is required")
	}
	widget, err := canvas.UnmarshalWidget(msg.Widget)
	if err != nil {
		return err
	}
	if c.validator != nil {
		var payload map[string]any
		if err := json.Unmarshal(msg.Widget, &payload); err != nil {
			return err
		}
		if err := c.validator.Validate(widget.Type(), payload); err != nil {
			return err
		}
	}
	session, err := c.resolver.Canvas(ctx, msg.ProjectID)
	if err != nil {
		return err
	}
	if err := session.AddWidget(msg.PageIndex, widget, msg.Layout); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "canvas.command.widget.add", map[string]any{
		"project_id":  msg.ProjectID,
		"widget_id":   widget.WidgetID(),
		"widget_type": string(widget.Type()),
	})
	return nil
}

// RemoveWidgetInput deletes a widget and its layout entry.
type RemoveWidgetInput struct {
	ProjectID int64 `json:"projectId"`
	PageIndex int   `json:"pageIndex"`
	WidgetID  int64 `json:"widgetId"`
}

// RemoveWidgetCommand removes a widget from a page.
type RemoveWidgetCommand struct {
	resolver  CanvasResolver
	telemetry Telemetry
}

// NewRemoveWidgetCommand creates the command.
func NewRemoveWidgetCommand(resolver CanvasResolver, telemetry Telemetry) *RemoveWidgetCommand {
	return &RemoveWidgetCommand{resolver: resolver, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RemoveWidgetInput] = (*RemoveWidgetCommand)(nil)

// Execute removes the widget.
func (c *RemoveWidgetCommand) Execute(ctx context.Context, msg RemoveWidgetInput) error {
	if c.resolver == nil {
		return errMissingResolver
	}
	session, err := c.resolver.Canvas(ctx, msg.ProjectID)
	if err != nil {
		return err
	}
	if err := session.RemoveWidget(msg.PageIndex, msg.WidgetID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "canvas.command.widget.remove", map[string]any{
		"project_id": msg.ProjectID,
		"widget_id":  msg.WidgetID,
	})
	return nil
}

// MoveWidgetInput transfers a widget to another page. A TargetPage of -1
// creates a fresh page for it.
type MoveWidgetInput struct {
	ProjectID      int64  `json:"projectId"`
	WidgetID       int64  `json:"widgetId"`
	FromPage       int    `json:"fromPage"`
	TargetPage     int    `json:"targetPage"`
	PreserveLayout bool   `json:"preserveLayout"`
	NewPageTitle   string `json:"newPageTitle,omitempty"`
}

// MoveWidgetCommand moves a widget between pages or onto a new page.
type MoveWidgetCommand struct {
	resolver  CanvasResolver
	telemetry Telemetry
}

// NewMoveWidgetCommand creates the command.
func NewMoveWidgetCommand(resolver CanvasResolver, telemetry Telemetry) *MoveWidgetCommand {
	return &MoveWidgetCommand{resolver: resolver, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[MoveWidgetInput] = (*MoveWidgetCommand)(nil)

// Execute moves the widget.
func (c *MoveWidgetCommand) Execute(ctx context.Context, msg MoveWidgetInput) error {
	if c.resolver == nil {
		return errMissingResolver
	}
	session, err := c.resolver.Canvas(ctx, msg.ProjectID)
	if err != nil {
		return err
	}
	if msg.TargetPage < 0 {
		if _, err := session.MoveWidgetToNewPage(msg.WidgetID, msg.FromPage, msg.NewPageTitle); err != nil {
			return err
		}
	} else if err := session.MoveWidget(msg.WidgetID, msg.FromPage, msg.TargetPage, msg.PreserveLayout); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "canvas.command.widget.move", map[string]any{
		"project_id": msg.ProjectID,
		"widget_id":  msg.WidgetID,
	})
	return nil
}
