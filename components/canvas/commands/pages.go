package commands

import (
	"context"

	gocommand "github.com/goliatone/go-command"
)

// AddPageInput appends a page to the canvas and switches to it.
type AddPageInput struct {
	ProjectID int64  `json:"projectId"`
	Title     string `json:"title,omitempty"`
}

// AddPageCommand appends a canvas page.
type AddPageCommand struct {
	resolver  CanvasResolver
	telemetry Telemetry
}

// NewAddPageCommand creates the command.
func NewAddPageCommand(resolver CanvasResolver, telemetry Telemetry) *AddPageCommand {
	return &AddPageCommand{resolver: resolver, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[AddPageInput] = (*AddPageCommand)(nil)

// Execute adds the page.
func (c *AddPageCommand) Execute(ctx context.Context, msg AddPageInput) error {
	if c.resolver == nil {
		return errMissingResolver
	}
	session, err := c.resolver.Canvas(ctx, msg.ProjectID)
	if err != nil {
		return err
	}
	index := session.AddPage(msg.Title)
	c.telemetry.Record(ctx, "canvas.command.page.add", map[string]any{
		"project_id": msg.ProjectID,
		"page_index": index,
	})
	return nil
}

// RenamePageInput retitles a canvas page.
type RenamePageInput struct {
	ProjectID int64  `json:"projectId"`
	PageIndex int    `json:"pageIndex"`
	Title     string `json:"title"`
}

// RenamePageCommand retitles a page.
type RenamePageCommand struct {
	resolver  CanvasResolver
	telemetry Telemetry
}

// NewRenamePageCommand creates the command.
func NewRenamePageCommand(resolver CanvasResolver, telemetry Telemetry) *RenamePageCommand {
	return &RenamePageCommand{resolver: resolver, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RenamePageInput] = (*RenamePageCommand)(nil)

// Execute renames the page.
func (c *RenamePageCommand) Execute(ctx context.Context, msg RenamePageInput) error {
	if c.resolver == nil {
		return errMissingResolver
	}
	session, err := c.resolver.Canvas(ctx, msg.ProjectID)
	if err != nil {
		return err
	}
	if err := session.RenamePage(msg.PageIndex, msg.Title); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "canvas.command.page.rename", map[string]any{
		"project_id": msg.ProjectID,
		"page_index": msg.PageIndex,
	})
	return nil
}

// DeletePageInput removes a canvas page.
type DeletePageInput struct {
	ProjectID int64 `json:"projectId"`
	PageIndex int   `json:"pageIndex"`
}

// DeletePageCommand removes a page; deleting the last page is refused.
type DeletePageCommand struct {
	resolver  CanvasResolver
	telemetry Telemetry
}

// NewDeletePageCommand creates the command.
func NewDeletePageCommand(resolver CanvasResolver, telemetry Telemetry) *DeletePageCommand {
	return &DeletePageCommand{resolver: resolver, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[DeletePageInput] = (*DeletePageCommand)(nil)

// Execute deletes the page.
func (c *DeletePageCommand) Execute(ctx context.Context, msg DeletePageInput) error {
	if c.resolver == nil {
		return errMissingResolver
	}
	session, err := c.resolver.Canvas(ctx, msg.ProjectID)
	if err != nil {
		return err
	}
	if err := session.DeletePage(msg.PageIndex); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "canvas.command.page.delete", map[string]any{
		"project_id": msg.ProjectID,
		"page_index": msg.PageIndex,
	})
	return nil
}

// SwitchPageInput changes the active page.
type SwitchPageInput struct {
	ProjectID int64 `json:"projectId"`
	PageIndex int   `json:"pageIndex"`
}

// SwitchPageCommand changes the active page.
type SwitchPageCommand struct {
	resolver CanvasResolver
}

// NewSwitchPageCommand creates the command.
func NewSwitchPageCommand(resolver CanvasResolver) *SwitchPageCommand {
	return &SwitchPageCommand{resolver: resolver}
}

var _ gocommand.Commander[SwitchPageInput] = (*SwitchPageCommand)(nil)

// Execute switches the active page.
func (c *SwitchPageCommand) Execute(ctx context.Context, msg SwitchPageInput) error {
	if c.resolver == nil {
		return errMissingResolver
	}
	session, err := c.resolver.Canvas(ctx, msg.ProjectID)
	if err != nil {
		return err
	}
	return session.SwitchPage(msg.PageIndex)
}
