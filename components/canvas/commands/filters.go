package commands

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	canvas "github.com/goliatone/go-report-canvas/components/canvas"
)

// SetFilterInput records a filter value for a column.
type SetFilterInput struct {
	ProjectID  int64              `json:"projectId"`
	ColumnName string             `json:"columnName"`
	Value      canvas.FilterValue `json:"value"`
}

// SetFilterCommand updates the filter state and triggers the regeneration
// pass over the active page's charts.
type SetFilterCommand struct {
	resolver  CanvasResolver
	telemetry Telemetry
}

// NewSetFilterCommand creates the command.
func NewSetFilterCommand(resolver CanvasResolver, telemetry Telemetry) *SetFilterCommand {
	return &SetFilterCommand{resolver: resolver, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SetFilterInput] = (*SetFilterCommand)(nil)

// Execute records the filter.
func (c *SetFilterCommand) Execute(ctx context.Context, msg SetFilterInput) error {
	if c.resolver == nil {
		return errMissingResolver
	}
	session, err := c.resolver.Canvas(ctx, msg.ProjectID)
	if err != nil {
		return err
	}
	if err := session.SetFilter(ctx, msg.ColumnName, msg.Value); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "canvas.command.filter.set", map[string]any{
		"project_id": msg.ProjectID,
		"column":     msg.ColumnName,
	})
	return nil
}

// ClearFiltersInput resets the filter state.
type ClearFiltersInput struct {
	ProjectID int64 `json:"projectId"`
	// ColumnName restricts the clear to one column when set.
	ColumnName string `json:"columnName,omitempty"`
}

// ClearFiltersCommand clears one or all filters.
type ClearFiltersCommand struct {
	resolver CanvasResolver
}

// NewClearFiltersCommand creates the command.
func NewClearFiltersCommand(resolver CanvasResolver) *ClearFiltersCommand {
	return &ClearFiltersCommand{resolver: resolver}
}

var _ gocommand.Commander[ClearFiltersInput] = (*ClearFiltersCommand)(nil)

// Execute clears filters.
func (c *ClearFiltersCommand) Execute(ctx context.Context, msg ClearFiltersInput) error {
	if c.resolver == nil {
		return errMissingResolver
	}
	session, err := c.resolver.Canvas(ctx, msg.ProjectID)
	if err != nil {
		return err
	}
	if msg.ColumnName != "" {
		session.RemoveFilter(ctx, msg.ColumnName)
		return nil
	}
	session.ClearAllFilters(ctx)
	return nil
}

// ApplySelectionInput pushes a column selector's chosen columns onto its
// linked charts.
type ApplySelectionInput struct {
	ProjectID  int64    `json:"projectId"`
	SelectorID int64    `json:"selectorId"`
	Columns    []string `json:"columns"`
}

// ApplySelectionCommand mutates linked chart mappings synchronously and
// kicks off their artifact regeneration.
type ApplySelectionCommand struct {
	resolver  CanvasResolver
	telemetry Telemetry
}

// NewApplySelectionCommand creates the command.
func NewApplySelectionCommand(resolver CanvasResolver, telemetry Telemetry) *ApplySelectionCommand {
	return &ApplySelectionCommand{resolver: resolver, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[ApplySelectionInput] = (*ApplySelectionCommand)(nil)

// Execute applies the selection.
func (c *ApplySelectionCommand) Execute(ctx context.Context, msg ApplySelectionInput) error {
	if c.resolver == nil {
		return errMissingResolver
	}
	session, err := c.resolver.Canvas(ctx, msg.ProjectID)
	if err != nil {
		return err
	}
	if err := session.ApplyColumnSelection(ctx, msg.SelectorID, msg.Columns); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "canvas.command.selection.apply", map[string]any{
		"project_id":  msg.ProjectID,
		"selector_id": msg.SelectorID,
	})
	return nil
}
