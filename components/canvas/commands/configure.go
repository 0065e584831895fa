package commands

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	canvas "github.com/goliatone/go-report-canvas/components/canvas"
)

// UpdateTextInput replaces a text widget's content.
type UpdateTextInput struct {
	ProjectID int64  `json:"projectId"`
	WidgetID  int64  `json:"widgetId"`
	Text      string `json:"text"`
}

// UpdateTextCommand edits a text box on the active page.
type UpdateTextCommand struct {
	resolver CanvasResolver
}

// NewUpdateTextCommand creates the command.
func NewUpdateTextCommand(resolver CanvasResolver) *UpdateTextCommand {
	return &UpdateTextCommand{resolver: resolver}
}

var _ gocommand.Commander[UpdateTextInput] = (*UpdateTextCommand)(nil)

// Execute updates the text.
func (c *UpdateTextCommand) Execute(ctx context.Context, msg UpdateTextInput) error {
	if c.resolver == nil {
		return errMissingResolver
	}
	session, err := c.resolver.Canvas(ctx, msg.ProjectID)
	if err != nil {
		return err
	}
	return session.UpdateText(msg.WidgetID, msg.Text)
}

// SetSlicerColumnInput assigns the column a slicer filters on.
type SetSlicerColumnInput struct {
	ProjectID  int64           `json:"projectId"`
	WidgetID   int64           `json:"widgetId"`
	ColumnName string          `json:"columnName"`
	DataKind   canvas.DataKind `json:"dataType,omitempty"`
}

// SetSlicerColumnCommand binds a slicer to a data column.
type SetSlicerColumnCommand struct {
	resolver CanvasResolver
}

// NewSetSlicerColumnCommand creates the command.
func NewSetSlicerColumnCommand(resolver CanvasResolver) *SetSlicerColumnCommand {
	return &SetSlicerColumnCommand{resolver: resolver}
}

var _ gocommand.Commander[SetSlicerColumnInput] = (*SetSlicerColumnCommand)(nil)

// Execute binds the slicer column.
func (c *SetSlicerColumnCommand) Execute(ctx context.Context, msg SetSlicerColumnInput) error {
	if c.resolver == nil {
		return errMissingResolver
	}
	session, err := c.resolver.Canvas(ctx, msg.ProjectID)
	if err != nil {
		return err
	}
	return session.SetSlicerColumn(msg.WidgetID, msg.ColumnName, msg.DataKind)
}

// ConfigureSelectorInput updates a column selector's columns and links.
type ConfigureSelectorInput struct {
	ProjectID        int64    `json:"projectId"`
	WidgetID         int64    `json:"widgetId"`
	AvailableColumns []string `json:"availableColumns"`
	LinkedCharts     []int64  `json:"linkedCharts"`
}

// ConfigureSelectorCommand updates a column selector's configuration.
type ConfigureSelectorCommand struct {
	resolver CanvasResolver
}

// NewConfigureSelectorCommand creates the command.
func NewConfigureSelectorCommand(resolver CanvasResolver) *ConfigureSelectorCommand {
	return &ConfigureSelectorCommand{resolver: resolver}
}

var _ gocommand.Commander[ConfigureSelectorInput] = (*ConfigureSelectorCommand)(nil)

// Execute updates the selector.
func (c *ConfigureSelectorCommand) Execute(ctx context.Context, msg ConfigureSelectorInput) error {
	if c.resolver == nil {
		return errMissingResolver
	}
	session, err := c.resolver.Canvas(ctx, msg.ProjectID)
	if err != nil {
		return err
	}
	return session.ConfigureColumnSelector(msg.WidgetID, msg.AvailableColumns, msg.LinkedCharts)
}
