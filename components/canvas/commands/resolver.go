package commands

import (
	"context"
	"errors"

	canvas "github.com/goliatone/go-report-canvas/components/canvas"
)

// CanvasResolver hands commands the session for a project. The canvas
// Manager satisfies it.
type CanvasResolver interface {
	Canvas(ctx context.Context, projectID int64) (*canvas.Session, error)
}

var errMissingResolver = errors.New("commands: canvas resolver is required")
