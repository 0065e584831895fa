package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/ettle/strcase"

	canvas "github.com/goliatone/go-report-canvas/components/canvas"
	"github.com/goliatone/go-report-canvas/pkg/reports"
)

type cli struct {
	DB string `type:"path" default:"reports.db" help:"Path to the report SQLite database."`

	List         listCmd         `cmd:"" help:"List a project's saved reports."`
	Export       exportCmd       `cmd:"" help:"Export a saved report's content as JSON."`
	Share        shareCmd        `cmd:"" help:"Mint a public share link for a report."`
	Unshare      unshareCmd      `cmd:"" help:"Revoke a share token."`
	ScaffoldTool scaffoldToolCmd `cmd:"" name:"scaffold-tool" help:"Add a tool entry to a toolbox manifest."`
}

func main() {
	app := &cli{}
	ctx := kong.Parse(app,
		kong.Description("Report canvas maintenance utility."),
		kong.UsageOnError(),
	)
	err := ctx.Run(context.Background(), app)
	ctx.FatalIfErrorf(err)
}

func openStore(path string) (*reports.SQLiteStore, error) {
	db, err := reports.OpenDB(path)
	if err != nil {
		return nil, err
	}
	return reports.NewSQLiteStore(db)
}

type listCmd struct {
	Project int64 `required:"" help:"Project id to list reports for."`
}

func (cmd *listCmd) Run(ctx context.Context, app *cli) error {
	store, err := openStore(app.DB)
	if err != nil {
		return err
	}
	list, err := store.List(ctx, cmd.Project)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(os.Stdout, "no reports")
		return nil
	}
	for _, report := range list {
		fmt.Fprintf(os.Stdout, "%s\t%s\t%s\n", report.ID, report.UpdatedAt.Format("2006-01-02 15:04"), report.Title)
	}
	return nil
}

type exportCmd struct {
	ID  string `required:"" help:"Report id to export."`
	Out string `type:"path" help:"Output file (defaults to stdout)."`
}

func (cmd *exportCmd) Run(ctx context.Context, app *cli) error {
	store, err := openStore(app.DB)
	if err != nil {
		return err
	}
	report, err := store.Get(ctx, cmd.ID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("canvasctl: encode report: %w", err)
	}
	if cmd.Out == "" {
		fmt.Fprintln(os.Stdout, string(data))
		return nil
	}
	if err := os.WriteFile(cmd.Out, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("canvasctl: write %s: %w", cmd.Out, err)
	}
	fmt.Fprintf(os.Stdout, "✓ Exported %s to %s\n", cmd.ID, cmd.Out)
	return nil
}

type shareCmd struct {
	ID string `required:"" help:"Report id to share."`
}

func (cmd *shareCmd) Run(ctx context.Context, app *cli) error {
	store, err := openStore(app.DB)
	if err != nil {
		return err
	}
	link, err := store.CreateShareLink(ctx, cmd.ID)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Share token: %s\n", link.Token)
	return nil
}

type unshareCmd struct {
	Token string `required:"" help:"Share token to revoke."`
}

func (cmd *unshareCmd) Run(ctx context.Context, app *cli) error {
	store, err := openStore(app.DB)
	if err != nil {
		return err
	}
	if err := store.RevokeShareLink(ctx, cmd.Token); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Revoked %s\n", cmd.Token)
	return nil
}

type scaffoldToolCmd struct {
	Code         string `required:"" help:"Tool code (e.g. region_slicer)."`
	Label        string `help:"Display label (defaults to a title-cased code)."`
	DataKind     string `default:"categorical" enum:"categorical,numerical" help:"Data kind the tool's slicer targets."`
	Width        int    `default:"3" help:"Default grid width."`
	Height       int    `default:"6" help:"Default grid height."`
	ManifestPath string `required:"" type:"path" help:"Path to the toolbox manifest YAML/JSON file to update."`
	Overwrite    bool   `help:"Replace an existing manifest entry with the same code."`
}

func (cmd *scaffoldToolCmd) Run(_ context.Context, _ *cli) error {
	manifestPath, err := filepath.Abs(cmd.ManifestPath)
	if err != nil {
		return fmt.Errorf("canvasctl: resolve manifest path: %w", err)
	}
	doc, err := loadOrInitManifest(manifestPath)
	if err != nil {
		return err
	}
	if !cmd.Overwrite {
		for _, tool := range doc.Tools {
			if tool.Code == cmd.Code {
				return fmt.Errorf("canvasctl: manifest already defines tool %s (use --overwrite to replace)", cmd.Code)
			}
		}
	}

	label := cmd.Label
	if label == "" {
		label = strcase.ToCase(cmd.Code, strcase.TitleCase, ' ')
	}
	entry := canvas.Tool{
		Code:     cmd.Code,
		Label:    label,
		DataKind: canvas.DataKind(cmd.DataKind),
		DefaultW: cmd.Width,
		DefaultH: cmd.Height,
		MinW:     2,
		MinH:     2,
	}

	replaced := false
	for idx := range doc.Tools {
		if doc.Tools[idx].Code == cmd.Code {
			doc.Tools[idx] = entry
			replaced = true
			break
		}
	}
	if !replaced {
		doc.Tools = append(doc.Tools, entry)
	}
	sort.Slice(doc.Tools, func(i, j int) bool {
		return doc.Tools[i].Code < doc.Tools[j].Code
	})

	if err := writeManifest(manifestPath, doc); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "✓ Added %s to %s\n", cmd.Code, manifestPath)
	return nil
}

func loadOrInitManifest(path string) (*canvas.ToolboxManifestDocument, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &canvas.ToolboxManifestDocument{
				Version: canvas.ManifestVersion,
				Tools:   []canvas.Tool{},
				Source:  path,
			}, nil
		}
		return nil, fmt.Errorf("canvasctl: stat manifest: %w", err)
	}
	return canvas.ReadToolboxManifest(path)
}

func writeManifest(path string, doc *canvas.ToolboxManifestDocument) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("canvasctl: mkdir %s: %w", filepath.Dir(path), err)
	}
	tmpDoc := *doc
	tmpDoc.Source = ""

	file, err := os.Create(path) //nolint:gosec
	if err != nil {
		return fmt.Errorf("canvasctl: create manifest %s: %w", path, err)
	}
	defer file.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		encoder := json.NewEncoder(file)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(&tmpDoc); err != nil {
			return fmt.Errorf("canvasctl: write manifest: %w", err)
		}
		return nil
	}

	if err := canvas.WriteToolboxManifest(file, &tmpDoc); err != nil {
		return fmt.Errorf("canvasctl: write manifest: %w", err)
	}
	return nil
}
