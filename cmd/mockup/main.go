package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"text/tabwriter"

	"github.com/koios/mockup-renderer/internal/compositor"
	"github.com/koios/mockup-renderer/internal/config"
	"github.com/koios/mockup-renderer/internal/framestore"
	"github.com/koios/mockup-renderer/internal/handlers"
	"github.com/koios/mockup-renderer/internal/resolver"
	"github.com/koios/mockup-renderer/pkg/models"
	"go.uber.org/zap"
)

const usage = `usage: mockup <command> [flags]

commands:
  devices                       list devices and colors
  render  -device ID [flags]    render a screenshot into a device frame
  frames  import|list|remove    manage imported frames
  frame-svg -device ID          export the generated frame as SVG
`

type app struct {
	cfg     *config.Config
	catalog *models.Catalog
	store   framestore.Store
	render  *handlers.RenderHandler
	frames  *handlers.FrameHandler
	logger  *zap.Logger
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize", zap.Error(err))
	}
	defer a.store.Close()

	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		var invalid *handlers.InvalidRequestError
		if errors.As(err, &invalid) {
			for _, v := range invalid.Errors {
				fmt.Fprintf(os.Stderr, "%s: %s\n", v.Field, v.Message)
			}
			os.Exit(2)
		}
		logger.Error("Command failed", zap.String("command", os.Args[1]), zap.Error(err))
		os.Exit(1)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = lvl
	return zc.Build()
}

func newApp(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*app, error) {
	var catalog *models.Catalog
	var err error
	if cfg.Render.CatalogFile != "" {
		catalog, err = models.LoadCatalogFile(cfg.Render.CatalogFile)
	} else {
		catalog, err = models.LoadCatalog()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	store, err := framestore.Open(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open frame store: %w", err)
	}

	res := resolver.New(catalog, store, logger)
	return &app{
		cfg:     cfg,
		catalog: catalog,
		store:   store,
		render:  handlers.NewRenderHandler(catalog, res, compositor.New(logger), logger),
		frames:  handlers.NewFrameHandler(catalog, store, logger),
		logger:  logger,
	}, nil
}

func (a *app) run(ctx context.Context, cmd string, args []string) error {
	switch cmd {
	case "devices":
		return a.devices()
	case "render":
		return a.renderCmd(ctx, args)
	case "frames":
		return a.framesCmd(ctx, args)
	case "frame-svg":
		return a.frameSVG(args)
	case "help", "-h", "--help":
		fmt.Print(usage)
		return nil
	}
	fmt.Fprint(os.Stderr, usage)
	return fmt.Errorf("unknown command %q", cmd)
}

func (a *app) devices() error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tFRAME\tCOLORS")
	for _, d := range a.catalog.List() {
		names := ""
		for i, c := range d.Colors {
			if i > 0 {
				names += ", "
			}
			names += c.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%vx%v\t%s\n", d.ID, d.Name, d.FrameWidth, d.FrameHeight, names)
	}
	return tw.Flush()
}

func (a *app) renderCmd(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("render", flag.ContinueOnError)
	device := fs.String("device", "", "device id")
	colorName := fs.String("color", "", "color name, defaults to the device's first color")
	screenshot := fs.String("screenshot", "", "screenshot image file")
	background := fs.String("background", a.cfg.Render.Background, "background hex color or 'transparent'")
	scale := fs.Float64("scale", 1, "output scale")
	preview := fs.Bool("preview", false, "render at the preview scale")
	format := fs.String("format", "png", "output format: png or jpg")
	out := fs.String("out", "", "output file, '-' for stdout")
	clipboard := fs.Bool("clipboard", false, "write the PNG clipboard representation to stdout")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req := &models.MockupRequest{
		DeviceID:   *device,
		ColorName:  *colorName,
		Background: *background,
		Scale:      *scale,
		Format:     *format,
	}
	if *preview {
		req.Scale = a.cfg.Render.PreviewScale
	}
	if *screenshot != "" {
		data, err := os.ReadFile(*screenshot)
		if err != nil {
			return fmt.Errorf("failed to read screenshot: %w", err)
		}
		req.Screenshot = data
	}

	result, err := a.render.Handle(ctx, req)
	if err != nil {
		return err
	}

	if *clipboard {
		item, err := compositor.Clipboard(result)
		if err != nil {
			return err
		}
		_, err = os.Stdout.Write(item.Data)
		return err
	}

	f, err := compositor.ParseFormat(*format)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := compositor.Encode(&buf, result.Image, f); err != nil {
		return err
	}
	if *out == "-" {
		_, err = os.Stdout.Write(buf.Bytes())
		return err
	}

	path := *out
	if path == "" {
		path = filepath.Join(a.cfg.Render.OutputDir, compositor.Filename(result, f))
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	a.logger.Info("Wrote mockup", zap.String("path", path), zap.Int("bytes", buf.Len()))
	fmt.Println(path)
	return nil
}

func (a *app) framesCmd(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("frames: expected import, list or remove")
	}
	sub, args := args[0], args[1:]

	fs := flag.NewFlagSet("frames "+sub, flag.ContinueOnError)
	device := fs.String("device", "", "device id")
	colorName := fs.String("color", "", "color name, defaults to the device's first color")
	file := fs.String("file", "", "frame image or SVG file (import)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	switch sub {
	case "import":
		data, err := os.ReadFile(*file)
		if err != nil {
			return fmt.Errorf("failed to read frame: %w", err)
		}
		res, err := a.frames.Import(ctx, *device, *colorName, data)
		if err != nil {
			return err
		}
		fmt.Printf("%s %dx%d\n", res.Key, res.Width, res.Height)
		if res.Stretched {
			fmt.Fprintln(os.Stderr, "warning: frame size differs from the device frame and will be stretched")
		}
		return nil
	case "list":
		infos, err := a.frames.List(ctx, *device)
		if err != nil {
			return err
		}
		for _, fi := range infos {
			fmt.Printf("%s\t%s\n", fi.Key, fi.ColorName)
		}
		return nil
	case "remove":
		return a.frames.Remove(ctx, *device, *colorName)
	}
	return fmt.Errorf("frames: unknown subcommand %q", sub)
}

func (a *app) frameSVG(args []string) error {
	fs := flag.NewFlagSet("frame-svg", flag.ContinueOnError)
	device := fs.String("device", "", "device id")
	colorName := fs.String("color", "", "color name, defaults to the device's first color")
	out := fs.String("out", "", "output file, stdout when empty")
	if err := fs.Parse(args); err != nil {
		return err
	}

	doc, err := a.frames.ExportSVG(*device, *colorName)
	if err != nil {
		return err
	}
	if *out == "" {
		_, err = os.Stdout.Write(doc)
		return err
	}
	return os.WriteFile(*out, doc, 0o644)
}
