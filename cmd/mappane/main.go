// Command mappane is a demo viewer for the mapview engine: drag to pan,
// scroll to zoom at the cursor.
package main

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"os"
	"sync/atomic"

	"gioui.org/app"
	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mapfx/mappane/mapview"
	"github.com/mapfx/mappane/tiles"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "mappane",
	Short: "Interactive tiled-map viewer",
	Long: `mappane displays a pannable, zoomable tile map in a window.

Tiles come from a slippy-map tile server, an MBTiles database or a local
placeholder source. GeoJSON overlays can be drawn on top.`,
	RunE: run,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.Flags().StringVar(&cfgFile, "config", "", "config file (default is ./mappane.yaml)")
	rootCmd.Flags().String("source", "osm", "tile source (osm, placeholder, mbtiles)")
	rootCmd.Flags().String("mbtiles", "", "path to an MBTiles database (with --source mbtiles)")
	rootCmd.Flags().String("geojson", "", "GeoJSON file with overlay layers")
	rootCmd.Flags().Float64("lat", 51.507222, "initial center latitude")
	rootCmd.Flags().Float64("lon", -0.1275, "initial center longitude")
	rootCmd.Flags().Int("zoom", 9, "initial zoom level")
	rootCmd.Flags().Int("workers", 8, "tile loader workers")
	rootCmd.Flags().Bool("monochrome", false, "draw tiles in grayscale")
	rootCmd.Flags().Bool("grid", false, "draw a frame around every tile")
	rootCmd.Flags().Bool("fit", false, "fit the view to the overlay layers on start")

	for _, name := range []string{"source", "mbtiles", "geojson", "lat", "lon", "zoom", "workers", "monochrome", "grid", "fit"} {
		if err := viper.BindPFlag(name, rootCmd.Flags().Lookup(name)); err != nil {
			panic(fmt.Sprintf("failed to bind flag: %v", err))
		}
	}
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("mappane")
	}

	viper.SetEnvPrefix("MAPPANE")
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	source, err := buildSource()
	if err != nil {
		return err
	}

	pane, err := mapview.New(source,
		mapview.WithZoom(viper.GetInt("zoom")),
		mapview.WithAsyncLoading(viper.GetInt("workers")),
	)
	if err != nil {
		return err
	}
	defer pane.Repository().Close()

	pane.BeginUpdate()
	pane.CenterOn(tiles.LatLng{Lat: viper.GetFloat64("lat"), Lng: viper.GetFloat64("lon")})
	pane.SetMonochrome(viper.GetBool("monochrome"))
	pane.SetTileGridVisible(viper.GetBool("grid"))

	if path := viper.GetString("geojson"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		layers, err := mapview.LayersFromGeoJSON(data)
		if err != nil {
			return err
		}
		for _, layer := range layers {
			pane.AddMapLayer(layer)
		}
		if viper.GetBool("fit") {
			pane.FitToLayers()
		}
	}
	pane.EndUpdate()

	// Tile loads finish on worker goroutines; marshal the notification back
	// onto the frame loop through a refresh channel.
	refresh := make(chan struct{}, 1)
	var dirty atomic.Bool
	pane.Repository().SetOnTileLoaded(func() {
		dirty.Store(true)
		select {
		case refresh <- struct{}{}:
		default:
		}
	})

	go func() {
		w := new(app.Window)
		w.Option(app.Title("mappane"), app.Size(unit.Dp(800), unit.Dp(600)))

		go func() {
			for range refresh {
				w.Invalidate()
			}
		}()

		ui := &mapUI{pane: pane, dirty: &dirty}
		var ops op.Ops
		for {
			switch e := w.Event().(type) {
			case app.DestroyEvent:
				if e.Err != nil {
					log.Fatal(e.Err)
				}
				os.Exit(0)
			case app.FrameEvent:
				gtx := app.NewContext(&ops, e)
				ui.Layout(gtx)
				e.Frame(gtx.Ops)
			}
		}
	}()
	app.Main()
	return nil
}

func buildSource() (tiles.Source, error) {
	switch name := viper.GetString("source"); name {
	case "osm":
		// Placeholder tiles show while OSM tiles are still loading.
		return tiles.NewCompositeSource(tiles.NewOSMSource(), tiles.NewPlaceholderSource(0, 19)), nil
	case "placeholder":
		return tiles.NewPlaceholderSource(0, 19), nil
	case "mbtiles":
		path := viper.GetString("mbtiles")
		if path == "" {
			return nil, fmt.Errorf("--source mbtiles requires --mbtiles PATH")
		}
		return tiles.OpenMBTiles(path)
	default:
		return nil, fmt.Errorf("unknown tile source %q", name)
	}
}

// mapUI owns the pointer gesture state and feeds it into the pane.
type mapUI struct {
	pane  *mapview.MapPane
	dirty *atomic.Bool

	clickPos f32.Point
	dragging bool
	lastDrag f32.Point
	released bool

	cursor tiles.LatLng
	label  cursorLabel
}

func (u *mapUI) Layout(gtx layout.Context) layout.Dimensions {
	size := gtx.Constraints.Max
	if u.pane.ViewportSize() != size {
		u.pane.SetViewportSize(size.X, size.Y)
	}
	if u.dirty.Swap(false) {
		u.pane.Repaint()
	}

	dragDelta := f32.Point{}
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target:  u,
			Kinds:   pointer.Scroll | pointer.Drag | pointer.Press | pointer.Release | pointer.Cancel | pointer.Move,
			ScrollY: pointer.ScrollRange{Min: -10, Max: 10},
		})
		if !ok {
			break
		}

		x, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		switch x.Kind {
		case pointer.Press:
			u.clickPos = x.Position
			u.dragging = true
		case pointer.Scroll:
			at := image.Pt(int(x.Position.X), int(x.Position.Y))
			if x.Scroll.Y < 0 {
				u.pane.ZoomAtPoint(at, 1)
			} else if x.Scroll.Y > 0 {
				u.pane.ZoomAtPoint(at, -1)
			}
		case pointer.Move:
			u.cursor = u.pane.Coordinate(image.Pt(int(x.Position.X), int(x.Position.Y)))
		case pointer.Drag:
			dragDelta = x.Position.Sub(u.clickPos)
		case pointer.Release, pointer.Cancel:
			u.dragging = false
			u.released = true
		}
	}

	if u.dragging {
		if u.released {
			u.lastDrag = dragDelta
			u.released = false
		}
		if dragDelta != u.lastDrag {
			dx := dragDelta.X - u.lastDrag.X
			dy := dragDelta.Y - u.lastDrag.Y
			// Dragging the map right moves the center left.
			u.pane.MoveMap(int(-dx), int(-dy))
			u.lastDrag = dragDelta
		}
	}

	defer clip.Rect{Max: size}.Push(gtx.Ops).Pop()
	event.Op(gtx.Ops, u)

	u.pane.Canvas().(*mapview.GioCanvas).Add(gtx.Ops)
	u.label.layout(gtx.Ops, mapview.FormatCoordinate(u.cursor), size)

	return layout.Dimensions{Size: size}
}

// cursorLabel draws the coordinate readout at the bottom of the window,
// re-rasterizing only when the text changes.
type cursorLabel struct {
	text string
	op   paint.ImageOp
	w, h int
}

func (l *cursorLabel) layout(ops *op.Ops, text string, size image.Point) {
	if text != l.text {
		img := mapview.RenderLabel(text, color.NRGBA{R: 20, G: 20, B: 20, A: 255})
		l.op = paint.NewImageOp(img)
		l.w, l.h = img.Bounds().Dx(), img.Bounds().Dy()
		l.text = text
	}

	at := image.Pt((size.X-l.w)/2, size.Y-l.h-14)
	t := op.Offset(at).Push(ops)
	l.op.Add(ops)
	paint.PaintOp{}.Add(ops)
	t.Pop()
}
