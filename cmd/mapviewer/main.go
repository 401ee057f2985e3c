// Command mapviewer displays a pannable, zoomable slippy map with optional
// GPX track overlays. Tiles come from OpenStreetMap, a local MBTiles file or
// a generated placeholder grid.
package main

import (
	"fmt"
	"image/color"
	"log/slog"
	"os"
	"strings"

	"gioui.org/app"
	"gioui.org/io/key"
	"gioui.org/op"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tkrajina/gpxgo/gpx"

	"github.com/osmgps/gpsmap/geo"
	"github.com/osmgps/gpsmap/gpsmap"
	"github.com/osmgps/gpsmap/tiles"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "mapviewer",
		Short:        "Slippy-map viewer with GPX track overlays",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run()
		},
	}

	flags := cmd.Flags()
	flags.Float64("lat", 51.4772, "initial center latitude")
	flags.Float64("lon", 0.0, "initial center longitude")
	flags.Int("zoom", 12, "initial zoom level")
	flags.String("source", "osm", "tile source: osm, mbtiles or placeholder")
	flags.String("tile-url", "", "tile URL template for the osm source (printf pattern, zoom/x/y)")
	flags.String("mbtiles", "", "path to an MBTiles database for the mbtiles source")
	flags.Bool("watch", false, "reload tiles when the MBTiles file changes")
	flags.String("gpx", "", "GPX file whose tracks are overlaid on the map")
	flags.String("log-level", "info", "log level: debug, info, warn or error")

	viper.SetEnvPrefix("MAPVIEWER")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	cobra.CheckErr(viper.BindPFlags(flags))

	return cmd
}

func newLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(viper.GetString("log-level"))); err != nil {
		level = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func newProvider(log *slog.Logger) (tiles.Provider, func() error, error) {
	switch source := viper.GetString("source"); source {
	case "osm":
		p := tiles.NewOSMProvider(viper.GetString("tile-url"), log)
		return tiles.NewCombined(p, tiles.NewPlaceholderProvider()), nil, nil
	case "mbtiles":
		path := viper.GetString("mbtiles")
		if path == "" {
			return nil, nil, fmt.Errorf("the mbtiles source needs --mbtiles")
		}
		p, err := tiles.OpenMBTiles(path, log)
		if err != nil {
			return nil, nil, err
		}
		if name := p.Metadata("name"); name != "" {
			log.Info("opened tile store", "path", path, "name", name)
		}
		return p, p.Close, nil
	case "placeholder":
		return tiles.NewPlaceholderProvider(), nil, nil
	default:
		return nil, nil, fmt.Errorf("unknown tile source %q", source)
	}
}

func loadGPXTracks(path string, m *gpsmap.Map, log *slog.Logger) error {
	doc, err := gpx.ParseFile(path)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	minLat, maxLat := 90.0, -90.0
	minLon, maxLon := 180.0, -180.0
	total := 0
	for _, trk := range doc.Tracks {
		t := gpsmap.NewTrack()
		t.SetColor(color.NRGBA{R: 220, G: 40, B: 40, A: 200})
		for _, seg := range trk.Segments {
			for _, p := range seg.Points {
				t.AddPoint(geo.PointFromDegrees(p.Latitude, p.Longitude))
				minLat, maxLat = min(minLat, p.Latitude), max(maxLat, p.Latitude)
				minLon, maxLon = min(minLon, p.Longitude), max(maxLon, p.Longitude)
				total++
			}
		}
		if t.Length() > 0 {
			m.AddTrack(t)
		}
	}
	if total == 0 {
		return fmt.Errorf("%s contains no track points", path)
	}

	m.ZoomFitBBox(minLat, maxLat, minLon, maxLon)
	log.Info("loaded gpx", "path", path, "tracks", len(doc.Tracks), "points", total)
	return nil
}

func run() error {
	log := newLogger()
	slog.SetDefault(log)

	provider, closeProvider, err := newProvider(log)
	if err != nil {
		return err
	}
	if closeProvider != nil {
		defer closeProvider()
	}

	manager := tiles.NewManager(provider, log)
	defer manager.Close()

	opts := gpsmap.DefaultOptions()
	opts.Tiles = manager
	opts.Logger = log
	m := gpsmap.New(opts)
	m.AddLayer(gpsmap.NewOSD())
	m.SetCenterAndZoom(viper.GetFloat64("lat"), viper.GetFloat64("lon"), viper.GetInt("zoom"))

	m.SetKeyboardShortcut(gpsmap.KeyZoomIn, "+")
	m.SetKeyboardShortcut(gpsmap.KeyZoomOut, "-")
	m.SetKeyboardShortcut(gpsmap.KeyUp, key.NameUpArrow)
	m.SetKeyboardShortcut(gpsmap.KeyDown, key.NameDownArrow)
	m.SetKeyboardShortcut(gpsmap.KeyLeft, key.NameLeftArrow)
	m.SetKeyboardShortcut(gpsmap.KeyRight, key.NameRightArrow)
	m.SetKeyboardShortcut(gpsmap.KeyFullscreen, "F11")

	if path := viper.GetString("gpx"); path != "" {
		if err := loadGPXTracks(path, m, log); err != nil {
			return err
		}
	}

	if viper.GetBool("watch") && viper.GetString("source") == "mbtiles" {
		watcher, err := tiles.NewWatcher(viper.GetString("mbtiles"), func() {
			manager.Clear()
			m.QueueRedraw()
		}, log)
		if err != nil {
			return err
		}
		defer watcher.Close()
	}

	refresh := make(chan struct{}, 1)
	m.SetInvalidator(func() {
		select {
		case refresh <- struct{}{}:
		default:
		}
	})

	go func() {
		w := new(app.Window)
		w.Option(app.Title("mapviewer"))

		fullscreen := false
		m.OnFullscreen(func() {
			fullscreen = !fullscreen
			if fullscreen {
				w.Option(app.Fullscreen.Option())
			} else {
				w.Option(app.Windowed.Option())
			}
		})

		go func() {
			for range refresh {
				w.Invalidate()
			}
		}()

		var ops op.Ops
		for {
			switch e := w.Event().(type) {
			case app.DestroyEvent:
				m.Close()
				os.Exit(0)
			case app.FrameEvent:
				gtx := app.NewContext(&ops, e)
				m.Layout(gtx)
				e.Frame(gtx.Ops)
			}
		}
	}()
	app.Main()
	return nil
}
