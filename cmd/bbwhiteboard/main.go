// Command bbwhiteboard renders a BigBlueButton recording's events.xml and
// presentation assets into a Matroska video (spec.md §6, §8).
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/lmittmann/tint"

	gg "github.com/bigbluebutton/bbwhiteboard"
	"github.com/bigbluebutton/bbwhiteboard/encoder"
	"github.com/bigbluebutton/bbwhiteboard/event"
	"github.com/bigbluebutton/bbwhiteboard/event/parse"
	"github.com/bigbluebutton/bbwhiteboard/fontsetup"
	_ "github.com/bigbluebutton/bbwhiteboard/raster" // CPU tile rasterization for complex tldraw paths; no GPU backend (spec.md §8 invariant 7 determinism)
	"github.com/bigbluebutton/bbwhiteboard/scheduler"
)

// ratVar is a flag.Value wrapping an optional *big.Rat, following
// record-videos/main.go's styleVar pattern for a custom flag type.
type ratVar struct {
	r *big.Rat
}

func (v *ratVar) Set(s string) error {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return fmt.Errorf("invalid rational %q", s)
	}
	*v.r = *r
	return nil
}

func (v *ratVar) String() string {
	if v.r == nil {
		return ""
	}
	return v.r.RatString()
}

// optionalRatVar is like ratVar but leaves its target nil until Set is
// called, for -start/-end which default to "whole recording".
type optionalRatVar struct {
	r **big.Rat
}

func (v *optionalRatVar) Set(s string) error {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return fmt.Errorf("invalid rational %q", s)
	}
	*v.r = r
	return nil
}

func (v *optionalRatVar) String() string {
	if v.r == nil || *v.r == nil {
		return ""
	}
	return (*v.r).RatString()
}

func mainImpl() error {
	var level slog.LevelVar
	level.Set(slog.LevelInfo)
	gg.SetLogger(slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      &level,
		TimeFormat: time.TimeOnly,
	})))

	width := flag.Int("width", 1280, "output video width in pixels")
	height := flag.Int("height", 720, "output video height in pixels")
	framerate := big.NewRat(24000, 1001)
	flag.Var(&ratVar{framerate}, "framerate", "output framerate, as a rational (e.g. 24000/1001 or 30)")
	codec := flag.String("codec", "h264", "video codec: h264 or vp9")
	input := flag.String("input", "", "recording directory (contains events.xml and presentation/)")
	output := flag.String("output", "", "output .mkv path")
	var start, end *big.Rat
	flag.Var(&optionalRatVar{&start}, "start", "clip start time in seconds (default: recording start)")
	flag.Var(&optionalRatVar{&end}, "end", "clip end time in seconds (default: recording end)")
	pod := flag.String("pod", event.DefaultPod, "presentation pod id to follow")
	fontsDir := flag.String("fonts", "", "directory of bundled font files (spec.md's Fonts setup)")
	logoPath := flag.String("logo", "", "fallback logo image shown when no presentation is active")
	verbose := flag.Bool("v", false, "enable debug logging")
	flag.Parse()

	if flag.NArg() != 0 {
		return errors.New("unexpected argument")
	}
	if *verbose {
		level.Set(slog.LevelDebug)
	}
	if *input == "" {
		return errors.New("-input is required")
	}
	if *output == "" {
		return errors.New("-output is required")
	}

	var codecKind encoder.Codec
	switch *codec {
	case "h264":
		codecKind = encoder.H264
	case "vp9":
		codecKind = encoder.VP9
	default:
		return fmt.Errorf("-codec must be h264 or vp9, got %q", *codec)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	fonts := fontsetup.New()
	if *fontsDir != "" {
		if err := fonts.Register(*fontsDir); err != nil {
			gg.Logger().Warn("font registration failed", "dir", *fontsDir, "error", err)
		}
	}

	result, err := parse.File(filepath.Join(*input, "events.xml"))
	if err != nil {
		return fmt.Errorf("bbwhiteboard: %w", err)
	}
	if result.Length == nil {
		return errors.New("bbwhiteboard: recording length undeterminable")
	}

	enc, err := encoder.New(ctx, encoder.Config{
		Output:    *output,
		Width:     *width,
		Height:    *height,
		Framerate: framerate,
		Codec:     codecKind,
	})
	if err != nil {
		return fmt.Errorf("bbwhiteboard: %w", err)
	}

	sched, err := scheduler.New(scheduler.Config{
		Events:           result.Events,
		Length:           result.Length,
		StartTime:        start,
		EndTime:          end,
		Framerate:        framerate,
		Width:            *width,
		Height:           *height,
		PodID:            *pod,
		HideLogo:         result.HideLogo,
		TldrawWhiteboard: result.TldrawWhiteboard,
		PresentationDir:  filepath.Join(*input, "presentation"),
		LogoPath:         *logoPath,
		Fonts:            fonts,
		Sink:             enc,
	})
	if err != nil {
		return fmt.Errorf("bbwhiteboard: %w", err)
	}

	runErr := sched.Run()
	closeErr := enc.Close()
	if runErr != nil {
		return fmt.Errorf("bbwhiteboard: %w", runErr)
	}
	if closeErr != nil {
		return fmt.Errorf("bbwhiteboard: %w", closeErr)
	}
	return nil
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "bbwhiteboard: %s\n", err.Error())
		os.Exit(1)
	}
}
