// A local harness running the playback core without a robot: frames and
// text land on the console, navigation comes from stdin.
package main

import (
	"bufio"
	"context"
	"flag"
	"image"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/benbjohnson/clock"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
	"go.viam.com/rdk/logging"

	"gifbox/internal/anim"
	"gifbox/internal/buttons"
	"gifbox/internal/catalog"
	"gifbox/internal/clockface"
	"gifbox/internal/controller"
	"gifbox/internal/display"
	"gifbox/internal/player"
	"gifbox/internal/timesync"
)

func main() {
	if err := realMain(); err != nil {
		panic(err)
	}
}

type harnessConfig struct {
	assetDir       string
	interstitial   string
	utcOffsetHours int
}

// loadConfig reads the optional TOML file and applies flag overrides.
func loadConfig(path, assetsOverride string) (harnessConfig, error) {
	cfg := harnessConfig{assetDir: "./gifs"}

	if path != "" {
		k := koanf.New(".")
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return cfg, errors.Wrapf(err, "unable to load config %v", path)
		}
		if v := k.String("assets.dir"); v != "" {
			cfg.assetDir = v
		}
		if v := k.String("assets.interstitial"); v != "" {
			cfg.interstitial = v
		}
		cfg.utcOffsetHours = k.Int("clock.utc-offset-hours")
	}
	if assetsOverride != "" {
		cfg.assetDir = assetsOverride
	}
	if cfg.interstitial == "" {
		cfg.interstitial = filepath.Join(cfg.assetDir, "z9loader.gif")
	}
	return cfg, nil
}

func realMain() error {
	configPath := flag.String("config", "", "optional TOML config file")
	assets := flag.String("assets", "", "asset directory (overrides config)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := logging.NewLogger("cli")

	cfg, err := loadConfig(*configPath, *assets)
	if err != nil {
		return err
	}

	cat, err := catalog.Load(cfg.assetDir)
	if err != nil {
		return err
	}

	clk := clock.New()
	disp := &consoleDisplay{logger: logger}
	wall := timesync.New(clk, cfg.utcOffsetHours, logger)

	// No hardware here: nil pins mean the debouncer only ever sees
	// injected events.
	deb := buttons.New(clk, logger, nil, nil, nil)
	go readKeys(ctx, deb, logger)

	sess := player.New(anim.OpenGIF, disp, deb, clk, logger)
	trans := player.NewInterstitial(anim.OpenGIF, disp, clk, logger, cfg.interstitial)
	face := clockface.New(disp, wall, logger)
	ctrl := controller.New(cat, sess, trans, face, deb, disp, clk, logger)

	logger.Info("controls: n=next, p=previous, m=mode, ctrl-c to quit")
	ctrl.Run(ctx)
	return nil
}

// readKeys turns stdin lines into injected navigation events.
func readKeys(ctx context.Context, deb *buttons.Debouncer, logger logging.Logger) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		var id buttons.ID
		switch scanner.Text() {
		case "n":
			id = buttons.Next
		case "p":
			id = buttons.Previous
		case "m":
			id = buttons.Mode
		default:
			continue
		}
		if !deb.Inject(id) {
			logger.Debugf("dropped %v press, one already pending", id)
		}
	}
}

// consoleDisplay satisfies display.Display by logging what the panel
// would show.
type consoleDisplay struct {
	logger logging.Logger
}

func (d *consoleDisplay) Bounds() image.Rectangle {
	return image.Rect(0, 0, display.Width, display.Height)
}

func (d *consoleDisplay) ShowFrame(_ context.Context, frame image.Image, at image.Point) error {
	b := frame.Bounds()
	d.logger.Debugf("frame %dx%d at (%d,%d)", b.Dx(), b.Dy(), at.X, at.Y)
	return nil
}

func (d *consoleDisplay) ShowText(_ context.Context, text string) error {
	d.logger.Infof("display: %s", text)
	return nil
}

func (d *consoleDisplay) ShowClock(context.Context) error {
	d.logger.Info("display: clock layout")
	return nil
}

func (d *consoleDisplay) UpdateClock(_ context.Context, timeText, dateText string) error {
	d.logger.Infof("clock: %s %s", timeText, dateText)
	return nil
}
