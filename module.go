// Package gifbox is a Viam modular service driving a GIF-playing OLED
// appliance: playlist playback with physical-button navigation and an
// alternate clock mode.
package gifbox

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"go.viam.com/rdk/components/board"
	genericComponent "go.viam.com/rdk/components/generic"
	"go.viam.com/rdk/components/sensor"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/resource"
	"go.viam.com/rdk/services/generic"
	goutils "go.viam.com/utils"

	"gifbox/internal/anim"
	"gifbox/internal/buttons"
	"gifbox/internal/catalog"
	"gifbox/internal/clockface"
	"gifbox/internal/controller"
	"gifbox/internal/display"
	"gifbox/internal/player"
	"gifbox/internal/sysinfo"
	"gifbox/internal/timesync"
)

// Model is the resource model this module serves.
var Model = resource.NewModel("gifbox", "oled", "player")

// Defaults matching the original appliance wiring.
const (
	defaultAssetDir     = "/gifs"
	defaultNextPin      = "12"
	defaultPreviousPin  = "11"
	defaultModePin      = "2"
	defaultInterstitial = "z9loader.gif"
)

func init() {
	resource.RegisterService(generic.API, Model,
		resource.Registration[resource.Resource, *Config]{
			Constructor: newPlayerService,
		},
	)
}

// Config is the service's attribute config.
type Config struct {
	Board          string `json:"board"`
	Display        string `json:"display"`
	AssetDir       string `json:"asset-dir,omitempty"`
	NextPin        string `json:"next-pin,omitempty"`
	PreviousPin    string `json:"previous-pin,omitempty"`
	ModePin        string `json:"mode-pin,omitempty"`
	Interstitial   string `json:"interstitial,omitempty"`
	TimeSensor     string `json:"time-sensor,omitempty"`
	UTCOffsetHours int    `json:"utc-offset-hours,omitempty"`
	AutoStart      *bool  `json:"auto-start,omitempty"`
}

// Validate ensures all parts of the config are valid and important fields exist.
// Returns implicit required (first return) and optional (second return)
// dependencies based on the config.
func (cfg *Config) Validate(path string) ([]string, []string, error) {
	if cfg.Board == "" {
		return nil, nil, errors.Errorf(`expected "board" attribute for %s`, path)
	}
	if cfg.Display == "" {
		return nil, nil, errors.Errorf(`expected "display" attribute for %s`, path)
	}
	var optional []string
	if cfg.TimeSensor != "" {
		optional = append(optional, cfg.TimeSensor)
	}
	return []string{cfg.Board, cfg.Display}, optional, nil
}

func (cfg *Config) assetDir() string {
	if cfg.AssetDir != "" {
		return cfg.AssetDir
	}
	return defaultAssetDir
}

func (cfg *Config) interstitialPath() string {
	if cfg.Interstitial != "" {
		return cfg.Interstitial
	}
	return filepath.Join(cfg.assetDir(), defaultInterstitial)
}

func (cfg *Config) pinNames() (next, prev, mode string) {
	next, prev, mode = cfg.NextPin, cfg.PreviousPin, cfg.ModePin
	if next == "" {
		next = defaultNextPin
	}
	if prev == "" {
		prev = defaultPreviousPin
	}
	if mode == "" {
		mode = defaultModePin
	}
	return next, prev, mode
}

func (cfg *Config) autoStart() bool {
	return cfg.AutoStart == nil || *cfg.AutoStart
}

// pinAdapter narrows board.GPIOPin to the level read the debouncer needs.
type pinAdapter struct {
	pin board.GPIOPin
}

func (p pinAdapter) Get(ctx context.Context) (bool, error) {
	return p.pin.Get(ctx, nil)
}

type playerService struct {
	name   resource.Name
	logger logging.Logger
	clk    clock.Clock

	cancelCtx  context.Context
	cancelFunc func()

	mu   sync.Mutex
	cfg  *Config
	cat  *catalog.Catalog
	deb  *buttons.Debouncer
	wall *timesync.Source
	ctrl *controller.Controller

	loopCancel func()
	loopWg     sync.WaitGroup
}

func newPlayerService(ctx context.Context, deps resource.Dependencies, rawConf resource.Config, logger logging.Logger) (resource.Resource, error) {
	cancelCtx, cancelFunc := context.WithCancel(context.Background())
	s := &playerService{
		name:       rawConf.ResourceName(),
		logger:     logger,
		clk:        clock.New(),
		cancelCtx:  cancelCtx,
		cancelFunc: cancelFunc,
	}
	if err := s.Reconfigure(ctx, deps, rawConf); err != nil {
		cancelFunc()
		return nil, err
	}
	return s, nil
}

func (s *playerService) Name() resource.Name {
	return s.name
}

func (s *playerService) Reconfigure(ctx context.Context, deps resource.Dependencies, conf resource.Config) error {
	config, err := resource.NativeConfig[*Config](conf)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLoopLocked()

	b, err := board.FromDependencies(deps, config.Board)
	if err != nil {
		return errors.Wrapf(err, "unable to get board %v for service", config.Board)
	}
	nextName, prevName, modeName := config.pinNames()
	nextPin, err := b.GPIOPinByName(nextName)
	if err != nil {
		return errors.Wrapf(err, "unable to get next-pin %v", nextName)
	}
	prevPin, err := b.GPIOPinByName(prevName)
	if err != nil {
		return errors.Wrapf(err, "unable to get previous-pin %v", prevName)
	}
	modePin, err := b.GPIOPinByName(modeName)
	if err != nil {
		return errors.Wrapf(err, "unable to get mode-pin %v", modeName)
	}

	dispRes, err := genericComponent.FromDependencies(deps, config.Display)
	if err != nil {
		return errors.Wrapf(err, "unable to get display %v for service", config.Display)
	}
	disp := display.NewViam(dispRes, s.logger)

	cat, err := catalog.Load(config.assetDir())
	if err != nil {
		return err
	}
	if cat.Len() == 0 {
		s.logger.Warnf("no assets in %s; display will idle until files arrive", cat.Dir())
	}

	wall := timesync.New(s.clk, config.UTCOffsetHours, s.logger)
	if config.TimeSensor != "" {
		timeSensor, err := sensor.FromDependencies(deps, config.TimeSensor)
		if err != nil {
			s.logger.Warnw("time sensor unavailable, staying on local time",
				"sensor", config.TimeSensor, "error", err)
		} else {
			wall.SyncFromSensor(ctx, timeSensor)
		}
	}

	deb := buttons.New(s.clk, s.logger,
		pinAdapter{nextPin}, pinAdapter{prevPin}, pinAdapter{modePin})
	sess := player.New(anim.OpenGIF, disp, deb, s.clk, s.logger)
	trans := player.NewInterstitial(anim.OpenGIF, disp, s.clk, s.logger, config.interstitialPath())
	face := clockface.New(disp, wall, s.logger)

	s.cfg = config
	s.cat = cat
	s.deb = deb
	s.wall = wall
	s.ctrl = controller.New(cat, sess, trans, face, deb, disp, s.clk, s.logger)

	if config.autoStart() {
		s.startLoopLocked()
	}
	return nil
}

// startLoopLocked runs the controller loop on a managed goroutine.
// Callers hold s.mu.
func (s *playerService) startLoopLocked() {
	if s.loopCancel != nil {
		return
	}
	loopCtx, cancel := context.WithCancel(s.cancelCtx)
	s.loopCancel = cancel
	ctrl := s.ctrl
	s.loopWg.Add(1)
	goutils.ManagedGo(func() {
		ctrl.Run(loopCtx)
	}, s.loopWg.Done)
}

// stopLoopLocked cancels the loop and waits for it. Callers hold s.mu.
func (s *playerService) stopLoopLocked() {
	if s.loopCancel == nil {
		return
	}
	s.loopCancel()
	s.loopWg.Wait()
	s.loopCancel = nil
	s.loopWg = sync.WaitGroup{}
}

// DoCommand accepts:
//
//	{"state": "start"|"stop"}            run control
//	{"press": "next"|"previous"|"mode"}  remote navigation
//	{"status": true}                     run state + host health
func (s *playerService) DoCommand(ctx context.Context, cmd map[string]any) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if state, ok := cmd["state"]; ok {
		switch state {
		case "start":
			if s.loopCancel != nil {
				return map[string]any{"warning": "already running"}, nil
			}
			s.startLoopLocked()
			return map[string]any{"started": "true"}, nil
		case "stop":
			if s.loopCancel == nil {
				return map[string]any{"warning": "no currently running loop to stop"}, nil
			}
			s.stopLoopLocked()
			return map[string]any{"stopped": "true"}, nil
		default:
			return nil, errors.Errorf("unknown state %v", state)
		}
	}

	if press, ok := cmd["press"]; ok {
		var id buttons.ID
		switch press {
		case "next":
			id = buttons.Next
		case "previous":
			id = buttons.Previous
		case "mode":
			id = buttons.Mode
		default:
			return nil, errors.Errorf("unknown button %v", press)
		}
		return map[string]any{"accepted": s.deb.Inject(id)}, nil
	}

	if _, ok := cmd["status"]; ok {
		return map[string]any{
			"running":   s.loopCancel != nil,
			"mode":      s.ctrl.Mode().String(),
			"index":     s.ctrl.Index(),
			"assets":    s.cat.Len(),
			"wall_time": s.wall.Now().Format(time.RFC3339),
			"system":    sysinfo.Collect().Map(),
		}, nil
	}

	return nil, errors.New("invalid command")
}

func (s *playerService) Close(context.Context) error {
	s.cancelFunc()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopLoopLocked()
	return nil
}
