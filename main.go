package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/robmorgan/metronome/config"
	"github.com/robmorgan/metronome/logger"
	"github.com/robmorgan/metronome/practice"
	"github.com/robmorgan/metronome/preset"
	"github.com/robmorgan/metronome/rhythm"
	"github.com/robmorgan/metronome/sink"
	"github.com/sirupsen/logrus"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // register the MIDI driver
	"k8s.io/utils/clock"
)

// options are the command line overrides applied on top of the config file.
type options struct {
	configPath  string
	bpm         int
	timesig     string
	subdivision string
	sound       string
	preset      string
	headless    bool
}

func parseFlags(fs *flag.FlagSet, args []string) (options, error) {
	home, _ := os.UserHomeDir()

	var o options
	fs.StringVar(&o.configPath, "config", filepath.Join(home, ".metronome", "config.yaml"), "path to the YAML config file")
	fs.IntVar(&o.bpm, "bpm", 0, fmt.Sprintf("starting tempo (%d-%d)", rhythm.MinTempo, rhythm.MaxTempo))
	fs.StringVar(&o.timesig, "timesig", "", "time signature, e.g. 7/8")
	fs.StringVar(&o.subdivision, "subdivision", "", "quarter, eighth, triplet or sixteenth")
	fs.StringVar(&o.sound, "sound", "", "click sound, e.g. wood or hihat")
	fs.StringVar(&o.preset, "preset", "", "saved or factory preset to start from")
	fs.BoolVar(&o.headless, "headless", false, "run without the terminal UI")
	if err := fs.Parse(args); err != nil {
		return o, err
	}

	if o.bpm != 0 && rhythm.ClampTempo(o.bpm) != o.bpm {
		return o, fmt.Errorf("tempo %d is not valid, make sure it is between %d and %d", o.bpm, rhythm.MinTempo, rhythm.MaxTempo)
	}
	if o.timesig != "" {
		if _, err := rhythm.ParseTimeSignature(o.timesig); err != nil {
			return o, err
		}
	}
	if o.subdivision != "" {
		if _, ok := rhythm.ParseSubdivision(o.subdivision); !ok {
			return o, fmt.Errorf("unknown subdivision %q", o.subdivision)
		}
	}
	if o.sound != "" && string(rhythm.ParseSound(o.sound)) != o.sound {
		return o, fmt.Errorf("unknown sound %q, choose one of %v", o.sound, rhythm.Sounds())
	}
	return o, nil
}

// apply sets up the metronome from a preset and the flags, in that order.
func (o options) apply(m *rhythm.Metronome, store *preset.Store) error {
	if o.preset != "" {
		p, err := store.Load(o.preset)
		if err != nil {
			return err
		}
		m.ApplyPreset(p)
	}
	if o.bpm != 0 {
		m.SetTempo(o.bpm)
	}
	if o.timesig != "" {
		ts, _ := rhythm.ParseTimeSignature(o.timesig)
		m.SetSignature(ts)
	}
	if o.subdivision != "" {
		s, _ := rhythm.ParseSubdivision(o.subdivision)
		m.SetSubdivision(s)
	}
	if o.sound != "" {
		m.SetSound(rhythm.ParseSound(o.sound))
	}
	return nil
}

func main() {
	opts, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := Run(ctx, opts); err != nil {
		fmt.Fprintln(os.Stderr, "Error running program:", err)
		os.Exit(1)
	}
}

// Run wires the configured outputs to a metronome and hands it to the terminal UI or the headless driver.
func Run(ctx context.Context, opts options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	if err := logger.SetLevel(cfg.LogLevel); err != nil {
		return err
	}

	// the terminal UI owns stdout, so logs go to a file
	if !opts.headless {
		f, err := openLogFile(cfg.LogFile)
		if err != nil {
			return err
		}
		defer f.Close()
		logger.SetOutput(f)
	}

	log := logger.GetProjectLogger()
	log.WithFields(logrus.Fields{"config": opts.configPath, "headless": opts.headless}).Info("Starting metronome")

	wg := sync.WaitGroup{}
	clk := clock.RealClock{}

	// the sinks need the scheduler clock before the metronome exists
	var m *rhythm.Metronome
	now := func() float64 { return m.Now() }

	out := buildOutputs(ctx, &wg, cfg, clk, now)
	defer out.close()

	visual := out.visual
	var light *beatLight
	if opts.headless {
		visual = append(visual, sink.NewLogSink(log, logrus.InfoLevel))
	} else {
		light = newBeatLight(cfg.DMX.AccentColor, cfg.DMX.Color)
		visual = append(visual, light)
	}

	m = rhythm.NewMetronome(clk, out.audio, visual, rhythm.Options{
		LookAhead:    cfg.LookAhead,
		StartOffset:  cfg.StartOffset,
		CatchUpLimit: cfg.CatchUpLimit,
	})

	store := preset.NewStore(cfg.PresetPath, config.FactoryPresets())
	if err := opts.apply(m, store); err != nil {
		return err
	}
	timer := practice.NewTimer(clk)

	if opts.headless {
		err = runHeadless(ctx, clk, m, timer, cfg.DriverFPS, os.Stdout)
	} else {
		_, err = tea.NewProgram(newModel(m, timer, store, light, cfg.DriverFPS), tea.WithAltScreen(), tea.WithContext(ctx)).Run()
		if err == tea.ErrProgramKilled {
			err = nil
		}
	}

	m.Stop()
	cancel()
	wg.Wait()
	log.Info("Shutting down metronome")
	return err
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}
