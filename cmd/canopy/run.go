package main

import (
	"fmt"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/phanxgames/canopy"
)

// maxShotTicks bounds headless runs of scripts that never finish.
const maxShotTicks = 100000

func loadScript(path string) (*canopy.Script, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return canopy.LoadScript(data)
}

func demo(cfg *DemoConfig, cc *cli.Context, args []string) error {
	if _, err := cfg.Demo.Parse(cc, args); err != nil {
		return err
	}
	ecfg, err := cfg.engineConfig()
	if err != nil {
		return err
	}
	if cfg.Debug {
		ecfg.Debug = true
	}
	script, err := loadScript(cfg.Script)
	if err != nil {
		return err
	}
	return canopy.Run(ecfg, func(e *canopy.Engine) error {
		if script != nil {
			e.SetScript(script)
		}
		return buildScene(e)
	})
}

func shot(cfg *ShotConfig, cc *cli.Context, args []string) error {
	if _, err := cfg.Shot.Parse(cc, args); err != nil {
		return err
	}
	if cfg.Frames <= 0 {
		return fmt.Errorf("%w: -frames must be positive", cli.ErrUsage)
	}
	ecfg, err := cfg.engineConfig()
	if err != nil {
		return err
	}
	if cfg.Dir != "" {
		ecfg.ScreenshotDir = cfg.Dir
	}
	script, err := loadScript(cfg.Script)
	if err != nil {
		return err
	}

	clock := canopy.NewManualClock(0)
	canopy.SetDefaultClock(clock)
	defer canopy.SetDefaultClock(nil)

	e, err := canopy.New(ecfg, nil)
	if err != nil {
		return err
	}
	defer e.Shutdown()
	if err := buildScene(e); err != nil {
		return err
	}

	// Slightly more than one interval so every Frame ticks.
	step := 1000/float64(ecfg.FrameRate) + 0.01
	if script != nil {
		e.SetScript(script)
		for n := 0; !script.Done(); n++ {
			if n == maxShotTicks {
				return fmt.Errorf("script did not finish after %d ticks", n)
			}
			e.Frame(clock.Advance(step))
		}
	} else {
		for range cfg.Frames - 1 {
			e.Frame(clock.Advance(step))
		}
		e.Screenshot("final")
		e.Frame(clock.Advance(step))
	}

	p := newPalette(cc.Out, cfg.Color)
	shots := e.Screenshots()
	if len(shots) == 0 {
		fmt.Fprintln(cc.Out, p.dim.Sprint("no screenshots written"))
	}
	for _, path := range shots {
		fmt.Fprintf(cc.Out, "%s %s\n", p.ok.Sprint("wrote"), path)
	}
	fmt.Fprintln(cc.Out, p.dim.Sprintf("%d ticks, %s", e.Ticks(), e.Overlay()))
	return nil
}

func config(cfg *ConfigConfig, cc *cli.Context, args []string) error {
	if _, err := cfg.Cfg.Parse(cc, args); err != nil {
		return err
	}
	p := newPalette(cc.Out, cfg.Color)
	name := cfg.ConfigFile
	if name == "" {
		name = "defaults"
	}
	ecfg, err := cfg.engineConfig()
	if err != nil {
		fmt.Fprintf(cc.Out, "%s %s\n", p.key.Sprint(name+":"), p.fail.Sprint(err))
		return err
	}
	if cfg.Check {
		fmt.Fprintf(cc.Out, "%s %s\n", p.key.Sprint(name+":"), p.ok.Sprint("ok"))
		return nil
	}
	data, err := ecfg.Marshal()
	if err != nil {
		return err
	}
	fmt.Fprintln(cc.Out, p.dim.Sprintf("# effective configuration (%s)", name))
	_, err = cc.Out.Write(data)
	return err
}
