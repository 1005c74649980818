package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/scott-cotton/cli"

	"github.com/phanxgames/canopy"
)

type MainConfig struct {
	ConfigFile string `cli:"name=config desc='engine configuration file (yaml)'"`
	Color      bool   `cli:"name=color desc='force colored output'"`
	Verbose    bool   `cli:"name=v desc='log engine activity to stderr'"`

	Main *cli.Command
}

// engineConfig loads the -config file over the defaults.
func (cfg *MainConfig) engineConfig() (canopy.Config, error) {
	if cfg.ConfigFile == "" {
		return canopy.DefaultConfig(), nil
	}
	return canopy.LoadConfigFile(cfg.ConfigFile)
}

type DemoConfig struct {
	*MainConfig
	Debug  bool   `cli:"name=debug desc='draw the timing overlay'"`
	Script string `cli:"name=script desc='json script to play against the scene'"`

	Demo *cli.Command
}

type ShotConfig struct {
	*MainConfig
	Script string `cli:"name=script desc='json script to play against the scene'"`
	Frames int    `cli:"name=frames desc='ticks to run when no script is given' default=60"`
	Dir    string `cli:"name=dir desc='screenshot directory (overrides the config)'"`

	Shot *cli.Command
}

type ConfigConfig struct {
	*MainConfig
	Check bool `cli:"name=check desc='only validate and report the result'"`

	Cfg *cli.Command
}

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Main, "canopy").
		WithSynopsis("canopy [opts] command [opts]").
		WithDescription("canopy runs and inspects retained-mode 2D scenes.").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return canopyMain(cfg, cc, args)
		}).
		WithSubs(
			DemoCommand(cfg),
			ShotCommand(cfg),
			ConfigCommand(cfg))
}

func DemoCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &DemoConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Demo, "demo").
		WithAliases("d").
		WithSynopsis("demo [-debug] [-script file]").
		WithDescription("open a window running the demo scene").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return demo(cfg, cc, args)
		})
}

func ShotCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ShotConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Shot, "shot").
		WithAliases("s").
		WithSynopsis("shot [-script file] [-frames n] [-dir path]").
		WithDescription("render the demo scene headlessly and write screenshots").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return shot(cfg, cc, args)
		})
}

func ConfigCommand(mainCfg *MainConfig) *cli.Command {
	cfg := &ConfigConfig{MainConfig: mainCfg}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Cfg, "config").
		WithAliases("c").
		WithSynopsis("config [-check]").
		WithDescription("print the effective engine configuration").
		WithOpts(opts...).
		WithRun(func(cc *cli.Context, args []string) error {
			return config(cfg, cc, args)
		})
}

func canopyMain(cfg *MainConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Main.Parse(cc, args)
	if err != nil {
		return err
	}
	if cfg.Verbose {
		canopy.SetLogger(newLogger(os.Stderr, cfg.Color))
	}
	if len(args) == 0 {
		return cli.ErrNoCommandProvided
	}
	sub := cfg.Main.FindSub(cc, args[0])
	if sub == nil {
		return fmt.Errorf("%w: %q not found", cli.ErrNoSuchCommand, args[0])
	}
	err = sub.Run(cc, args[1:])
	if errors.Is(err, cli.ErrUsage) {
		sub.Usage(cc, err)
		os.Exit(sub.Exit(cc, err))
	}
	return err
}
