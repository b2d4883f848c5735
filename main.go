package main

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"

	"github.com/GiGurra/boa/pkg/boa"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/gopxl/beep"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"arbor/internal/audio"
	"arbor/internal/config"
	"arbor/internal/library"
	"arbor/internal/logging"
	"arbor/internal/playback"
)

type Params struct {
	LibraryDir string `pos:"true" optional:"true" help:"Music directory to browse (overrides the configured library)"`
	Config     string `short:"c" optional:"true" help:"Path to the config file (default ~/.arbor/config.json)"`
	LogFile    string `optional:"true" help:"Path to the log file (default ~/.arbor/debug.log)"`
	Debug      bool   `optional:"true" help:"Log at debug level"`
	SampleRate int    `optional:"true" help:"Output sample rate in Hz" default:"44100"`
}

func main() {
	boa.CmdT[Params]{
		Use:         "arbor [library-dir]",
		Short:       "Terminal music player that plays a directory tree in order",
		Version:     appVersion(),
		ParamEnrich: boa.ParamEnricherCombine(boa.ParamEnricherBool, boa.ParamEnricherName, boa.ParamEnricherShort),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := run(params); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		},
	}.Run()
}

func run(params *Params) error {
	dir, err := config.Dir()
	if err != nil {
		return err
	}

	logPath := params.LogFile
	if logPath == "" {
		logPath = filepath.Join(dir, logging.FileName)
	}
	logFile, err := logging.Setup(logPath, params.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: logging disabled: %v\n", err)
		logging.Discard()
	} else {
		defer logFile.Close()
	}

	cfgPath := params.Config
	if cfgPath == "" {
		cfgPath = filepath.Join(dir, config.FileName)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	if params.LibraryDir != "" {
		if abs, err := filepath.Abs(params.LibraryDir); err == nil {
			cfg.LibraryRoot = abs
		} else {
			cfg.LibraryRoot = params.LibraryDir
		}
	}
	log.Info().Str("root", cfg.LibraryRoot).Str("config", cfgPath).Msg("Starting")

	var opts []audio.Option
	if params.SampleRate > 0 {
		opts = append(opts, audio.WithSampleRate(beep.SampleRate(params.SampleRate)))
	}
	engine := audio.NewEngine(opts...)
	defer engine.Close()

	session := playback.NewSession(engine, nil,
		playback.WithVolume(cfg.Volume),
		playback.WithRepeat(cfg.Repeat),
	)
	defer session.Close()

	if cfg.LastPlayed != "" {
		if err := session.Open(cfg.LastPlayed); err != nil {
			log.Warn().Err(err).Str("track", cfg.LastPlayed).Msg("Could not restore last track")
		}
	}

	scanner := library.NewScanner(library.WithExtensions(cfg.Extensions...))
	m := newModel(cfg, session, scanner, loadThemes(filepath.Join(dir, "themes")))

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("terminal UI failed: %w", err)
	}

	if fm, ok := final.(model); ok {
		m = fm
	}
	m.shutdown()
	if err := config.Save(cfgPath, m.settingsToSave()); err != nil {
		log.Warn().Err(err).Str("config", cfgPath).Msg("Failed to save config")
		return err
	}
	return nil
}

func appVersion() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	return bi.Main.Version
}
