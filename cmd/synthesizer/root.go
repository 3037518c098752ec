package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/atsiakkas/audio-synthesizer/internal/config"
	"github.com/atsiakkas/audio-synthesizer/internal/playback"
	"github.com/atsiakkas/audio-synthesizer/internal/synth"
	"github.com/atsiakkas/audio-synthesizer/internal/wavio"
)

var errInput = errors.New(`must supply either a phrase or "--fromfile" to synthesize (but not both)`)

func newRootCmd() *cobra.Command {
	var configFile string

	cmd := &cobra.Command{
		Use:   "synthesizer [phrase]",
		Short: "A text-to-speech app that synthesizes speech by diphone concatenation",
		Long: `Synthesizer speaks a phrase, or every sentence of a text file, by joining
recorded diphone waveforms. The result can be played, saved as a WAV file,
or both.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSpeak(cmd, configFile, args)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "path to config file (e.g. configs/synthesizer.yaml)")
	pf.String("diphones", "./diphones", "folder containing diphone wavs")
	pf.String("lexicon", "", "CMU-format pronunciation dictionary (default: builtin table)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")

	f := cmd.Flags()
	f.BoolP("play", "p", false, "play the output audio")
	f.StringP("outfile", "o", "", "save the output audio to a file")
	f.IntP("volume", "v", 100, "volume percentage between 0 and 100")
	f.BoolP("spell", "s", false, "spell the input text instead of pronouncing it normally")
	f.StringP("reverse", "r", "", "speak backwards: words, phones or signal")
	f.StringP("fromfile", "f", "", "synthesize all text in the named file, which can hold multiple sentences")
	f.BoolP("crossfade", "c", false, "cross-fade between diphone units for smoother joins")

	cmd.AddCommand(newServeCmd(&configFile))
	return cmd
}

func runSpeak(cmd *cobra.Command, configFile string, args []string) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	config.SetupLogging(cfg.Logging)

	var phrase string
	if len(args) == 1 {
		phrase = args[0]
	}
	if (phrase == "") == (cfg.Synth.Fromfile == "") {
		return errInput
	}

	ctx := cmd.Context()
	engine, err := newEngine(ctx, cfg, slog.Default())
	if err != nil {
		return err
	}

	var res *synth.Result
	if cfg.Synth.Fromfile != "" {
		data, err := os.ReadFile(cfg.Synth.Fromfile)
		if err != nil {
			return fmt.Errorf("reading %s: %w", cfg.Synth.Fromfile, err)
		}
		res, err = engine.SynthesizeText(ctx, string(data))
		if err != nil {
			return err
		}
	} else {
		res, err = engine.Synthesize(ctx, phrase)
		if err != nil {
			return err
		}
	}

	slog.Info("synthesized",
		"sentences", res.Sentences,
		"units", res.Plan.UnitCount(),
		"samples", res.Audio.Len(),
		"duration", res.Audio.Duration())

	if cfg.Synth.Play {
		if err := playback.NewPlayer().Play(ctx, res.Audio); err != nil {
			return err
		}
	}

	if cfg.Synth.Outfile != "" {
		if err := wavio.WriteFile(cfg.Synth.Outfile, res.Audio); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "synthesized audio saved: %s\n", cfg.Synth.Outfile)
	}
	return nil
}
