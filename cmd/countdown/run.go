package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ensigniasec/countdown/internal/config"
	"github.com/ensigniasec/countdown/internal/engine"
	"github.com/ensigniasec/countdown/internal/notify"
	"github.com/ensigniasec/countdown/internal/sound"
	"github.com/ensigniasec/countdown/internal/storage"
	"github.com/ensigniasec/countdown/internal/tui"
)

//nolint:gochecknoglobals // Cobra requires package-level vars for flag bindings in current structure.
var (
	durationFlag string
	hoursFlag    int
	minutesFlag  int
	secondsFlag  int
	onZeroFlag   string
	noSound      bool
	noNotify     bool
	plainMode    bool
	startNow     bool
)

func registerRunFlags() {
	f := runCmd.Flags()
	f.StringVarP(&durationFlag, "duration", "d", "", "Countdown length as MM:SS or HH:MM:SS")
	f.IntVar(&hoursFlag, "hours", 0, "Countdown hours (0-23)")
	f.IntVar(&minutesFlag, "minutes", 0, "Countdown minutes (0-59)")
	f.IntVar(&secondsFlag, "seconds", 0, "Countdown seconds (0-59)")
	f.StringVar(&onZeroFlag, "on-zero", "", "What to do at zero: stop, restart or stopwatch")
	f.BoolVar(&noSound, "no-sound", false, "Disable tick and alarm sounds")
	f.BoolVar(&noNotify, "no-notify", false, "Disable desktop notifications")
	f.BoolVar(&plainMode, "plain", false, "Print one line per update instead of the interactive TUI")
	f.BoolVar(&startNow, "start", false, "Start counting immediately (always on with --plain)")
	runCmd.MarkFlagsMutuallyExclusive("duration", "hours")
	runCmd.MarkFlagsMutuallyExclusive("duration", "minutes")
	runCmd.MarkFlagsMutuallyExclusive("duration", "seconds")
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a countdown [Defaults to the last used duration]",
	Long:  "Run a countdown in the interactive TUI, or as plain line output with --plain. Without duration flags the last chosen duration is used, then the settings file.",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, cfgPath := loadConfig()

		st, err := storage.NewOrExistingStorage(stateFile)
		if err != nil {
			logrus.Fatalf("Unable to open or create state file: %v", err)
		}

		total, explicit, err := chooseDuration(cmd, cfg, st.LastDuration())
		if err != nil {
			logrus.Fatal(err)
		}
		if explicit {
			if err := st.SetLastDuration(total); err != nil {
				logrus.Debugf("failed to remember duration: %v", err)
			}
		}
		policy := cfg.Policy()
		if onZeroFlag != "" {
			if policy, err = engine.ParsePolicy(onZeroFlag); err != nil {
				logrus.Fatal(err)
			}
		}

		audio, closeAudio := newAudio(cfg)
		defer closeAudio()

		var display engine.Display
		var sink *tui.Sink
		if plainMode {
			display = plainDisplay{w: os.Stdout}
		} else {
			sink = tui.NewSink()
			display = sink
		}

		h, m, s := engine.Split(total)
		eng := engine.New(
			engine.WithDisplay(display),
			engine.WithAudio(audio),
			engine.WithNotifier(newNotifier(cfg)),
			engine.WithPolicy(policy),
			engine.WithDuration(h, m, s),
			engine.WithBuzzerDuration(cfg.BuzzerDuration),
		)
		defer eng.Close()

		eng.OnComplete(func(s engine.State) {
			if _, err := st.Record(s.TotalSeconds, string(s.Policy)); err != nil {
				logrus.Debugf("failed to record completion: %v", err)
			}
		})

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		policies := make(chan engine.OnZeroPolicy, 1)
		go watchPolicy(ctx, cfgPath, policies)

		if plainMode {
			runPlain(ctx, eng, policies, plainWait(cfg))
			return
		}

		err = tui.Run(ctx, eng, sink, tui.Options{
			StartImmediately: startNow,
			Policies:         policies,
			OnConfigure: func(totalSeconds int) {
				if err := st.SetLastDuration(totalSeconds); err != nil {
					logrus.Debugf("failed to remember duration: %v", err)
				}
			},
		})
		if err != nil {
			logrus.Fatalf("TUI mode failed: %v", err)
		}
	},
}

// chooseDuration picks the countdown length: --duration, then the
// --hours/--minutes/--seconds trio, then the last explicitly chosen duration,
// then the settings file. explicit reports whether flags chose it.
func chooseDuration(cmd *cobra.Command, cfg *config.Config, last int) (total int, explicit bool, err error) {
	flags := cmd.Flags()
	switch {
	case flags.Changed("duration"):
		total, err = engine.ParseClock(durationFlag)
		if err != nil {
			return 0, false, fmt.Errorf("invalid --duration: %w", err)
		}
		return clampTotal(total), true, nil
	case flags.Changed("hours") || flags.Changed("minutes") || flags.Changed("seconds"):
		h, m, s := engine.Clamp(hoursFlag, minutesFlag, secondsFlag)
		return h*3600 + m*60 + s, true, nil
	case last > 0:
		return last, false, nil
	default:
		return cfg.TotalSeconds(), false, nil
	}
}

// clampTotal keeps a parsed duration within the configurable range.
func clampTotal(total int) int {
	h, m, s := engine.Clamp(engine.Split(total))
	return h*3600 + m*60 + s
}

// newAudio returns the audio backend and a function releasing it. Without an
// audio device the system bell stands in for the alarm.
func newAudio(cfg *config.Config) (engine.Audio, func()) {
	if noSound || (!cfg.Sound.Tick && !cfg.Sound.Completion) {
		return sound.Silent{}, func() {}
	}
	player, err := sound.NewPlayer(sound.Options{
		Tick:       cfg.Sound.Tick,
		Completion: cfg.Sound.Completion,
		Volume:     cfg.Sound.Volume,
	})
	if err != nil {
		if errors.Is(err, sound.ErrAudioUnavailable) {
			logrus.Debugf("falling back to the terminal bell: %v", err)
		} else {
			logrus.Warnf("audio init failed: %v", err)
		}
		return sound.Bell{Enabled: cfg.Sound.Completion}, func() {}
	}
	return player, func() {
		if err := player.Close(); err != nil {
			logrus.Debugf("closing audio: %v", err)
		}
	}
}

func newNotifier(cfg *config.Config) engine.Notifier {
	if noNotify || !cfg.Notifications {
		return notify.Disabled{}
	}
	return notify.NewDesktop("")
}

// watchPolicy forwards on-zero policy changes from the settings file until
// ctx is done. A missing settings directory just disables live reload.
func watchPolicy(ctx context.Context, path string, out chan<- engine.OnZeroPolicy) {
	err := config.Watch(ctx, path, func(c *config.Config) {
		select {
		case out <- c.Policy():
		default:
			// Drop a stale pending change in favour of this one.
			select {
			case <-out:
			default:
			}
			out <- c.Policy()
		}
	})
	if err != nil {
		logrus.Debugf("config live reload disabled: %v", err)
	}
}

// plainWait is how long plain mode lingers after a final completion so the
// alarm can finish.
func plainWait(cfg *config.Config) time.Duration {
	if noSound || !cfg.Sound.Completion {
		return 0
	}
	return cfg.BuzzerDuration
}

// runPlain starts the timer and blocks until a completion under the stop
// policy (plus linger) or until ctx is done.
func runPlain(ctx context.Context, eng *engine.Engine, policies <-chan engine.OnZeroPolicy, linger time.Duration) {
	done := make(chan struct{}, 1)
	eng.OnComplete(func(s engine.State) {
		if s.Policy == engine.PolicyStop {
			select {
			case done <- struct{}{}:
			default:
			}
		}
	})
	eng.Start()

	for {
		select {
		case <-ctx.Done():
			return
		case p := <-policies:
			eng.SetPolicy(p)
		case <-done:
			if linger > 0 {
				select {
				case <-ctx.Done():
				case <-time.After(linger):
				}
			}
			return
		}
	}
}

// plainDisplay prints one line per refresh.
type plainDisplay struct {
	w io.Writer
}

func (p plainDisplay) Render(v engine.View) {
	fmt.Fprintf(p.w, "%s %s\n", v.Text, plainStatus(v))
}

func plainStatus(v engine.View) string {
	switch {
	case v.CountingUp:
		return "stopwatch"
	case v.Completed && !v.Running:
		return "completed"
	case v.Running:
		return "running"
	default:
		return "paused"
	}
}
