//go:build !android

package game

import (
	"fmt"
	"runtime"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/rs/zerolog"

	"remake/internal/app"
	"remake/internal/audio"
	"remake/internal/audio/voice"
	"remake/internal/config"
	"remake/internal/telemetry"
	"remake/internal/vehicle"
)

// RunDesktop drives the car live from the keyboard until the window closes or
// Escape is pressed. Tab switches between tuning presets.
func RunDesktop(cfg *config.Config, sinks []telemetry.Sink, log zerolog.Logger) error {
	runtime.LockOSThread()

	window, err := initWindow("remake")
	if err != nil {
		return err
	}
	defer glfw.Terminate()
	defer window.Destroy()

	var engine audio.Source
	if cfg.Engine.Enabled {
		ctx, err := voice.NewContext()
		if err != nil {
			log.Warn().Err(err).Msg("audio init failed (continuing without sound)")
		} else {
			v := voice.NewEngineVoice(ctx, cfg.Engine.Volume)
			defer v.Close()
			engine = v
		}
	}

	kb := NewKeyboard(window)
	sess, err := app.NewSession(cfg, app.Options{
		Input: kb,
		Voice: engine,
		Sinks: sinks,
		Seed:  uint64(time.Now().UnixNano()),
	}, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := sess.Close(); err != nil {
			log.Error().Err(err).Msg("closing telemetry")
		}
	}()

	preset := cfg.Preset

	budget := time.Second / time.Duration(cfg.Sim.FrameRate)
	titleEvery := 0.25
	titleAcc := 0.0

	last := glfw.GetTime()
	for !window.ShouldClose() {
		frameStart := time.Now()
		now := glfw.GetTime()
		dt := now - last
		last = now

		glfw.PollEvents()
		if window.GetKey(glfw.KeyEscape) == glfw.Press {
			window.SetShouldClose(true)
			continue
		}
		if kb.JustPressed(glfw.KeyTab) {
			name, tun, err := vehicle.NextPreset(preset)
			if err != nil {
				log.Error().Err(err).Msg("switching tuning preset")
			} else {
				preset = name
				sess.Car.Controller.Tuning = tun
				log.Info().Str("preset", preset).Msg("switched tuning preset")
			}
		}

		sess.Scheduler.Advance(dt)

		titleAcc += dt
		if titleAcc >= titleEvery {
			titleAcc = 0
			window.SetTitle(statusLine(sess, preset))
		}

		if sleep := budget - time.Since(frameStart); sleep > 0 {
			time.Sleep(sleep)
		}
	}

	log.Info().Object("summary", sess.Summary).Msg("drive finished")
	return nil
}

func statusLine(sess *app.Session, preset string) string {
	rb := sess.Car.Body()
	skid := ""
	if sess.Car.Skidding() {
		skid = "  SKID"
	}
	return fmt.Sprintf("remake [%s]  %5.1f m/s  %-12s  yaw %4.0f%s",
		preset, rb.Speed(), sess.Car.Mode(), rb.YawDegrees(), skid)
}
