package deskbot

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/teslashibe/go-deskbot/internal/log"
	"github.com/teslashibe/go-deskbot/pkg/conversation"
	"github.com/teslashibe/go-deskbot/pkg/face"
	"github.com/teslashibe/go-deskbot/pkg/facetrack"
	"github.com/teslashibe/go-deskbot/pkg/speech"
	"github.com/teslashibe/go-deskbot/pkg/tts"
	"github.com/teslashibe/go-deskbot/pkg/web"
)

// gazeSource reports where the user's face is.
type gazeSource interface {
	Poll() (facetrack.GazeTarget, bool)
	Close() error
}

// voiceInput captures one utterance of speech as text.
type voiceInput interface {
	Listen(ctx context.Context) (string, error)
	CheckWakeWord(text string) bool
	Close() error
}

// App is the main Deskbot application orchestrator.
// It manages all components and their lifecycle.
type App struct {
	config Config

	face      *face.Face
	gaze      gazeSource
	voice     voiceInput
	conv      *conversation.Conversation
	engine    tts.Engine
	webServer *web.Server

	listening atomic.Bool
	speaking  atomic.Bool

	// stop ends Run; set when Run starts.
	stop context.CancelFunc
}

// New creates a new Deskbot application with the given configuration.
func New(cfg Config) (*App, error) {
	// Apply environment overrides
	cfg.LoadEnvConfig()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &App{config: cfg}, nil
}

// Init initializes all components. Optional features degrade with a
// warning instead of failing; only the web server is load-bearing.
// Call this after New() and before Run().
func (a *App) Init() error {
	fmt.Println("🤖 Deskbot - Desktop Companion")
	fmt.Println("==============================")
	if a.config.Debug {
		fmt.Println("🐛 Debug mode enabled")
	}

	a.face = face.New()

	// Chat backend
	fmt.Print("🧠 Connecting chat backend... ")
	if a.config.OpenAIKey != "" {
		backend, err := conversation.NewClient(
			conversation.WithAPIKey(a.config.OpenAIKey),
		)
		if err != nil {
			return fmt.Errorf("chat backend: %w", err)
		}
		a.conv = conversation.New(backend)
		fmt.Println("✅")
	} else {
		a.conv = conversation.New(nil)
		fmt.Println("⚠️  no OPENAI_API_KEY, replies disabled")
	}

	// Speech output
	fmt.Print("🔊 Finding speech synthesizer... ")
	a.engine = tts.NewEngine(tts.DefaultConfig())
	if a.engine.Available() {
		fmt.Println("✅")
	} else {
		fmt.Println("⚠️  none installed, replies will be logged")
	}

	// Voice input
	if a.config.VoiceEnabled {
		fmt.Print("🎤 Opening microphone... ")
		if err := a.initVoice(); err != nil {
			a.config.VoiceEnabled = false
			fmt.Printf("⚠️  %v\n", err)
		} else {
			fmt.Println("✅")
		}
	}

	// Face tracking
	if a.config.FaceTrackingEnabled {
		fmt.Print("👀 Opening webcam... ")
		if err := a.initTracking(); err != nil {
			a.config.FaceTrackingEnabled = false
			fmt.Printf("⚠️  %v\n", err)
		} else {
			fmt.Println("✅")
		}
	}

	a.initWeb()
	return nil
}

// initVoice wires the microphone to a cloud recognizer. Google is
// preferred when its key is present, matching the recognizer the
// companion has always used; Whisper is the fallback.
func (a *App) initVoice() error {
	recorder, err := speech.NewRecorder(speech.DefaultRecorderConfig())
	if err != nil {
		return err
	}

	var transcriber speech.Transcriber
	switch {
	case a.config.GoogleAPIKey != "":
		transcriber, err = speech.NewGoogle(context.Background(), a.config.GoogleAPIKey)
	case a.config.OpenAIKey != "":
		transcriber, err = speech.NewWhisper(a.config.OpenAIKey)
	default:
		err = speech.ErrNotConfigured
	}
	if err != nil {
		recorder.Close()
		return err
	}

	if err := recorder.Calibrate(); err != nil {
		log.Warn("noise calibration failed", "error", err)
	}

	a.voice = speech.NewListener(recorder, transcriber, a.config.WakeWord)
	return nil
}

// initTracking opens the webcam and the face detector.
func (a *App) initTracking() error {
	cfg := facetrack.DefaultConfig()
	cfg.DeviceID = a.config.CameraDevice
	cfg.CascadePath = a.config.CascadePath

	locator, err := facetrack.NewLocator(cfg)
	if err != nil {
		return err
	}
	a.gaze = locator
	return nil
}

// initWeb builds the face server and wires its controls.
func (a *App) initWeb() {
	a.webServer = web.NewServer(a.config.Port)
	a.webServer.OnResetConversation = a.ResetConversation
	a.webServer.OnQuit = a.Quit
	if a.config.VoiceEnabled {
		a.webServer.OnToggleListening = a.ToggleListening
	}

	a.webServer.UpdateStatus(func(s *web.Status) {
		s.VoiceEnabled = a.config.VoiceEnabled
		s.FaceTracking = a.config.FaceTrackingEnabled
		s.TTSAvailable = a.engine.Available()
		s.StatusText = "Ready"
	})
}

// Run starts the main loops and blocks until the context is canceled
// or Quit is called.
func (a *App) Run(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.stop = cancel

	fmt.Printf("\n🖥️  Face at http://localhost:%s (Ctrl+C to exit)\n", a.config.Port)

	webErr := make(chan error, 1)
	go func() {
		if err := a.webServer.Start(runCtx); err != nil {
			webErr <- err
		}
	}()

	go a.voiceLoop(runCtx)
	go a.trackingLoop(runCtx)
	go a.animationLoop(runCtx)

	select {
	case <-runCtx.Done():
		return nil
	case err := <-webErr:
		return fmt.Errorf("web server: %w", err)
	}
}

// animationLoop advances the face at ~50 fps and streams each frame
// to the browsers watching it.
func (a *App) animationLoop(ctx context.Context) {
	ticker := time.NewTicker(AnimationTick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.webServer.BroadcastFrame(a.face.Tick())
		}
	}
}

// trackingLoop polls the webcam and aims the eyes at the user.
func (a *App) trackingLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if !a.config.FaceTrackingEnabled || a.gaze == nil {
			sleep(ctx, IdleSleep)
			continue
		}

		if target, ok := a.gaze.Poll(); ok {
			a.face.SetTarget(target.X, target.Y)
		}
	}
}

// voiceLoop waits for toggled-on listening and handles one utterance
// at a time: hear, think, speak.
func (a *App) voiceLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if !a.config.VoiceEnabled || a.voice == nil || !a.listening.Load() {
			sleep(ctx, IdleSleep)
			continue
		}

		text, err := a.voice.Listen(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			// Silence and mumbling are routine, not failures.
			if errors.Is(err, speech.ErrTimeout) || errors.Is(err, speech.ErrNoSpeech) {
				log.Debug("nothing heard", "reason", err)
				continue
			}
			log.Error("voice recognition failed", "error", err)
			a.setStatus(fmt.Sprintf("Error: %v", err))
			continue
		}

		if a.config.WakeWordEnabled && !a.voice.CheckWakeWord(text) {
			log.Debug("no wake word, ignoring", "text", text)
			continue
		}

		a.handleUtterance(ctx, text)
	}
}

// handleUtterance runs one hear-think-speak exchange. A panic in the
// exchange must not kill the voice loop; it is logged and surfaced on
// the status line instead.
func (a *App) handleUtterance(ctx context.Context, text string) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("utterance handler panicked", "panic", r)
			a.speaking.Store(false)
			a.setStatus(fmt.Sprintf("Error: %v", r))
		}
	}()

	log.Info("heard", "text", text)
	a.webServer.UpdateStatus(func(s *web.Status) {
		s.StatusText = "Heard: " + text
		s.LastUserMessage = text
	})

	reply, err := a.conv.Respond(ctx, text)
	if err != nil {
		// The reply is still speakable: it carries the apology.
		log.Error("respond failed", "error", err)
	}

	a.webServer.UpdateStatus(func(s *web.Status) {
		s.Speaking = true
		s.LastReply = reply
	})
	a.face.SetExpression(face.ExpressionTalking)
	a.speaking.Store(true)

	if err := a.engine.Speak(ctx, reply); err != nil {
		log.Error("speech output failed", "error", err)
	}

	a.speaking.Store(false)
	a.face.SetExpression(a.restingExpression())
	a.webServer.UpdateStatus(func(s *web.Status) {
		s.Speaking = false
		s.StatusText = a.statusText()
	})
}

// ToggleListening flips voice capture and returns the new state.
func (a *App) ToggleListening() bool {
	listening := !a.listening.Load()
	a.listening.Store(listening)

	a.face.SetExpression(a.restingExpression())
	a.webServer.UpdateStatus(func(s *web.Status) {
		s.Listening = listening
		s.StatusText = a.statusText()
	})

	log.Info("listening toggled", "listening", listening)
	return listening
}

// ResetConversation clears the chat history.
func (a *App) ResetConversation() {
	a.conv.Reset()
	a.setStatus("Conversation reset")
}

// Quit ends Run.
func (a *App) Quit() {
	if a.stop != nil {
		a.stop()
	}
}

// Shutdown gracefully shuts down all components.
func (a *App) Shutdown() {
	fmt.Println("\n👋 Goodbye!")

	if a.webServer != nil {
		a.webServer.Shutdown()
	}
	if a.gaze != nil {
		a.gaze.Close()
	}
	if a.voice != nil {
		a.voice.Close()
	}
	if a.engine != nil {
		a.engine.Close()
	}
}

// restingExpression is what the face shows when not talking: happy
// while listening, a plain smile otherwise.
func (a *App) restingExpression() face.Expression {
	if a.listening.Load() {
		return face.ExpressionHappy
	}
	return face.ExpressionNormal
}

func (a *App) statusText() string {
	if a.listening.Load() {
		return "Listening..."
	}
	return "Not listening"
}

func (a *App) setStatus(text string) {
	a.webServer.UpdateStatus(func(s *web.Status) {
		s.StatusText = text
	})
}

// sleep naps for d or until the context ends.
func sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
