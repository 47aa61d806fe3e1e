package deskbot

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/teslashibe/go-deskbot/pkg/conversation"
	"github.com/teslashibe/go-deskbot/pkg/face"
	"github.com/teslashibe/go-deskbot/pkg/facetrack"
	"github.com/teslashibe/go-deskbot/pkg/speech"
	"github.com/teslashibe/go-deskbot/pkg/tts"
	"github.com/teslashibe/go-deskbot/pkg/web"
)

// fakeVoice scripts Listen results for the voice loop.
type fakeVoice struct {
	mu       sync.Mutex
	script   []string
	wakeWord string
}

func (f *fakeVoice) Listen(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.script) == 0 {
		return "", speech.ErrTimeout
	}
	text := f.script[0]
	f.script = f.script[1:]
	return text, nil
}

func (f *fakeVoice) CheckWakeWord(text string) bool {
	l := speech.NewListener(&speech.MockSource{}, &speech.MockTranscriber{}, f.wakeWord)
	return l.CheckWakeWord(text)
}

func (f *fakeVoice) Close() error { return nil }

// fakeGaze serves a fixed target.
type fakeGaze struct {
	target facetrack.GazeTarget
	ok     bool
}

func (f *fakeGaze) Poll() (facetrack.GazeTarget, bool) { return f.target, f.ok }
func (f *fakeGaze) Close() error                       { return nil }

func testApp(backend conversation.Backend) (*App, *tts.Mock) {
	engine := &tts.Mock{}
	a := &App{
		config: DefaultConfig(),
		face:   face.New(),
		conv:   conversation.New(backend),
		engine: engine,
	}
	a.webServer = web.NewServer("0")
	return a, engine
}

func TestToggleListening(t *testing.T) {
	a, _ := testApp(conversation.NewMock())

	if !a.ToggleListening() {
		t.Fatal("first toggle should enable listening")
	}
	if got := a.face.State().Expression; got != face.ExpressionHappy {
		t.Errorf("expression = %v while listening, want happy", got)
	}
	if st := a.webServer.Status(); !st.Listening || st.StatusText != "Listening..." {
		t.Errorf("status = %+v", st)
	}

	if a.ToggleListening() {
		t.Fatal("second toggle should disable listening")
	}
	if got := a.face.State().Expression; got != face.ExpressionNormal {
		t.Errorf("expression = %v after stopping, want normal", got)
	}
	if st := a.webServer.Status(); st.Listening || st.StatusText != "Not listening" {
		t.Errorf("status = %+v", st)
	}
}

func TestHandleUtterance(t *testing.T) {
	ctx := context.Background()

	t.Run("speaks the reply and restores the face", func(t *testing.T) {
		backend := &conversation.Mock{
			CompleteFunc: func(ctx context.Context, messages []conversation.Message) (*conversation.Reply, error) {
				return &conversation.Reply{
					Message: conversation.NewMessage(conversation.RoleAssistant, "Nice to meet you!"),
				}, nil
			},
		}
		a, engine := testApp(backend)

		var talkedWhileSpeaking bool
		engine.SpeakFunc = func(ctx context.Context, text string) error {
			talkedWhileSpeaking = a.face.State().Expression == face.ExpressionTalking
			return nil
		}

		a.handleUtterance(ctx, "hello")

		spoken := engine.Spoken()
		if len(spoken) != 1 || spoken[0] != "Nice to meet you!" {
			t.Fatalf("spoken = %v", spoken)
		}
		if !talkedWhileSpeaking {
			t.Error("face was not talking during speech")
		}
		if got := a.face.State().Expression; got != face.ExpressionNormal {
			t.Errorf("expression = %v after speech, want normal", got)
		}

		st := a.webServer.Status()
		if st.Speaking {
			t.Error("still marked speaking")
		}
		if st.LastUserMessage != "hello" || st.LastReply != "Nice to meet you!" {
			t.Errorf("status = %+v", st)
		}
	})

	t.Run("speaks the apology when the backend fails", func(t *testing.T) {
		a, engine := testApp(conversation.WithError(errors.New("down")))

		a.handleUtterance(ctx, "hello")

		spoken := engine.Spoken()
		if len(spoken) != 1 || spoken[0] != conversation.ApologyRequestFailed {
			t.Fatalf("spoken = %v, want the apology", spoken)
		}
	})

	t.Run("keeps the happy face while still listening", func(t *testing.T) {
		a, _ := testApp(conversation.NewMock())
		a.listening.Store(true)

		a.handleUtterance(ctx, "hello")

		if got := a.face.State().Expression; got != face.ExpressionHappy {
			t.Errorf("expression = %v, want happy", got)
		}
	})
}

func TestVoiceLoopWakeWordGating(t *testing.T) {
	backend := conversation.NewMock()
	a, engine := testApp(backend)
	a.config.WakeWordEnabled = true
	a.voice = &fakeVoice{
		wakeWord: DefaultWakeWord,
		script:   []string{"what time is it", "hey deskbot what time is it"},
	}
	a.listening.Store(true)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		a.voiceLoop(ctx)
		close(done)
	}()

	deadline := time.Now().Add(2 * time.Second)
	for len(engine.Spoken()) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	// Only the wake-worded utterance reached the backend.
	if got := backend.CallCount("Complete"); got != 1 {
		t.Errorf("backend calls = %d, want 1", got)
	}
}

func TestTrackingLoopAimsEyes(t *testing.T) {
	a, _ := testApp(conversation.NewMock())
	a.gaze = &fakeGaze{target: facetrack.GazeTarget{X: 1, Y: -1}, ok: true}

	ctx, cancel := context.WithCancel(context.Background())
	go a.trackingLoop(ctx)

	// Let the loop set the target, then advance the animation.
	deadline := time.Now().Add(time.Second)
	var state face.State
	for time.Now().Before(deadline) {
		state = a.face.Tick()
		if state.EyeX > 0 && state.EyeY < 0 {
			break
		}
		time.Sleep(time.Millisecond)
	}
	cancel()

	if state.EyeX <= 0 || state.EyeY >= 0 {
		t.Errorf("eyes never moved toward the target: %+v", state)
	}
}

func TestResetConversation(t *testing.T) {
	backend := conversation.NewMock()
	a, _ := testApp(backend)

	a.handleUtterance(context.Background(), "remember this")
	if a.conv.Len() != 3 {
		t.Fatalf("history = %d before reset", a.conv.Len())
	}

	a.ResetConversation()
	if a.conv.Len() != 1 {
		t.Errorf("history = %d after reset, want 1", a.conv.Len())
	}
	if st := a.webServer.Status(); st.StatusText != "Conversation reset" {
		t.Errorf("status text = %q", st.StatusText)
	}
}
