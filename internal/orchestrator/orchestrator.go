// Package orchestrator runs the voice/text interaction state machine.
//
// One goroutine owns all mutable session state: the session language, the
// bound capture strategy, the live capture, and the conversation log.
// Every public operation and every capture event is a message delivered to
// that goroutine, mirroring a single-threaded event loop: operations may be
// in flight awaiting I/O, but never execute concurrently.
package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"strings"
	"sync/atomic"

	"github.com/dmaraujo/converso/internal/assist"
	"github.com/dmaraujo/converso/internal/audio"
	"github.com/dmaraujo/converso/internal/capture"
	"github.com/dmaraujo/converso/internal/capture/recognizer"
	"github.com/dmaraujo/converso/internal/capture/recorder"
	"github.com/dmaraujo/converso/internal/conversation"
	"github.com/dmaraujo/converso/internal/i18n"
)

// Pipeline is the remote assistant surface the orchestrator drives.
// *assist.Client implements it; tests substitute fakes.
type Pipeline interface {
	SubmitText(ctx context.Context, text, lang string) (*assist.Envelope, error)
	SubmitAudio(ctx context.Context, payload []byte, mime, lang string) (*assist.Envelope, error)
	SubmitFeedback(ctx context.Context, fb assist.Feedback) error
	FetchAudio(ctx context.Context, ref string) ([]byte, string, error)
}

// phase is the orchestrator's coarse interaction state.
type phase int

const (
	phaseIdle phase = iota
	phaseListening
	phaseProcessing
)

// Options configures an Orchestrator.
type Options struct {
	Pipeline Pipeline
	Log      *conversation.Log
	Selector *capture.Selector
	Player   audio.Player
	Language i18n.Language
	// FeedbackUser is the identity attached to feedback submissions.
	FeedbackUser string
}

// Orchestrator coordinates capture, upload, conversation state, and
// language switches for one client instance.
type Orchestrator struct {
	pipeline Pipeline
	log      *conversation.Log
	selector *capture.Selector
	player   audio.Player
	user     string

	events  chan capture.Event
	cmds    chan func()
	notices chan Notice

	uiCtx atomic.Value // i18n.Context

	// Loop-owned state. Touched only from Run's goroutine (or before it
	// starts).
	lang        i18n.Language
	phase       phase
	captureLang i18n.Language
	runCtx      context.Context
}

// New builds an orchestrator and binds the capture selector for the initial
// language. A missing capture capability is non-fatal: the user can type.
func New(opts Options) *Orchestrator {
	o := &Orchestrator{
		pipeline: opts.Pipeline,
		log:      opts.Log,
		selector: opts.Selector,
		player:   opts.Player,
		user:     opts.FeedbackUser,
		events:   make(chan capture.Event, 64),
		cmds:     make(chan func()),
		notices:  make(chan Notice, 64),
		lang:     i18n.Normalize(string(opts.Language)),
		runCtx:   context.Background(),
	}
	if o.player == nil {
		o.player = audio.NopPlayer{}
	}
	o.uiCtx.Store(i18n.NewContext(o.lang))

	if err := o.selector.Rebind(i18n.LocaleTag(o.lang), o.events); err != nil {
		if errors.Is(err, capture.ErrUnsupported) {
			slog.Info("no capture capability available, text input only")
		} else {
			slog.Warn("binding capture strategy failed", "error", err)
		}
	}
	return o
}

// Run processes messages until ctx is cancelled. It must be running for the
// public operations to make progress.
func (o *Orchestrator) Run(ctx context.Context) {
	o.runCtx = ctx
	for {
		select {
		case <-ctx.Done():
			if err := o.selector.Close(); err != nil {
				slog.Debug("closing capture selector", "error", err)
			}
			return
		case fn := <-o.cmds:
			fn()
		case ev := <-o.events:
			o.handleCaptureEvent(ev)
		}
	}
}

// Notices returns the channel of UI notifications.
func (o *Orchestrator) Notices() <-chan Notice { return o.notices }

// UIContext returns the current language presentation context.
func (o *Orchestrator) UIContext() i18n.Context {
	return o.uiCtx.Load().(i18n.Context)
}

// History returns the ordered conversation so far.
func (o *Orchestrator) History() []conversation.Exchange {
	return o.log.All()
}

// post runs fn on the loop goroutine and waits for its result.
func (o *Orchestrator) post(ctx context.Context, fn func() error) error {
	done := make(chan error, 1)
	select {
	case o.cmds <- func() { done <- fn() }:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// SubmitTyped sends a typed command through the pipeline. Blank input is a
// no-op.
func (o *Orchestrator) SubmitTyped(ctx context.Context, text string) error {
	return o.post(ctx, func() error {
		return o.processUtterance(ctx, text, o.lang)
	})
}

// ActivateCapture starts a voice capture with the currently bound strategy.
// Activating while a capture is live is an idempotent no-op. With no
// capability bound it reports the condition instead of silently returning.
func (o *Orchestrator) ActivateCapture(ctx context.Context) error {
	return o.post(ctx, func() error {
		if o.phase != phaseIdle {
			slog.Debug("capture already active, ignoring activation")
			return nil
		}
		o.captureLang = o.lang

		err := o.selector.Activate(o.runCtx)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, capture.ErrActive):
			return nil
		case errors.Is(err, capture.ErrUnsupported),
			errors.Is(err, recorder.ErrRecorderUnavailable),
			errors.Is(err, recognizer.ErrRecognizerUnavailable):
			o.notifyStatus("error.capture_unsupported")
			return nil
		case errors.Is(err, recorder.ErrDeviceUnavailable):
			o.notifyStatus("error.mic_denied")
			return nil
		default:
			slog.Error("capture activation failed", "error", err)
			o.notifyStatus("error.capture_unsupported")
			return nil
		}
	})
}

// StopCapture requests an early stop of a live capture. Safe when idle.
func (o *Orchestrator) StopCapture(ctx context.Context) error {
	return o.post(ctx, func() error {
		if s := o.selector.Strategy(); s != nil {
			s.Stop()
		}
		return nil
	})
}

// SetLanguage switches the session language: UI context, locale tag, and
// capture strategy binding. An in-flight capture is untouched; the new
// language applies from the next capture on.
func (o *Orchestrator) SetLanguage(ctx context.Context, code string) error {
	return o.post(ctx, func() error {
		o.lang = i18n.Normalize(code)
		uiCtx := i18n.NewContext(o.lang)
		o.uiCtx.Store(uiCtx)

		if err := o.selector.Rebind(i18n.LocaleTag(o.lang), o.events); err != nil {
			if errors.Is(err, capture.ErrUnsupported) {
				o.notifyStatus("error.capture_unsupported")
			} else {
				slog.Warn("rebinding capture strategy failed", "error", err)
			}
		}

		slog.Info("session language changed", "language", o.lang, "direction", uiCtx.Direction)
		o.notify(Notice{Kind: NoticeLanguage, UI: uiCtx})
		return nil
	})
}

// SubmitFeedback validates and sends a rating+comment submission.
func (o *Orchestrator) SubmitFeedback(ctx context.Context, message string, rating int) error {
	return o.post(ctx, func() error {
		err := o.pipeline.SubmitFeedback(ctx, assist.Feedback{
			User:     o.user,
			Message:  message,
			Rating:   rating,
			Language: i18n.LocaleTag(o.lang),
		})
		switch {
		case err == nil:
			o.notifyStatus("feedback.sent")
			return nil
		case errors.Is(err, assist.ErrValidation):
			o.notifyStatus("feedback.empty")
			return err
		default:
			o.notifyStatus("feedback.failed")
			return err
		}
	})
}

// handleCaptureEvent advances the interaction state machine for one
// strategy message.
func (o *Orchestrator) handleCaptureEvent(ev capture.Event) {
	switch ev.Kind {
	case capture.EventStarted:
		o.phase = phaseListening
		if ev.Strategy == capture.NameRecorder {
			o.notifyStatus("status.recording")
		} else {
			o.notifyStatus("status.listening")
		}

	case capture.EventStopped:
		if o.phase == phaseListening {
			o.phase = phaseIdle
			o.notifyStatus("status.idle")
		}

	case capture.EventError:
		slog.Warn("capture failed", "strategy", ev.Strategy, "error", ev.Err)
		o.phase = phaseIdle
		if errors.Is(ev.Err, recorder.ErrDeviceUnavailable) {
			o.notifyStatus("error.mic_denied")
		} else {
			o.notifyStatus("error.recognition")
		}

	case capture.EventResult:
		if ev.Text != "" {
			// Native recognition produced a transcript directly.
			if err := o.processUtterance(o.runCtx, ev.Text, o.captureLang); err != nil {
				slog.Debug("voice submission failed", "error", err)
			}
			return
		}
		o.processRecording(ev)
	}
}

// processRecording uploads an assembled audio payload and reports the
// outcome back to the originating session.
func (o *Orchestrator) processRecording(ev capture.Event) {
	if ev.LocalRef != "" {
		o.notify(Notice{Kind: NoticeCaptured, LocalRef: ev.LocalRef})
		defer os.Remove(ev.LocalRef)
	}

	o.phase = phaseProcessing
	o.notifyStatus("status.processing")

	lang := o.captureLang
	env, err := o.pipeline.SubmitAudio(o.runCtx, ev.Payload, ev.MIME, i18n.LocaleTag(lang))
	if ev.Finish != nil {
		ev.Finish(err)
	}
	if err != nil {
		o.appendFailure(lang, err)
		return
	}

	userText := env.Input
	if userText == "" {
		userText = i18n.Resolve(lang, "label.voice_message")
	}
	o.appendSuccess(lang, userText, env)
}

// processUtterance runs the text pipeline for typed input or a recognition
// transcript. Blank input is dropped before any network call.
func (o *Orchestrator) processUtterance(ctx context.Context, text string, lang i18n.Language) error {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil
	}

	o.phase = phaseProcessing
	o.notifyStatus("status.processing")

	env, err := o.pipeline.SubmitText(ctx, trimmed, i18n.LocaleTag(lang))
	if err != nil {
		o.appendFailure(lang, err)
		return err
	}
	o.appendSuccess(lang, trimmed, env)
	return nil
}

// appendSuccess records the user utterance and the assistant reply, in that
// order, then surfaces actions and plays any audio reply.
func (o *Orchestrator) appendSuccess(lang i18n.Language, userText string, env *assist.Envelope) {
	o.appendExchange(conversation.Exchange{Role: conversation.RoleUser, Text: userText})

	replyText := env.ResponseText
	if replyText == "" {
		replyText = i18n.Resolve(lang, "reply.none")
	}
	o.appendExchange(conversation.Exchange{Role: conversation.RoleAssistant, Text: replyText})

	if len(env.Actions) > 0 {
		o.notify(Notice{Kind: NoticeActions, Actions: env.Actions})
	}
	if env.AudioRef != "" {
		o.playReply(env.AudioRef)
	}

	o.phase = phaseIdle
	o.notifyStatus("status.idle")
}

// appendFailure records exactly one error exchange with a localized generic
// message. Transport detail stays in the logs.
func (o *Orchestrator) appendFailure(lang i18n.Language, err error) {
	slog.Error("assistant exchange failed", "error", err)
	o.appendExchange(conversation.Exchange{
		Role: conversation.RoleError,
		Text: i18n.Resolve(lang, "error.connection"),
	})
	o.phase = phaseIdle
	o.notifyStatus("status.idle")
}

func (o *Orchestrator) appendExchange(ex conversation.Exchange) {
	if err := o.log.Append(ex); err != nil {
		slog.Error("persisting exchange failed", "role", ex.Role, "error", err)
	}
	o.notify(Notice{Kind: NoticeExchange, Exchange: &ex})
}

// playReply fetches and plays an assistant audio reference. Best-effort:
// failures are logged, never surfaced into the conversation.
func (o *Orchestrator) playReply(ref string) {
	ctx := o.runCtx
	go func() {
		data, mime, err := o.pipeline.FetchAudio(ctx, ref)
		if err != nil {
			slog.Warn("fetching reply audio failed", "error", err)
			return
		}
		path, err := audio.WriteTemp(data, mime)
		if err != nil {
			slog.Warn("materializing reply audio failed", "error", err)
			return
		}
		defer os.Remove(path)
		if err := o.player.Play(ctx, path); err != nil {
			slog.Warn("playing reply audio failed", "error", err)
		}
	}()
}

func (o *Orchestrator) notifyStatus(key string) {
	uiCtx := o.UIContext()
	o.notify(Notice{Kind: NoticeStatus, Status: uiCtx.T(key), UI: uiCtx})
}

// notify delivers a notice without blocking the loop. Notices to a UI that
// is not draining are dropped.
func (o *Orchestrator) notify(n Notice) {
	select {
	case o.notices <- n:
	default:
		slog.Debug("notice dropped, UI not draining", "kind", n.Kind)
	}
}

