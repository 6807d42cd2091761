package xmsg

import (
	"github.com/trickstertwo/xlog"
)

// ObserverFunc is an Adapter that lets a plain function satisfy Observer.
type ObserverFunc func(e Event)

func (f ObserverFunc) OnEvent(e Event) { f(e) }

// LoggingObserver is an Adapter that emits router events via xlog.
type LoggingObserver struct {
	Logger *xlog.Logger
}

func (o LoggingObserver) OnEvent(e Event) {
	if o.Logger == nil {
		return
	}
	ev := o.Logger.With(
		xlog.Str("type", string(e.Type)),
		xlog.Str("name", e.Name),
		xlog.Str("message_id", e.MessageID),
		xlog.Str("kind", e.Kind.String()),
	)
	if e.Delay > 0 {
		ev = ev.With(xlog.Dur("delay", e.Delay))
	}
	switch e.Type {
	case EventError:
		ev.Warn().Err(e.Err).Msg("xmsg event")
	case EventDropped:
		ev.Debug().Err(e.Err).Msg("xmsg event")
	default:
		ev.Debug().Msg("xmsg event")
	}
}
