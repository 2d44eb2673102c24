package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports every event on a logger at debug level. Failures are
// logged as warnings.
type LogHooks struct {
	Logger *log.Logger
}

// UseLogger installs LogHooks on l for all hook categories.
func UseLogger(l *log.Logger) {
	h := LogHooks{Logger: l}
	SetStateHooks(h)
	SetStorageHooks(h)
	SetHTTPHooks(h)
}

func (h LogHooks) OnDispatch(action string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("dispatch failed", "action", action, "err", err)
		return
	}
	h.Logger.Debug("dispatch", "action", action, "took", d.Round(time.Microsecond))
}

func (h LogHooks) OnLoad(_ context.Context, backend string, found bool, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("load failed", "backend", backend, "err", err)
		return
	}
	h.Logger.Debug("load", "backend", backend, "found", found, "took", d.Round(time.Microsecond))
}

func (h LogHooks) OnSave(_ context.Context, backend string, d time.Duration, err error) {
	if err != nil {
		h.Logger.Warn("save failed", "backend", backend, "err", err)
		return
	}
	h.Logger.Debug("save", "backend", backend, "took", d.Round(time.Microsecond))
}

func (h LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	h.Logger.Debug("response", "method", method, "route", route, "status", status, "took", d.Round(time.Microsecond))
}
