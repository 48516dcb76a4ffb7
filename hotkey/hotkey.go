// Package hotkey listens for the global create-note shortcut via the
// XDG GlobalShortcuts desktop portal. It runs entirely off the UI
// thread and never touches the note store: activations are turned into
// requests on a channel that the UI goroutine drains.
package hotkey

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/godbus/dbus/v5"
	"github.com/google/uuid"
)

const (
	portalDest      = "org.freedesktop.portal.Desktop"
	portalPath      = "/org/freedesktop/portal/desktop"
	shortcutsIface  = "org.freedesktop.portal.GlobalShortcuts"
	requestIface    = "org.freedesktop.portal.Request"
	shortcutID      = "create-note"
	shortcutTrigger = "CTRL+ALT+n"
)

// Request asks the UI to create one note. SeedText carries the
// clipboard contents at activation time; it may be empty.
type Request struct {
	SeedText string
}

// Listener owns the portal session and the D-Bus signal pump.
type Listener struct {
	log      *slog.Logger
	conn     *dbus.Conn
	session  dbus.ObjectPath
	requests chan Request
	signals  chan *dbus.Signal
	done     chan struct{}
}

func NewListener(log *slog.Logger) *Listener {
	if log == nil {
		log = slog.Default()
	}
	return &Listener{
		log:      log.With("component", "hotkey"),
		requests: make(chan Request, 4),
	}
}

// Requests is the single-consumer channel the UI drains via its idle
// handler.
func (l *Listener) Requests() <-chan Request {
	return l.requests
}

// Start creates the portal session and binds the shortcut. Portal
// absence is an error the caller downgrades to a warning; the app is
// fully usable without the global hotkey.
func (l *Listener) Start() error {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("connect session bus: %w", err)
	}
	l.conn = conn

	l.signals = make(chan *dbus.Signal, 16)
	conn.Signal(l.signals)

	if err := conn.AddMatchSignal(
		dbus.WithMatchInterface(requestIface),
		dbus.WithMatchMember("Response"),
	); err != nil {
		return fmt.Errorf("match portal responses: %w", err)
	}

	session, err := l.createSession()
	if err != nil {
		return err
	}
	l.session = session

	if err := l.bindShortcut(); err != nil {
		return err
	}

	if err := conn.AddMatchSignal(
		dbus.WithMatchInterface(shortcutsIface),
		dbus.WithMatchMember("Activated"),
	); err != nil {
		return fmt.Errorf("match shortcut activations: %w", err)
	}

	l.done = make(chan struct{})
	go l.run()
	l.log.Info("global shortcut bound", "id", shortcutID, "trigger", shortcutTrigger)
	return nil
}

// Stop tears the listener down. Safe when Start failed or never ran.
func (l *Listener) Stop() {
	if l.conn == nil {
		return
	}
	if l.done != nil {
		close(l.done)
	}
	l.conn.RemoveSignal(l.signals)
	l.conn.Close()
	l.conn = nil
}

// handleToken makes a fresh portal handle token. The portal only
// accepts [A-Za-z0-9_] here, so the uuid is stripped of dashes.
func handleToken() string {
	return "sticky_notes_" + strings.ReplaceAll(uuid.New().String(), "-", "")
}

// requestPath predicts the request object path the portal will use for
// a given token, so the Response signal can be matched to the call.
func (l *Listener) requestPath(token string) dbus.ObjectPath {
	sender := strings.TrimPrefix(l.conn.Names()[0], ":")
	sender = strings.ReplaceAll(sender, ".", "_")
	return dbus.ObjectPath(portalPath + "/request/" + sender + "/" + token)
}

func (l *Listener) createSession() (dbus.ObjectPath, error) {
	token := handleToken()
	sessionToken := handleToken()
	wantPath := l.requestPath(token)

	portal := l.conn.Object(portalDest, portalPath)
	call := portal.Call(shortcutsIface+".CreateSession", 0, map[string]dbus.Variant{
		"handle_token":         dbus.MakeVariant(token),
		"session_handle_token": dbus.MakeVariant(sessionToken),
	})
	if call.Err != nil {
		return "", fmt.Errorf("portal CreateSession: %w", call.Err)
	}

	results, err := l.waitResponse(wantPath)
	if err != nil {
		return "", fmt.Errorf("portal CreateSession response: %w", err)
	}
	raw, ok := results["session_handle"]
	if !ok {
		return "", fmt.Errorf("portal response lacks session_handle")
	}
	switch v := raw.Value().(type) {
	case string:
		return dbus.ObjectPath(v), nil
	case dbus.ObjectPath:
		return v, nil
	}
	return "", fmt.Errorf("unexpected session_handle type %T", raw.Value())
}

func (l *Listener) bindShortcut() error {
	token := handleToken()
	wantPath := l.requestPath(token)

	type shortcut struct {
		ID      string
		Options map[string]dbus.Variant
	}
	shortcuts := []shortcut{{
		ID: shortcutID,
		Options: map[string]dbus.Variant{
			"description":       dbus.MakeVariant("Create a sticky note from the clipboard"),
			"preferred_trigger": dbus.MakeVariant(shortcutTrigger),
		},
	}}

	portal := l.conn.Object(portalDest, portalPath)
	call := portal.Call(shortcutsIface+".BindShortcuts", 0,
		l.session, shortcuts, "", map[string]dbus.Variant{
			"handle_token": dbus.MakeVariant(token),
		})
	if call.Err != nil {
		return fmt.Errorf("portal BindShortcuts: %w", call.Err)
	}
	if _, err := l.waitResponse(wantPath); err != nil {
		return fmt.Errorf("portal BindShortcuts response: %w", err)
	}
	return nil
}

// waitResponse blocks on the signal channel until the Response for the
// given request path arrives. Unrelated signals seen in the meantime
// are dropped; activations cannot arrive before binding completes.
func (l *Listener) waitResponse(path dbus.ObjectPath) (map[string]dbus.Variant, error) {
	for sig := range l.signals {
		if sig.Name != requestIface+".Response" || sig.Path != path {
			continue
		}
		if len(sig.Body) != 2 {
			return nil, fmt.Errorf("malformed portal response")
		}
		code, _ := sig.Body[0].(uint32)
		if code != 0 {
			return nil, fmt.Errorf("portal request declined (code %d)", code)
		}
		results, _ := sig.Body[1].(map[string]dbus.Variant)
		return results, nil
	}
	return nil, fmt.Errorf("signal channel closed")
}

func (l *Listener) run() {
	for {
		select {
		case <-l.done:
			return
		case sig, ok := <-l.signals:
			if !ok {
				return
			}
			if sig.Name != shortcutsIface+".Activated" {
				continue
			}
			if len(sig.Body) < 2 {
				continue
			}
			if id, _ := sig.Body[1].(string); id != shortcutID {
				continue
			}
			l.activate()
		}
	}
}

// activate snapshots the clipboard and enqueues a create request. A
// full queue means the UI is already flooded; the press is dropped.
func (l *Listener) activate() {
	seed, err := clipboard.ReadAll()
	if err != nil {
		seed = ""
	}
	select {
	case l.requests <- Request{SeedText: seed}:
		l.log.Debug("hotkey activated", "seed_len", len(seed))
	default:
		l.log.Warn("hotkey request dropped, queue full")
	}
}
