package ui

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/godbus/dbus/v5"
)

// The GNOME window-calls extension exposes window geometry over D-Bus.
// On Wayland GTK cannot report window positions, so this is the only
// way to persist them. Everything here degrades to "unavailable" when
// the extension is missing; callers fall back to GTK calls.

const (
	windowCallsDest  = "org.gnome.Shell"
	windowCallsPath  = "/org/gnome/Shell/Extensions/Windows"
	windowCallsIface = "org.gnome.Shell.Extensions.Windows"
)

type windowInfo struct {
	ID      uint32 `json:"id"`
	PID     int    `json:"pid"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	WMClass string `json:"wm_class"`
	Title   string `json:"title,omitempty"`
}

type windowDetails struct {
	ID     uint32 `json:"id"`
	PID    int    `json:"pid"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Title  string `json:"title,omitempty"`
}

type windowCalls struct {
	log       *slog.Logger
	conn      *dbus.Conn
	available bool
	pid       int
}

func isWayland() bool {
	if os.Getenv("XDG_SESSION_TYPE") == "wayland" {
		return true
	}
	return os.Getenv("WAYLAND_DISPLAY") != ""
}

// newWindowCalls probes the extension once. A failed probe is normal
// on X11 and on non-GNOME compositors.
func newWindowCalls(log *slog.Logger) *windowCalls {
	wc := &windowCalls{
		log: log.With("component", "window-calls"),
		pid: os.Getpid(),
	}
	if !isWayland() {
		return wc
	}
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		wc.log.Warn("session bus unavailable", "error", err)
		return wc
	}
	wc.conn = conn

	var out string
	err = conn.Object(windowCallsDest, windowCallsPath).
		Call(windowCallsIface+".List", 0).Store(&out)
	if err != nil || len(out) == 0 || (out[0] != '[' && out[0] != '{') {
		wc.log.Info("window-calls extension not available, positions best-effort")
		return wc
	}
	wc.available = true
	wc.log.Info("window-calls extension detected")
	return wc
}

func (wc *windowCalls) Available() bool {
	return wc.available
}

// markUnavailable is called when the shell stops answering, so later
// configure events do not spam D-Bus errors.
func (wc *windowCalls) markUnavailable(err error) {
	dbusErr, ok := err.(dbus.Error)
	if !ok {
		return
	}
	if dbusErr.Name == "org.freedesktop.DBus.Error.ServiceUnknown" ||
		dbusErr.Name == "org.freedesktop.DBus.Error.UnknownMethod" {
		wc.available = false
		wc.log.Warn("window-calls extension went away")
	}
}

func (wc *windowCalls) List() ([]windowInfo, error) {
	if !wc.available {
		return nil, nil
	}
	var out string
	err := wc.conn.Object(windowCallsDest, windowCallsPath).
		Call(windowCallsIface+".List", 0).Store(&out)
	if err != nil {
		wc.markUnavailable(err)
		return nil, fmt.Errorf("window-calls List: %w", err)
	}
	var windows []windowInfo
	if err := json.Unmarshal([]byte(out), &windows); err != nil {
		return nil, fmt.Errorf("parse window list: %w", err)
	}
	return windows, nil
}

// ProcessWindows filters the shell's window list down to this process.
func (wc *windowCalls) ProcessWindows() ([]windowInfo, error) {
	windows, err := wc.List()
	if err != nil {
		return nil, err
	}
	var ours []windowInfo
	for _, win := range windows {
		if win.PID == wc.pid {
			ours = append(ours, win)
		}
	}
	return ours, nil
}

func (wc *windowCalls) Details(id uint32) (*windowDetails, error) {
	if !wc.available {
		return nil, nil
	}
	var out string
	err := wc.conn.Object(windowCallsDest, windowCallsPath).
		Call(windowCallsIface+".Details", 0, id).Store(&out)
	if err != nil {
		if dbusErr, ok := err.(dbus.Error); ok && dbusErr.Name == "org.gnome.gjs.JSError.Error" {
			// Window gone between List and Details.
			return nil, nil
		}
		wc.markUnavailable(err)
		return nil, fmt.Errorf("window-calls Details: %w", err)
	}
	var details windowDetails
	if err := json.Unmarshal([]byte(out), &details); err != nil {
		return nil, fmt.Errorf("parse window details: %w", err)
	}
	return &details, nil
}

// Move repositions a window by shell ID. Signature on the extension
// side is Move(winid: u, x: i, y: i).
func (wc *windowCalls) Move(id uint32, x, y int) error {
	if !wc.available {
		return fmt.Errorf("window-calls extension not available")
	}
	err := wc.conn.Object(windowCallsDest, windowCallsPath).
		Call(windowCallsIface+".Move", 0, id, int32(x), int32(y)).Err
	if err != nil {
		wc.markUnavailable(err)
		return fmt.Errorf("window-calls Move: %w", err)
	}
	return nil
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
