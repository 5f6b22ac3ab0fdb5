//go:build linux

package watch

import (
	"context"
	"fmt"
	"os"

	"github.com/godbus/dbus/v5"
	"github.com/kataras/golog"

	"github.com/cyberstack/hemu/internal/notify"
)

const (
	logindDest   = "org.freedesktop.login1"
	logindPath   = dbus.ObjectPath("/org/freedesktop/login1")
	managerIface = "org.freedesktop.login1.Manager"
	sessionIface = "org.freedesktop.login1.Session"
)

// logindSource listens to systemd-logind on the system bus:
// Manager.PrepareForSleep for sleep and wake, Session.Lock and
// Session.Unlock for the screen lock.
type logindSource struct{}

// NewSource returns the platform event source.
func NewSource() Source {
	return logindSource{}
}

func (logindSource) Events(ctx context.Context) (<-chan notify.Event, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("connect system bus: %w", err)
	}

	if err := subscribe(conn); err != nil {
		conn.Close()
		return nil, err
	}

	signals := make(chan *dbus.Signal, 16)
	conn.Signal(signals)

	out := make(chan notify.Event)
	go func() {
		defer close(out)
		defer conn.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case sig, ok := <-signals:
				if !ok {
					return
				}
				event, ok := translate(sig)
				if !ok {
					continue
				}
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

func subscribe(conn *dbus.Conn) error {
	if err := conn.AddMatchSignal(
		dbus.WithMatchObjectPath(logindPath),
		dbus.WithMatchInterface(managerIface),
		dbus.WithMatchMember("PrepareForSleep"),
	); err != nil {
		return fmt.Errorf("match PrepareForSleep: %w", err)
	}

	session, err := ownSession(conn)
	if err != nil {
		golog.Debugf("no logind session for this process, watching all sessions: %v", err)
	}
	for _, member := range []string{"Lock", "Unlock"} {
		opts := []dbus.MatchOption{
			dbus.WithMatchInterface(sessionIface),
			dbus.WithMatchMember(member),
		}
		if session != "" {
			opts = append(opts, dbus.WithMatchObjectPath(session))
		}
		if err := conn.AddMatchSignal(opts...); err != nil {
			return fmt.Errorf("match %s: %w", member, err)
		}
	}
	return nil
}

func ownSession(conn *dbus.Conn) (dbus.ObjectPath, error) {
	var path dbus.ObjectPath
	err := conn.Object(logindDest, logindPath).
		Call(managerIface+".GetSessionByPID", 0, uint32(os.Getpid())).
		Store(&path)
	return path, err
}

// translate maps a logind signal to an event.
func translate(sig *dbus.Signal) (notify.Event, bool) {
	switch sig.Name {
	case managerIface + ".PrepareForSleep":
		if len(sig.Body) != 1 {
			return "", false
		}
		start, ok := sig.Body[0].(bool)
		if !ok {
			return "", false
		}
		if start {
			return notify.SystemSleep, true
		}
		return notify.SystemWake, true
	case sessionIface + ".Lock":
		return notify.SystemLock, true
	case sessionIface + ".Unlock":
		return notify.SystemUnlock, true
	}
	return "", false
}
