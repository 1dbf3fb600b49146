package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/filterwell/pp96/pkg/press"
)

const helpText = "Commands: up | down | neutral | open | grip | close | set <0..180> | speed <1..100> | quit"
const helpActuator = "Actuator: push | pull"

// session serializes REPL commands onto a single worker goroutine so
// exactly one move runs at a time, no matter how fast the user types.
type session struct {
	ctrl *press.Controller
	cmds chan string
	logs chan string
	done chan struct{}
}

func newSession(ctrl *press.Controller) *session {
	return &session{
		ctrl: ctrl,
		cmds: make(chan string, 4),
		logs: make(chan string, 16),
		done: make(chan struct{}),
	}
}

func (s *session) run() {
	defer close(s.done)
	for line := range s.cmds {
		s.dispatch(line)
	}
}

// close stops the worker after any in-flight move finishes.
func (s *session) close() {
	close(s.cmds)
	<-s.done
}

// submit queues a command line. It reports false when the queue is full,
// which means a long sweep is still running.
func (s *session) submit(line string) bool {
	select {
	case s.cmds <- line:
		return true
	default:
		return false
	}
}

func (s *session) log(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	select {
	case s.logs <- msg:
	default:
	}
}

func (s *session) dispatch(line string) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return
	}

	switch cmd := fields[0]; cmd {
	case "up":
		s.move(press.Up)
	case "down":
		s.move(press.Down)
	case "neutral", "ready", "center":
		s.move(press.Neutral)
	case "open":
		s.move(press.Open)
	case "grip":
		s.move(press.Grip)
	case "close", "closed":
		s.move(press.Closed)

	case "set":
		if len(fields) != 2 {
			s.log("usage: set <0..180>")
			return
		}
		angle, err := strconv.Atoi(fields[1])
		if err != nil {
			s.log("usage: set <0..180>")
			return
		}
		if err := s.ctrl.MoveTo(angle); err != nil {
			s.log("error: %v", err)
			return
		}
		s.log("angle set to %d", angle)

	case "speed":
		if len(fields) != 2 {
			s.log("usage: speed <1..100>")
			return
		}
		pct, err := strconv.Atoi(fields[1])
		if err != nil {
			s.log("usage: speed <1..100>")
			return
		}
		s.log("speed set to %d%%", s.ctrl.SetSpeed(pct))

	case "push", "in":
		if err := s.ctrl.PlateIn(true); err != nil {
			s.log("error: %v", err)
			return
		}
		s.log("actuator: PUSH (extended)")

	case "pull", "out":
		if err := s.ctrl.PlateOut(true); err != nil {
			s.log("error: %v", err)
			return
		}
		s.log("actuator: PULL (retracted)")

	case "help", "?":
		s.log(helpText)
		s.log(helpActuator)

	default:
		s.log("unrecognized %q, try: help", cmd)
	}
}

func (s *session) move(pos press.Position) {
	if err := s.ctrl.MoveToPosition(pos); err != nil {
		s.log("error: %v", err)
		return
	}
	s.log("state: %s", strings.ToUpper(pos.String()))
}
