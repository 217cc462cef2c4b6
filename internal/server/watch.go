package server

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/meltforce/kinetic/internal/reactive"
	"github.com/meltforce/kinetic/internal/timer"
)

const (
	watchBuffer    = 64
	watchWriteWait = 10 * time.Second
	watchPingEvery = 30 * time.Second
)

// event is one container change pushed to /watch clients.
type event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

type timerTick struct {
	Elapsed int    `json:"elapsed"`
	Display string `json:"display"`
}

// forward subscribes to v and queues every value as an event of type typ.
// A client that falls behind loses events rather than stalling the hub.
func forward[T any](v *reactive.Value[T], typ string, send chan<- event, done <-chan struct{}) func() {
	return v.Subscribe(func(val T) {
		select {
		case <-done:
		case send <- event{Type: typ, Data: val}:
		default:
		}
	})
}

// handleWatch streams the current state and then every change to it over
// a websocket. Messages from the client are read only to notice a close.
func (s *Server) handleWatch(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	send := make(chan event, watchBuffer)
	done := make(chan struct{})

	h := s.hub
	unsubs := []func(){
		forward(h.User, "user", send, done),
		forward(h.Status.Value, "status", send, done),
		forward(h.Exercises, "exercises", send, done),
		forward(h.Workouts, "workouts", send, done),
		forward(h.WorkoutLogs, "workout_logs", send, done),
		forward(h.ActiveWorkout.Value, "active_workout", send, done),
		forward(h.ExerciseTypes.Value, "exercise_types", send, done),
		forward(h.EquipmentTypes.Value, "equipment_types", send, done),
		forward(h.WorkoutTypes.Value, "workout_types", send, done),
		h.Timer.Value().Subscribe(func(n int) {
			select {
			case <-done:
			case send <- event{Type: "timer", Data: timerTick{Elapsed: n, Display: timer.FormatTime(n)}}:
			default:
			}
		}),
	}
	defer func() {
		for _, u := range unsubs {
			u()
		}
	}()

	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(watchPingEvery)
	defer ping.Stop()
	for {
		select {
		case <-done:
			return
		case ev := <-send:
			_ = conn.SetWriteDeadline(time.Now().Add(watchWriteWait))
			if err := conn.WriteJSON(ev); err != nil {
				s.log.Debug("watch client gone", "error", err)
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(watchWriteWait)); err != nil {
				return
			}
		}
	}
}
