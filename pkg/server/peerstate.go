package server

import (
	"github.com/decred/slog"
	"github.com/kon14/pokerd/pkg/poker"
	"github.com/kon14/pokerd/pkg/statemachine"
)

// peerEvent is the input a PeerSession's state function consumes on its
// next Dispatch; eventNone means "re-enter the current state with no
// transition".
type peerEvent int

const (
	eventNone peerEvent = iota
	eventJoinedLobby
	eventLeftLobby
	eventMatchStarted
	eventDisconnected
)

// PeerSession is one connected peer's lifecycle entity, driven by a
// statemachine.StateMachine the way the teacher's generic state-function
// pattern drives any Rob Pike-style entity: each state function reads
// Pending, transitions if set, and clears it.
type PeerSession struct {
	Peer     PeerID
	PlayerID poker.PlayerID
	Pending  peerEvent
	log      slog.Logger
}

type peerStateFn = statemachine.StateFn[PeerSession]

func peerStateConnected(s *PeerSession, cb func(string, statemachine.StateEvent)) peerStateFn {
	if cb != nil {
		cb("connected", statemachine.StateEntered)
	}
	switch s.Pending {
	case eventJoinedLobby:
		s.Pending = eventNone
		return peerStateInLobby
	case eventDisconnected:
		s.Pending = eventNone
		return peerStateDisconnected(s, cb)
	default:
		return peerStateConnected
	}
}

func peerStateInLobby(s *PeerSession, cb func(string, statemachine.StateEvent)) peerStateFn {
	if cb != nil {
		cb("in_lobby", statemachine.StateEntered)
	}
	switch s.Pending {
	case eventMatchStarted:
		s.Pending = eventNone
		return peerStateInMatch
	case eventLeftLobby:
		s.Pending = eventNone
		return peerStateConnected
	case eventDisconnected:
		s.Pending = eventNone
		return peerStateDisconnected(s, cb)
	default:
		return peerStateInLobby
	}
}

func peerStateInMatch(s *PeerSession, cb func(string, statemachine.StateEvent)) peerStateFn {
	if cb != nil {
		cb("in_match", statemachine.StateEntered)
	}
	switch s.Pending {
	case eventLeftLobby:
		s.Pending = eventNone
		return peerStateConnected
	case eventDisconnected:
		s.Pending = eventNone
		return peerStateDisconnected(s, cb)
	default:
		return peerStateInMatch
	}
}

// peerStateDisconnected is terminal: the other states enter it directly on
// eventDisconnected, and returning nil stops further dispatches from
// advancing the session.
func peerStateDisconnected(s *PeerSession, cb func(string, statemachine.StateEvent)) peerStateFn {
	if cb != nil {
		cb("disconnected", statemachine.StateEntered)
	}
	return nil
}

// peerSessionHandle pairs a PeerSession entity with the StateMachine
// driving it. The statemachine package only exposes the current state
// function, not the entity pointer, so the handle keeps its own reference
// to set Pending before each Dispatch.
type peerSessionHandle struct {
	session *PeerSession
	sm      *statemachine.StateMachine[PeerSession]
}

func newPeerSession(peer PeerID, playerID poker.PlayerID, log slog.Logger) *peerSessionHandle {
	session := &PeerSession{Peer: peer, PlayerID: playerID, log: log}
	sm := statemachine.NewStateMachine(session, peerStateFn(peerStateConnected))
	handle := &peerSessionHandle{session: session, sm: sm}
	sm.Dispatch(session.logTransition)
	return handle
}

func (s *PeerSession) logTransition(stateName string, event statemachine.StateEvent) {
	if s.log == nil {
		return
	}
	s.log.Debugf("peer %s (player %s) entered state %s", s.Peer, s.PlayerID, stateName)
}

// fire sets the pending event and drives the session's state machine one
// step forward.
func (h *peerSessionHandle) fire(ev peerEvent) {
	if h == nil {
		return
	}
	h.session.Pending = ev
	h.sm.Dispatch(h.session.logTransition)
}
