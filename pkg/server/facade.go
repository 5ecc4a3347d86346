package server

import (
	"context"
	"sync"

	"github.com/decred/slog"
	"github.com/kon14/pokerd/pkg/apperrors"
	"github.com/kon14/pokerd/pkg/poker"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// PeerID identifies an RPC caller at the transport layer (remote address
// or authenticated header), before Connect resolves it to a PlayerID.
type PeerID string

// Server is the RPC facade: every exported method corresponds to one RPC
// listed in the external interface. It holds no game logic of its own —
// it resolves the caller's PlayerID and lobby, then delegates to Registry,
// Lobby, and GamePhase, mapping apperrors to grpc statuses at the
// boundary.
type Server struct {
	mu       sync.RWMutex
	registry *Registry
	peers    map[PeerID]poker.PlayerID
	sessions map[poker.PlayerID]*peerSessionHandle
	log      slog.Logger
}

// NewServer constructs an empty facade over a fresh lobby registry.
func NewServer(log slog.Logger) *Server {
	if log == nil {
		log = slog.Disabled
	}
	return &Server{
		registry: NewRegistry(),
		peers:    make(map[PeerID]poker.PlayerID),
		sessions: make(map[poker.PlayerID]*peerSessionHandle),
		log:      log,
	}
}

// Connect assigns peer a fresh opaque PlayerID. Calling Connect again for
// an already-connected peer returns its existing PlayerID.
func (s *Server) Connect(ctx context.Context, peer PeerID) (poker.PlayerID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id, ok := s.peers[peer]; ok {
		return id, nil
	}
	id := poker.NewPlayerID()
	s.peers[peer] = id
	s.sessions[id] = newPeerSession(peer, id, s.log)
	return id, nil
}

// Disconnect forgets peer's PlayerID and removes it from any lobby it
// belongs to.
func (s *Server) Disconnect(ctx context.Context, peer PeerID) error {
	playerID, err := s.resolve(peer)
	if err != nil {
		return mapErr(err)
	}
	if lobby, ok := s.registry.FindByMember(playerID); ok {
		lobby.leave(playerID)
	}
	s.mu.Lock()
	delete(s.peers, peer)
	if session, ok := s.sessions[playerID]; ok {
		session.fire(eventDisconnected)
		delete(s.sessions, playerID)
	}
	s.mu.Unlock()
	return nil
}

func (s *Server) resolve(peer PeerID) (poker.PlayerID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.peers[peer]
	if !ok {
		return poker.PlayerID{}, apperrors.PreconditionFailedError("peer must call Connect before any game-affecting request")
	}
	return id, nil
}

// GetLobbies lists every open lobby.
func (s *Server) GetLobbies(ctx context.Context, peer PeerID) ([]LobbyView, error) {
	if _, err := s.resolve(peer); err != nil {
		return nil, mapErr(err)
	}
	return s.registry.List(), nil
}

// CreateLobby opens a new lobby hosted by peer's player.
func (s *Server) CreateLobby(ctx context.Context, peer PeerID, name string) (LobbyView, error) {
	playerID, err := s.resolve(peer)
	if err != nil {
		return LobbyView{}, mapErr(err)
	}
	if name == "" {
		return LobbyView{}, mapErr(apperrors.InvalidRequestError("lobby name can't be empty"))
	}
	view := s.registry.Create(name, playerID, DefaultLobbySettings())
	return view, nil
}

// JoinLobby seats peer's player in lobbyID.
func (s *Server) JoinLobby(ctx context.Context, peer PeerID, lobbyID LobbyID) error {
	playerID, err := s.resolve(peer)
	if err != nil {
		return mapErr(err)
	}
	lobby, ok := s.registry.Get(lobbyID)
	if !ok {
		return mapErr(apperrors.NotFoundError("lobby %s not found", lobbyID))
	}
	if err := lobby.join(playerID); err != nil {
		return mapErr(err)
	}
	s.mu.RLock()
	session := s.sessions[playerID]
	s.mu.RUnlock()
	session.fire(eventJoinedLobby)
	return nil
}

// LeaveLobby removes peer's player from whichever lobby it currently
// belongs to.
func (s *Server) LeaveLobby(ctx context.Context, peer PeerID) error {
	playerID, err := s.resolve(peer)
	if err != nil {
		return mapErr(err)
	}
	lobby, ok := s.registry.FindByMember(playerID)
	if !ok {
		return mapErr(apperrors.PreconditionFailedError("player is not in a lobby"))
	}
	lobby.leave(playerID)
	s.mu.RLock()
	session := s.sessions[playerID]
	s.mu.RUnlock()
	session.fire(eventLeftLobby)
	return nil
}

// SetMatchmakingStatus opts peer's player in or out of its lobby's
// matchmaking-ready pool.
func (s *Server) SetMatchmakingStatus(ctx context.Context, peer PeerID, on bool) error {
	return s.respondMatchmaking(ctx, peer, on)
}

// RespondMatchmaking accepts or declines the host's start proposal. In
// this implementation it shares SetMatchmakingStatus's accepted-flag
// model: there is no separate invite sub-state to respond to.
func (s *Server) RespondMatchmaking(ctx context.Context, peer PeerID, accept bool) error {
	return s.respondMatchmaking(ctx, peer, accept)
}

func (s *Server) respondMatchmaking(ctx context.Context, peer PeerID, accepted bool) error {
	playerID, err := s.resolve(peer)
	if err != nil {
		return mapErr(err)
	}
	lobby, ok := s.registry.FindByMember(playerID)
	if !ok {
		return mapErr(apperrors.PreconditionFailedError("player is not in a lobby"))
	}
	return mapErr(lobby.setMatchmaking(playerID, accepted))
}

// StartLobbyGame starts peer's lobby's match, provided peer is the host,
// every member has accepted matchmaking, and at least two players are
// seated.
func (s *Server) StartLobbyGame(ctx context.Context, peer PeerID) error {
	playerID, err := s.resolve(peer)
	if err != nil {
		return mapErr(err)
	}
	lobby, ok := s.registry.FindByMember(playerID)
	if !ok {
		return mapErr(apperrors.PreconditionFailedError("player is not in a lobby"))
	}
	if lobby.HostID != playerID {
		return mapErr(apperrors.UnauthorizedError("only the lobby host can start the match"))
	}
	if err := lobby.start(ctx, s.log); err != nil {
		return mapErr(err)
	}
	s.mu.RLock()
	for _, id := range lobby.Members {
		if session, ok := s.sessions[id]; ok {
			session.fire(eventMatchStarted)
		}
	}
	s.mu.RUnlock()
	return nil
}

// RespondBettingPhase applies a betting action on behalf of peer's player
// against its lobby's current betting phase.
func (s *Server) RespondBettingPhase(ctx context.Context, peer PeerID, action poker.BettingAction) error {
	playerID, gt, err := s.resolveMatch(peer)
	if err != nil {
		return err
	}
	var handleErr error
	handleErr = gt.Phase.WithWriteLock(func(current poker.Phase) error {
		betting, ok := current.(*poker.BettingPhase)
		if !ok {
			return apperrors.PreconditionFailedError("match is not in a betting phase")
		}
		return betting.HandleAction(playerID, action)
	})
	if handleErr == nil {
		gt.Phase.Wake()
	}
	return mapErr(handleErr)
}

// RespondDrawingPhase declares which cards to discard (nil means keep all)
// on behalf of peer's player against its lobby's current drawing phase.
func (s *Server) RespondDrawingPhase(ctx context.Context, peer PeerID, cards []poker.Card) error {
	playerID, gt, err := s.resolveMatch(peer)
	if err != nil {
		return err
	}
	var handleErr error
	handleErr = gt.Phase.WithWriteLock(func(current poker.Phase) error {
		discarding, ok := current.(*poker.DrawingDiscardingPhase)
		if !ok {
			return apperrors.PreconditionFailedError("match is not in a drawing phase")
		}
		return discarding.Declare(playerID, cards)
	})
	if handleErr == nil {
		gt.Phase.Wake()
	}
	return mapErr(handleErr)
}

func (s *Server) resolveMatch(peer PeerID) (poker.PlayerID, *GameTable, error) {
	playerID, err := s.resolve(peer)
	if err != nil {
		return poker.PlayerID{}, nil, mapErr(err)
	}
	lobby, ok := s.registry.FindByMember(playerID)
	if !ok {
		return poker.PlayerID{}, nil, mapErr(apperrors.PreconditionFailedError("player is not in a lobby"))
	}
	lobby.mu.RLock()
	gt := lobby.table
	lobby.mu.RUnlock()
	if gt == nil {
		return poker.PlayerID{}, nil, mapErr(apperrors.PreconditionFailedError("lobby's match has not started"))
	}
	return playerID, gt, nil
}

// WatchState streams peer's player's masked view of its lobby's match: the
// current snapshot first, then every subsequent published snapshot, until
// the match ends or ctx is cancelled.
func (s *Server) WatchState(ctx context.Context, peer PeerID) (<-chan MatchView, error) {
	playerID, gt, err := s.resolveMatch(peer)
	if err != nil {
		return nil, err
	}

	out := make(chan MatchView, subscriberQueueSize)
	var initial *StateSnapshot
	gt.Phase.WithReadLock(func(current poker.Phase) {
		initial = &StateSnapshot{Match: BuildMatchSnapshot(gt.Table, current, current.IsCompleted() && !hasNext(current))}
	})
	sub, id := gt.Broadcaster.Subscribe()

	go func() {
		defer close(out)
		defer gt.Broadcaster.Unsubscribe(id)
		if initial.Match != nil {
			select {
			case out <- initial.Match.ViewFor(playerID):
			case <-ctx.Done():
				return
			}
		}
		for {
			select {
			case <-ctx.Done():
				return
			case snap, ok := <-sub:
				if !ok || snap == nil || snap.Match == nil {
					return
				}
				select {
				case out <- snap.Match.ViewFor(playerID):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}

// mapErr translates an apperrors.AppError to the closest grpc status. Any
// other error (should not occur given the facade's contract) is mapped to
// Internal.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	switch apperrors.KindOf(err) {
	case apperrors.NotFound:
		return status.Error(codes.NotFound, err.Error())
	case apperrors.PreconditionFailed:
		return status.Error(codes.FailedPrecondition, err.Error())
	case apperrors.Unauthorized:
		return status.Error(codes.PermissionDenied, err.Error())
	case apperrors.InvalidRequest:
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
