package server

import (
	"context"
	"sync"

	"github.com/decred/slog"
	"github.com/kon14/pokerd/pkg/apperrors"
	"github.com/kon14/pokerd/pkg/poker"
)

// LobbySettings configures the match a lobby will start.
type LobbySettings struct {
	MaxPlayers      int
	AnteAmount      uint64
	StartingCredits uint64
}

// DefaultLobbySettings returns the settings every lobby created through
// CreateLobby uses; callers cannot override individual fields.
func DefaultLobbySettings() LobbySettings {
	return LobbySettings{
		MaxPlayers:      6,
		AnteAmount:      10,
		StartingCredits: 1000,
	}
}

// Lobby is a pre-match waiting room: a host, its members, and each
// member's matchmaking-accepted flag. Once the host calls StartLobbyGame
// with every member accepted, the lobby seeds a GameTable and starts its
// GamePhase driver; a lobby hosts exactly one match.
type Lobby struct {
	mu                  sync.RWMutex
	ID                  LobbyID
	Name                string
	HostID              poker.PlayerID
	Members             []poker.PlayerID
	Settings            LobbySettings
	MatchmakingAccepted map[poker.PlayerID]bool
	table               *GameTable
}

// GameTable pairs a match's authoritative poker.GameTable with the
// GamePhase driver running it and the Broadcaster publishing its
// snapshots.
type GameTable struct {
	Table       *poker.GameTable
	Phase       *poker.GamePhase
	Broadcaster *Broadcaster
	cancel      context.CancelFunc
}

// LobbyView is the public, listing-safe projection of a lobby.
type LobbyView struct {
	ID          LobbyID
	Name        string
	HostID      poker.PlayerID
	MemberCount int
	MaxPlayers  int
	GameStarted bool
}

func newLobby(name string, hostID poker.PlayerID, settings LobbySettings) *Lobby {
	return &Lobby{
		ID:                  NewLobbyID(),
		Name:                name,
		HostID:              hostID,
		Members:             []poker.PlayerID{hostID},
		Settings:            settings,
		MatchmakingAccepted: make(map[poker.PlayerID]bool),
	}
}

func (l *Lobby) view() LobbyView {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return LobbyView{
		ID:          l.ID,
		Name:        l.Name,
		HostID:      l.HostID,
		MemberCount: len(l.Members),
		MaxPlayers:  l.Settings.MaxPlayers,
		GameStarted: l.table != nil,
	}
}

func (l *Lobby) join(playerID poker.PlayerID) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.table != nil {
		return apperrors.PreconditionFailedError("lobby's match has already started")
	}
	if len(l.Members) >= l.Settings.MaxPlayers {
		return apperrors.PreconditionFailedError("lobby is full")
	}
	for _, id := range l.Members {
		if id == playerID {
			return nil
		}
	}
	l.Members = append(l.Members, playerID)
	return nil
}

func (l *Lobby) leave(playerID poker.PlayerID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i, id := range l.Members {
		if id == playerID {
			l.Members = append(l.Members[:i], l.Members[i+1:]...)
			break
		}
	}
	delete(l.MatchmakingAccepted, playerID)
	if l.HostID == playerID && len(l.Members) > 0 {
		l.HostID = l.Members[0]
	}
}

func (l *Lobby) setMatchmaking(playerID poker.PlayerID, accepted bool) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	found := false
	for _, id := range l.Members {
		if id == playerID {
			found = true
			break
		}
	}
	if !found {
		return apperrors.PreconditionFailedError("player is not a member of this lobby")
	}
	l.MatchmakingAccepted[playerID] = accepted
	return nil
}

// start constructs the match table and kicks off its GamePhase driver in
// the Ante phase. The driver runs in its own goroutine until the match
// reaches Showdown or ctx is cancelled; onPublish builds and broadcasts a
// fresh StateSnapshot after every Act.
func (l *Lobby) start(ctx context.Context, log slog.Logger) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.table != nil {
		return apperrors.PreconditionFailedError("lobby's match has already started")
	}
	if len(l.Members) < 2 {
		return apperrors.PreconditionFailedError("at least two players are required to start a match")
	}
	for _, id := range l.Members {
		if !l.MatchmakingAccepted[id] {
			return apperrors.PreconditionFailedError("every member must accept matchmaking before starting")
		}
	}

	seating := make([]poker.PlayerID, len(l.Members))
	copy(seating, l.Members)
	table := poker.NewGameTable(seating, l.Settings.StartingCredits)
	deck := poker.NewDeck(nil)
	initial := poker.NewAntePhase(table, deck, l.Settings.AnteAmount)
	broadcaster := NewBroadcaster(log)

	matchCtx, cancel := context.WithCancel(ctx)
	gt := &GameTable{Table: table, Broadcaster: broadcaster, cancel: cancel}
	onPublish := func() {
		var snap *StateSnapshot
		gt.Phase.WithReadLock(func(current poker.Phase) {
			snap = &StateSnapshot{Match: BuildMatchSnapshot(table, current, current.IsCompleted() && !hasNext(current))}
		})
		broadcaster.Publish(snap)
	}
	gt.Phase = poker.NewGamePhase(initial, onPublish, log)
	l.table = gt

	go func() {
		gt.Phase.Run(matchCtx)
		broadcaster.Close()
	}()
	return nil
}

func hasNext(p poker.Phase) bool {
	_, ok := p.NextPhase()
	return ok
}

// Registry tracks every open lobby by ID, following the Registry → Lobby →
// GamePhase lock hierarchy: Create and List release the registry lock
// before touching a Lobby, and FindByMember takes each Lobby's read lock
// only while holding the registry's read lock, never the other way round.
type Registry struct {
	mu      sync.RWMutex
	lobbies map[LobbyID]*Lobby
}

// NewRegistry constructs an empty lobby registry.
func NewRegistry() *Registry {
	return &Registry{lobbies: make(map[LobbyID]*Lobby)}
}

// Create adds a fresh lobby hosted by hostID and returns its view.
func (r *Registry) Create(name string, hostID poker.PlayerID, settings LobbySettings) LobbyView {
	lobby := newLobby(name, hostID, settings)
	r.mu.Lock()
	r.lobbies[lobby.ID] = lobby
	r.mu.Unlock()
	return lobby.view()
}

// Get returns the lobby for id, if any.
func (r *Registry) Get(id LobbyID) (*Lobby, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lobby, ok := r.lobbies[id]
	return lobby, ok
}

// List returns a view of every open lobby, for GetLobbies.
func (r *Registry) List() []LobbyView {
	r.mu.RLock()
	lobbies := make([]*Lobby, 0, len(r.lobbies))
	for _, l := range r.lobbies {
		lobbies = append(lobbies, l)
	}
	r.mu.RUnlock()

	views := make([]LobbyView, 0, len(lobbies))
	for _, l := range lobbies {
		views = append(views, l.view())
	}
	return views
}

// Remove deletes a lobby, e.g. once its match reaches Showdown and every
// watcher has drained the terminal snapshot.
func (r *Registry) Remove(id LobbyID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.lobbies, id)
}

// FindByMember returns the lobby playerID currently belongs to, if any.
func (r *Registry) FindByMember(playerID poker.PlayerID) (*Lobby, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, lobby := range r.lobbies {
		lobby.mu.RLock()
		for _, id := range lobby.Members {
			if id == playerID {
				lobby.mu.RUnlock()
				return lobby, true
			}
		}
		lobby.mu.RUnlock()
	}
	return nil, false
}
