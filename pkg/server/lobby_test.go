package server

import (
	"context"
	"testing"
	"time"

	"github.com/kon14/pokerd/pkg/poker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJoinLeaveUpdatesMemberCountAndHost(t *testing.T) {
	host := poker.NewPlayerID()
	lobby := newLobby("table", host, DefaultLobbySettings())

	p2 := poker.NewPlayerID()
	require.NoError(t, lobby.join(p2))
	assert.Equal(t, 2, lobby.view().MemberCount)

	// joining twice is a no-op
	require.NoError(t, lobby.join(p2))
	assert.Equal(t, 2, lobby.view().MemberCount)

	lobby.leave(host)
	view := lobby.view()
	assert.Equal(t, 1, view.MemberCount)
	assert.Equal(t, p2, view.HostID)
}

func TestJoinRejectsFullLobby(t *testing.T) {
	host := poker.NewPlayerID()
	settings := DefaultLobbySettings()
	settings.MaxPlayers = 1
	lobby := newLobby("table", host, settings)

	err := lobby.join(poker.NewPlayerID())
	assert.Error(t, err)
}

func TestSetMatchmakingRejectsNonMember(t *testing.T) {
	host := poker.NewPlayerID()
	lobby := newLobby("table", host, DefaultLobbySettings())

	err := lobby.setMatchmaking(poker.NewPlayerID(), true)
	assert.Error(t, err)
}

func TestStartRejectsFewerThanTwoMembers(t *testing.T) {
	host := poker.NewPlayerID()
	lobby := newLobby("table", host, DefaultLobbySettings())
	require.NoError(t, lobby.setMatchmaking(host, true))

	err := lobby.start(context.Background(), nil)
	assert.Error(t, err)
}

func TestStartRejectsUnlessEveryMemberAccepted(t *testing.T) {
	host := poker.NewPlayerID()
	lobby := newLobby("table", host, DefaultLobbySettings())
	p2 := poker.NewPlayerID()
	require.NoError(t, lobby.join(p2))
	require.NoError(t, lobby.setMatchmaking(host, true))
	// p2 never accepts

	err := lobby.start(context.Background(), nil)
	assert.Error(t, err)
}

func TestStartLaunchesDriverIntoAntePhase(t *testing.T) {
	host := poker.NewPlayerID()
	lobby := newLobby("table", host, DefaultLobbySettings())
	p2 := poker.NewPlayerID()
	require.NoError(t, lobby.join(p2))
	require.NoError(t, lobby.setMatchmaking(host, true))
	require.NoError(t, lobby.setMatchmaking(p2, true))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, lobby.start(ctx, nil))
	assert.True(t, lobby.view().GameStarted)

	require.NotNil(t, lobby.table)
	sub, id := lobby.table.Broadcaster.Subscribe()
	defer lobby.table.Broadcaster.Unsubscribe(id)

	select {
	case snap := <-sub:
		require.NotNil(t, snap)
		require.NotNil(t, snap.Match)
		_, isAnteView := snap.Match.phaseView.(poker.AnteView)
		assert.True(t, isAnteView)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for initial Ante snapshot")
	}

	// starting twice is rejected
	assert.Error(t, lobby.start(ctx, nil))
}

func TestRegistryCreateGetListRemove(t *testing.T) {
	r := NewRegistry()
	host := poker.NewPlayerID()
	view := r.Create("table", host, DefaultLobbySettings())

	lobby, ok := r.Get(view.ID)
	require.True(t, ok)
	assert.Equal(t, host, lobby.HostID)

	assert.Len(t, r.List(), 1)

	found, ok := r.FindByMember(host)
	require.True(t, ok)
	assert.Equal(t, view.ID, found.ID)

	r.Remove(view.ID)
	_, ok = r.Get(view.ID)
	assert.False(t, ok)
}
