package server

import "github.com/google/uuid"

// LobbyID is an opaque 128-bit lobby identifier, rendered as a canonical
// 36-char string on the wire.
type LobbyID uuid.UUID

// NewLobbyID generates a fresh random lobby identifier.
func NewLobbyID() LobbyID { return LobbyID(uuid.New()) }

func (id LobbyID) String() string { return uuid.UUID(id).String() }
