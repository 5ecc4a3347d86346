package poker

import "github.com/google/uuid"

// PlayerID, MatchID, and PotID are opaque 128-bit identifiers rendered as
// canonical 36-char strings on the wire.
type PlayerID uuid.UUID

// NewPlayerID generates a fresh random player identifier.
func NewPlayerID() PlayerID { return PlayerID(uuid.New()) }

// String renders the ID in canonical UUID form.
func (id PlayerID) String() string { return uuid.UUID(id).String() }

// MatchID identifies a single hand of poker from Ante through Showdown.
type MatchID uuid.UUID

// NewMatchID generates a fresh random match identifier.
func NewMatchID() MatchID { return MatchID(uuid.New()) }

func (id MatchID) String() string { return uuid.UUID(id).String() }

// PotID identifies a single credit pot within a match.
type PotID uuid.UUID

// NewPotID generates a fresh random pot identifier.
func NewPotID() PotID { return PotID(uuid.New()) }

func (id PotID) String() string { return uuid.UUID(id).String() }
