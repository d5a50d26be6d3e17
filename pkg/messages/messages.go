package messages

import (
	gametypes "github.com/cbodonnell/epochwars/pkg/game/types"
)

// Message types. Every message is a JSON object whose "type" field holds one of these.
const (
	MessageTypeClientWelcome  = "welcome"
	MessageTypeClientRejoin   = "rejoin"
	MessageTypeClientEndTurn  = "end_turn"
	MessageTypeClientBuild    = "build"
	MessageTypeClientExcavate = "excavate"

	MessageTypeServerWelcome   = "welcome"
	MessageTypeServerEndOfTurn = "end_of_turn"
	MessageTypeServerError     = "error"
	MessageTypeServerGameOver  = "game_over"
	MessageTypeServerDebug     = "debug"
)

// ClientMessage is a command sent from the client to the game server.
type ClientMessage interface {
	MessageType() string
	isClientMessage()
}

// ServerMessage is an answer sent from the game server to the client.
type ServerMessage interface {
	MessageType() string
	isServerMessage()
}

// ClientWelcome joins the game as a new player.
type ClientWelcome struct {
	Name string `json:"name"`
}

// ClientRejoin resumes a previous session.
type ClientRejoin struct {
	Token string `json:"token"`
}

// ClientEndTurn ends the current turn without further action.
type ClientEndTurn struct{}

// ClientBuild places a building.
type ClientBuild struct {
	X        uint32             `json:"x"`
	Y        uint32             `json:"y"`
	Building gametypes.Building `json:"building"`
}

// ClientExcavate probes a position.
type ClientExcavate struct {
	X uint32 `json:"x"`
	Y uint32 `json:"y"`
}

func (ClientWelcome) MessageType() string  { return MessageTypeClientWelcome }
func (ClientRejoin) MessageType() string   { return MessageTypeClientRejoin }
func (ClientEndTurn) MessageType() string  { return MessageTypeClientEndTurn }
func (ClientBuild) MessageType() string    { return MessageTypeClientBuild }
func (ClientExcavate) MessageType() string { return MessageTypeClientExcavate }

func (ClientWelcome) isClientMessage()  {}
func (ClientRejoin) isClientMessage()   {}
func (ClientEndTurn) isClientMessage()  {}
func (ClientBuild) isClientMessage()    {}
func (ClientExcavate) isClientMessage() {}

// ServerWelcome acknowledges a join or rejoin.
type ServerWelcome struct {
	Player  uint32         `json:"player"`
	MapSize gametypes.Size `json:"map_size"`
	Rejoin  string         `json:"rejoin"`
}

// ServerEndOfTurn carries the full game state at a turn boundary.
type ServerEndOfTurn struct {
	Scores         []gametypes.ScoreEntry        `json:"scores"`
	Map            []MapEntry                    `json:"map"`
	Turn           uint32                        `json:"turn"`
	ExcavateResult *ExcavateResult               `json:"excavate_result"`
	CurrentPrices  map[gametypes.Building]uint32 `json:"current_prices"`
	TowerCount     uint32                        `json:"tower_count"`
}

// MapEntry is a building placed on the map.
type MapEntry struct {
	Pos      gametypes.Position `json:"pos"`
	Building gametypes.Building `json:"building"`
}

// ExcavateResult is the outcome of the player's excavation in the last turn.
type ExcavateResult struct {
	Depth    int32               `json:"depth"`
	Building *gametypes.Building `json:"building"`
	Pos      gametypes.Position  `json:"pos"`
}

// ServerError reports a rejected action or another non-fatal failure.
type ServerError struct {
	Message  string              `json:"message"`
	Subtype  *string             `json:"subtype"`
	Pos      *gametypes.Position `json:"pos"`
	Building *gametypes.Building `json:"building"`
}

// ServerGameOver ends the game.
type ServerGameOver struct {
	Message string `json:"message"`
	Score   int32  `json:"score"`
}

// ServerDebug is diagnostic output from the server.
type ServerDebug struct {
	Message string `json:"message"`
}

func (ServerWelcome) MessageType() string   { return MessageTypeServerWelcome }
func (ServerEndOfTurn) MessageType() string { return MessageTypeServerEndOfTurn }
func (ServerError) MessageType() string     { return MessageTypeServerError }
func (ServerGameOver) MessageType() string  { return MessageTypeServerGameOver }
func (ServerDebug) MessageType() string     { return MessageTypeServerDebug }

func (ServerWelcome) isServerMessage()   {}
func (ServerEndOfTurn) isServerMessage() {}
func (ServerError) isServerMessage()     {}
func (ServerGameOver) isServerMessage()  {}
func (ServerDebug) isServerMessage()     {}

// Kind classifies the error subtype.
func (e ServerError) Kind() ErrorSubtype {
	if e.Subtype == nil {
		return ErrorSubtypeNone
	}
	return ParseErrorSubtype(*e.Subtype)
}
