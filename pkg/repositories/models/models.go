package models

// Session is a rejoinable session on a game server.
type Session struct {
	// Address is the address the client was started with (locator or game server)
	Address   string `json:"address"`
	Name      string `json:"name"`
	PlayerID  uint32 `json:"player_id"`
	Token     string `json:"token"`
	UpdatedAt int64  `json:"updated_at"`
}
