package protocol

// Inbound message types (exact, case-sensitive match on the "type" field).
const (
	// TypeRecieveIntel keeps the coordinator's spelling.
	TypeRecieveIntel   = "recieve_intel"
	TypePlayTurn       = "play_turn"
	TypeNotifyGameOver = "notify_game_over"
)

// Outbound message types.
const (
	TypeRegisterAgent = "register_agent"
)

// Keys used to route a message.
const (
	KeyID      = "id"
	KeyType    = "type"
	KeyMessage = "message"
	KeyWinner  = "winner"
	KeyAgentID = "agent_id"
	KeyAction  = "action"
)

// MessageType returns the routing type of a raw message, or "" if absent.
func MessageType(doc string) string { return ExtractString(doc, KeyType) }

// MessageID returns the call id of a raw message, or "" if absent.
func MessageID(doc string) string { return ExtractString(doc, KeyID) }
