package game

type ActionKind int

const (
	ActionMove ActionKind = iota + 1
	ActionAttack
	ActionDefend
	ActionSendMessage
)

func (k ActionKind) String() string {
	switch k {
	case ActionMove:
		return "move"
	case ActionAttack:
		return "attack"
	case ActionDefend:
		return "defend"
	case ActionSendMessage:
		return "send_message"
	default:
		return "unknown"
	}
}

// Action is the single decision for a turn. Direction is meaningful for Move and Attack
// and is still carried (and encoded) for Defend. Message is only used by SendMessage.
type Action struct {
	Kind      ActionKind `json:"kind"`
	Direction Direction  `json:"direction"`
	Message   string     `json:"message,omitempty"`
}

func Move(d Direction) Action   { return Action{Kind: ActionMove, Direction: d} }
func Attack(d Direction) Action { return Action{Kind: ActionAttack, Direction: d} }
func Defend() Action            { return Action{Kind: ActionDefend, Direction: North} }

// SendMessage is never produced by the built-in policy.
func SendMessage(text string) Action {
	return Action{Kind: ActionSendMessage, Direction: North, Message: text}
}
