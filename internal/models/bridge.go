package models

// Bridge message kinds exchanged with embedded game surfaces. The kind strings
// and field names are a wire contract and must not change.
const (
	BridgePlaceBet       = "PLACE_BET"
	BridgeReportWin      = "REPORT_WIN"
	BridgeRequestBalance = "REQUEST_BALANCE"
	BridgePing           = "PING"

	BridgeBalanceUpdate      = "BALANCE_UPDATE"
	BridgeTransactionSuccess = "TRANSACTION_SUCCESS"
	BridgeTransactionError   = "TRANSACTION_ERROR"
	BridgePong               = "PONG"
)

// BridgeMessage is an inbound message from an embedded game.
type BridgeMessage struct {
	Type     string   `json:"type"`
	TxID     string   `json:"txId,omitempty"`
	GameID   string   `json:"gameId,omitempty"`
	Amount   float64  `json:"amount,omitempty"`
	Currency Currency `json:"currency,omitempty"`
}

// BridgeReply is an outbound message pushed to an embedded game.
type BridgeReply struct {
	Type     string   `json:"type"`
	TxID     string   `json:"txId,omitempty"`
	GameID   string   `json:"gameId,omitempty"`
	Balance  *Balance `json:"balance,omitempty"`
	Error    string   `json:"error,omitempty"`
	ServerTS int64    `json:"ts"`
}

// TxType maps an inbound kind to the bridge transaction it records.
func (m *BridgeMessage) TxType() BridgeTxType {
	if m.Type == BridgeReportWin {
		return BridgeWin
	}
	return BridgeBet
}
