package request

// JoinRequest is the request body for adding a player to a session
type JoinRequest struct {
	Name string `json:"name"`
}

// TransferRequest is the request body for a player-initiated transfer.
// To is a player id or the sentinel "bank".
type TransferRequest struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}

// DisburseRequest is the request body for a bank-initiated credit
type DisburseRequest struct {
	To     string `json:"to"`
	Amount int64  `json:"amount"`
}
