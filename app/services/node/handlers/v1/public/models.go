package public

import "github.com/ardanlabs/powchain/foundation/blockchain/database"

// newTx is the payload for submitting a transaction. Every field must be
// present but may hold a zero value.
type newTx struct {
	Sender    *string  `json:"sender" validate:"required"`
	Recipient *string  `json:"recipient" validate:"required"`
	Amount    *float64 `json:"amount" validate:"required"`
}

// registerNodes is the payload for registering peer nodes.
type registerNodes struct {
	Nodes []string `json:"nodes" validate:"required,min=1"`
}

// message is the response for operations that only report an outcome.
type message struct {
	Message string `json:"message"`
}

// forged is the response for a newly mined block.
type forged struct {
	Message      string        `json:"message"`
	Index        uint64        `json:"index"`
	Proof        uint64        `json:"proof"`
	PreviousHash string        `json:"previousHash"`
	Transactions []database.Tx `json:"transactions"`
}

// registered is the response for registering peer nodes.
type registered struct {
	Message    string   `json:"message"`
	TotalNodes []string `json:"totalNodes"`
}

// replaced is the response when conflict resolution adopted a peer's chain.
type replaced struct {
	Message  string           `json:"message"`
	NewChain []database.Block `json:"newChain"`
}

// authoritative is the response when conflict resolution kept the chain.
type authoritative struct {
	Message string           `json:"message"`
	Chain   []database.Block `json:"chain"`
}
