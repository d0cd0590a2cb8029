package public

import (
	"github.com/ardanlabs/ledger/business/sys/validate"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

type newAccount struct {
	Password string `json:"password" validate:"required"`
}

// Validate checks the data in the model is considered clean.
func (na newAccount) Validate() error {
	return validate.Check(na)
}

type account struct {
	Address database.Address `json:"address"`
}

type emission struct {
	Password string `json:"password"`
	Amount   uint64 `json:"amount"`
}

type transfer struct {
	Password string `json:"password"`
	To       string `json:"to" validate:"required,address"`
	Amount   uint64 `json:"amount" validate:"required"`
}

// Validate checks the data in the model is considered clean.
func (tr transfer) Validate() error {
	return validate.Check(tr)
}

type balance struct {
	Address string `json:"address"`
	Balance uint64 `json:"balance"`
}

type mining struct {
	State string `json:"state"`
}

type consensus struct {
	Replaced    bool     `json:"replaced"`
	ChainLength int      `json:"chain_length"`
	PeerErrors  []string `json:"peer_errors,omitempty"`
}
