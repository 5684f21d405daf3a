package public

import "github.com/abcchain/abc/foundation/nodestate"

type balance struct {
	Address string `json:"address"`
	Amount  int64  `json:"amount"`
}

type field struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

// toBalance maps the wallet into the balance response.
func toBalance(w nodestate.Wallet) balance {
	return balance{
		Address: w.Address,
		Amount:  w.Amount,
	}
}
