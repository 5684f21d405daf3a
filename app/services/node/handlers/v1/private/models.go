package private

type hashRequest struct {
	Hash string `json:"hash" validate:"required"`
}

type amountRequest struct {
	Amount *int64 `json:"amount" validate:"required"`
}

type peerRequest struct {
	IP   string `json:"ip" validate:"required"`
	Port uint16 `json:"port" validate:"required"`
}

type heightResponse struct {
	Height uint64 `json:"height"`
}

type balanceResponse struct {
	Amount int64 `json:"amount"`
}

type statusResponse struct {
	Status string `json:"status"`
}
