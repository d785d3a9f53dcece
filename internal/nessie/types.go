package nessie

// Wire types for the sandbox banking API. The remote schema is snake_case;
// the mapping to the internal model happens at this boundary only.

type Account struct {
	ID            string  `json:"_id"`
	Type          string  `json:"type"`
	Nickname      string  `json:"nickname"`
	Rewards       int     `json:"rewards"`
	Balance       float64 `json:"balance"`
	AccountNumber string  `json:"account_number"`
	CustomerID    string  `json:"customer_id"`
}

type Purchase struct {
	ID           string  `json:"_id"`
	MerchantID   string  `json:"merchant_id"`
	PayerID      string  `json:"payer_id"`
	Amount       float64 `json:"amount"`
	PurchaseDate string  `json:"purchase_date"`
	Description  string  `json:"description"`
	Status       string  `json:"status"`
	Medium       string  `json:"medium"`
}

type Deposit struct {
	ID              string  `json:"_id"`
	PayeeID         string  `json:"payee_id"`
	Amount          float64 `json:"amount"`
	TransactionDate string  `json:"transaction_date"`
	Description     string  `json:"description"`
	Status          string  `json:"status"`
	Medium          string  `json:"medium"`
}

type Merchant struct {
	ID       string `json:"_id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// CreateAccountRequest is the payload for creating a sandbox account.
type CreateAccountRequest struct {
	Type     string  `json:"type"`
	Nickname string  `json:"nickname"`
	Rewards  int     `json:"rewards"`
	Balance  float64 `json:"balance"`
}
