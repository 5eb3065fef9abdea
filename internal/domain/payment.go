package domain

type CardDetails struct {
	Number     string
	Expiry     string
	CVV        string
	NameOnCard string
}

type PaymentRequest struct {
	Amount  Money
	Method  string
	Card    *CardDetails
	Billing *Address
}

type PaymentResult struct {
	Success       bool
	TransactionID string
	Method        string
	Error         string
}
