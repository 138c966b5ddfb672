package eventmodels

type QuoteStatus string

const (
	QuoteStatusActive   QuoteStatus = "active"
	QuoteStatusApproved QuoteStatus = "approved"
	QuoteStatusRejected QuoteStatus = "rejected"
)
