package eventpubsub

const (
	QuotePairAdded  = "QuotePairAdded"
	QuotesSubmitted = "QuotesSubmitted"
)
