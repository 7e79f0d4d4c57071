package onchain

// StorageType tells where an NFT's metadata and image are stored. Its
// numeric value is part of the HTTP response.
type StorageType int

const (
	Unknown      StorageType = 0
	FullyOnChain StorageType = 1
	OffChain     StorageType = 2
)

func (t StorageType) String() string {
	switch t {
	case FullyOnChain:
		return "fully on-chain"
	case OffChain:
		return "off-chain"
	default:
		return "unknown"
	}
}

// Result is the outcome of one classification.
type Result struct {
	ShortURI string      `json:"short_uri"`
	Type     StorageType `json:"type"`
}

// UnknownResult is returned when the token URI couldn't be fetched, e.g. the
// contract ABI is unverified or the contract call failed.
func UnknownResult() Result {
	return Result{ShortURI: "", Type: Unknown}
}
