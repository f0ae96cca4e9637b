package domain

const (
	AccountStorageOverhead     = 128
	DefaultLamportsPerByteYear = 3480
	DefaultExemptionThreshold  = 2
)

type Rent struct {
	LamportsPerByteYear uint64
	ExemptionThreshold  uint64
}

// MinimumBalance is the deposit a slot of size bytes must hold to be rent exempt.
func (r Rent) MinimumBalance(size int) uint64 {
	return uint64(size+AccountStorageOverhead) * r.LamportsPerByteYear * r.ExemptionThreshold
}
