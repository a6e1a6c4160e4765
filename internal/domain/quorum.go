package domain

import (
	"math/big"
)

// BasisPointsDenominator is 100% expressed in basis points.
const BasisPointsDenominator = 10_000

// QuorumThreshold returns ceil(memberCount * basisPoints / 10000), in the
// token's base units.
func QuorumThreshold(memberCount, basisPoints uint64) *big.Int {
	num := new(big.Int).Mul(new(big.Int).SetUint64(memberCount), new(big.Int).SetUint64(basisPoints))
	den := big.NewInt(BasisPointsDenominator)
	num.Add(num, new(big.Int).Sub(den, big.NewInt(1)))
	return num.Quo(num, den)
}

// ValidBasisPoints reports whether bp lies within 0..10000
func ValidBasisPoints(bp uint64) bool {
	return bp <= BasisPointsDenominator
}
