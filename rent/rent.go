// Package rent exposes the storage-cost parameters accounts are charged
// under, and the exemption rule the escrow record deposit is checked
// against. The parameters travel as data in a well-known sysvar account
// with a fixed 17-byte little-endian layout.
package rent

import (
	"encoding/binary"
	"math"

	"github.com/daragao/solana-escrow/errors"
	"github.com/daragao/solana-escrow/program"
)

// SysvarID is the well-known identity of the rent parameters account.
var SysvarID = program.MustPubkey("SysvarRent111111111111111111111111111111111")

const (
	// accountStorageOverhead is charged on top of the stored data length
	// to cover account metadata.
	accountStorageOverhead = 128

	// Len is the serialized size of the rent parameters.
	Len = 17
)

// Rent holds the current storage-cost schedule.
type Rent struct {
	// LamportsPerByteYear is the rental rate in lamports per byte-year.
	LamportsPerByteYear uint64
	// ExemptionThreshold is the amount of time, in years, a balance must
	// cover to be exempt from collection.
	ExemptionThreshold float64
	// BurnPercent of collected rent that is destroyed.
	BurnPercent uint8
}

// DefaultRent returns the canonical cost schedule.
func DefaultRent() Rent {
	return Rent{
		LamportsPerByteYear: 3480,
		ExemptionThreshold:  2.0,
		BurnPercent:         50,
	}
}

// MinimumBalance returns the smallest balance that makes an account with
// the given data length exempt from rent collection.
func (r Rent) MinimumBalance(dataLen int) uint64 {
	size := uint64(accountStorageOverhead + dataLen)
	return uint64(float64(size*r.LamportsPerByteYear) * r.ExemptionThreshold)
}

// IsExempt reports whether a balance covers the exemption threshold for the
// given data length.
func (r Rent) IsExempt(lamports uint64, dataLen int) bool {
	return lamports >= r.MinimumBalance(dataLen)
}

// FromAccount decodes the rent schedule from the sysvar account handle.
func FromAccount(acct *program.Account) (Rent, error) {
	if acct == nil {
		return Rent{}, errors.Wrap(errors.ErrNotFound, "rent sysvar")
	}
	if len(acct.Data) != Len {
		return Rent{}, errors.Wrapf(errors.ErrInvalidAccountData, "rent sysvar length %d", len(acct.Data))
	}
	return Rent{
		LamportsPerByteYear: binary.LittleEndian.Uint64(acct.Data[0:8]),
		ExemptionThreshold:  math.Float64frombits(binary.LittleEndian.Uint64(acct.Data[8:16])),
		BurnPercent:         acct.Data[16],
	}, nil
}

// AccountData serializes the schedule into the sysvar wire layout.
func (r Rent) AccountData() []byte {
	data := make([]byte, Len)
	binary.LittleEndian.PutUint64(data[0:8], r.LamportsPerByteYear)
	binary.LittleEndian.PutUint64(data[8:16], math.Float64bits(r.ExemptionThreshold))
	data[16] = r.BurnPercent
	return data
}
