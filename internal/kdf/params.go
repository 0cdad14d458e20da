package kdf

import (
	"encoding/binary"
	"fmt"
)

// ParamsSize is the length of a serialized Params block.
const ParamsSize = 9

// Params fixes the work factor of a derivation.
//
// The meaning of the fields depends on the function:
//
//	argon2id: Cost = passes,     Memory = KiB,          Parallelism = lanes
//	scrypt:   Cost = log2(N),    Memory = block size r, Parallelism = p
//	pbkdf2:   Cost = iterations, Memory = 0,            Parallelism = 0
type Params struct {
	Function    Function
	Cost        uint32
	Memory      uint32
	Parallelism uint8
}

// Limits for parameters, applied to both user input and values read from headers.
const (
	argonMinTime      = 1
	argonMaxTime      = 10
	argonMaxMemoryKiB = 1 << 20 // 1 GiB
	argonMaxThreads   = 16

	scryptMinLogN     = 1
	scryptMaxLogN     = 24
	scryptMaxR        = 32
	scryptMaxP        = 16
	scryptMaxMemBytes = 1 << 30

	pbkdf2MinIterations = 1_000
	pbkdf2MaxIterations = 10_000_000
)

// DefaultParams returns the recommended parameters for f.
func DefaultParams(f Function) Params {
	switch f {
	case Scrypt:
		return Params{Function: Scrypt, Cost: 17, Memory: 8, Parallelism: 1}
	case PBKDF2:
		return Params{Function: PBKDF2, Cost: 600_000}
	default:
		return Params{Function: Argon2id, Cost: 3, Memory: 64 * 1024, Parallelism: 4}
	}
}

// Validate checks the parameters against the accepted ranges.
// Memory demands above the ceiling yield ErrDerivationFailed, everything else ErrInvalidKey.
//
//nolint:cyclop
func (p Params) Validate() error {
	switch p.Function {
	case Argon2id:
		if p.Cost < argonMinTime || p.Cost > argonMaxTime {
			return fmt.Errorf("%w: argon2id time %d out of range [%d, %d]", ErrInvalidKey, p.Cost, argonMinTime, argonMaxTime)
		}

		if p.Parallelism < 1 || p.Parallelism > argonMaxThreads {
			return fmt.Errorf("%w: argon2id parallelism %d out of range [1, %d]", ErrInvalidKey, p.Parallelism, argonMaxThreads)
		}

		if p.Memory < 8*uint32(p.Parallelism) {
			return fmt.Errorf("%w: argon2id memory %d KiB below %d KiB", ErrInvalidKey, p.Memory, 8*uint32(p.Parallelism))
		}

		if p.Memory > argonMaxMemoryKiB {
			return fmt.Errorf("%w: argon2id memory %d KiB exceeds %d KiB", ErrDerivationFailed, p.Memory, argonMaxMemoryKiB)
		}
	case Scrypt:
		if p.Cost < scryptMinLogN || p.Cost > scryptMaxLogN {
			return fmt.Errorf("%w: scrypt log2(N) %d out of range [%d, %d]", ErrInvalidKey, p.Cost, scryptMinLogN, scryptMaxLogN)
		}

		if p.Memory < 1 || p.Memory > scryptMaxR {
			return fmt.Errorf("%w: scrypt r %d out of range [1, %d]", ErrInvalidKey, p.Memory, scryptMaxR)
		}

		if p.Parallelism < 1 || p.Parallelism > scryptMaxP {
			return fmt.Errorf("%w: scrypt p %d out of range [1, %d]", ErrInvalidKey, p.Parallelism, scryptMaxP)
		}

		if need := uint64(128) * uint64(p.Memory) * (uint64(1) << p.Cost); need > scryptMaxMemBytes {
			return fmt.Errorf("%w: scrypt needs %d bytes, limit is %d", ErrDerivationFailed, need, scryptMaxMemBytes)
		}
	case PBKDF2:
		if p.Cost < pbkdf2MinIterations || p.Cost > pbkdf2MaxIterations {
			return fmt.Errorf("%w: pbkdf2 iterations %d out of range [%d, %d]",
				ErrInvalidKey, p.Cost, pbkdf2MinIterations, pbkdf2MaxIterations)
		}

		if p.Memory != 0 || p.Parallelism != 0 {
			return fmt.Errorf("%w: pbkdf2 takes no memory or parallelism cost", ErrInvalidKey)
		}
	default:
		return fmt.Errorf("%w: %d", ErrUnknownFunction, p.Function)
	}

	return nil
}

// MarshalBinary encodes the cost fields as big-endian cost, memory and parallelism.
// The function id is not part of the block.
func (p Params) MarshalBinary() ([]byte, error) {
	out := make([]byte, ParamsSize)

	binary.BigEndian.PutUint32(out[0:4], p.Cost)
	binary.BigEndian.PutUint32(out[4:8], p.Memory)
	out[8] = p.Parallelism

	return out, nil
}

// ParseParams decodes a block produced by MarshalBinary for function f.
func ParseParams(f Function, data []byte) (Params, error) {
	if !f.Valid() {
		return Params{}, fmt.Errorf("%w: %d", ErrUnknownFunction, f)
	}

	if len(data) != ParamsSize {
		return Params{}, fmt.Errorf("%w: parameter block is %d bytes, want %d", ErrInvalidKey, len(data), ParamsSize)
	}

	return Params{
		Function:    f,
		Cost:        binary.BigEndian.Uint32(data[0:4]),
		Memory:      binary.BigEndian.Uint32(data[4:8]),
		Parallelism: data[8],
	}, nil
}

// String renders the parameters for logs.
func (p Params) String() string {
	switch p.Function {
	case Argon2id:
		return fmt.Sprintf("argon2id(t=%d,m=%d,p=%d)", p.Cost, p.Memory, p.Parallelism)
	case Scrypt:
		return fmt.Sprintf("scrypt(N=2^%d,r=%d,p=%d)", p.Cost, p.Memory, p.Parallelism)
	case PBKDF2:
		return fmt.Sprintf("pbkdf2-sha256(i=%d)", p.Cost)
	default:
		return p.Function.String()
	}
}
