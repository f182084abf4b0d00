package domain

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

// Eip712Domain is the fixed, process-wide EIP-712 domain every
// SigningMessage is hashed under. It is a compile-time constant for this
// deployment (spec §3) — the sequencer never signs two different domains
// in the same process.
type Eip712Domain struct {
	Name              string
	Version           string
	ChainID           uint64
	VerifyingContract Address
}

// Domain is the sequencer's fixed EIP-712 domain (spec §8 invariant I2).
var Domain = Eip712Domain{
	Name:              "CartesiPaio",
	Version:           "0.0.1",
	ChainID:           1337,
	VerifyingContract: ZeroAddress,
}

type domainJSON struct {
	Name              string `json:"name"`
	Version           string `json:"version"`
	ChainID           string `json:"chainId"`
	VerifyingContract string `json:"verifyingContract"`
}

// MarshalJSON renders the domain the way a client-facing EIP-712 domain
// JSON form is expected to look: chainId as 0x-hex, verifyingContract as
// 0x-hex address.
func (d Eip712Domain) MarshalJSON() ([]byte, error) {
	j := domainJSON{
		Name:              d.Name,
		Version:           d.Version,
		ChainID:           minimalHex(d.ChainID),
		VerifyingContract: d.VerifyingContract.Hex(),
	}
	return jsonMarshal(j)
}

// minimalHex renders n as a 0x-prefixed, lowercase, zero-stripped hex
// string (e.g. 1337 -> "0x539"), matching the domain JSON convention.
func minimalHex(n uint64) string {
	return "0x" + strings.TrimLeft(fmt.Sprintf("%x", n), "0")
}

// signingMessageTypeString is the EIP-712 type string for SigningMessage,
// used verbatim in the struct type hash (spec §4.1).
const signingMessageTypeString = "SigningMessage(address app,uint64 nonce,uint128 max_gas_price,bytes data)"

var signingMessageTypeHash = crypto.Keccak256([]byte(signingMessageTypeString))

var eip712DomainTypeHash = crypto.Keccak256([]byte(
	"EIP712Domain(string name,string version,uint256 chainId,address verifyingContract)",
))

// SigningMessage is the EIP-712 struct the user signs (spec §3).
type SigningMessage struct {
	App         Address
	Nonce       uint64
	MaxGasPrice U256
	Data        []byte
}

func pad32Uint64(n uint64) [32]byte {
	var out [32]byte
	for i := 0; i < 8; i++ {
		out[31-i] = byte(n >> (8 * i))
	}
	return out
}

func pad32Address(a Address) [32]byte {
	var out [32]byte
	copy(out[12:], a[:])
	return out
}

// structHash computes keccak256(typeHash || encode(app) || encode(nonce)
// || encode(max_gas_price) || keccak256(data)) per spec §4.1.
func structHash(msg SigningMessage) [32]byte {
	appWord := pad32Address(msg.App)
	nonceWord := pad32Uint64(msg.Nonce)
	gasPriceWord := msg.MaxGasPrice.pad32()
	dataHash := crypto.Keccak256(msg.Data)

	buf := make([]byte, 0, 32+32+32+32+32)
	buf = append(buf, signingMessageTypeHash...)
	buf = append(buf, appWord[:]...)
	buf = append(buf, nonceWord[:]...)
	buf = append(buf, gasPriceWord[:]...)
	buf = append(buf, dataHash...)
	return [32]byte(crypto.Keccak256(buf))
}

// domainSeparator computes the EIP-712 domain separator for d.
func domainSeparator(d Eip712Domain) [32]byte {
	nameHash := crypto.Keccak256([]byte(d.Name))
	versionHash := crypto.Keccak256([]byte(d.Version))
	chainIDWord := pad32Uint64(d.ChainID)
	contractWord := pad32Address(d.VerifyingContract)

	buf := make([]byte, 0, 32*5)
	buf = append(buf, eip712DomainTypeHash...)
	buf = append(buf, nameHash...)
	buf = append(buf, versionHash...)
	buf = append(buf, chainIDWord[:]...)
	buf = append(buf, contractWord[:]...)
	return [32]byte(crypto.Keccak256(buf))
}

// SigningHash returns the 32-byte EIP-712 digest for msg under domain
// (spec §4.1): keccak256(0x1901 || domainSeparator || structHash).
func SigningHash(msg SigningMessage, domain Eip712Domain) [32]byte {
	sep := domainSeparator(domain)
	sh := structHash(msg)

	buf := make([]byte, 0, 2+32+32)
	buf = append(buf, 0x19, 0x01)
	buf = append(buf, sep[:]...)
	buf = append(buf, sh[:]...)
	return [32]byte(crypto.Keccak256(buf))
}

// HexBytes is a byte slice that (un)marshals as 0x-prefixed hex.
type HexBytes []byte

func (b HexBytes) MarshalJSON() ([]byte, error) {
	return []byte(`"0x` + hex.EncodeToString(b) + `"`), nil
}

func (b *HexBytes) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	s = strings.TrimPrefix(s, "0x")
	s = strings.TrimPrefix(s, "0X")
	if s == "" {
		*b = HexBytes{}
		return nil
	}
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return fmt.Errorf("domain: invalid hex bytes: %w", err)
	}
	*b = decoded
	return nil
}
