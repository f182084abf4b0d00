package domain

// SignedTransaction is the client-facing submission: an EIP-712 message
// plus its signature (spec §3).
type SignedTransaction struct {
	Message   SigningMessage `json:"message"`
	Signature Signature      `json:"signature"`
}

type signingMessageJSON struct {
	App         Address  `json:"app"`
	Nonce       uint64   `json:"nonce"`
	MaxGasPrice U256     `json:"max_gas_price"`
	Data        HexBytes `json:"data"`
}

// MarshalJSON renders the message with field-level hex/number wire forms.
func (m SigningMessage) MarshalJSON() ([]byte, error) {
	return jsonMarshal(signingMessageJSON{
		App:         m.App,
		Nonce:       m.Nonce,
		MaxGasPrice: m.MaxGasPrice,
		Data:        HexBytes(m.Data),
	})
}

// UnmarshalJSON parses the message from its wire JSON form.
func (m *SigningMessage) UnmarshalJSON(data []byte) error {
	var j signingMessageJSON
	if err := jsonUnmarshal(data, &j); err != nil {
		return err
	}
	m.App = j.App
	m.Nonce = j.Nonce
	m.MaxGasPrice = j.MaxGasPrice
	m.Data = []byte(j.Data)
	return nil
}

// WireTransaction is the flat, on-wire form of SignedTransaction used by
// the batch codec (spec §3): field-lifted, losslessly convertible.
type WireTransaction struct {
	App         Address
	Nonce       uint64
	MaxGasPrice U256
	Data        []byte
	Signature   Signature
}

// ToWire projects a SignedTransaction to its flat WireTransaction form.
func (t SignedTransaction) ToWire() WireTransaction {
	return WireTransaction{
		App:         t.Message.App,
		Nonce:       t.Message.Nonce,
		MaxGasPrice: t.Message.MaxGasPrice,
		Data:        t.Message.Data,
		Signature:   t.Signature,
	}
}

// ToSigned reconstructs a SignedTransaction from its flat wire form.
func (w WireTransaction) ToSigned() SignedTransaction {
	return SignedTransaction{
		Message: SigningMessage{
			App:         w.App,
			Nonce:       w.Nonce,
			MaxGasPrice: w.MaxGasPrice,
			Data:        w.Data,
		},
		Signature: w.Signature,
	}
}

type wireTransactionJSON struct {
	App         Address   `json:"app"`
	Nonce       uint64    `json:"nonce"`
	MaxGasPrice U256      `json:"max_gas_price"`
	Data        HexBytes  `json:"data"`
	Signature   Signature `json:"signature"`
}

func (w WireTransaction) MarshalJSON() ([]byte, error) {
	return jsonMarshal(wireTransactionJSON{
		App:         w.App,
		Nonce:       w.Nonce,
		MaxGasPrice: w.MaxGasPrice,
		Data:        HexBytes(w.Data),
		Signature:   w.Signature,
	})
}

func (w *WireTransaction) UnmarshalJSON(data []byte) error {
	var j wireTransactionJSON
	if err := jsonUnmarshal(data, &j); err != nil {
		return err
	}
	w.App = j.App
	w.Nonce = j.Nonce
	w.MaxGasPrice = j.MaxGasPrice
	w.Data = []byte(j.Data)
	w.Signature = j.Signature
	return nil
}

// Transaction is a verified transaction: produced only by a successful
// recover+nonce-check, never constructed directly from untrusted input
// (spec §3).
type Transaction struct {
	Sender      Address
	App         Address
	Nonce       uint64
	MaxGasPrice U256
	Data        []byte
}

// Cost computes max_gas_price * len(data) with overflow-checked U256
// multiplication. On overflow ok is false and the caller must treat the
// cost as unbounded (spec §3, §4.5).
func (t Transaction) Cost() (cost U256, ok bool) {
	length := NewU256FromUint64(uint64(len(t.Data)))
	return CheckedMul(t.MaxGasPrice, length)
}
