package codec

import (
	"encoding/json"

	"github.com/cartesi/paio-sequencer/domain"
)

type batchJSON struct {
	SequencerPaymentAddress domain.Address           `json:"sequencer_payment_address"`
	Txs                     []domain.WireTransaction `json:"txs"`
}

// MarshalJSON renders a Batch the way spec §8 scenario 6 expects:
// snake_case field names, txs as an array of WireTransaction objects.
func (b Batch) MarshalJSON() ([]byte, error) {
	return json.Marshal(batchJSON{
		SequencerPaymentAddress: b.SequencerPaymentAddress,
		Txs:                     b.Txs,
	})
}

// UnmarshalJSON parses a Batch from its wire JSON form.
func (b *Batch) UnmarshalJSON(data []byte) error {
	var j batchJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	b.SequencerPaymentAddress = j.SequencerPaymentAddress
	b.Txs = j.Txs
	return nil
}
