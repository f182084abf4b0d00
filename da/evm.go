package da

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// addInputSig is the 4-byte selector for InputBox.addInput(address,bytes),
// manually computed the way the teacher computes transferWithAuthorization's
// selector in local_facilitator.go — no abi.JSON parse needed for one call.
var addInputSig = crypto.Keccak256([]byte("addInput(address,bytes)"))[:4]

// inputAddedTopic is keccak256("InputAdded(address,uint256,bytes)"), the
// event the InputBox contract emits once the input is appended (spec
// §4.9 EVM adapter).
var inputAddedTopic = crypto.Keccak256Hash([]byte("InputAdded(address,uint256,bytes)"))

// EVMPublisher submits raw batch bytes to a deployed InputBox contract as
// one dapp input, paying gas from its own key, following exactly the
// dial/estimate/fee-cap/sign/send sequence the teacher's LocalFacilitator
// uses to settle a USDC transferWithAuthorization (spec §4.9 EVM).
type EVMPublisher struct {
	rpcURL      string
	privateKey  *ecdsa.PrivateKey
	address     common.Address
	inputBox    common.Address
	dappAddress common.Address
	chainID     *big.Int
}

// NewEVMPublisher builds an EVMPublisher. privateKeyHex is the sequencer's
// signing key (spec §6 sequencer_signer_string); inputBoxAddr and
// dappAddr are the deployed InputBox and the application's own address,
// both 0x-hex.
func NewEVMPublisher(rpcURL, privateKeyHex, inputBoxAddr, dappAddr string, chainID *big.Int) (*EVMPublisher, error) {
	key, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("da: invalid sequencer signer key: %w", err)
	}
	return &EVMPublisher{
		rpcURL:      rpcURL,
		privateKey:  key,
		address:     crypto.PubkeyToAddress(key.PublicKey),
		inputBox:    common.HexToAddress(inputBoxAddr),
		dappAddress: common.HexToAddress(dappAddr),
		chainID:     chainID,
	}, nil
}

// Publish ABI-encodes addInput(dappAddress, raw), submits it to the
// InputBox contract, waits for the receipt, and confirms an InputAdded
// log was emitted carrying raw as part of its payload (spec §4.9: "verify
// the emitted InputAdded ... log contains raw_bytes as a substring of
// input").
func (p *EVMPublisher) Publish(ctx context.Context, raw []byte) error {
	client, err := ethclient.DialContext(ctx, p.rpcURL)
	if err != nil {
		return fmt.Errorf("da: evm rpc connect: %w", err)
	}
	defer client.Close()

	callData := packAddInput(p.dappAddress, raw)

	nonce, err := client.PendingNonceAt(ctx, p.address)
	if err != nil {
		return fmt.Errorf("da: evm pending nonce: %w", err)
	}

	gasLimit := uint64(200_000)
	if est, err := client.EstimateGas(ctx, ethereum.CallMsg{
		From: p.address,
		To:   &p.inputBox,
		Data: callData,
	}); err == nil {
		gasLimit = est * 12 / 10
	}

	header, err := client.HeaderByNumber(ctx, nil)
	if err != nil {
		return fmt.Errorf("da: evm latest header: %w", err)
	}
	tip := big.NewInt(1e9)
	feeCap := new(big.Int).Add(header.BaseFee, tip)

	tx := types.NewTx(&types.DynamicFeeTx{
		ChainID:   p.chainID,
		Nonce:     nonce,
		GasTipCap: tip,
		GasFeeCap: feeCap,
		Gas:       gasLimit,
		To:        &p.inputBox,
		Value:     new(big.Int),
		Data:      callData,
	})

	signed, err := types.SignTx(tx, types.NewLondonSigner(p.chainID), p.privateKey)
	if err != nil {
		return fmt.Errorf("da: evm signing input tx: %w", err)
	}

	if err := client.SendTransaction(ctx, signed); err != nil {
		return fmt.Errorf("da: evm send input tx: %w", err)
	}

	receipt, err := waitForReceipt(ctx, client, signed.Hash())
	if err != nil {
		return fmt.Errorf("da: evm waiting for receipt: %w", err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return fmt.Errorf("da: evm input tx reverted: %s", signed.Hash().Hex())
	}

	for _, l := range receipt.Logs {
		if l.Address != p.inputBox || len(l.Topics) == 0 || l.Topics[0] != inputAddedTopic {
			continue
		}
		if bytes.Contains(l.Data, raw) {
			return nil
		}
	}
	return fmt.Errorf("da: evm InputAdded log did not contain the published batch: %s", signed.Hash().Hex())
}

// packAddInput manually ABI-encodes addInput(address,bytes): selector,
// the dapp address padded to 32 bytes, the dynamic-bytes offset, length,
// and the right-padded payload, in the same style as the teacher's
// packTransferWithAuth.
func packAddInput(dapp common.Address, payload []byte) []byte {
	head := make([]byte, 4+2*32)
	copy(head[:4], addInputSig)
	copy(head[4+12:4+32], dapp.Bytes())
	// dynamic "bytes" arg starts right after the two head words.
	offset := new(big.Int).SetInt64(64)
	copy(head[4+32:4+64], pad32Big(offset))

	tailLen := new(big.Int).SetInt64(int64(len(payload)))
	padded := ((len(payload) + 31) / 32) * 32
	tail := make([]byte, 32+padded)
	copy(tail[:32], pad32Big(tailLen))
	copy(tail[32:32+len(payload)], payload)

	return append(head, tail...)
}

func pad32Big(n *big.Int) []byte {
	b := n.Bytes()
	out := make([]byte, 32)
	copy(out[32-len(b):], b)
	return out
}

// waitForReceipt polls for a mined receipt, the way a CLI tool without a
// subscription-capable transport would: TransactionReceipt returns
// ethereum.NotFound until the transaction is included.
func waitForReceipt(ctx context.Context, client *ethclient.Client, hash common.Hash) (*types.Receipt, error) {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	for {
		receipt, err := client.TransactionReceipt(ctx, hash)
		if err == nil {
			return receipt, nil
		}
		if !errors.Is(err, ethereum.NotFound) {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
