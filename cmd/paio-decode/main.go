// paio-decode reads a hex-encoded batch from stdin and prints its JSON
// form, mirroring the original prototype's decode-batch and
// tripa/decode.rs CLI utilities: read stdin, hex-decode, decode the
// batch, print JSON.
package main

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/cartesi/paio-sequencer/codec"
)

func main() {
	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reading stdin: %v\n", err)
		os.Exit(1)
	}

	hexInput := strings.TrimSpace(string(raw))
	hexInput = strings.TrimPrefix(hexInput, "0x")
	hexInput = strings.TrimPrefix(hexInput, "0X")

	decoded, err := hex.DecodeString(hexInput)
	if err != nil {
		fmt.Fprintf(os.Stderr, "could not decode hex: %v\n", err)
		os.Exit(1)
	}

	b, err := codec.DecodeBatch(decoded)
	if err != nil {
		fmt.Fprintf(os.Stderr, "not a proper batch: %v\n", err)
		os.Exit(1)
	}

	out, err := json.Marshal(b)
	if err != nil {
		fmt.Fprintf(os.Stderr, "encoding batch as json: %v\n", err)
		os.Exit(1)
	}
	os.Stdout.Write(out)
	os.Stdout.WriteString("\n")
}
