package reader_test

import (
	"context"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/tranvictor/onchaincheck/util/reader"
)

const tokenURIABI = `[{"type":"function","name":"tokenURI","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"string"}]}]`

const contract = "0xbc4ca0eda7647a8ab7c2061c2e118a18a936f13d"

type rpcRequest struct {
	ID     json.RawMessage   `json:"id"`
	Method string            `json:"method"`
	Params []json.RawMessage `json:"params"`
}

type callArg struct {
	To    string `json:"to"`
	Input string `json:"input"`
	Data  string `json:"data"`
}

func parseABI(t *testing.T, s string) *abi.ABI {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(s))
	if err != nil {
		t.Fatalf("parse abi: %s", err)
	}
	return &parsed
}

// newNode starts a fake JSON-RPC node answering eth_call with respond.
func newNode(t *testing.T, respond func(arg callArg) (result string, errMsg string)) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := rpcRequest{}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad rpc request: %s", err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		if req.Method != "eth_call" {
			resp["error"] = map[string]any{"code": -32601, "message": "method not found"}
			json.NewEncoder(w).Encode(resp)
			return
		}
		arg := callArg{}
		json.Unmarshal(req.Params[0], &arg)
		result, errMsg := respond(arg)
		if errMsg != "" {
			resp["error"] = map[string]any{"code": -32000, "message": errMsg}
		} else {
			resp["result"] = result
		}
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func encodedURI(t *testing.T, parsed *abi.ABI, uri string) string {
	t.Helper()
	out, err := parsed.Methods["tokenURI"].Outputs.Pack(uri)
	if err != nil {
		t.Fatalf("pack output: %s", err)
	}
	return hexutil.Encode(out)
}

func TestTokenURI(t *testing.T) {
	parsed := parseABI(t, tokenURIABI)
	wantInput, err := parsed.Pack("tokenURI", big.NewInt(1))
	if err != nil {
		t.Fatalf("pack input: %s", err)
	}

	node := newNode(t, func(arg callArg) (string, string) {
		if !strings.EqualFold(arg.To, contract) {
			t.Errorf("call sent to %s", arg.To)
		}
		input := arg.Input
		if input == "" {
			input = arg.Data
		}
		if input != hexutil.Encode(wantInput) {
			t.Errorf("call input = %s, want %s", input, hexutil.Encode(wantInput))
		}
		return encodedURI(t, parsed, "ipfs://QmeSjSinHpPnmXmspMjwiXyN6zS4E9zccariGR3jxcaWtq/1"), ""
	})

	er := reader.NewEthReaderGeneric(map[string]string{"fake": node.URL}, 0)
	uri, err := er.TokenURI(context.Background(), contract, parsed, big.NewInt(1))
	if err != nil {
		t.Fatalf("TokenURI: %s", err)
	}
	if uri != "ipfs://QmeSjSinHpPnmXmspMjwiXyN6zS4E9zccariGR3jxcaWtq/1" {
		t.Fatalf("TokenURI = %q", uri)
	}
}

func TestTokenURIFirstSuccessWins(t *testing.T) {
	parsed := parseABI(t, tokenURIABI)
	bad := newNode(t, func(callArg) (string, string) {
		return "", "execution reverted"
	})
	good := newNode(t, func(callArg) (string, string) {
		return encodedURI(t, parsed, "https://example.com/1"), ""
	})

	er := reader.NewEthReaderGeneric(map[string]string{"bad": bad.URL, "good": good.URL}, 0)
	uri, err := er.TokenURI(context.Background(), contract, parsed, big.NewInt(1))
	if err != nil {
		t.Fatalf("TokenURI: %s", err)
	}
	if uri != "https://example.com/1" {
		t.Fatalf("TokenURI = %q", uri)
	}
}

func TestTokenURIAllNodesFail(t *testing.T) {
	parsed := parseABI(t, tokenURIABI)
	reverting := newNode(t, func(callArg) (string, string) {
		return "", "execution reverted"
	})
	empty := newNode(t, func(callArg) (string, string) {
		return "0x", ""
	})

	er := reader.NewEthReaderGeneric(map[string]string{"reverting": reverting.URL, "empty": empty.URL}, 0)
	_, err := er.TokenURI(context.Background(), contract, parsed, big.NewInt(1))
	if err == nil {
		t.Fatalf("expected error")
	}
	for _, name := range []string{"reverting", "empty"} {
		if !strings.Contains(err.Error(), name) {
			t.Errorf("error %q doesn't mention node %s", err, name)
		}
	}
}

func TestTokenURIMissingMethod(t *testing.T) {
	parsed := parseABI(t, `[{"type":"function","name":"name","stateMutability":"view","inputs":[],"outputs":[{"name":"","type":"string"}]}]`)
	node := newNode(t, func(callArg) (string, string) {
		t.Errorf("no call expected when the abi lacks tokenURI")
		return "0x", ""
	})

	er := reader.NewEthReaderGeneric(map[string]string{"fake": node.URL}, 0)
	if _, err := er.TokenURI(context.Background(), contract, parsed, big.NewInt(1)); err == nil {
		t.Fatalf("expected error")
	}
}

func TestTokenURIInvalidAddress(t *testing.T) {
	er := reader.NewEthReaderGeneric(map[string]string{"fake": "http://127.0.0.1:0"}, 0)
	if _, err := er.TokenURI(context.Background(), "not-an-address", parseABI(t, tokenURIABI), big.NewInt(1)); err == nil {
		t.Fatalf("expected error")
	}
}

func TestTokenURINoNodes(t *testing.T) {
	er := reader.NewEthReader()
	if _, err := er.TokenURI(context.Background(), contract, parseABI(t, tokenURIABI), big.NewInt(1)); err != reader.ErrNoNodes {
		t.Fatalf("err = %v, want ErrNoNodes", err)
	}
}

func TestNodesSorted(t *testing.T) {
	er := reader.NewEthReaderGeneric(map[string]string{"b": "http://b", "a": "http://a"}, 0)
	got := er.Nodes()
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("Nodes() = %v", got)
	}
}
