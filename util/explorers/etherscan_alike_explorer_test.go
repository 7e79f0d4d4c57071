package explorers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/tranvictor/onchaincheck/util/cache"
	"github.com/tranvictor/onchaincheck/util/explorers"
)

const tokenURIABI = `[{"type":"function","name":"tokenURI","stateMutability":"view","inputs":[{"name":"tokenId","type":"uint256"}],"outputs":[{"name":"","type":"string"}]}]`

func newRegistry(t *testing.T, handler func(w http.ResponseWriter, r *http.Request)) *explorers.EtherscanLikeExplorer {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(handler))
	t.Cleanup(srv.Close)
	return explorers.NewEtherscanLikeExplorer(srv.URL, "test-key", explorers.WithChainID(1))
}

func writeEnvelope(w http.ResponseWriter, status, message, result string) {
	json.NewEncoder(w).Encode(map[string]string{
		"status":  status,
		"message": message,
		"result":  result,
	})
}

func TestGetABIAvailable(t *testing.T) {
	ee := newRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if r.URL.Path != "/api" || q.Get("module") != "contract" || q.Get("action") != "getabi" {
			t.Errorf("unexpected request %s", r.URL)
		}
		if q.Get("address") != "0xabc" || q.Get("apikey") != "test-key" || q.Get("chainid") != "1" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		writeEnvelope(w, "1", "OK", tokenURIABI)
	})

	res := ee.GetABI(context.Background(), "0xabc")
	if !res.Available() {
		t.Fatalf("GetABI status = %s (%s), want available", res.Status, res.Message)
	}
	if _, ok := res.ABI.Methods["tokenURI"]; !ok {
		t.Fatalf("parsed abi has no tokenURI method")
	}
}

func TestGetABIUnverified(t *testing.T) {
	ee := newRegistry(t, func(w http.ResponseWriter, r *http.Request) {
		writeEnvelope(w, "0", "NOTOK", "Contract source code not verified")
	})

	res := ee.GetABI(context.Background(), "0xabc")
	if res.Status != explorers.ABIUnverified {
		t.Fatalf("GetABI status = %s, want unverified", res.Status)
	}
	if res.ABI != nil || res.Available() {
		t.Fatalf("unverified result must not carry an abi")
	}
	if !strings.Contains(res.Message, "not verified") {
		t.Fatalf("message = %q", res.Message)
	}
}

func TestGetABITransportErrors(t *testing.T) {
	cases := map[string]func(w http.ResponseWriter, r *http.Request){
		"http error": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		},
		"bad envelope": func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("<html>rate limited</html>"))
		},
		"bad abi json": func(w http.ResponseWriter, r *http.Request) {
			writeEnvelope(w, "1", "OK", "not an abi")
		},
	}
	for name, handler := range cases {
		t.Run(name, func(t *testing.T) {
			res := newRegistry(t, handler).GetABI(context.Background(), "0xabc")
			if res.Status != explorers.ABITransportError {
				t.Fatalf("GetABI status = %s, want transport_error", res.Status)
			}
			if res.Message == "" {
				t.Fatalf("expected a message")
			}
		})
	}
}

func TestGetABIUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	res := explorers.NewEtherscanLikeExplorer(url, "k").GetABI(context.Background(), "0xabc")
	if res.Status != explorers.ABITransportError {
		t.Fatalf("GetABI status = %s, want transport_error", res.Status)
	}
}

func TestGetABIStringAPIURL(t *testing.T) {
	ee := explorers.NewEtherscanLikeExplorer("https://api.etherscan.io/v2/", "key", explorers.WithChainID(1))
	got := ee.GetABIStringAPIURL("0xabc")
	want := "https://api.etherscan.io/v2/api?action=getabi&address=0xabc&apikey=key&chainid=1&module=contract"
	if got != want {
		t.Fatalf("url = %s, want %s", got, want)
	}
}

func TestGetABICachesVerifiedOnly(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Query().Get("address") == "0xverified" {
			writeEnvelope(w, "1", "OK", tokenURIABI)
			return
		}
		writeEnvelope(w, "0", "NOTOK", "Contract source code not verified")
	}))
	t.Cleanup(srv.Close)

	c := cache.New("")
	ee := explorers.NewEtherscanLikeExplorer(srv.URL, "k", explorers.WithChainID(1), explorers.WithCache(c))

	for _, addr := range []string{"0xverified", "0xVERIFIED"} {
		if res := ee.GetABI(context.Background(), addr); !res.Available() {
			t.Fatalf("GetABI status = %s", res.Status)
		}
	}
	if hits.Load() != 1 {
		t.Fatalf("verified abi fetched %d times, want 1", hits.Load())
	}

	for i := 0; i < 2; i++ {
		ee.GetABI(context.Background(), "0xunverified")
	}
	if hits.Load() != 3 {
		t.Fatalf("registry hits = %d, want 3", hits.Load())
	}
	if c.Len() != 1 {
		t.Fatalf("cache entries = %d, want 1", c.Len())
	}
}
