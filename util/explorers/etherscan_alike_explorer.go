package explorers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

const DEFAULT_TIMEOUT = 10 * time.Second

// ABIStatus tells apart the three outcomes of an ABI lookup.
type ABIStatus int

const (
	ABIAvailable ABIStatus = iota
	// ABIUnverified means the registry answered but has no ABI for the
	// contract, usually because its source code isn't verified.
	ABIUnverified
	// ABITransportError means the registry couldn't be reached or its
	// answer couldn't be understood.
	ABITransportError
)

func (s ABIStatus) String() string {
	switch s {
	case ABIAvailable:
		return "available"
	case ABIUnverified:
		return "unverified"
	case ABITransportError:
		return "transport_error"
	default:
		return "status(" + strconv.Itoa(int(s)) + ")"
	}
}

// ABIResult is the outcome of GetABI. ABI is non-nil only when Status is
// ABIAvailable; Message carries the registry message or the transport error.
type ABIResult struct {
	Status  ABIStatus
	ABI     *abi.ABI
	Message string
}

func (r ABIResult) Available() bool {
	return r.Status == ABIAvailable && r.ABI != nil
}

// ErrUnverified is returned by GetABIString when the registry reports a
// non "1" status.
var ErrUnverified = errors.New("abi not available from registry")

type Option func(*EtherscanLikeExplorer)

func WithHTTPClient(c *http.Client) Option {
	return func(ee *EtherscanLikeExplorer) {
		ee.client = c
	}
}

func WithChainID(id uint64) Option {
	return func(ee *EtherscanLikeExplorer) {
		ee.ChainID = id
	}
}

// ABICache stores raw ABI JSON of verified contracts.
type ABICache interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// WithCache makes GetABIString serve verified ABIs from c and store the ones
// it fetches there. Unverified answers and transport errors are not cached.
func WithCache(c ABICache) Option {
	return func(ee *EtherscanLikeExplorer) {
		ee.cache = c
	}
}

type EtherscanLikeExplorer struct {
	client  *http.Client
	cache   ABICache
	ChainID uint64

	Domain string
	APIKey string
}

func NewEtherscanLikeExplorer(domain string, apiKey string, opts ...Option) *EtherscanLikeExplorer {
	ee := &EtherscanLikeExplorer{
		client: &http.Client{Timeout: DEFAULT_TIMEOUT},
		Domain: strings.TrimRight(domain, "/"),
		APIKey: apiKey,
	}
	for _, opt := range opts {
		opt(ee)
	}
	return ee
}

func (ee *EtherscanLikeExplorer) GetABIStringAPIURL(address string) string {
	q := url.Values{}
	if ee.ChainID != 0 {
		q.Set("chainid", strconv.FormatUint(ee.ChainID, 10))
	}
	q.Set("module", "contract")
	q.Set("action", "getabi")
	q.Set("address", address)
	q.Set("apikey", ee.APIKey)
	return ee.Domain + "/api?" + q.Encode()
}

type abiresponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Result  string `json:"result"`
}

func (ar *abiresponse) IsOK() bool {
	return ar.Status == "1"
}

// reason prefers the result field since etherscan puts the human readable
// cause there ("Contract source code not verified") and only "NOTOK" in
// message.
func (ar *abiresponse) reason() string {
	if ar.Result != "" {
		return ar.Result
	}
	return ar.Message
}

type transportError struct {
	err error
}

func (te *transportError) Error() string { return te.err.Error() }
func (te *transportError) Unwrap() error { return te.err }

func (ee *EtherscanLikeExplorer) fetch(ctx context.Context, address string) (*abiresponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ee.GetABIStringAPIURL(address), nil)
	if err != nil {
		return nil, &transportError{err}
	}
	req.Header.Set("accept", "application/json")
	resp, err := ee.client.Do(req)
	if err != nil {
		return nil, &transportError{fmt.Errorf("abi registry request failed: %w", err)}
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &transportError{fmt.Errorf("couldn't read abi registry response: %w", err)}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &transportError{fmt.Errorf("abi registry returned http %d", resp.StatusCode)}
	}
	abiresp := &abiresponse{}
	if err := json.Unmarshal(body, abiresp); err != nil {
		return nil, &transportError{fmt.Errorf(
			"couldn't unmarshal %q to abi response: %w",
			truncate(string(body), 128),
			err,
		)}
	}
	return abiresp, nil
}

// GetABIString returns the raw ABI JSON published for address.
func (ee *EtherscanLikeExplorer) GetABIString(ctx context.Context, address string) (string, error) {
	key := ee.cacheKey(address)
	if ee.cache != nil {
		if cached, found := ee.cache.Get(key); found {
			return cached, nil
		}
	}
	abiresp, err := ee.fetch(ctx, address)
	if err != nil {
		return "", err
	}
	if !abiresp.IsOK() {
		return "", fmt.Errorf("%w: %s", ErrUnverified, abiresp.reason())
	}
	if ee.cache != nil {
		if err := ee.cache.Set(key, abiresp.Result); err != nil {
			slog.Warn("couldn't persist abi cache", "address", address, "error", err)
		}
	}
	return abiresp.Result, nil
}

func (ee *EtherscanLikeExplorer) cacheKey(address string) string {
	return fmt.Sprintf("%d_%s_abi", ee.ChainID, strings.ToLower(strings.TrimSpace(address)))
}

// GetABI looks up and parses the ABI of address. It never returns an error:
// failures are reported through ABIResult.Status.
func (ee *EtherscanLikeExplorer) GetABI(ctx context.Context, address string) ABIResult {
	abiStr, err := ee.GetABIString(ctx, address)
	if err != nil {
		var te *transportError
		if errors.As(err, &te) {
			return ABIResult{Status: ABITransportError, Message: err.Error()}
		}
		return ABIResult{Status: ABIUnverified, Message: err.Error()}
	}
	parsed, err := abi.JSON(strings.NewReader(abiStr))
	if err != nil {
		return ABIResult{
			Status:  ABITransportError,
			Message: fmt.Sprintf("couldn't parse abi: %s", err),
		}
	}
	return ABIResult{Status: ABIAvailable, ABI: &parsed}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
