package marketplace

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	OpenSeaAPIURL   = "https://api.opensea.io"
	DEFAULT_TIMEOUT = 10 * time.Second
)

// ErrResolution is wrapped by every error returned when a collection can't
// be resolved to a contract address.
var ErrResolution = errors.New("couldn't resolve collection to a contract address")

// Resolver resolves a marketplace collection slug to a contract address.
type Resolver interface {
	ContractAddress(ctx context.Context, slug string) (string, error)
}

type OpenSea struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewOpenSea(baseURL, apiKey string, client *http.Client) *OpenSea {
	if client == nil {
		client = &http.Client{Timeout: DEFAULT_TIMEOUT}
	}
	if baseURL == "" {
		baseURL = OpenSeaAPIURL
	}
	return &OpenSea{
		client:  client,
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
	}
}

func (o *OpenSea) collectionNFTsURL(slug string) string {
	return fmt.Sprintf("%s/v2/collection/%s/nfts?limit=1", o.baseURL, url.PathEscape(slug))
}

type nftsResponse struct {
	NFTs []struct {
		Identifier string `json:"identifier"`
		Contract   string `json:"contract"`
	} `json:"nfts"`
}

// ContractAddress returns the contract of the first NFT listed for the
// collection slug.
func (o *OpenSea) ContractAddress(ctx context.Context, slug string) (string, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return "", fmt.Errorf("%w: empty collection slug", ErrResolution)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, o.collectionNFTsURL(slug), nil)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrResolution, err)
	}
	req.Header.Set("X-API-KEY", o.apiKey)
	req.Header.Set("accept", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: opensea request failed: %w", ErrResolution, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: opensea returned http %d for collection %q", ErrResolution, resp.StatusCode, slug)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: couldn't read opensea response: %w", ErrResolution, err)
	}
	nfts := nftsResponse{}
	if err := json.Unmarshal(body, &nfts); err != nil {
		return "", fmt.Errorf("%w: couldn't decode opensea response: %w", ErrResolution, err)
	}
	if len(nfts.NFTs) == 0 {
		return "", fmt.Errorf("%w: collection %q has no nfts", ErrResolution, slug)
	}
	contract := strings.TrimSpace(nfts.NFTs[0].Contract)
	if contract == "" {
		return "", fmt.Errorf("%w: collection %q returned an nft without contract", ErrResolution, slug)
	}
	return contract, nil
}
