package peer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/avast/retry-go"
	"golang.org/x/sync/errgroup"
)

const baseURL = "http://%s/v1/node"

// Candidate is the chain a peer reported.
type Candidate struct {
	Peer   Peer
	Blocks []database.Block
}

// Fetcher provides the chains held by peers. Peers that could not be
// reached are left out of the candidates and reported in the error, which
// matches database.ErrPeerFetchFailure.
type Fetcher interface {
	FetchChains(ctx context.Context) ([]Candidate, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context) ([]Candidate, error)

// FetchChains calls f(ctx).
func (f FetcherFunc) FetchChains(ctx context.Context) ([]Candidate, error) {
	return f(ctx)
}

// =============================================================================

// HTTPFetcher asks every known peer for its chain over the private node api.
type HTTPFetcher struct {
	Peers   *PeerSet
	Host    string // This node, skipped when iterating the peers.
	Client  *http.Client
	Retries uint
	Delay   time.Duration
}

// FetchChains requests the blocks from all peers concurrently. The
// candidates come back in peer order.
func (f HTTPFetcher) FetchChains(ctx context.Context) ([]Candidate, error) {
	peers := f.Peers.Copy(f.Host)

	results := make([]*Candidate, len(peers))
	failures := make([]error, len(peers))

	g, ctx := errgroup.WithContext(ctx)
	for i, pr := range peers {
		g.Go(func() error {
			blocks, err := f.fetch(ctx, pr)
			if err != nil {
				failures[i] = &database.PeerError{Host: pr.Host, Err: err}
				return nil
			}

			results[i] = &Candidate{Peer: pr, Blocks: blocks}
			return nil
		})
	}

	// Every goroutine reports its failure through failures.
	g.Wait()

	var candidates []Candidate
	for _, c := range results {
		if c != nil {
			candidates = append(candidates, *c)
		}
	}

	return candidates, errors.Join(failures...)
}

func (f HTTPFetcher) fetch(ctx context.Context, pr Peer) ([]database.Block, error) {
	attempts := f.Retries
	if attempts == 0 {
		attempts = 1
	}

	url := fmt.Sprintf("%s/blocks", fmt.Sprintf(baseURL, pr.Host))

	var blocks []database.Block
	err := retry.Do(
		func() error {
			blocks = nil
			return send(ctx, f.client(), http.MethodGet, url, &blocks)
		},
		retry.Attempts(attempts),
		retry.Delay(f.Delay),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
	)

	return blocks, err
}

func (f HTTPFetcher) client() *http.Client {
	if f.Client != nil {
		return f.Client
	}
	return http.DefaultClient
}

// send is a helper function to send an HTTP request to a node.
func send(ctx context.Context, client *http.Client, method string, url string, dataRecv any) error {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return err
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		return fmt.Errorf("status %d: %s", resp.StatusCode, msg)
	}

	if err := json.NewDecoder(resp.Body).Decode(dataRecv); err != nil {
		return fmt.Errorf("decoding blocks: %w", err)
	}

	return nil
}
