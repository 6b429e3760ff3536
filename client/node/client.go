// Package node is a JSON client for the public HTTP API of a chain node.
package node

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"

	"github.com/GPTx-global/aecli/oracle/log"
	"github.com/GPTx-global/aecli/oracle/retry"
	"github.com/GPTx-global/aecli/x/oracle/types"
)

const (
	apiPrefix      = "/v3"
	defaultTimeout = 30 * time.Second
)

var (
	// ErrNotFound is returned for 404 responses.
	ErrNotFound = errors.New("not found")
	// ErrPending is returned while a transaction is not yet in a block.
	ErrPending = errors.New("transaction not mined yet")
)

// APIError is a non-2xx node response.
type APIError struct {
	Status int
	Reason string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("node responded %d: %s", e.Status, e.Reason)
}

// Client talks to one node.
type Client struct {
	endpoint string
	http     *http.Client
	poll     *retry.Config
	logger   zerolog.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the default http client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithPolling sets how WaitMined polls for inclusion.
func WithPolling(interval time.Duration, attempts int) Option {
	return func(c *Client) { c.poll = retry.PollConfig(interval, attempts) }
}

func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint: strings.TrimRight(endpoint, "/"),
		http:     &http.Client{Timeout: defaultTimeout},
		poll:     retry.PollConfig(time.Second, 60),
		logger:   log.WithComponent("node"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Endpoint() string {
	return c.endpoint
}

func (c *Client) do(ctx context.Context, method, path string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		bz, err := json.Marshal(body)
		if err != nil {
			return nil, errors.Wrap(err, "marshal request")
		}
		reader = bytes.NewReader(bz)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint+apiPrefix+path, reader)
	if err != nil {
		return nil, errors.Wrap(err, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug().Str("method", method).Str("path", path).Msg("request")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "%s %s", method, path)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "read response")
	}

	c.logger.Debug().Str("path", path).Int("status", resp.StatusCode).Msg("response")

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.Wrapf(ErrNotFound, "%s: %s", path, reason(data))
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{Status: resp.StatusCode, Reason: reason(data)}
	}
	return data, nil
}

func reason(body []byte) string {
	if r := gjson.GetBytes(body, "reason"); r.Exists() {
		return r.String()
	}
	return strings.TrimSpace(string(body))
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil)
}

// Status returns the node's network id.
func (c *Client) Status(ctx context.Context) (string, error) {
	data, err := c.get(ctx, "/status")
	if err != nil {
		return "", err
	}
	return gjson.GetBytes(data, "network_id").String(), nil
}

// Height returns the current key block height.
func (c *Client) Height(ctx context.Context) (uint64, error) {
	data, err := c.get(ctx, "/key-blocks/current/height")
	if err != nil {
		return 0, err
	}
	return gjson.GetBytes(data, "height").Uint(), nil
}

// AccountNonce returns the last nonce used by the account. Unknown accounts
// have nonce 0.
func (c *Client) AccountNonce(ctx context.Context, accountID string) (uint64, error) {
	data, err := c.get(ctx, "/accounts/"+url.PathEscape(accountID))
	if errors.Is(err, ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return gjson.GetBytes(data, "nonce").Uint(), nil
}

func (c *Client) GetOracleByPubkey(ctx context.Context, oracleID string) (*types.Oracle, error) {
	data, err := c.get(ctx, "/oracles/"+url.PathEscape(oracleID))
	if err != nil {
		return nil, err
	}

	oracle := new(types.Oracle)
	if err := json.Unmarshal(data, oracle); err != nil {
		return nil, errors.Wrap(err, "decode oracle")
	}
	oracle.Raw = data
	return oracle, nil
}

func (c *Client) GetOracleQueriesByPubkey(ctx context.Context, oracleID string) (*types.OracleQueries, error) {
	data, err := c.get(ctx, "/oracles/"+url.PathEscape(oracleID)+"/queries")
	if err != nil {
		return nil, err
	}

	queries := new(types.OracleQueries)
	if err := json.Unmarshal(data, queries); err != nil {
		return nil, errors.Wrap(err, "decode oracle queries")
	}
	queries.Raw = json.RawMessage(gjson.GetBytes(data, "oracle_queries").Raw)
	if len(queries.Raw) == 0 {
		queries.Raw = json.RawMessage("[]")
	}
	return queries, nil
}

// GetTransaction returns the node's view of a transaction.
func (c *Client) GetTransaction(ctx context.Context, hash string) (*types.TxResult, error) {
	data, err := c.get(ctx, "/transactions/"+url.PathEscape(hash))
	if err != nil {
		return nil, err
	}

	parsed := gjson.ParseBytes(data)
	res := &types.TxResult{
		Hash:        parsed.Get("hash").String(),
		BlockHeight: parsed.Get("block_height").Int(),
		BlockHash:   parsed.Get("block_hash").String(),
		Tx:          json.RawMessage(parsed.Get("tx").Raw),
	}
	for _, sig := range parsed.Get("signatures").Array() {
		res.Signatures = append(res.Signatures, sig.String())
	}
	res.Mined = res.BlockHeight >= 0 && parsed.Get("block_height").Exists()
	return res, nil
}

// PostTransaction broadcasts a tx_ encoded signed transaction.
func (c *Client) PostTransaction(ctx context.Context, encodedTx string) (string, error) {
	data, err := c.do(ctx, http.MethodPost, "/transactions", map[string]string{"tx": encodedTx})
	if err != nil {
		return "", err
	}
	return gjson.GetBytes(data, "tx_hash").String(), nil
}

// WaitMined polls until the transaction is in a block.
func (c *Client) WaitMined(ctx context.Context, hash string) (*types.TxResult, error) {
	var res *types.TxResult
	err := retry.Do(ctx, c.poll, func() error {
		tx, err := c.GetTransaction(ctx, hash)
		if err != nil {
			return err
		}
		if !tx.Mined {
			return ErrPending
		}
		res = tx
		return nil
	}, func(err error) bool {
		return errors.Is(err, ErrPending)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "waiting for %s", hash)
	}
	return res, nil
}

// Dialer opens read only connections.
type Dialer struct {
	URL       string
	NetworkID string
	Options   []Option
}

// Dial checks that the node is reachable and warns when it serves another
// network than the configured one.
func (d Dialer) Dial(ctx context.Context) (types.ChainReader, error) {
	c := New(d.URL, d.Options...)
	networkID, err := c.Status(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "connect to %s", d.URL)
	}
	if d.NetworkID != "" && networkID != "" && networkID != d.NetworkID {
		c.logger.Warn().Str("node", networkID).Str("configured", d.NetworkID).Msg("network id mismatch")
	}
	return c, nil
}
