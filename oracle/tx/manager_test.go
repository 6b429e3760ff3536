package tx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"strings"
	"testing"

	errorsmod "cosmossdk.io/errors"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/GPTx-global/aecli/client/encoding"
	"github.com/GPTx-global/aecli/oracle/printer"
	"github.com/GPTx-global/aecli/x/oracle/types"
)

var (
	testOracleID = encoding.Encode(encoding.PrefixOracle, bytes.Repeat([]byte{1}, encoding.IDLen))
	testQueryID  = encoding.Encode(encoding.PrefixQuery, bytes.Repeat([]byte{2}, encoding.IDLen))
	testHash     = encoding.Encode(encoding.PrefixTxHash, bytes.Repeat([]byte{3}, encoding.IDLen))
)

type mockLoader struct {
	mock.Mock
}

func (m *mockLoader) Load(ctx context.Context, walletPath string) (types.OracleClient, error) {
	args := m.Called(ctx, walletPath)
	client, _ := args.Get(0).(types.OracleClient)
	return client, args.Error(1)
}

type mockClient struct {
	mock.Mock
}

func (m *mockClient) RegisterOracle(ctx context.Context, queryFormat, responseFormat string, opts types.OracleOptions) (*types.TxResult, error) {
	args := m.Called(ctx, queryFormat, responseFormat, opts)
	res, _ := args.Get(0).(*types.TxResult)
	return res, args.Error(1)
}

func (m *mockClient) GetOracleObject(ctx context.Context, oracleID string) (types.OracleObject, error) {
	args := m.Called(ctx, oracleID)
	obj, _ := args.Get(0).(types.OracleObject)
	return obj, args.Error(1)
}

func (m *mockClient) SignTransaction(ctx context.Context, encodedTx string) (*types.SignResult, error) {
	args := m.Called(ctx, encodedTx)
	res, _ := args.Get(0).(*types.SignResult)
	return res, args.Error(1)
}

type mockOracle struct {
	mock.Mock
}

func (m *mockOracle) ExtendOracle(ctx context.Context, oracleTTL types.TTL, opts types.OracleOptions) (*types.TxResult, error) {
	args := m.Called(ctx, oracleTTL, opts)
	res, _ := args.Get(0).(*types.TxResult)
	return res, args.Error(1)
}

func (m *mockOracle) PostQuery(ctx context.Context, query string, opts types.OracleOptions) (*types.TxResult, error) {
	args := m.Called(ctx, query, opts)
	res, _ := args.Get(0).(*types.TxResult)
	return res, args.Error(1)
}

func (m *mockOracle) RespondToQuery(ctx context.Context, queryID, response string, opts types.OracleOptions) (*types.TxResult, error) {
	args := m.Called(ctx, queryID, response, opts)
	res, _ := args.Get(0).(*types.TxResult)
	return res, args.Error(1)
}

type mockDialer struct {
	mock.Mock
}

func (m *mockDialer) Dial(ctx context.Context) (types.ChainReader, error) {
	args := m.Called(ctx)
	reader, _ := args.Get(0).(types.ChainReader)
	return reader, args.Error(1)
}

type mockReader struct {
	mock.Mock
}

func (m *mockReader) GetOracleByPubkey(ctx context.Context, oracleID string) (*types.Oracle, error) {
	args := m.Called(ctx, oracleID)
	res, _ := args.Get(0).(*types.Oracle)
	return res, args.Error(1)
}

func (m *mockReader) GetOracleQueriesByPubkey(ctx context.Context, oracleID string) (*types.OracleQueries, error) {
	args := m.Called(ctx, oracleID)
	res, _ := args.Get(0).(*types.OracleQueries)
	return res, args.Error(1)
}

func (m *mockReader) PostTransaction(ctx context.Context, encodedTx string) (string, error) {
	args := m.Called(ctx, encodedTx)
	return args.String(0), args.Error(1)
}

func (m *mockReader) WaitMined(ctx context.Context, hash string) (*types.TxResult, error) {
	args := m.Called(ctx, hash)
	res, _ := args.Get(0).(*types.TxResult)
	return res, args.Error(1)
}

type fixture struct {
	loader *mockLoader
	client *mockClient
	oracle *mockOracle
	dialer *mockDialer
	reader *mockReader
	out    *bytes.Buffer
	errOut *bytes.Buffer
	txm    *TxManager
}

func setupTxManagerTest() *fixture {
	f := &fixture{
		loader: new(mockLoader),
		client: new(mockClient),
		oracle: new(mockOracle),
		dialer: new(mockDialer),
		reader: new(mockReader),
		out:    new(bytes.Buffer),
		errOut: new(bytes.Buffer),
	}
	f.txm = NewTxManager(f.loader, f.dialer, printer.New(f.out, f.errOut))
	return f
}

func (f *fixture) expectClient() {
	f.loader.On("Load", mock.Anything, "wallet.json").Return(f.client, nil)
}

func (f *fixture) expectOracle() {
	f.expectClient()
	f.client.On("GetOracleObject", mock.Anything, testOracleID).Return(f.oracle, nil)
}

func TestRegisterSubmitted(t *testing.T) {
	f := setupTxManagerTest()
	f.expectClient()
	f.client.On("RegisterOracle", mock.Anything, "{city: \"str\"}", "{tmp: \"num\"}", mock.Anything).
		Return(&types.TxResult{Hash: testHash}, nil)

	outcome := f.txm.Register(context.Background(), "wallet.json", "{city: \"str\"}", "{tmp: \"num\"}", types.OracleOptions{})

	require.True(t, outcome.OK())
	require.Equal(t, 0, outcome.ExitCode())
	require.Equal(t, printer.SubmittedMessage+testHash+"\n", f.out.String())
	f.client.AssertExpectations(t)
}

func TestRegisterResolvesTTLBeforeInvoking(t *testing.T) {
	f := setupTxManagerTest()
	f.expectClient()
	f.client.On("RegisterOracle", mock.Anything, "q", "r", mock.MatchedBy(func(opts types.OracleOptions) bool {
		return opts.OracleTTL == types.AbsoluteTTL(900)
	})).Return(&types.TxResult{Hash: testHash}, nil)

	opts := types.OracleOptions{OracleTTL: types.NormalizeOracleTTL("block:900")}
	outcome := f.txm.Register(context.Background(), "wallet.json", "q", "r", opts)

	require.True(t, outcome.OK())
	f.client.AssertExpectations(t)
}

func TestRegisterUnresolvableTTL(t *testing.T) {
	// Given an oracle ttl that is neither a number nor a descriptor
	f := setupTxManagerTest()
	f.expectClient()

	// When registering
	opts := types.OracleOptions{OracleTTL: types.NormalizeOracleTTL("soon")}
	outcome := f.txm.Register(context.Background(), "wallet.json", "q", "r", opts)

	// Then it fails while normalizing and the chain is never called
	require.False(t, outcome.OK())
	require.Equal(t, types.StageNormalizing, outcome.FailedAt)
	require.True(t, types.ErrInvalidTtl.Is(outcome.Err))
	f.client.AssertNotCalled(t, "RegisterOracle", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRegisterMinedJSON(t *testing.T) {
	f := setupTxManagerTest()
	f.expectClient()
	res := &types.TxResult{
		Hash:        testHash,
		Mined:       true,
		BlockHeight: 42,
		BlockHash:   "mh_block",
		Signatures:  []string{"sg_1"},
		Tx:          json.RawMessage(`{"type":"OracleRegisterTx"}`),
	}
	f.client.On("RegisterOracle", mock.Anything, "q", "r", mock.Anything).Return(res, nil)

	outcome := f.txm.Register(context.Background(), "wallet.json", "q", "r", types.OracleOptions{WaitMined: true, JSON: true})

	require.True(t, outcome.OK())
	var printed map[string]any
	require.NoError(t, json.Unmarshal(f.out.Bytes(), &printed))
	require.Equal(t, testHash, printed["hash"])
	require.EqualValues(t, 42, printed["blockHeight"])
}

func TestRegisterClientFailure(t *testing.T) {
	f := setupTxManagerTest()
	f.expectClient()
	f.client.On("RegisterOracle", mock.Anything, "q", "r", mock.Anything).Return(nil, errors.New("Account is already an oracle"))

	outcome := f.txm.Register(context.Background(), "wallet.json", "q", "r", types.OracleOptions{})

	require.Equal(t, types.StageFailed, outcome.Stage)
	require.Equal(t, types.StageInvoking, outcome.FailedAt)
	require.Equal(t, 1, outcome.ExitCode())
	require.True(t, types.ErrSdk.Is(outcome.Err))
	require.Contains(t, outcome.Err.Error(), "Account is already an oracle")
	require.Empty(t, f.out.String())
}

func TestWalletFailure(t *testing.T) {
	f := setupTxManagerTest()
	f.loader.On("Load", mock.Anything, "missing.json").Return(nil, errors.New("read wallet: no such file"))

	outcome := f.txm.Register(context.Background(), "missing.json", "q", "r", types.OracleOptions{})

	require.Equal(t, types.StageAcquiring, outcome.FailedAt)
	require.True(t, types.ErrSdk.Is(outcome.Err))
}

func TestInvalidIdentifiersNeverReachTheClient(t *testing.T) {
	testCases := []struct {
		name string
		run  func(f *fixture) types.Outcome
	}{
		{"extend with account id", func(f *fixture) types.Outcome {
			return f.txm.Extend(context.Background(), "wallet.json", "ak_"+testOracleID[3:], "100", types.OracleOptions{})
		}},
		{"extend with bad checksum", func(f *fixture) types.Outcome {
			return f.txm.Extend(context.Background(), "wallet.json", corrupt(testOracleID), "100", types.OracleOptions{})
		}},
		{"query", func(f *fixture) types.Outcome {
			return f.txm.PostQuery(context.Background(), "wallet.json", "ok_123", "q", types.OracleOptions{})
		}},
		{"respond with bad oracle", func(f *fixture) types.Outcome {
			return f.txm.Respond(context.Background(), "wallet.json", "", testQueryID, "r", types.OracleOptions{})
		}},
		{"respond with bad query", func(f *fixture) types.Outcome {
			return f.txm.Respond(context.Background(), "wallet.json", testOracleID, testOracleID, "r", types.OracleOptions{})
		}},
		{"inspect", func(f *fixture) types.Outcome {
			return f.txm.Inspect(context.Background(), corrupt(testOracleID), types.OracleOptions{})
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := setupTxManagerTest()

			outcome := tc.run(f)

			require.False(t, outcome.OK())
			require.Equal(t, types.StageValidating, outcome.FailedAt)
			require.True(t, types.ErrInvalidIdentifier.Is(outcome.Err))
			f.loader.AssertNotCalled(t, "Load", mock.Anything, mock.Anything)
			f.dialer.AssertNotCalled(t, "Dial", mock.Anything)
		})
	}
}

func TestExtendRequiresNumericTTL(t *testing.T) {
	for _, ttl := range []any{"abc", "block:100", "", nil} {
		f := setupTxManagerTest()

		outcome := f.txm.Extend(context.Background(), "wallet.json", testOracleID, ttl, types.OracleOptions{})

		require.Equal(t, types.StageValidating, outcome.FailedAt)
		require.True(t, types.ErrInvalidTtl.Is(outcome.Err))
		require.Contains(t, outcome.Err.Error(), "Oracle Ttl should be a number")
		f.loader.AssertNotCalled(t, "Load", mock.Anything, mock.Anything)
	}
}

func TestExtend(t *testing.T) {
	f := setupTxManagerTest()
	f.expectOracle()
	f.oracle.On("ExtendOracle", mock.Anything, types.RelativeTTL(100), mock.Anything).
		Return(&types.TxResult{Hash: testHash}, nil)

	outcome := f.txm.Extend(context.Background(), "wallet.json", testOracleID, 100, types.OracleOptions{})

	require.True(t, outcome.OK())
	f.oracle.AssertExpectations(t)
}

func TestPostQueryMinedText(t *testing.T) {
	f := setupTxManagerTest()
	f.expectOracle()
	f.oracle.On("PostQuery", mock.Anything, "{\"city\": \"Berlin\"}", mock.MatchedBy(func(opts types.OracleOptions) bool {
		return opts.QueryTTL == types.RelativeTTL(20) && !opts.ResponseTTL.IsSet()
	})).Return(&types.TxResult{
		Hash:        testHash,
		Mined:       true,
		BlockHeight: 7,
		QueryID:     testQueryID,
		Tx:          json.RawMessage(`{"type":"OracleQueryTx","query_fee":30000}`),
	}, nil)

	opts := types.OracleOptions{WaitMined: true, QueryTTL: types.NormalizeOracleTTL("20")}
	outcome := f.txm.PostQuery(context.Background(), "wallet.json", testOracleID, "{\"city\": \"Berlin\"}", opts)

	require.True(t, outcome.OK())
	out := f.out.String()
	require.Contains(t, out, "Transaction hash    : "+testHash)
	require.Contains(t, out, "Query ID            : "+testQueryID)
	require.Contains(t, out, "Tx Type             : OracleQueryTx")
	require.Contains(t, out, "Tx Query Fee        : 30000")
}

func TestRespondUnknownOracle(t *testing.T) {
	f := setupTxManagerTest()
	f.expectClient()
	f.client.On("GetOracleObject", mock.Anything, testOracleID).Return(nil, errors.New("not found: Oracle not found"))

	outcome := f.txm.Respond(context.Background(), "wallet.json", testOracleID, testQueryID, "r", types.OracleOptions{})

	require.Equal(t, types.StageInvoking, outcome.FailedAt)
	require.True(t, types.ErrSdk.Is(outcome.Err))
	f.oracle.AssertNotCalled(t, "RespondToQuery", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestRespondKeepsClientErrorCode(t *testing.T) {
	f := setupTxManagerTest()
	f.expectOracle()
	f.oracle.On("RespondToQuery", mock.Anything, testQueryID, "r", mock.Anything).
		Return(nil, errorsmod.Wrap(types.ErrInvalidTtl, "response ttl must be a number of blocks"))

	outcome := f.txm.Respond(context.Background(), "wallet.json", testOracleID, testQueryID, "r", types.OracleOptions{})

	require.True(t, types.ErrInvalidTtl.Is(outcome.Err))
	require.False(t, types.ErrSdk.Is(outcome.Err))
}

func TestInspect(t *testing.T) {
	f := setupTxManagerTest()
	oracle := &types.Oracle{
		ID:          testOracleID,
		QueryFormat: "q",
		QueryFee:    big.NewInt(30000),
		TTL:         600,
		Raw:         json.RawMessage(`{"id":"` + testOracleID + `","query_fee":30000}`),
	}
	queries := &types.OracleQueries{Raw: json.RawMessage(`[]`)}
	f.dialer.On("Dial", mock.Anything).Return(f.reader, nil)
	f.reader.On("GetOracleByPubkey", mock.Anything, testOracleID).Return(oracle, nil)
	f.reader.On("GetOracleQueriesByPubkey", mock.Anything, testOracleID).Return(queries, nil)

	// JSON output merges the oracle with its queries
	outcome := f.txm.Inspect(context.Background(), testOracleID, types.OracleOptions{JSON: true})
	require.True(t, outcome.OK())
	require.JSONEq(t, `{"id":"`+testOracleID+`","query_fee":30000,"queries":[]}`, f.out.String())

	// inspecting twice prints the same thing
	first := f.out.String()
	f.out.Reset()
	require.True(t, f.txm.Inspect(context.Background(), testOracleID, types.OracleOptions{JSON: true}).OK())
	require.Equal(t, first, f.out.String())

	f.out.Reset()
	require.True(t, f.txm.Inspect(context.Background(), testOracleID, types.OracleOptions{}).OK())
	require.Contains(t, f.out.String(), "Oracle ID           : "+testOracleID)
	require.Contains(t, f.out.String(), "Oracle Queries")
	f.loader.AssertNotCalled(t, "Load", mock.Anything, mock.Anything)
}

func TestInspectDialFailure(t *testing.T) {
	f := setupTxManagerTest()
	f.dialer.On("Dial", mock.Anything).Return(nil, errors.New("connection refused"))

	outcome := f.txm.Inspect(context.Background(), testOracleID, types.OracleOptions{})

	require.Equal(t, types.StageAcquiring, outcome.FailedAt)
	require.True(t, types.ErrSdk.Is(outcome.Err))
}

// corrupt flips the last character so the checksum no longer matches.
func corrupt(id string) string {
	last := "z"
	if strings.HasSuffix(id, "z") {
		last = "y"
	}
	return id[:len(id)-1] + last
}
