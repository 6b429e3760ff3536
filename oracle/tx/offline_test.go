package tx

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/GPTx-global/aecli/client/encoding"
	"github.com/GPTx-global/aecli/client/txbuilder"
	"github.com/GPTx-global/aecli/client/wallet"
	"github.com/GPTx-global/aecli/oracle/printer"
	"github.com/GPTx-global/aecli/x/oracle/types"
)

var (
	testKey       = bytes.Repeat([]byte{1}, encoding.IDLen)
	testAccountID = encoding.Encode(encoding.PrefixAccount, testKey)
)

func decodeUnsigned(t *testing.T, out *bytes.Buffer) txbuilder.Tx {
	encoded := gjson.Get(out.String(), "tx").String()
	bz, err := encoding.Decode(encoded, encoding.PrefixTx)
	require.NoError(t, err)
	tx, err := txbuilder.DecodeTx(bz)
	require.NoError(t, err)
	return tx
}

func TestBuildRegisterOffline(t *testing.T) {
	f := setupTxManagerTest()

	// Given: no wallet and no node
	// When: building a register transaction
	outcome := f.txm.BuildRegister(context.Background(), testAccountID, "q", "r", "7", types.OracleOptions{
		JSON:      true,
		OracleTTL: types.RelativeTTL(100),
	})

	// Then: the unsigned tx carries the given nonce and the defaults
	require.True(t, outcome.OK(), outcome.Err)
	tx, ok := decodeUnsigned(t, f.out).(*txbuilder.OracleRegisterTx)
	require.True(t, ok)
	require.Equal(t, uint64(7), tx.Nonce)
	require.Equal(t, uint64(0), tx.TTL)
	require.Equal(t, types.RelativeTTL(100), tx.OracleTTL)
	require.Equal(t, "30000", tx.QueryFee.String())

	bz, err := txbuilder.Serialize(tx)
	require.NoError(t, err)
	require.True(t, tx.GetFee().Equal(txbuilder.MinFee(len(bz), 100)))
	require.Equal(t, "OracleRegisterTx", gjson.Get(f.out.String(), "txObject.type").String())

	f.loader.AssertNotCalled(t, "Load", mock.Anything, mock.Anything)
	f.dialer.AssertNotCalled(t, "Dial", mock.Anything)
}

func TestBuildRespondKeepsTTLAndFee(t *testing.T) {
	f := setupTxManagerTest()
	height := uint64(500)

	outcome := f.txm.BuildRespond(context.Background(), testAccountID, testOracleID, testQueryID, "{tmp: 10}", "2", types.OracleOptions{
		JSON: true,
		TTL:  &height,
		Fee:  sdkmath.NewInt(20000000000000),
	})
	require.True(t, outcome.OK(), outcome.Err)

	tx, ok := decodeUnsigned(t, f.out).(*txbuilder.OracleResponseTx)
	require.True(t, ok)
	require.Equal(t, uint64(500), tx.TTL)
	require.Equal(t, "20000000000000", tx.Fee.String())
	require.Equal(t, "{tmp: 10}", tx.Response)
	require.Equal(t, testQueryID, encoding.Encode(encoding.PrefixQuery, tx.QueryKey))
}

func TestBuildExtendText(t *testing.T) {
	f := setupTxManagerTest()

	outcome := f.txm.BuildExtend(context.Background(), testAccountID, testOracleID, "100", "3", types.OracleOptions{})
	require.True(t, outcome.OK(), outcome.Err)
	require.Contains(t, f.out.String(), fmt.Sprintf("%-20s: tx_", "Encoded"))
	require.Contains(t, f.out.String(), fmt.Sprintf("%-20s: delta 100", "Tx Oracle Ttl"))
}

func TestBuildOfflineRejects(t *testing.T) {
	otherAccount := encoding.Encode(encoding.PrefixAccount, bytes.Repeat([]byte{9}, encoding.IDLen))

	testCases := []struct {
		name   string
		build  func(txm *TxManager) types.Outcome
		expErr *errorsmod.Error
	}{
		{
			"register with a bad account id",
			func(txm *TxManager) types.Outcome {
				return txm.BuildRegister(context.Background(), corrupt(testAccountID), "q", "r", "1", types.OracleOptions{})
			},
			types.ErrInvalidIdentifier,
		},
		{
			"register without a nonce",
			func(txm *TxManager) types.Outcome {
				return txm.BuildRegister(context.Background(), testAccountID, "q", "r", "", types.OracleOptions{})
			},
			types.ErrInvalidOptions,
		},
		{
			"register with a non numeric nonce",
			func(txm *TxManager) types.Outcome {
				return txm.BuildRegister(context.Background(), testAccountID, "q", "r", "one", types.OracleOptions{})
			},
			types.ErrInvalidOptions,
		},
		{
			"extend an oracle of another account",
			func(txm *TxManager) types.Outcome {
				return txm.BuildExtend(context.Background(), otherAccount, testOracleID, "100", "1", types.OracleOptions{})
			},
			types.ErrInvalidIdentifier,
		},
		{
			"extend by a descriptor",
			func(txm *TxManager) types.Outcome {
				return txm.BuildExtend(context.Background(), testAccountID, testOracleID, "block:900", "1", types.OracleOptions{})
			},
			types.ErrInvalidTtl,
		},
		{
			"post query with an absolute response ttl",
			func(txm *TxManager) types.Outcome {
				return txm.BuildPostQuery(context.Background(), otherAccount, testOracleID, "q", "1", types.OracleOptions{
					ResponseTTL: types.OpaqueTTL("block:900"),
				})
			},
			types.ErrInvalidTtl,
		},
		{
			"respond with a bad query id",
			func(txm *TxManager) types.Outcome {
				return txm.BuildRespond(context.Background(), testAccountID, testOracleID, corrupt(testQueryID), "r", "1", types.OracleOptions{})
			},
			types.ErrInvalidIdentifier,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := setupTxManagerTest()

			outcome := tc.build(f.txm)

			require.False(t, outcome.OK())
			require.True(t, errorsmod.IsOf(outcome.Err, tc.expErr), outcome.Err)
			require.Empty(t, f.out.String())
		})
	}
}

func TestSign(t *testing.T) {
	f := setupTxManagerTest()
	unsigned, err := txbuilder.EncodeUnsigned(&txbuilder.OracleExtendTx{
		Common:    txbuilder.Common{Nonce: 1, Fee: sdkmath.NewInt(1)},
		OracleKey: testKey,
		OracleTTL: types.RelativeTTL(10),
	})
	require.NoError(t, err)

	f.expectClient()
	f.client.On("SignTransaction", mock.Anything, unsigned).
		Return(&types.SignResult{Signed: "tx_signed", Hash: testHash, NetworkID: "ae_devnet"}, nil)

	outcome := f.txm.Sign(context.Background(), "wallet.json", unsigned, types.OracleOptions{})

	require.True(t, outcome.OK(), outcome.Err)
	require.Contains(t, f.out.String(), fmt.Sprintf("%-20s: tx_signed", "Signed"))
	f.client.AssertExpectations(t)
}

func TestSignRejectsGarbageBeforeLoadingTheWallet(t *testing.T) {
	f := setupTxManagerTest()

	outcome := f.txm.Sign(context.Background(), "wallet.json", encoding.Encode(encoding.PrefixTx, []byte("garbage")), types.OracleOptions{})

	require.False(t, outcome.OK())
	require.Equal(t, types.StageValidating, outcome.FailedAt)
	require.True(t, errorsmod.IsOf(outcome.Err, types.ErrInvalidTx))
	f.loader.AssertNotCalled(t, "Load", mock.Anything, mock.Anything)
}

func TestBroadcast(t *testing.T) {
	account, err := wallet.Generate()
	require.NoError(t, err)
	signed, err := txbuilder.Sign(&txbuilder.OracleExtendTx{
		Common:    txbuilder.Common{Nonce: 1, Fee: sdkmath.NewInt(1)},
		OracleKey: account.PublicKey(),
		OracleTTL: types.RelativeTTL(10),
	}, "ae_devnet", account)
	require.NoError(t, err)

	t.Run("submitted", func(t *testing.T) {
		f := setupTxManagerTest()
		f.dialer.On("Dial", mock.Anything).Return(f.reader, nil)
		f.reader.On("PostTransaction", mock.Anything, signed.Encoded).Return(testHash, nil)

		outcome := f.txm.Broadcast(context.Background(), signed.Encoded, types.OracleOptions{})

		require.True(t, outcome.OK(), outcome.Err)
		require.Equal(t, printer.SubmittedMessage+testHash+"\n", f.out.String())
		f.reader.AssertNotCalled(t, "WaitMined", mock.Anything, mock.Anything)
	})

	t.Run("mined", func(t *testing.T) {
		f := setupTxManagerTest()
		f.dialer.On("Dial", mock.Anything).Return(f.reader, nil)
		f.reader.On("PostTransaction", mock.Anything, signed.Encoded).Return(testHash, nil)
		f.reader.On("WaitMined", mock.Anything, testHash).Return(&types.TxResult{Hash: testHash, BlockHeight: 12, Mined: true}, nil)

		outcome := f.txm.Broadcast(context.Background(), signed.Encoded, types.OracleOptions{WaitMined: true, JSON: true})

		require.True(t, outcome.OK(), outcome.Err)
		require.Equal(t, int64(12), gjson.Get(f.out.String(), "blockHeight").Int())
		require.Equal(t, signed.Encoded, gjson.Get(f.out.String(), "rawTx").String())
	})

	t.Run("unsigned input", func(t *testing.T) {
		f := setupTxManagerTest()
		unsigned, err := txbuilder.EncodeUnsigned(&txbuilder.OracleExtendTx{
			Common:    txbuilder.Common{Nonce: 1, Fee: sdkmath.NewInt(1)},
			OracleKey: account.PublicKey(),
			OracleTTL: types.RelativeTTL(10),
		})
		require.NoError(t, err)

		outcome := f.txm.Broadcast(context.Background(), unsigned, types.OracleOptions{})

		require.True(t, errorsmod.IsOf(outcome.Err, types.ErrInvalidTx))
		f.dialer.AssertNotCalled(t, "Dial", mock.Anything)
	})
}
