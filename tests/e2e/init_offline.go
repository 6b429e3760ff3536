package e2e

import (
	"context"

	"github.com/tidwall/gjson"

	"github.com/GPTx-global/aecli/client/encoding"
	"github.com/GPTx-global/aecli/oracle/printer"
)

const walletOffline = "offline"

// addOfflineCases runs the oracle lifecycle of a third wallet through
// tx, account sign and chain broadcast.
func addOfflineCases() {
	AddTestCase(&TestCase{
		Module: "account",
		Name:   "should pass - create offline wallet",
		Cmd: func(c *Chain) []string {
			return []string{"account", "create", c.Wallet(walletOffline), "--json"}
		},
		ExpPass: true,
		Capture: func(c *Chain, stdout string) {
			address := gjson.Get(stdout, "publicKey").String()
			oracleID, _ := encoding.Retag(address, encoding.PrefixAccount, encoding.PrefixOracle)
			c.Set("offlineAddress", address)
			c.Set("offlineOracleId", oracleID)
		},
	})

	AddTestCase(&TestCase{
		Module: "tx",
		Name:   "should fail - register with a non numeric nonce",
		Cmd: func(c *Chain) []string {
			return []string{"tx", "oracle-register", c.Get("offlineAddress"), "q", "r", "first"}
		},
		ExpPass: false,
		ExpErr:  "nonce must be a non-negative integer",
	})

	AddTestCase(&TestCase{
		Module: "tx",
		Name:   "should pass - build register",
		Cmd: func(c *Chain) []string {
			return []string{"tx", "oracle-register", c.Get("offlineAddress"), "{city: \"str\"}", "{tmp: \"num\"}", "1", "--json"}
		},
		ExpPass: true,
		Capture: captureUnsigned,
		PassCheckFunc: func(c *Chain, stdout string) error {
			if err := expectEqual("type", "OracleRegisterTx", gjson.Get(stdout, "txObject.type").String()); err != nil {
				return err
			}
			return expectEqual("nonce", "1", gjson.Get(stdout, "txObject.nonce").String())
		},
	})

	AddTestCase(&TestCase{
		Module: "account",
		Name:   "should fail - sign garbage",
		Cmd: func(c *Chain) []string {
			return []string{"account", "sign", c.Wallet(walletOffline), "tx_garbage"}
		},
		ExpPass: false,
		ExpErr:  "invalid transaction",
	})

	AddTestCase(&TestCase{
		Module: "chain",
		Name:   "should fail - broadcast an unsigned tx",
		Cmd: func(c *Chain) []string {
			return []string{"chain", "broadcast", c.Get("unsignedTx")}
		},
		ExpPass: false,
		ExpErr:  "invalid transaction",
	})

	addSignCase("register")

	AddTestCase(&TestCase{
		Module: "chain",
		Name:   "should pass - broadcast register",
		Cmd: func(c *Chain) []string {
			return []string{"chain", "broadcast", c.Get("signedTx"), "--waitMined", "--json"}
		},
		ExpPass: true,
		PassCheck: []CheckCase{
			{Name: "query format", Cmd: queryOfflineOracle, Path: "query_format", Expected: "{city: \"str\"}"},
			{Name: "no queries", Cmd: queryOfflineOracle, Path: "queries.#", Expected: "0"},
		},
		PassCheckFunc: func(c *Chain, stdout string) error {
			return expectEqual("tx type", "OracleRegisterTx", gjson.Get(stdout, "tx.type").String())
		},
	})

	AddTestCase(&TestCase{
		Module: "chain",
		Name:   "should fail - broadcast the same tx twice",
		Cmd: func(c *Chain) []string {
			return []string{"chain", "broadcast", c.Get("signedTx")}
		},
		ExpPass: false,
		ExpErr:  "Invalid nonce",
	})

	AddTestCase(&TestCase{
		Module: "tx",
		Name:   "should fail - build extend for an oracle of another account",
		Cmd: func(c *Chain) []string {
			return []string{"tx", "oracle-extend", c.Get("oracleAddress"), c.Get("offlineOracleId"), "100", "2"}
		},
		ExpPass: false,
		ExpErr:  "is not the account of",
	})

	AddTestCase(&TestCase{
		Module: "tx",
		Name:   "should pass - build extend",
		Cmd: func(c *Chain) []string {
			return []string{"tx", "oracle-extend", c.Get("offlineAddress"), c.Get("offlineOracleId"), "100", "2", "--json"}
		},
		ExpPass: true,
		Capture: captureUnsigned,
	})

	addSignCase("extend")

	AddTestCase(&TestCase{
		Module: "chain",
		Name:   "should pass - broadcast extend without waiting",
		Cmd: func(c *Chain) []string {
			return []string{"chain", "broadcast", c.Get("signedTx")}
		},
		ExpPass: true,
		PassCheckFunc: func(c *Chain, stdout string) error {
			return expectContains(stdout, printer.SubmittedMessage+"th_")
		},
	})

	AddTestCase(&TestCase{
		Module: "tx",
		Name:   "should pass - build post query",
		Cmd: func(c *Chain) []string {
			return []string{"tx", "oracle-post-query", c.Get("offlineAddress"), c.Get("offlineOracleId"), "{city: \"Rome\"}", "3", "--json"}
		},
		ExpPass: true,
		Capture: func(c *Chain, stdout string) {
			captureUnsigned(c, stdout)
			sender, _ := encoding.DecodeID(c.Get("offlineAddress"), encoding.PrefixAccount)
			oracle, _ := encoding.DecodeID(c.Get("offlineOracleId"), encoding.PrefixOracle)
			c.Set("offlineQueryId", encoding.QueryID(sender, 3, oracle))
		},
	})

	addSignCase("post query")

	AddTestCase(&TestCase{
		Module: "chain",
		Name:   "should pass - broadcast post query",
		Cmd: func(c *Chain) []string {
			return []string{"chain", "broadcast", c.Get("signedTx"), "--waitMined", "--json"}
		},
		ExpPass: true,
		PassCheck: []CheckCase{
			{Name: "query count", Cmd: queryOfflineOracle, Path: "queries.#", Expected: "1"},
			{Name: "query fee", Cmd: queryOfflineOracle, Path: "queries.0.fee", Expected: "30000"},
		},
		PassCheckFunc: func(c *Chain, stdout string) error {
			return expectEqual("query id", c.Get("offlineQueryId"), queryOf(c, "id"))
		},
	})

	AddTestCase(&TestCase{
		Module: "tx",
		Name:   "should pass - build respond with a ttl height",
		Cmd: func(c *Chain) []string {
			return []string{"tx", "oracle-respond", c.Get("offlineAddress"), c.Get("offlineOracleId"), c.Get("offlineQueryId"), "{tmp: 20}", "4", "--ttl=100000", "--json"}
		},
		ExpPass: true,
		Capture: captureUnsigned,
		PassCheckFunc: func(c *Chain, stdout string) error {
			return expectEqual("ttl", "100000", gjson.Get(stdout, "txObject.ttl").String())
		},
	})

	addSignCase("respond")

	AddTestCase(&TestCase{
		Module: "chain",
		Name:   "should pass - broadcast respond",
		Cmd: func(c *Chain) []string {
			return []string{"chain", "broadcast", c.Get("signedTx"), "--waitMined"}
		},
		ExpPass: true,
		PassCheckFunc: func(c *Chain, stdout string) error {
			if err := expectContains(stdout, "OracleRespondTx"); err != nil {
				return err
			}
			return expectEqual("response", "{tmp: 20}", encoding.DecodePayload(queryOf(c, "response")))
		},
	})

	AddTestCase(&TestCase{
		Module: "tx",
		Name:   "should pass - build extend with an expired ttl",
		Cmd: func(c *Chain) []string {
			return []string{"tx", "oracle-extend", c.Get("offlineAddress"), c.Get("offlineOracleId"), "10", "5", "--ttl=1", "--json"}
		},
		ExpPass: true,
		Capture: captureUnsigned,
	})

	addSignCase("expired extend")

	AddTestCase(&TestCase{
		Module: "chain",
		Name:   "should fail - broadcast an expired tx",
		Cmd: func(c *Chain) []string {
			return []string{"chain", "broadcast", c.Get("signedTx")}
		},
		ExpPass: false,
		ExpErr:  "expired",
	})
}

func addSignCase(what string) {
	AddTestCase(&TestCase{
		Module: "account",
		Name:   "should pass - sign " + what,
		Cmd: func(c *Chain) []string {
			return []string{"account", "sign", c.Wallet(walletOffline), c.Get("unsignedTx"), "--json"}
		},
		ExpPass: true,
		Capture: func(c *Chain, stdout string) {
			c.Set("signedTx", gjson.Get(stdout, "signedTx").String())
		},
		PassCheckFunc: func(c *Chain, stdout string) error {
			return expectEqual("network id", "ae_devnet", gjson.Get(stdout, "networkId").String())
		},
	})
}

func captureUnsigned(c *Chain, stdout string) {
	c.Set("unsignedTx", gjson.Get(stdout, "tx").String())
}

func queryOfflineOracle(c *Chain) []string {
	return []string{"oracle", "query", c.Get("offlineOracleId"), "--json"}
}

// queryOf reads a field of the first query of the offline oracle.
func queryOf(c *Chain, field string) string {
	stdout, _, _ := c.Exec(context.Background(), queryOfflineOracle(c))
	return gjson.Get(stdout, "queries.0."+field).String()
}
