package e2e

import (
	"context"

	"github.com/tidwall/gjson"

	"github.com/GPTx-global/aecli/client/encoding"
)

func addQueryCases() {
	AddTestCase(&TestCase{
		Name: "should pass - post query",
		Cmd: func(c *Chain) []string {
			return []string{"oracle", "create-query", c.Wallet(walletUser), c.Get("oracleId"), "{city: \"Berlin\"}", "--json"}
		},
		ExpPass: true,
		Capture: func(c *Chain, stdout string) {
			c.Set("queryId", gjson.Get(stdout, "queryId").String())
		},
		PassCheck: []CheckCase{
			{Name: "query count", Cmd: queryOracle, Path: "queries.#", Expected: "1"},
			{Name: "query fee", Cmd: queryOracle, Path: "queries.0.fee", Expected: "30000"},
		},
		PassCheckFunc: func(c *Chain, stdout string) error {
			return expectEqual("query id", c.Get("queryId"), gjson.Get(stdout, "queryId").String())
		},
	})

	AddTestCase(&TestCase{
		Name: "should fail - post query with a fee below the oracle's",
		Cmd: func(c *Chain) []string {
			return []string{"oracle", "create-query", c.Wallet(walletUser), c.Get("oracleId"), "{city: \"Paris\"}", "--queryFee=1"}
		},
		ExpPass: false,
		ExpErr:  "Query fee too low",
	})

	AddTestCase(&TestCase{
		Name: "should fail - respond from a wallet that is not the oracle",
		Cmd: func(c *Chain) []string {
			return []string{"oracle", "respond", c.Wallet(walletUser), c.Get("oracleId"), c.Get("queryId"), "{tmp: 10}"}
		},
		ExpPass: false,
		ExpErr:  "does not own the oracle",
	})

	AddTestCase(&TestCase{
		Name: "should pass - respond",
		Cmd: func(c *Chain) []string {
			return []string{"oracle", "respond", c.Wallet(walletOracle), c.Get("oracleId"), c.Get("queryId"), "{tmp: 10}"}
		},
		ExpPass: true,
	})

	AddTestCase(&TestCase{
		Name: "should fail - respond twice",
		Cmd: func(c *Chain) []string {
			return []string{"oracle", "respond", c.Wallet(walletOracle), c.Get("oracleId"), c.Get("queryId"), "{tmp: 11}"}
		},
		ExpPass: false,
		ExpErr:  "already answered",
	})

	AddTestCase(&TestCase{
		Name:    "should pass - inspect the answered query",
		Cmd:     queryOracle,
		ExpPass: true,
		PassCheckFunc: func(c *Chain, stdout string) error {
			query := gjson.Get(stdout, "queries.0")
			if err := expectEqual("query id", c.Get("queryId"), query.Get("id").String()); err != nil {
				return err
			}
			if err := expectEqual("query", "{city: \"Berlin\"}", encoding.DecodePayload(query.Get("query").String())); err != nil {
				return err
			}
			return expectEqual("response", "{tmp: 10}", encoding.DecodePayload(query.Get("response").String()))
		},
	})

	AddTestCase(&TestCase{
		Name:    "should pass - inspect twice gives the same document",
		Cmd:     queryOracle,
		ExpPass: true,
		PassCheckFunc: func(c *Chain, stdout string) error {
			again, _, _ := c.Exec(context.Background(), queryOracle(c))
			return expectEqual("inspect output", stdout, again)
		},
	})

	AddTestCase(&TestCase{
		Name:    "should fail - inspect a malformed oracle id",
		Cmd:     func(*Chain) []string { return []string{"oracle", "query", "ok_nope"} },
		ExpPass: false,
		ExpErr:  "invalid identifier",
	})
}
