package e2e

import (
	"github.com/GPTx-global/aecli/oracle/printer"
)

func addOracleCases() {
	AddTestCase(&TestCase{
		Name: "should fail - register with a bad oracle ttl",
		Cmd: func(c *Chain) []string {
			return []string{"oracle", "create", c.Wallet(walletOracle), "{city: \"str\"}", "{tmp: \"num\"}", "--oracleTtl=soon"}
		},
		ExpPass: false,
		ExpErr:  "invalid ttl",
	})

	AddTestCase(&TestCase{
		Name: "should pass - register",
		Cmd: func(c *Chain) []string {
			return []string{"oracle", "create", c.Wallet(walletOracle), "{city: \"str\"}", "{tmp: \"num\"}", "--json"}
		},
		ExpPass: true,
		PassCheck: []CheckCase{
			{Name: "oracle ttl", Cmd: queryOracle, Path: "ttl", Expected: "600"},
			{Name: "query fee", Cmd: queryOracle, Path: "query_fee", Expected: "30000"},
			{Name: "query format", Cmd: queryOracle, Path: "query_format", Expected: "{city: \"str\"}"},
			{Name: "no queries", Cmd: queryOracle, Path: "queries.#", Expected: "0"},
		},
	})

	AddTestCase(&TestCase{
		Name: "should fail - register twice",
		Cmd: func(c *Chain) []string {
			return []string{"oracle", "create", c.Wallet(walletOracle), "{city: \"str\"}", "{tmp: \"num\"}"}
		},
		ExpPass: false,
		ExpErr:  "already an oracle",
	})

	AddTestCase(&TestCase{
		Name: "should pass - extend",
		Cmd: func(c *Chain) []string {
			return []string{"oracle", "extend", c.Wallet(walletOracle), c.Get("oracleId"), "100"}
		},
		ExpPass: true,
		PassCheck: []CheckCase{
			{Name: "oracle ttl", Cmd: queryOracle, Path: "ttl", Expected: "700"},
		},
		PassCheckFunc: func(c *Chain, stdout string) error {
			return expectContains(stdout, "Tx Type")
		},
	})

	AddTestCase(&TestCase{
		Name: "should fail - extend by a non numeric ttl",
		Cmd: func(c *Chain) []string {
			return []string{"oracle", "extend", c.Wallet(walletOracle), c.Get("oracleId"), "block:900"}
		},
		ExpPass: false,
		ExpErr:  "Oracle Ttl should be a number",
	})

	AddTestCase(&TestCase{
		Name: "should fail - extend an oracle of another wallet",
		Cmd: func(c *Chain) []string {
			return []string{"oracle", "extend", c.Wallet(walletUser), c.Get("oracleId"), "100"}
		},
		ExpPass: false,
		ExpErr:  "does not own the oracle",
	})

	AddTestCase(&TestCase{
		Name: "should pass - extend without waiting",
		Cmd: func(c *Chain) []string {
			return []string{"oracle", "extend", c.Wallet(walletOracle), c.Get("oracleId"), "50", "--waitMined=false"}
		},
		ExpPass: true,
		PassCheck: []CheckCase{
			{Name: "oracle ttl", Cmd: queryOracle, Path: "ttl", Expected: "750"},
		},
		PassCheckFunc: func(c *Chain, stdout string) error {
			return expectContains(stdout, printer.SubmittedMessage)
		},
	})
}

func queryOracle(c *Chain) []string {
	return []string{"oracle", "query", c.Get("oracleId"), "--json"}
}
