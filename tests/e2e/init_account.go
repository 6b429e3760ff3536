package e2e

import (
	"github.com/tidwall/gjson"

	"github.com/GPTx-global/aecli/client/encoding"
)

func addAccountCases() {
	AddTestCase(&TestCase{
		Module: "account",
		Name:   "should pass - create oracle wallet",
		Cmd: func(c *Chain) []string {
			return []string{"account", "create", c.Wallet(walletOracle), "--name", walletOracle, "--json"}
		},
		ExpPass: true,
		Capture: func(c *Chain, stdout string) {
			address := gjson.Get(stdout, "publicKey").String()
			oracleID, _ := encoding.Retag(address, encoding.PrefixAccount, encoding.PrefixOracle)
			c.Set("oracleAddress", address)
			c.Set("oracleId", oracleID)
		},
	})

	AddTestCase(&TestCase{
		Module: "account",
		Name:   "should pass - create user wallet",
		Cmd: func(c *Chain) []string {
			return []string{"account", "create", c.Wallet(walletUser)}
		},
		ExpPass: true,
	})

	AddTestCase(&TestCase{
		Module: "account",
		Name:   "should fail - create over an existing wallet",
		Cmd: func(c *Chain) []string {
			return []string{"account", "create", c.Wallet(walletUser)}
		},
		ExpPass: false,
		ExpErr:  "wallet file already exists",
	})

	AddTestCase(&TestCase{
		Module: "account",
		Name:   "should pass - address",
		Cmd: func(c *Chain) []string {
			return []string{"account", "address", c.Wallet(walletOracle), "--json"}
		},
		ExpPass: true,
		PassCheckFunc: func(c *Chain, stdout string) error {
			return expectEqual("address", c.Get("oracleAddress"), gjson.Get(stdout, "publicKey").String())
		},
	})
}
