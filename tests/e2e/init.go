package e2e

func init() {
	addAccountCases()
	addOracleCases()
	addQueryCases()
	addOfflineCases()
}
