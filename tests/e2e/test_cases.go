package e2e

type CheckCase struct {
	Name     string                // what is checked
	Cmd      func(*Chain) []string // query command
	Path     string                // gjson path into the JSON output
	Expected string                // expected value at Path
}

type TestCase struct {
	Module        string                     // command group under test
	Name          string                     // test case
	Cmd           func(*Chain) []string      // command to execute
	ExpPass       bool                       // should pass or not?
	ExpErr        string                     // expected error (only if ExpPass == false)
	Capture       func(*Chain, string)       // records values from stdout for later cases
	PassCheck     []CheckCase                // queries run after a passing command
	PassCheckFunc func(*Chain, string) error // conditions on stdout in case of ExpPass == true
}

var TestCases []TestCase

// AddTestCase appends a case. Cases run in the order they are added and share
// one chain.
func AddTestCase(testCase *TestCase) {
	if testCase.Module == "" {
		testCase.Module = "oracle"
	}
	TestCases = append(TestCases, *testCase)
}
