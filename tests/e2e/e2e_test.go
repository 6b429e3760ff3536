package e2e

import (
	"context"
	"fmt"

	"github.com/tidwall/gjson"
)

// TestCLITxs runs the oracle lifecycle through the CLI against one node.
// Cases depend on the state left by the cases before them.
func (s *IntegrationTestSuite) TestCLITxs() {
	for _, tc := range TestCases {
		tc := tc
		s.Run(fmt.Sprintf("%s :: %s", tc.Module, tc.Name), func() {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			stdout, stderr, code := s.chain.Exec(ctx, tc.Cmd(s.chain))

			if !tc.ExpPass {
				s.Require().Equalf(1, code, "command passed unexpectedly:\nstdout: %s", stdout)
				s.Require().Truef(
					len(tc.ExpErr) == 0 || expectContains(stderr, tc.ExpErr) == nil,
					"command failed with unexpected error:\nstdout: %s\nstderr: %s", stdout, stderr,
				)
				return
			}

			s.Require().Equalf(0, code, "command failed:\nstdout: %s\nstderr: %s", stdout, stderr)
			if tc.Capture != nil {
				tc.Capture(s.chain, stdout)
			}

			for _, check := range tc.PassCheck {
				out, errOut, code := s.chain.Exec(ctx, check.Cmd(s.chain))
				s.Require().Equalf(0, code, "%s: query failed: %s", check.Name, errOut)
				s.Require().Equal(check.Expected, gjson.Get(out, check.Path).String(), check.Name)
			}

			if tc.PassCheckFunc != nil {
				s.Require().NoError(tc.PassCheckFunc(s.chain, stdout))
			}
		})
	}
}
