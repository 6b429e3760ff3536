// Package printer renders command results for the terminal.
package printer

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/tidwall/gjson"

	"github.com/GPTx-global/aecli/client/encoding"
	aetypes "github.com/GPTx-global/aecli/types"
	"github.com/GPTx-global/aecli/x/oracle/types"
)

// SubmittedMessage prefixes the hash of a broadcast transaction.
const SubmittedMessage = "Transaction send to the chain. Tx hash: "

const labelFormat = "%-20s: %v\n"

// Printer writes results to out and errors to errOut.
type Printer struct {
	out    io.Writer
	errOut io.Writer
}

func New(out, errOut io.Writer) *Printer {
	return &Printer{out: out, errOut: errOut}
}

func (p *Printer) line(label string, value any) error {
	if _, err := fmt.Fprintf(p.out, labelFormat, label, value); err != nil {
		return errorsmod.Wrap(types.ErrPresentation, err.Error())
	}
	return nil
}

func (p *Printer) lines(pairs [][2]any) error {
	for _, pair := range pairs {
		if err := p.line(pair[0].(string), pair[1]); err != nil {
			return err
		}
	}
	return nil
}

// JSON writes v as one indented JSON document.
func (p *Printer) JSON(v any) error {
	bz, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorsmod.Wrap(types.ErrPresentation, err.Error())
	}
	return p.RawJSON(bz)
}

// RawJSON writes an already encoded JSON document.
func (p *Printer) RawJSON(bz []byte) error {
	if _, err := fmt.Fprintln(p.out, string(bz)); err != nil {
		return errorsmod.Wrap(types.ErrPresentation, err.Error())
	}
	return nil
}

// PrintSubmitted reports a transaction that was broadcast but not awaited.
func (p *Printer) PrintSubmitted(res *types.TxResult, asJSON bool) error {
	if asJSON {
		return p.JSON(res)
	}
	if _, err := fmt.Fprintln(p.out, SubmittedMessage+res.Hash); err != nil {
		return errorsmod.Wrap(types.ErrPresentation, err.Error())
	}
	return nil
}

// PrintTransaction reports a mined transaction.
func (p *Printer) PrintTransaction(res *types.TxResult, asJSON bool) error {
	if asJSON {
		return p.JSON(res)
	}

	pairs := [][2]any{
		{"Transaction hash", res.Hash},
		{"Block hash", res.BlockHash},
		{"Block height", res.BlockHeight},
		{"Signatures", strings.Join(res.Signatures, ", ")},
	}
	if res.QueryID != "" {
		pairs = append(pairs, [2]any{"Query ID", res.QueryID})
	}
	if err := p.lines(pairs); err != nil {
		return err
	}

	return p.txFields(res.Tx)
}

// PrintUnsignedTx reports a transaction built offline.
func (p *Printer) PrintUnsignedTx(tx *types.UnsignedTx, asJSON bool) error {
	if asJSON {
		return p.JSON(tx)
	}
	if err := p.line("Encoded", tx.Tx); err != nil {
		return err
	}
	return p.txFields(tx.TxObject)
}

// PrintSigned reports a signed transaction.
func (p *Printer) PrintSigned(res *types.SignResult, asJSON bool) error {
	if asJSON {
		return p.JSON(res)
	}
	return p.lines([][2]any{
		{"Signed", res.Signed},
		{"Hash", res.Hash},
		{"Network ID", res.NetworkID},
	})
}

// txFields prints the type and then every field of a node style tx object.
func (p *Printer) txFields(raw []byte) error {
	tx := gjson.ParseBytes(raw)
	if err := p.line("Tx Type", tx.Get("type").String()); err != nil {
		return err
	}

	var err error
	tx.ForEach(func(key, value gjson.Result) bool {
		if key.String() == "type" {
			return true
		}
		err = p.line(fieldLabel(key.String()), txValue(key.String(), value))
		return err == nil
	})
	return err
}

// PrintOracle renders the oracle summary.
func (p *Printer) PrintOracle(o *types.Oracle, asJSON bool) error {
	if asJSON {
		return p.RawJSON(o.Raw)
	}

	queryFee := "N/A"
	if o.QueryFee != nil {
		queryFee = o.QueryFee.String()
	}
	return p.lines([][2]any{
		{"Oracle ID", o.ID},
		{"Oracle Query Fee", queryFee},
		{"Oracle Query Format", o.QueryFormat},
		{"Oracle Response Format", o.ResponseFormat},
		{"Ttl", o.TTL},
	})
}

// PrintQueries renders the queries of an oracle as a table with the payloads
// decoded.
func (p *Printer) PrintQueries(q *types.OracleQueries, asJSON bool) error {
	if asJSON {
		return p.RawJSON(q.Raw)
	}

	if _, err := fmt.Fprintln(p.out, "\nOracle Queries"); err != nil {
		return errorsmod.Wrap(types.ErrPresentation, err.Error())
	}
	if len(q.Queries) == 0 {
		return p.line("Queries", "N/A")
	}

	tbl := tablewriter.NewWriter(p.out)
	tbl.SetHeader([]string{"Query ID", "Sender", "Nonce", "Fee", "Query", "Response", "Ttl", "Response Ttl"})
	tbl.SetBorder(true)
	tbl.SetAutoWrapText(false)
	for _, query := range q.Queries {
		fee := ""
		if query.Fee != nil {
			fee = query.Fee.String()
		}
		tbl.Append([]string{
			query.ID,
			query.SenderID,
			fmt.Sprint(query.SenderNonce),
			fee,
			encoding.DecodePayload(query.Query),
			encoding.DecodePayload(query.Response),
			fmt.Sprint(query.TTL),
			query.ResponseTTL.String(),
		})
	}
	tbl.Render()
	return nil
}

// PrintAccount renders a wallet's address.
func (p *Printer) PrintAccount(address, walletPath string, asJSON bool) error {
	if asJSON {
		return p.JSON(map[string]string{"publicKey": address, "path": walletPath})
	}
	return p.lines([][2]any{
		{"Address", address},
		{"Path", walletPath},
	})
}

// PrintError writes err to the error stream with a red prefix.
func (p *Printer) PrintError(err error) {
	red := color.New(color.FgRed, color.Bold).SprintFunc()
	_, _ = fmt.Fprintf(p.errOut, "%s %v\n", red("Error:"), err)
}

// fieldLabel turns a snake_case node field into a label, e.g.
// query_fee -> "Tx Query Fee".
func fieldLabel(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "id" {
			words[i] = "ID"
			continue
		}
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return "Tx " + strings.Join(words, " ")
}

func txValue(key string, value gjson.Result) any {
	switch {
	case key == "fee" || key == "query_fee":
		if amount, ok := sdkmath.NewIntFromString(value.Raw); ok {
			return fmt.Sprintf("%s (%s)", amount, aetypes.FormatAE(amount))
		}
	case value.IsObject():
		if value.Get("type").Exists() {
			return fmt.Sprintf("%s %s", value.Get("type").String(), value.Get("value").String())
		}
	}
	return value.String()
}
