// Command parse-voucher runs field extraction on already-recognized
// receipt text and prints the result as JSON. Useful for tuning the
// extraction rules against saved transcriptions without a server or a
// vision model.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/mxpos/comprobante-tracker/internal/extraction"
)

func main() {
	fs := ff.NewFlagSet("parse-voucher")
	var (
		input  = fs.StringLong("input", "-", "Text file with the recognized receipt text ('-' for stdin)")
		pretty = fs.BoolLong("pretty", "Indent the JSON output")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("PARSE_VOUCHER"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	var data []byte
	var err error
	if *input == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(*input)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error reading input: %v\n", err)
		os.Exit(1)
	}

	receipt := extraction.NewEngine().Extract(string(data))

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(receipt); err != nil {
		fmt.Fprintf(os.Stderr, "error encoding output: %v\n", err)
		os.Exit(1)
	}
}
