package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/budget"
	"github.com/google/subcommands"
)

type queryCmd struct{}

func (*queryCmd) Name() string     { return "query" }
func (*queryCmd) Synopsis() string { return "query the book with a JSONPath expression" }
func (*queryCmd) Usage() string {
	return `bgt query <jsonpath>

  Evaluates a JSONPath expression against the snapshot of the book:

    {"currency": "UGX", "pool": 50000,
     "incomes": [{"id", "date", "source", "amount", "notes"}...],
     "expenses": [{"id", "date", "category", "description", "amount", "notes"}...],
     "goals": [{"id", "name", "type", "target", "saved", "deadline", "description"}...]}

Usage Examples:
$ bgt query '$.pool'
$ bgt query '$.expenses[?(@.category == "Wants")].amount'
`
}

func (*queryCmd) SetFlags(f *flag.FlagSet) {}

func (*queryCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Error: expected one JSONPath expression")
		return subcommands.ExitUsageError
	}
	return view(ctx, func(b *budget.Book) error {
		result, err := query(b.Snapshot(), f.Arg(0))
		if err != nil {
			return err
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	})
}

// query evaluates path against the JSON form of the snapshot.
func query(s *budget.Snapshot, path string) (any, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	v, err := jsonpath.Get(path, doc)
	if err != nil {
		return nil, fmt.Errorf("error evaluating %q: %w", path, err)
	}
	return v, nil
}
