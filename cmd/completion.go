package cmd

import (
	"flag"
	"io"

	"github.com/etnz/budget"
	"github.com/etnz/budget/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// Completion returns the shell completion of the CLI. Install it with
// COMP_INSTALL=1 bgt.
func Completion() *complete.Command {
	root := &complete.Command{
		Sub: map[string]*complete.Command{
			"help":  {Args: commandNames()},
			"flags": {Args: commandNames()},
		},
		Flags: map[string]complete.Predictor{
			"store":      predict.Files("*"),
			"passphrase": predict.Nothing,
			"currency":   predict.Something,
			"listen":     predict.Something,
			"raw":        predict.Nothing,
		},
	}
	for _, c := range Commands {
		f := flag.NewFlagSet(c.Name(), flag.ContinueOnError)
		f.SetOutput(io.Discard)
		c.SetFlags(f)
		sub := &complete.Command{Flags: map[string]complete.Predictor{}}
		f.VisitAll(func(fl *flag.Flag) {
			sub.Flags[fl.Name] = flagPredictor(fl.Name)
		})
		switch c.Name() {
		case "remove":
			sub.Args = predict.Set{"income", "expense"}
		case "topic":
			topics, _ := docs.GetAllTopics()
			sub.Args = predict.Set(append(topics, "*"))
		}
		root.Sub[c.Name()] = sub
	}
	return root
}

func commandNames() predict.Set {
	var names predict.Set
	for _, c := range Commands {
		names = append(names, c.Name())
	}
	return names
}

func flagPredictor(name string) complete.Predictor {
	switch name {
	case "c":
		var s predict.Set
		for _, c := range budget.Categories {
			s = append(s, string(c))
		}
		return s
	case "type":
		return predict.Set{"short", "mid", "long"}
	case "p":
		return predict.Set{"all", "this", "last"}
	case "w":
		var s predict.Set
		for _, w := range budget.Windows {
			s = append(s, w.String())
		}
		return s
	case "html":
		return predict.Nothing
	default:
		return predict.Something
	}
}
