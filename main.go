package main

import (
	"fmt"
	"os"

	"fjacquet/upi-ledger/cmd/batch"
	"fjacquet/upi-ledger/cmd/categories"
	"fjacquet/upi-ledger/cmd/categorize"
	"fjacquet/upi-ledger/cmd/extract"
	"fjacquet/upi-ledger/cmd/root"
	"fjacquet/upi-ledger/cmd/serve"
)

func init() {
	root.Init()

	root.Cmd.AddCommand(extract.Cmd)
	root.Cmd.AddCommand(batch.Cmd)
	root.Cmd.AddCommand(categorize.Cmd)
	root.Cmd.AddCommand(categories.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
