package main

import (
	"fmt"
	"log"
	"os"

	"github.com/alexflint/go-arg"

	"d2wsync/extract"
	"d2wsync/recon"
)

type CmdArgs struct {
	Sync    *recon.Cmd      `arg:"subcommand" help:"Reconcile local station data with the remote monitoring store"`
	Post    *recon.PostCmd  `arg:"subcommand" help:"Submit staged CSV files left over from a previous run"`
	Extract *extract.Config `arg:"subcommand" help:"Export station metadata and daily readings from postgres to CSV"`
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	// The following env variables are needed:
	// 1. Sync / Post: "D2W_HOST", "D2W_SCHEME", "D2W_USERNAME", "D2W_PASSWORD",
	//    "D2W_CLIENT_ID", "D2W_CLIENT_SECRET"
	// 2. Extract: "DBASE_CONN_STRING"
	args := CmdArgs{}
	parser := arg.MustParse(&args)

	switch {
	case args.Sync != nil:
		os.Exit(args.Sync.Execute(parser))
	case args.Post != nil:
		os.Exit(args.Post.Execute(parser))
	case args.Extract != nil:
		os.Exit(args.Extract.Execute())
	default:
		fmt.Println("Error: passing a subcommand is required.")
		fmt.Println()
		parser.WriteHelp(os.Stdout)
	}
}
