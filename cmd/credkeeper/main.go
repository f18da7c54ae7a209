package main

import (
	"bufio"
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/credkeeper/internal/app"
	"github.com/dmitrijs2005/credkeeper/internal/buildinfo"
	"github.com/dmitrijs2005/credkeeper/internal/cli"
	"github.com/dmitrijs2005/credkeeper/internal/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("%v", err)
	}

	ctx := context.Background()
	in := bufio.NewReader(os.Stdin)

	a, err := app.New(ctx, cfg, app.Options{Supervisor: cli.Supervisor(in, os.Stdout)})
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer a.Close()

	cli.New(a.Registrar, a.Authenticator, in, os.Stdout).Run(ctx)

}
