package main

import (
	"flag"

	"github.com/prometheus/client_golang/prometheus"

	bootstrap "github.com/DaveEstey/openbook-protocol/cmd/config"
	core "github.com/DaveEstey/openbook-protocol/core"
)

func main() {
	env := flag.String("env", "", "overlay config file to merge over cmd/config/default.yaml")
	flag.Parse()

	b := bootstrap.LoadConfig(*env)

	reg := prometheus.NewRegistry()
	core.NewMetrics(reg)

	srv := NewServer(b.Config.API.ListenAddr, b.Logger, reg)
	b.Logger.WithField("addr", b.Config.API.ListenAddr).Info("query api listening")
	if err := srv.Start(); err != nil {
		b.Logger.WithError(err).Fatal("query api exited")
	}
}
