package main

import (
	"fmt"
	"os"

	"k8s.io/klog/v2"

	"kalah/config"
	"kalah/engine"
	"kalah/protocol"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, "usage: kalah --search={minimax|alpha-beta} --depth=<N> --weights w1 w2 w3 w4 w5")
		os.Exit(2)
	}
	config.SetupLogging(cfg)
	defer klog.Flush()

	agent := engine.NewAgent(protocol.NewConn(os.Stdin, os.Stdout), cfg.Mode, cfg.Depth, cfg.Weights)
	if err := agent.Run(); err != nil {
		klog.Flush()
		fmt.Fprintln(os.Stderr, "kalah:", err)
		os.Exit(1)
	}
}
