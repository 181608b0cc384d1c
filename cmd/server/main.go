// Command server runs the shopgraph GraphQL API.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/simp-lee/shopgraph/internal/app"
	"github.com/simp-lee/shopgraph/internal/config"
)

const configEnv = "SHOPGRAPH_CONFIG"

func main() {
	configPath := flag.String("config", defaultConfigPath(), "path to configuration file (env "+configEnv+")")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	a, err := app.New(cfg)
	if err != nil {
		log.Fatal("failed to create app: ", err)
	}

	if err := a.Run(); err != nil {
		log.Fatal("server error: ", err)
	}
}

func defaultConfigPath() string {
	if p := os.Getenv(configEnv); p != "" {
		return p
	}
	return "configs/config.yaml"
}
