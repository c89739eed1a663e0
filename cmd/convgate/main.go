package main

import (
	"github.com/leshachaplin/convgate/app"
	"github.com/leshachaplin/convgate/internal/config"
)

func main() {
	app.New(config.Load).Start()
}
