package main

import (
	"capturekit/cmd/handlers"
	"capturekit/internal/logger"
)

func main() {
	logger.Init()
	handlers.Execute()
}
