package main

import (
	"pulsebot/cmd/handlers"
	"pulsebot/internal/logger"
)

func main() {
	logger.Init() // Initialize the logger
	handlers.Execute()
}
