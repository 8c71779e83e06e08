package main

import (
	"os"

	"fxswap/internal/app"

	"github.com/sirupsen/logrus"
)

// @title FX Swap API
// @version 1.0
// @description Currency swap sessions with debounced quoting and fixed or floating rates.
// @BasePath /api/v1
func main() {
	if err := app.Run(); err != nil {
		logrus.WithError(err).Error("application stopped")
		os.Exit(1)
	}
}
