package main

import (
	"fxsync/internal/app"

	"github.com/sirupsen/logrus"
)

// @title fxsync API
// @version 1.0
// @description Exchange rate synchronization and sales quotation recalculation.
// @BasePath /
func main() {
	if err := app.Run(); err != nil {
		logrus.WithError(err).Fatal("fxsync stopped")
	}
}
