package utils

import (
	"go.uber.org/zap"
)

// NewLogger returns a console logger in development and JSON otherwise
func NewLogger(development bool) (*zap.Logger, error) {
	if development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
