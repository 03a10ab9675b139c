//go:build tools

package main

// Pins the swag CLI used to regenerate the OpenAPI document:
//
//	swag init -g cmd/main.go
import (
	_ "github.com/swaggo/swag/cmd/swag"
)
