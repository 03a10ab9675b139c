package main

import (
	"go-events-api/app"
)

// @title           Go-Events API
// @version         1.0
// @description     Social events API: accounts, events, attendance and per-event chat.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name   MIT
// @license.url    https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	app.Run()
}
