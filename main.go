package main

import (
	_ "github.com/joho/godotenv/autoload" // Autoload .env file.

	"github.com/vietanh2810/festival-api/cmd/app"
)

// @title           School Festival API
// @description     Booth visits, point awards, feed and leaderboard for the school festival.
//
// @license.name  Apache 2.0
// @license.url   http://www.apache.org/licenses/LICENSE-2.0.html
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Bearer session token (the session cookie is accepted as well)
func main() {
	if err := app.Start(); err != nil {
		panic(err)
	}
}
