package main

import "os"

// @title Campus Coin Ledger API
// @version 1.0
// @description Ledger of campus loyalty coins: grants, perk redemptions, coupon transfers and semester credits.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
