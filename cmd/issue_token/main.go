// Command issue_token prints a bearer token for a system allowed to call
// the bridge when JWT_SECRET is set.
package main

import (
	"fmt"
	"time"

	"walletbridge/internal/config"
	"walletbridge/internal/utils"

	"github.com/sirupsen/logrus"
)

func main() {
	config.LoadEnv()

	secret := config.GetEnv("JWT_SECRET", "")
	caller := config.GetEnv("CALLER_NAME", "")
	ttl := config.GetDurationEnv("TOKEN_TTL", 24*time.Hour)

	if secret == "" || caller == "" {
		logrus.Fatal("JWT_SECRET and CALLER_NAME must be set in environment")
	}

	token, err := utils.GenerateToken(secret, caller, ttl)
	if err != nil {
		logrus.Fatalf("Failed to sign token: %v", err)
	}

	logrus.Infof("Issued token for %s valid for %s", caller, ttl)
	fmt.Println(token)
}
