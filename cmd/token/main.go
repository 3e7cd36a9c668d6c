package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/ougirez/coe-afectaciones/internal/pkg/config"
	"github.com/ougirez/coe-afectaciones/internal/pkg/utils"
)

// Mints a signed bearer token for local development. The secret comes from
// auth.secret (coe.yaml, COE_AUTH_SECRET or .env).
func main() {
	var (
		configDir = flag.String("config-dir", "", "directory holding coe.yaml")
		userID    = flag.Int64("user", 1, "user id")
		username  = flag.String("username", "", "user name, used as creador")
		provincia = flag.Int64("provincia", 0, "default provincia id")
		canton    = flag.Int64("canton", 0, "default canton id")
		admin     = flag.String("admin-secret", "", "embed the admin secret, enables /geografia/backfill")
		ttl       = flag.Duration("ttl", 24*time.Hour, "token lifetime, 0 for none")
	)
	flag.Parse()

	if err := config.Load(*configDir); err != nil {
		log.Fatalf("load config: %v", err)
	}

	token, err := utils.GenerateAuthToken(&utils.AuthTokenWrapper{
		UserID:      *userID,
		Username:    *username,
		ProvinciaID: *provincia,
		CantonID:    *canton,
		Secret:      *admin,
	}, *ttl)
	if err != nil {
		log.Fatalf("generate token: %v", err)
	}

	fmt.Println(token)
}
