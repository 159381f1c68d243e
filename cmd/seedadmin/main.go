// Command seedadmin seeds the role definitions and the administrative
// account against the configured database. The admin password is read from
// the terminal without echo, so seed credentials never end up in shell
// history or process listings.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/dmitrijs2005/idprov/internal/logging"
	"github.com/dmitrijs2005/idprov/internal/server/config"
	"github.com/dmitrijs2005/idprov/internal/server/credentials"
	"github.com/dmitrijs2005/idprov/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/idprov/internal/server/services"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()

	fmt.Printf("Seeding admin account %s\n", cfg.AdminLogin)
	fmt.Print("Enter admin password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		log.Fatalf("error reading password: %v", err)
	}
	if len(password) == 0 {
		log.Fatal("password must not be empty")
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	defer db.Close()

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stdout, nil)))
	manager := repomanager.NewPostgresRepositoryManager()

	if err := manager.RunMigrations(ctx, db); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	bootstrap := services.NewBootstrapService(db, manager, credentials.NewBcryptHasher(), logger)
	admin := services.AdminSeed{
		Name:     cfg.AdminName,
		Login:    cfg.AdminLogin,
		Password: string(password),
	}
	if err := bootstrap.Run(ctx, admin); err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}

	fmt.Println("Done")
}
