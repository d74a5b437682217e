// token emite un JWT de operador firmado con JWT_SECRET para llamar a /api.
//
// Uso: go run ./cmd/token <subject> [role]
//
// role: admin | operator (por defecto operator). La expiración sale de JWT_EXPIRATION_MINUTES.
package main

import (
	"fmt"
	"os"

	"github.com/jhoicas/Gudang-api/pkg/config"
	"github.com/jhoicas/Gudang-api/pkg/jwt"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "uso: token <subject> [admin|operator]")
		os.Exit(2)
	}
	subject := os.Args[1]
	role := "operator"
	if len(os.Args) > 2 {
		role = os.Args[2]
	}
	if role != "admin" && role != "operator" {
		fmt.Fprintf(os.Stderr, "Rol inválido: %s\n", role)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	tok, err := jwt.Generate(cfg.JWT.Secret, subject, role, cfg.JWT.Issuer, cfg.JWT.Expiration)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Generar token: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(tok)
}
