// seed importa registros exportados del sistema anterior (mongoexport) al almacén configurado.
//
// Uso: go run ./cmd/seed <coleccion> <archivo.json> [charset]
//
//	coleccion: ins | outs | retur_gudangs | retur_pabriks
//	archivo:   arreglo JSON (--jsonArray) o un documento por línea
//	charset:   utf-8 (por defecto) o iso-8859-1
//
// Cada documento pasa por la misma validación que la API; los inválidos se reportan y se omiten.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/Gudang-api/internal/application/validation"
	"github.com/jhoicas/Gudang-api/internal/domain"
	"github.com/jhoicas/Gudang-api/internal/domain/entity"
	"github.com/jhoicas/Gudang-api/internal/infrastructure/store"
	"github.com/jhoicas/Gudang-api/pkg/config"
	"github.com/jhoicas/Gudang-api/pkg/logger"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Fprintln(os.Stderr, "uso: seed <coleccion> <archivo.json> [charset]")
		os.Exit(2)
	}
	schema, ok := schemaByCollection(os.Args[1])
	if !ok {
		fmt.Fprintf(os.Stderr, "Colección desconocida: %s\n", os.Args[1])
		os.Exit(2)
	}
	charset := "utf-8"
	if len(os.Args) > 3 {
		charset = os.Args[3]
	}

	f, err := os.Open(os.Args[2])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir archivo: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	docs, err := decodeDocuments(f, charset)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Decodificar JSON: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()
	factory, closeStore, err := store.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacén")
	}
	defer closeStore()

	repo, err := factory(schema)
	if err != nil {
		log.Fatal().Err(err).Msg("inicializar repositorio")
	}

	v := validation.New()
	var inserted, skipped int
	for i, doc := range docs {
		rec, err := v.Validate(schema, doc)
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			skipped++
			log.Warn().Int("doc", i).Str("error", ve.Error()).Msg("documento omitido")
			continue
		}
		if _, err := repo.Insert(ctx, rec); err != nil {
			log.Fatal().Err(err).Int("doc", i).Msg("insertar documento")
		}
		inserted++
	}

	fmt.Printf("Importados %d registros en %s (%d omitidos)\n", inserted, schema.Collection, skipped)
}

func schemaByCollection(name string) (entity.Schema, bool) {
	for _, s := range entity.Schemas() {
		if s.Collection == name {
			return s, true
		}
	}
	return entity.Schema{}, false
}

// decodeDocuments admite un arreglo JSON o un documento por línea. Los números se conservan
// como json.Number y el Extended JSON de mongoexport ({"$numberInt": "10"}) se aplana.
func decodeDocuments(r io.Reader, charset string) ([]any, error) {
	switch strings.ToLower(charset) {
	case "", "utf-8", "utf8":
	case "iso-8859-1", "iso8859-1", "latin1":
		r = transform.NewReader(r, charmap.ISO8859_1.NewDecoder())
	default:
		return nil, fmt.Errorf("charset no soportado: %s", charset)
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var docs []any
	if bytes.HasPrefix(raw, []byte("[")) {
		if err := dec.Decode(&docs); err != nil {
			return nil, err
		}
	} else {
		for {
			var doc any
			err := dec.Decode(&doc)
			if errors.Is(err, io.EOF) {
				break
			}
			if err != nil {
				return nil, err
			}
			docs = append(docs, doc)
		}
	}
	for i := range docs {
		docs[i] = flattenExtended(docs[i])
	}
	return docs, nil
}

// flattenExtended reemplaza {"$numberInt": "10"} y similares por el número que representan.
func flattenExtended(v any) any {
	obj, ok := v.(map[string]any)
	if !ok {
		return v
	}
	if len(obj) == 1 {
		for _, k := range []string{"$numberInt", "$numberLong", "$numberDouble"} {
			if s, ok := obj[k].(string); ok {
				return json.Number(s)
			}
		}
	}
	for k, val := range obj {
		obj[k] = flattenExtended(val)
	}
	return obj
}
