// seed escribe los datos iniciales en el almacenamiento configurado (STORE_DRIVER) o restaura
// un archivo de respaldo.
//
// Uso:
//
//	go run ./cmd/seed                    # usuarios, permisos y configuración por defecto
//	go run ./cmd/seed -sample            # además, el catálogo de ejemplo
//	go run ./cmd/seed -file backup.json  # restaura un respaldo exportado desde la consola
//	go run ./cmd/seed -force ...         # sobrescribe un almacenamiento con datos
package main

import (
	"context"
	"flag"
	"os"

	"github.com/jhoicas/inventario-console/internal/application/backup"
	"github.com/jhoicas/inventario-console/internal/application/usecase"
	"github.com/jhoicas/inventario-console/internal/application/workspace"
	"github.com/jhoicas/inventario-console/internal/domain/catalog"
	"github.com/jhoicas/inventario-console/internal/domain/category"
	"github.com/jhoicas/inventario-console/internal/infrastructure/storage"
	"github.com/jhoicas/inventario-console/pkg/config"
	"github.com/jhoicas/inventario-console/pkg/logger"
)

func main() {
	file := flag.String("file", "", "archivo de respaldo JSON a restaurar")
	sample := flag.Bool("sample", false, "incluir el catálogo de ejemplo")
	force := flag.Bool("force", false, "sobrescribir aunque el almacenamiento tenga datos")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel}).Named("seed")
	if cfg.Store.Driver == config.DriverMemory {
		log.Error().Msg("STORE_DRIVER=memory no persiste datos; usar postgres o redis")
		os.Exit(1)
	}
	policy, err := category.ParseDeletePolicy(cfg.Console.CategoryDeletePolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("CATEGORY_DELETE_POLICY")
	}

	ctx := context.Background()
	backend, err := storage.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer backend.Close()

	runner := workspace.NewTxRunner(backend.Store, workspace.Options{
		DeletePolicy:     policy,
		Thresholds:       catalog.Thresholds{LowMax: cfg.Console.StockLowMax},
		ActivityCapacity: cfg.Console.ActivityLogCapacity,
	}, log, nil)

	empty, err := runner.Empty(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("consultar almacenamiento")
	}
	if !empty && !*force {
		log.Warn().Msg("el almacenamiento ya tiene datos; usar -force para sobrescribir")
		return
	}

	var docs workspace.Documents
	if *file != "" {
		data, err := os.ReadFile(*file)
		if err != nil {
			log.Fatal().Err(err).Str("file", *file).Msg("leer respaldo")
		}
		ws, err := backup.Parse(data, runner.Options())
		if err != nil {
			log.Fatal().Err(err).Str("file", *file).Msg("respaldo inválido")
		}
		if docs, err = ws.Encode(); err != nil {
			log.Fatal().Err(err).Msg("codificar respaldo")
		}
	} else {
		if docs, err = workspace.Seed(runner.Options(), usecase.BcryptHash, *sample); err != nil {
			log.Fatal().Err(err).Msg("generar datos iniciales")
		}
	}

	if err := runner.Initialize(ctx, docs); err != nil {
		log.Fatal().Err(err).Msg("escribir documentos")
	}
	log.Info().Str("file", *file).Bool("sample", *sample).Msg("datos escritos")
}
