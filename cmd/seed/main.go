package main

import (
	"context"
	"log"
	"time"

	"b2b-catalog-be/internal/bootstrap"
	"b2b-catalog-be/internal/config"
	"b2b-catalog-be/internal/dto"
	"b2b-catalog-be/pkg/database"
	"b2b-catalog-be/pkg/slots"
)

func f(v float64) *float64 { return &v }

// A small demo catalog: pneumatic cylinders in common bore/stroke
// combinations plus a few valves and fittings.
func sampleCatalog() []dto.UpsertProductRequest {
	return []dto.UpsertProductRequest{
		{
			Code: "DSNU-25-100", Name: "Yuvarlak Silindir DSNU-25-100",
			Description: "ISO 6432 yuvarlak pnömatik silindir, çift etkili, yastıklamalı.",
			Brand:       "FESTO", Category: "cylinder",
			DiameterMm: f(25), StrokeMm: f(100),
			Features: []string{slots.FeatureDoubleActing, slots.FeatureCushioned},
			Stock:    40, UnitPrice: 85.50,
		},
		{
			Code: "DSNU-32-200", Name: "Yuvarlak Silindir DSNU-32-200",
			Description: "ISO 6432 yuvarlak pnömatik silindir, çift etkili.",
			Brand:       "FESTO", Category: "cylinder",
			DiameterMm: f(32), StrokeMm: f(200),
			Features: []string{slots.FeatureDoubleActing},
			Stock:    25, UnitPrice: 112.00,
		},
		{
			Code: "MAG-100-200-M", Name: "Profil Silindir MAG 100x200 Manyetik",
			Description: "ISO 15552 profil gövdeli silindir, manyetik sensör yuvalı, 100 mm çap 200 mm strok.",
			Brand:       "MAG", Category: "cylinder",
			DiameterMm: f(100), StrokeMm: f(200),
			Features: []string{slots.FeatureMagnetic, slots.FeatureDoubleActing, slots.FeatureISO},
			Stock:    12, UnitPrice: 340.00,
		},
		{
			Code: "MAG-100-300-M", Name: "Profil Silindir MAG 100x300 Manyetik",
			Description: "ISO 15552 profil gövdeli silindir, manyetik sensör yuvalı, 100 mm çap 300 mm strok.",
			Brand:       "MAG", Category: "cylinder",
			DiameterMm: f(100), StrokeMm: f(300),
			Features: []string{slots.FeatureMagnetic, slots.FeatureDoubleActing, slots.FeatureISO},
			Stock:    8, UnitPrice: 395.00,
		},
		{
			Code: "SMC-CP96-50-100", Name: "SMC CP96 Silindir 50x100",
			Description: "ISO 15552 silindir, amortisörlü, paslanmaz mil.",
			Brand:       "SMC", Category: "cylinder",
			DiameterMm: f(50), StrokeMm: f(100),
			Features: []string{slots.FeatureCushioned, slots.FeatureStainless, slots.FeatureDoubleActing},
			Stock:    30, UnitPrice: 210.00,
		},
		{
			Code: "AIRTAC-MA-16-50", Name: "Airtac Mini Silindir MA 16x50",
			Description: "Paslanmaz mini silindir, tek etkili, yay geri dönüşlü.",
			Brand:       "AIRTAC", Category: "cylinder",
			DiameterMm: f(16), StrokeMm: f(50),
			Features: []string{slots.FeatureSingleActing, slots.FeatureStainless},
			Stock:    120, UnitPrice: 28.75,
		},
		{
			Code: "SMC-SY5120", Name: "SMC SY5120 Selenoid Valf",
			Description: "5/2 selenoid valf, 1/4 bağlantı, sessiz egzoz.",
			Brand:       "SMC", Category: "valve",
			Features: []string{slots.FeatureQuiet},
			Stock:    55, UnitPrice: 64.00,
		},
		{
			Code: "CAM-HT-8", Name: "Camozzi Poliüretan Hortum 8mm",
			Description: "8 mm poliüretan hava hortumu, metre ile satılır.",
			Brand:       "CAMOZZI", Category: "hose",
			DiameterMm: f(8),
			Stock:      500.5, UnitPrice: 1.20,
		},
		{
			Code: "PARKER-RK-14", Name: "Parker Hızlı Rakor 1/4",
			Description: "1/4 inç hızlı bağlantı rakoru, 8 mm hortum için.",
			Brand:       "PARKER", Category: "fitting",
			Stock:      300, UnitPrice: 3.40,
		},
	}
}

func main() {
	cfg := config.Load()

	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	ctx := context.Background()

	// The consumer must run so the ingest's embed messages get processed.
	if err := container.ConsumerService.Consume(ctx); err != nil {
		log.Fatalf("Failed to start consumer: %v", err)
	}

	res, err := container.ProductService.IngestCatalog(ctx, &dto.IngestCatalogRequest{
		Products: sampleCatalog(),
	})
	if err != nil {
		log.Fatalf("Ingest failed: %v", err)
	}
	log.Printf("✅ Ingested %d products", res.Ingested)

	// Give the embed worker a moment to drain the queue before exiting.
	log.Println("Waiting for embeddings to be generated...")
	time.Sleep(20 * time.Second)
	log.Println("Done")
}
