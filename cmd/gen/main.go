package main

import (
	"log"

	"lexio/config"

	"gorm.io/driver/mysql"
	"gorm.io/gen"
	"gorm.io/gorm"
)

func main() {
	db, err := gorm.Open(mysql.Open(config.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:        "internal/database/query",
		ModelPkgPath:   "internal/database/model",
		Mode:           gen.WithDefaultQuery | gen.WithQueryInterface,
		FieldNullable:  true,
		FieldCoverable: true,
	})

	g.UseDB(db)

	// Generate query helpers for all tables found in the connected database
	g.ApplyBasic(g.GenerateAllTable()...)

	g.Execute()
}
