package main

import (
	"fmt"
	"log"

	"awareness-tool/internal/config"
	"awareness-tool/internal/database"
	"awareness-tool/internal/mailbox"
	"awareness-tool/internal/mailer"
	"awareness-tool/internal/reportsvc"
	"awareness-tool/internal/server"
)

func main() {
	cfg := config.Load()
	database.Init(cfg.DBDSN)

	m := mailer.New(cfg)
	processor := reportsvc.New(cfg.ReportsDir, m)
	monitor := mailbox.NewMonitor(processor)

	// startet nur, wenn die Überwachung in den Einstellungen aktiviert ist
	monitor.Start()

	r := server.NewRouter(cfg, processor, m, monitor)

	addr := fmt.Sprintf(":%s", cfg.ServerPort)
	log.Printf("starting server on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
