package main

import (
	"flag"
	"log"

	"github.com/anthanhphan/go-image-host/internal/api/app"
	"github.com/anthanhphan/go-image-host/internal/api/config"
)

func main() {
	var (
		configPath  string
		port        int
		storagePath string
		tls         bool
	)
	flag.StringVar(&configPath, "configPath", "", "Path to configuration file")
	flag.IntVar(&port, "port", 0, "Port to listen on")
	flag.StringVar(&storagePath, "storage", "", "Directory where uploaded images are stored")
	flag.BoolVar(&tls, "tls", false, "Build https:// image URLs (TLS terminates at the proxy)")
	flag.Parse()

	cfg := config.MustLoad(configPath)

	// Flags win over file and environment, but only when given explicitly.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "port":
			cfg.Server.Port = port
		case "storage":
			cfg.App.StoragePath = storagePath
		case "tls":
			cfg.App.TLS = tls
		}
	})

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("Application failed: %v", err)
	}
}
