package main

import (
	"flag"
	"log"
	"net/http"

	"salesdash/adapters/loader"
	"salesdash/internal"
	"salesdash/internal/config"
	"salesdash/internal/datahost"
	"salesdash/internal/dispatch"
	"salesdash/internal/registry"
	"salesdash/ui"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	cfgFile := flag.String("config", "", "config file (YAML)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	appConfig, err := config.Load(*cfgFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	internal.DefaultLogger.SetLevel(internal.ParseLogLevel(appConfig.LogLevel))
	gin.SetMode(appConfig.Server.GinMode)

	reg, err := loadRegistry(appConfig)
	if err != nil {
		log.Fatalf("Failed to load insight registry: %v", err)
	}
	log.Printf("Loaded %d insight descriptors", reg.Len())

	var source loader.Source
	var dataHost http.Handler
	if appConfig.Data.UsesLocalDir() {
		source = loader.NewDirSource(appConfig.Data.Dir)
		dataHost = datahost.New(appConfig.Data.Dir)
		log.Printf("Serving dashboard data from %s under /dashboard_data", appConfig.Data.Dir)
	} else {
		source = loader.NewHTTPSource(appConfig.Data.BaseURL, nil)
		log.Printf("Reading dashboard data from %s", appConfig.Data.BaseURL)
	}

	server := ui.NewServer(ui.Options{
		Dispatcher: dispatch.New(reg),
		Loader:     loader.New(source),
		DataHost:   dataHost,
	})
	if err := server.Initialize(); err != nil {
		log.Fatalf("Failed to initialize server: %v", err)
	}

	if err := server.Start(":" + appConfig.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func loadRegistry(appConfig *config.Config) (*registry.Registry, error) {
	if appConfig.RegistryFile != "" {
		return registry.Load(appConfig.RegistryFile)
	}
	return registry.Default()
}
