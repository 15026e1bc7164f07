package main

import (
	"flag"
	"log"
	"os"

	"github.com/avass/go-live-raytracer/web/server"
)

func main() {
	// Parse command line flags
	port := flag.Int("port", 8080, "Port to serve on")
	scenePath := flag.String("scene-file", "", "TOML scene file to serve and watch for changes")
	flag.Parse()

	// Create and start web server
	webServer := server.NewServer(*port, *scenePath)

	log.Printf("Live Raytracer Web Server")
	log.Printf("Visit http://localhost:%d to start rendering", *port)

	if err := webServer.Start(); err != nil {
		log.Printf("Error starting server: %v", err)
		os.Exit(1)
	}
}
