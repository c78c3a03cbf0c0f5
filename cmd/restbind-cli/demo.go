package main

import (
	"fmt"
	"log"
	"net"
	"net/http"

	"github.com/restbind/restbind-go/pkg/discovery"
	"github.com/restbind/restbind-go/pkg/rest/resttest"
)

// demoResource is the resource the demo backend serves.
const demoResource = "/todos"

// demoInstance is the mDNS instance name of the demo backend.
const demoInstance = "restbind-demo"

// startDemoBackend serves a seeded in-memory backend on a loopback port
// and announces it via mDNS so the discover command can find it from
// another session. The returned function stops both.
func startDemoBackend() (string, func(), error) {
	backend := resttest.NewServer()
	backend.Seed(demoResource,
		map[string]any{"id": float64(1), "title": "Buy milk", "done": false},
		map[string]any{"id": float64(2), "title": "Walk the dog", "done": true},
		map[string]any{"id": float64(3), "title": "Write report", "done": false},
	)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, fmt.Errorf("starting demo listener: %w", err)
	}
	server := &http.Server{Handler: backend}
	go server.Serve(ln)

	port := uint16(ln.Addr().(*net.TCPAddr).Port)
	baseURL := fmt.Sprintf("http://127.0.0.1:%d", port)
	log.Printf("Demo backend listening at %s", baseURL)

	// The announcement is best effort; multicast may be unavailable and
	// the backend works without it.
	advertiser := discovery.NewAdvertiser(discovery.AdvertiserConfig{})
	err = advertiser.Announce(&discovery.AnnounceInfo{
		Instance: demoInstance,
		Port:     port,
		Path:     demoResource,
		Name:     "restbind demo backend",
	})
	if err != nil {
		log.Printf("mDNS announce failed: %v", err)
		advertiser = nil
	} else {
		log.Printf("Announced %q via mDNS", demoInstance)
	}

	shutdown := func() {
		if advertiser != nil {
			advertiser.StopAll()
		}
		server.Close()
	}
	return baseURL, shutdown, nil
}
