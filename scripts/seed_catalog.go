// seed_catalog.go — standalone script to load a vehicle catalog JSON file and
// seed it through the Advisor admin API.
//
// Usage:
//
//	go run scripts/seed_catalog.go -file catalog.json -api http://localhost:8700 -token secret
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
)

type vehicle struct {
	Make       string  `json:"make"`
	Model      string  `json:"model"`
	Year       int     `json:"year"`
	FuelType   string  `json:"fuel_type"`
	Horsepower float64 `json:"horsepower"`
	DoorCount  int     `json:"door_count"`
	BodyStyle  string  `json:"body_style"`
}

// Labels the scoring pipeline understands. Anything else is rejected by the
// API anyway, so catch it here before making requests.
var knownFuelTypes = map[string]bool{
	"elektrik": true,
	"hibrit":   true,
	"benzin":   true,
	"dizel":    true,
}

var knownBodyStyles = map[string]bool{
	"hb":    true,
	"sedan": true,
	"suv":   true,
	"kupe":  true,
}

func main() {
	filePath := flag.String("file", "catalog.json", "path to catalog JSON file")
	apiURL := flag.String("api", "http://localhost:8700", "Advisor API base URL")
	adminToken := flag.String("token", "", "admin bearer token")
	clientID := flag.String("client", "seed", "X-Client-ID header value")
	dryRun := flag.Bool("dry-run", false, "print vehicles without posting")
	flag.Parse()

	data, err := os.ReadFile(*filePath)
	if err != nil {
		log.Fatalf("read catalog: %v", err)
	}

	var vehicles []vehicle
	if err := json.Unmarshal(data, &vehicles); err != nil {
		log.Fatalf("parse catalog: %v", err)
	}

	valid := make([]vehicle, 0, len(vehicles))
	for _, v := range vehicles {
		if err := validate(v); err != nil {
			log.Printf("skip %s %s: %v", v.Make, v.Model, err)
			continue
		}
		valid = append(valid, v)
	}

	log.Printf("parsed %d vehicles from %s, %d valid", len(vehicles), *filePath, len(valid))

	if *dryRun {
		for i, v := range valid {
			fmt.Printf("[%d] %s %s (%d) fuel=%s hp=%.0f doors=%d body=%s\n",
				i+1, v.Make, v.Model, v.Year, v.FuelType, v.Horsepower, v.DoorCount, v.BodyStyle)
		}
		return
	}

	client := &http.Client{}
	created, skipped := 0, 0
	for _, v := range valid {
		body, _ := json.Marshal(v)
		req, err := http.NewRequest("POST", *apiURL+"/api/v1/vehicles", bytes.NewReader(body))
		if err != nil {
			log.Printf("skip %s %s: %v", v.Make, v.Model, err)
			skipped++
			continue
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Client-ID", *clientID)
		if *adminToken != "" {
			req.Header.Set("Authorization", "Bearer "+*adminToken)
		}

		resp, err := client.Do(req)
		if err != nil {
			log.Printf("skip %s %s: %v", v.Make, v.Model, err)
			skipped++
			continue
		}
		resp.Body.Close()

		if resp.StatusCode == http.StatusCreated {
			created++
		} else {
			log.Printf("skip %s %s: status %d", v.Make, v.Model, resp.StatusCode)
			skipped++
		}
	}

	log.Printf("done: %d created, %d skipped", created, skipped)
}

func validate(v vehicle) error {
	if v.Make == "" || v.Model == "" {
		return fmt.Errorf("missing make or model")
	}
	if !knownFuelTypes[v.FuelType] {
		return fmt.Errorf("unknown fuel type %q", v.FuelType)
	}
	if !knownBodyStyles[v.BodyStyle] {
		return fmt.Errorf("unknown body style %q", v.BodyStyle)
	}
	if v.Horsepower <= 0 {
		return fmt.Errorf("horsepower must be positive")
	}
	if v.DoorCount <= 0 {
		return fmt.Errorf("door count must be positive")
	}
	return nil
}
