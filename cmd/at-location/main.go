// Package main provides an interactive CLI that reports trace-gas values
// at a location for every swath file named in a list file.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strconv"
	"strings"

	"go.osat.io/swath-api/internal/adapter/store"
	"go.osat.io/swath-api/internal/adapter/store/he5"
	"go.osat.io/swath-api/internal/adapter/store/nc"
	"go.osat.io/swath-api/internal/domain"
	"go.osat.io/swath-api/internal/usecase"
)

func main() {
	listPath := flag.String("list", "fileList.txt", "Text file naming one swath file per line")
	lat := flag.Float64("lat", math.NaN(), "Latitude in degrees north (batch mode, requires -lon)")
	lon := flag.Float64("lon", math.NaN(), "Longitude in degrees east (batch mode, requires -lat)")
	yes := flag.Bool("yes", false, "Process every file without asking")
	flag.Parse()

	paths, err := readFileList(*listPath)
	if err != nil {
		log.Fatalf("Did not find a text file containing file names: %v", err)
	}

	loader := &store.ExtLoader{
		Hierarchical: he5.NewReader(),
		Flat:         nc.NewReader(),
	}
	extractor := usecase.NewExtractor(loader)

	batch := !math.IsNaN(*lat) || !math.IsNaN(*lon)
	if batch {
		if math.IsNaN(*lat) || math.IsNaN(*lon) {
			log.Fatal("batch mode needs both -lat and -lon")
		}
		runBatch(extractor, paths, *lat, *lon)
		return
	}

	in := bufio.NewScanner(os.Stdin)
	for _, path := range paths {
		if !*yes && !confirm(in, path) {
			fmt.Println("Skipping...")
			continue
		}
		processInteractive(extractor, in, path)
	}
}

// readFileList reads non-empty lines from the list file.
func readFileList(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var paths []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			paths = append(paths, line)
		}
	}
	return paths, scanner.Err()
}

func confirm(in *bufio.Scanner, path string) bool {
	fmt.Printf("\nWould you like to process\n%s\n\n(Y/N): ", path)
	if !in.Scan() {
		return false
	}
	return strings.ToLower(strings.TrimSpace(in.Text())) != "n"
}

// processInteractive loads one file, shows its bounds and prompts for a
// query point until the point falls inside them.
func processInteractive(extractor *usecase.Extractor, in *bufio.Scanner, path string) {
	x, err := extractor.Load(path)
	if err != nil {
		if errors.Is(err, domain.ErrSchemaMismatch) {
			fmt.Printf("The file named %s is not a valid OMI NO2 or SO2 file.\n", path)
		} else {
			fmt.Printf("Error opening file %s: %v\n", path, err)
		}
		return
	}

	fmt.Printf("This is an %s file. Here is some information:\n", x.Schema.Name)
	if x.Meta.ValidRange != nil {
		fmt.Printf("Valid Range is: %g %g\n", x.Meta.ValidRange[0], x.Meta.ValidRange[1])
	}
	fmt.Printf("The range of latitude in this file is: %g to %g degrees\n", x.Bounds.MinLat, x.Bounds.MaxLat)
	fmt.Printf("The range of longitude in this file is: %g to %g degrees\n", x.Bounds.MinLon, x.Bounds.MaxLon)

	for {
		lat, ok := promptFloat(in, "\nPlease enter the latitude you would like to analyze (Deg. N): ")
		if !ok {
			return
		}
		lon, ok := promptFloat(in, "Please enter the longitude you would like to analyze (Deg. E): ")
		if !ok {
			return
		}

		res, err := x.Query(lat, lon, nil)
		if errors.Is(err, domain.ErrOutOfRange) {
			fmt.Println("Location out of range. Please enter a valid latitude and longitude.")
			continue
		}
		if err != nil {
			fmt.Printf("Query failed: %v\n", err)
			return
		}
		printResult(x.Schema.PrimaryField, res)
		return
	}
}

func promptFloat(in *bufio.Scanner, prompt string) (float64, bool) {
	for {
		fmt.Print(prompt)
		if !in.Scan() {
			return 0, false
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(in.Text()), 64)
		if err != nil {
			fmt.Println("Invalid input. Please enter a numeric value.")
			continue
		}
		return v, true
	}
}

func runBatch(extractor *usecase.Extractor, paths []string, lat, lon float64) {
	for _, outcome := range extractor.RunBatch(paths, lat, lon, nil) {
		fmt.Printf("\n=== %s ===\n", outcome.Path)
		if outcome.Err != nil {
			fmt.Printf("Skipped: %v\n", outcome.Err)
			continue
		}
		printResult(outcome.Result.Field, outcome.Result)
	}
}

func printResult(field string, res *usecase.QueryResult) {
	fmt.Printf("\nThe nearest pixel to your entered location is at:\nLatitude: %g Longitude: %g\n",
		res.Match.Lat, res.Match.Lon)

	if res.Match.Value == nil {
		fmt.Printf("The value of %s at this pixel is No Value\n", field)
	} else if res.Units != "" {
		fmt.Printf("The value of %s at this pixel is %.3f %s\n", field, *res.Match.Value, res.Units)
	} else {
		fmt.Printf("The value of %s at this pixel is %.3f\n", field, *res.Match.Value)
	}

	for _, w := range res.Windows {
		size := 2*w.Radius + 1
		if w.Count == 0 {
			fmt.Printf("\nThere are no valid pixels in a %dx%d grid centered at your entered location.\n", size, size)
			continue
		}
		pixelWord := "pixels"
		if w.Count == 1 {
			pixelWord = "pixel"
		}
		fmt.Printf("\nThere are %d valid %s in a %dx%d grid centered at your entered location.\n",
			w.Count, pixelWord, size, size)
		fmt.Printf("Average: %.3f\nMedian: %.3f\nStandard deviation: %.3f\n", w.Mean, w.Median, w.StdDev)
	}
}
