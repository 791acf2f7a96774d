// Package main lists the known science fields present in each swath file
// named in a list file.
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"go.osat.io/swath-api/internal/adapter/store"
	"go.osat.io/swath-api/internal/adapter/store/he5"
	"go.osat.io/swath-api/internal/adapter/store/nc"
	"go.osat.io/swath-api/internal/domain"
	"go.osat.io/swath-api/internal/usecase"
)

func main() {
	listPath := flag.String("list", "fileList.txt", "Text file naming one swath file per line")
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		var err error
		paths, err = readFileList(*listPath)
		if err != nil {
			log.Fatalf("Did not find a text file containing file names: %v", err)
		}
	}

	loader := &store.ExtLoader{
		Hierarchical: he5.NewReader(),
		Flat:         nc.NewReader(),
	}
	extractor := usecase.NewExtractor(loader)

	for _, path := range paths {
		fmt.Printf("\n%s\n", path)

		infos, err := extractor.ListFields(path)
		if err != nil {
			if errors.Is(err, domain.ErrSchemaMismatch) {
				fmt.Println("  not a valid OMI NO2 or SO2 file")
			} else {
				fmt.Printf("  error: %v\n", err)
			}
			continue
		}

		if len(infos) == 0 {
			fmt.Println("  no known fields present")
			continue
		}
		for _, info := range infos {
			if info.Units != "" {
				fmt.Printf("  %s, dim=(%d, %d), units=%s\n", info.Name, info.Rows, info.Cols, info.Units)
			} else {
				fmt.Printf("  %s, dim=(%d, %d)\n", info.Name, info.Rows, info.Cols)
			}
		}
	}
}

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
