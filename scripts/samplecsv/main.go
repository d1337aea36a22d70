// Command samplecsv writes sample customer import files for local testing.
//
// customers_semicolon.csv and customers_comma.csv hold the same rows in both
// supported delimiters. The last two rows show how an import treats bad
// input: a duplicate phone is skipped and a row without a phone is rejected.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"tablekart/internal/csvio"
)

func main() {
	dataDir := "data/imports"
	if len(os.Args) > 1 {
		dataDir = os.Args[1]
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	header := []string{"Name", "Phone", "Email", "Address"}
	rows := [][]string{
		{"Ana Sousa", "910000001", "ana@example.com", "Rua das Flores 12, Porto"},
		{"Bruno Lima", "910000002", "", "Av. da Liberdade 200; 3º Esq, Lisboa"},
		{"Carla \"Kika\" Reis", "910000003", "carla@example.com", ""},
		{"Diego Martins", "910000004", "diego@example.com", "Largo do Carmo 5"},
		{"Ana S.", "910000001", "", ""},
		{"Sem Telefone", "", "nophone@example.com", ""},
	}

	files := map[string]rune{
		"customers_semicolon.csv": ';',
		"customers_comma.csv":     ',',
	}
	for filename, delim := range files {
		filePath := filepath.Join(dataDir, filename)
		if err := writeFile(filePath, delim, header, rows); err != nil {
			log.Fatalf("Failed to create %s: %v", filename, err)
		}
		fmt.Printf("Created %s with %d rows\n", filePath, len(rows))
	}

	fmt.Println("\nSample import files created successfully!")
	fmt.Println("Expected result: 4 imported, 1 skipped (duplicate phone), 1 error (missing phone)")
}

func writeFile(filePath string, delim rune, header []string, rows [][]string) error {
	file, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if err := csvio.Export(file, delim, header, rows); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return file.Close()
}
