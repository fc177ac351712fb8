package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dvloznov/financeflow/internal/domain"
	"github.com/dvloznov/financeflow/internal/form"
	"github.com/gocarina/gocsv"
)

// readLedgerFile reads entries from a .csv file (header description, amount,
// type, category) or a JSON array of entry objects. Every entry goes through
// the entry form validation; the first invalid one fails the whole file.
// Entries are returned in file order.
func readLedgerFile(path string) ([]domain.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open ledger file: %w", err)
	}
	defer f.Close()

	var forms []*form.EntryForm
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		if err := gocsv.Unmarshal(f, &forms); err != nil {
			return nil, fmt.Errorf("read ledger CSV %s: %w", path, err)
		}
	} else {
		if err := json.NewDecoder(f).Decode(&forms); err != nil {
			return nil, fmt.Errorf("read ledger JSON %s: %w", path, err)
		}
	}

	entries := make([]domain.Entry, 0, len(forms))
	for i, ef := range forms {
		if ef == nil {
			return nil, fmt.Errorf("%s: entry %d is null", path, i+1)
		}
		entry, err := ef.Parse()
		if err != nil {
			return nil, fmt.Errorf("%s: entry %d: %w", path, i+1, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
