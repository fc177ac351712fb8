package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/dvloznov/financeflow/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadLedgerFile_JSON(t *testing.T) {
	path := writeFile(t, "ledger.json", `[
  {"description": "Salário", "amount": 5000, "type": "INCOME", "category": "Salário"},
  {"description": "Mercado", "amount": "230.5"}
]`)

	entries, err := readLedgerFile(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, domain.TransactionTypeIncome, entries[0].Type)
	assert.Equal(t, 5000.0, entries[0].Amount)
	assert.Equal(t, domain.TransactionTypeExpense, entries[1].Type)
	assert.Equal(t, domain.CategoryFood, entries[1].Category)
	assert.Equal(t, 230.5, entries[1].Amount)
}

func TestReadLedgerFile_CSV(t *testing.T) {
	path := writeFile(t, "ledger.CSV", "description,amount,type,category\n"+
		"Aluguel,1500,EXPENSE,Moradia\n"+
		"Freela,800,INCOME,Outros\n")

	entries, err := readLedgerFile(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Aluguel", entries[0].Description)
	assert.Equal(t, domain.CategoryHousing, entries[0].Category)
	assert.Equal(t, domain.TransactionTypeIncome, entries[1].Type)
}

func TestReadLedgerFile_InvalidEntry(t *testing.T) {
	path := writeFile(t, "ledger.json", `[
  {"description": "ok", "amount": 10},
  {"description": "", "amount": "abc"}
]`)

	_, err := readLedgerFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "entry 2")
}

func TestReadLedgerFile_Errors(t *testing.T) {
	_, err := readLedgerFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = readLedgerFile(writeFile(t, "ledger.json", `{"description": "not an array"}`))
	assert.Error(t, err)

	_, err = readLedgerFile(writeFile(t, "ledger.json", `[null]`))
	assert.Error(t, err)
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("FINANCEFLOW_LOG_FORMAT", "json")
	t.Setenv("FINANCEFLOW_LOG_LEVEL", "error")

	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSummaryCommand(t *testing.T) {
	path := writeFile(t, "ledger.json", `[
  {"description": "Salário", "amount": 5000, "type": "INCOME", "category": "Salário"},
  {"description": "Aluguel", "amount": 1500, "type": "EXPENSE", "category": "Moradia"},
  {"description": "Mercado", "amount": 600, "type": "EXPENSE", "category": "Alimentação"}
]`)

	out, err := runCLI(t, "summary", "--file", path)
	require.NoError(t, err)

	assert.Contains(t, out, "Receitas: R$ 5.000,00")
	assert.Contains(t, out, "Despesas: R$ 2.100,00")
	assert.Contains(t, out, "Saldo:    R$ 2.900,00")
	assert.Contains(t, out, "Moradia")
	assert.Contains(t, out, "71.4%")
	assert.Contains(t, out, "Transações (3)")
	assert.Contains(t, out, "- R$ 600,00")
}

func TestSummaryCommand_DemoLedger(t *testing.T) {
	out, err := runCLI(t, "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "Transações (3)")
}

func TestInsightsCommand_EmptyLedger(t *testing.T) {
	path := writeFile(t, "ledger.json", `[]`)

	out, err := runCLI(t, "insights", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Adicione transações")
}

func TestExportCommand_CSV(t *testing.T) {
	csvPath := filepath.Join(t.TempDir(), "out.csv")

	out, err := runCLI(t, "export", "--csv", csvPath)
	require.NoError(t, err)
	assert.Contains(t, out, "ok")

	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Salário Mensal")
}

func TestExportCommand_NoSinks(t *testing.T) {
	_, err := runCLI(t, "export")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no export sinks")
}
