package insights

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dvloznov/financeflow/internal/domain"
)

// transactionSummary is what the model sees of each transaction. Identifiers
// and dates are left out; they carry nothing the analysis needs.
type transactionSummary struct {
	Type        domain.TransactionType `json:"type"`
	Amount      float64                `json:"amount"`
	Category    domain.Category        `json:"category"`
	Description string                 `json:"description"`
}

func summarize(snapshot []domain.Transaction) []transactionSummary {
	out := make([]transactionSummary, 0, len(snapshot))
	for _, tx := range snapshot {
		out = append(out, transactionSummary{
			Type:        tx.Type,
			Amount:      tx.Amount,
			Category:    tx.Category,
			Description: tx.Description,
		})
	}
	return out
}

// buildPrompt constructs the instruction plus the JSON-encoded ledger summary.
func buildPrompt(snapshot []domain.Transaction) (string, error) {
	data, err := json.Marshal(summarize(snapshot))
	if err != nil {
		return "", fmt.Errorf("buildPrompt: encode summary: %w", err)
	}

	var b strings.Builder
	b.WriteString("Analise o seguinte histórico de transações financeiras e forneça 3 dicas/insights ")
	b.WriteString("acionáveis e estratégicos para ajudar o usuário a economizar ou gerenciar melhor o dinheiro. ")
	b.WriteString("Retorne exatamente 3 itens.\n\n")
	b.WriteString("Dados: ")
	b.Write(data)

	return b.String(), nil
}
