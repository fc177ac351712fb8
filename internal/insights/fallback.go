package insights

import "github.com/dvloznov/financeflow/internal/domain"

// Fallback returns the fixed insights shown whenever a request fails. The
// content never depends on the ledger. A new slice is returned on every call.
func Fallback() []domain.Insight {
	return []domain.Insight{
		{
			Title:       "Dica de Reserva de Emergência",
			Description: "Com base no seu perfil, recomendamos criar uma reserva equivalente a 6 meses de gastos essenciais.",
			Priority:    domain.PriorityHigh,
		},
		{
			Title:       "Analise seus gastos em Lazer",
			Description: "Parece que há espaço para otimização em assinaturas ou saídas frequentes.",
			Priority:    domain.PriorityMedium,
		},
	}
}
