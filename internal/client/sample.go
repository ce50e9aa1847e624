package client

import "github.com/joaovitorrios/gerenciador-gastos/internal/core"

// SampleTransactions returns a small demo dataset for offline use, covering
// two months with mixed income and expenses.
func SampleTransactions() []core.Transaction {
	return []core.Transaction{
		{ID: "1", Description: "Salário", Amount: core.Money{Cents: 500000}, Date: core.NewDate(2023, 5, 1), Category: "Salário", Type: core.Income},
		{ID: "2", Description: "Aluguel", Amount: core.Money{Cents: 120000}, Date: core.NewDate(2023, 5, 5), Category: "Moradia", Type: core.Expense},
		{ID: "3", Description: "Supermercado", Amount: core.Money{Cents: 50000}, Date: core.NewDate(2023, 5, 10), Category: "Alimentação", Type: core.Expense},
		{ID: "4", Description: "Internet", Amount: core.Money{Cents: 10000}, Date: core.NewDate(2023, 5, 15), Category: "Serviços", Type: core.Expense},
		{ID: "5", Description: "Freelance", Amount: core.Money{Cents: 100000}, Date: core.NewDate(2023, 5, 20), Category: "Freelance", Type: core.Income},
		{ID: "6", Description: "Restaurante", Amount: core.Money{Cents: 15000}, Date: core.NewDate(2023, 5, 25), Category: "Lazer", Type: core.Expense},
		{ID: "7", Description: "Salário", Amount: core.Money{Cents: 500000}, Date: core.NewDate(2023, 6, 1), Category: "Salário", Type: core.Income},
		{ID: "8", Description: "Aluguel", Amount: core.Money{Cents: 120000}, Date: core.NewDate(2023, 6, 5), Category: "Moradia", Type: core.Expense},
		{ID: "9", Description: "Supermercado", Amount: core.Money{Cents: 45000}, Date: core.NewDate(2023, 6, 10), Category: "Alimentação", Type: core.Expense},
	}
}

// SampleSummary aggregates the sample dataset the same way the server does.
func SampleSummary() core.Summary {
	return core.Summarize(SampleTransactions())
}
