package core

// CategoryTotal is the accumulated expense amount for one category.
type CategoryTotal struct {
	Category string `json:"category"`
	Total    Money  `json:"total"`
}

// MonthlyAmount is the income/expense accumulation for one calendar month
// ("YYYY-MM"), with the balance computed at output time.
type MonthlyAmount struct {
	Month   string `json:"month"`
	Income  Money  `json:"income"`
	Expense Money  `json:"expense"`
	Balance Money  `json:"balance"`
}

// Summary is the dashboard view derived from a user's transaction set. It is
// never stored; Summarize recomputes it on demand.
type Summary struct {
	TotalIncome    Money           `json:"totalIncome"`
	TotalExpense   Money           `json:"totalExpense"`
	Balance        Money           `json:"balance"`
	CategoryTotals []CategoryTotal `json:"categoryTotals"`
	MonthlyData    []MonthlyAmount `json:"monthlyData"`
}

// Summarize computes the dashboard summary in a single pass over the
// transactions. Category totals cover expenses only; income is not broken out
// by category. Categories and months appear in first-seen order; callers
// needing sorted output must sort explicitly.
func Summarize(transactions []Transaction) Summary {
	var totalIncome, totalExpense int64

	categoryIndex := make(map[string]int)
	categories := make([]CategoryTotal, 0)

	type monthAcc struct{ income, expense int64 }
	monthIndex := make(map[string]int)
	months := make([]string, 0)
	monthAccs := make([]monthAcc, 0)

	for _, t := range transactions {
		if t.Type == Income {
			totalIncome += t.Amount.Cents
		} else {
			totalExpense += t.Amount.Cents

			i, ok := categoryIndex[t.Category]
			if !ok {
				i = len(categories)
				categoryIndex[t.Category] = i
				categories = append(categories, CategoryTotal{Category: t.Category})
			}
			categories[i].Total.Cents += t.Amount.Cents
		}

		key := t.Date.MonthKey()
		i, ok := monthIndex[key]
		if !ok {
			i = len(months)
			monthIndex[key] = i
			months = append(months, key)
			monthAccs = append(monthAccs, monthAcc{})
		}
		if t.Type == Income {
			monthAccs[i].income += t.Amount.Cents
		} else {
			monthAccs[i].expense += t.Amount.Cents
		}
	}

	monthly := make([]MonthlyAmount, len(months))
	for i, key := range months {
		monthly[i] = MonthlyAmount{
			Month:   key,
			Income:  Money{Cents: monthAccs[i].income},
			Expense: Money{Cents: monthAccs[i].expense},
			Balance: Money{Cents: monthAccs[i].income - monthAccs[i].expense},
		}
	}

	return Summary{
		TotalIncome:    Money{Cents: totalIncome},
		TotalExpense:   Money{Cents: totalExpense},
		Balance:        Money{Cents: totalIncome - totalExpense},
		CategoryTotals: categories,
		MonthlyData:    monthly,
	}
}
