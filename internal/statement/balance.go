package statement

import "github.com/shopspring/decimal"

// BalanceOf folds an ordered statement sequence into the current balance:
// the sum of deposits minus the sum of withdrawals. Pure and deterministic;
// the balance is always derived from the log, never stored.
func BalanceOf(statements []Statement) decimal.Decimal {
	balance := decimal.Zero
	for _, st := range statements {
		switch st.Kind {
		case KindDeposit:
			balance = balance.Add(st.Amount)
		case KindWithdraw:
			balance = balance.Sub(st.Amount)
		}
	}
	return balance
}
