package statements

// US-GAAP concept synonyms, tried in order. Fiscal-data suppliers are
// inconsistent about prefixing ("us-gaap:") and about which of several
// near-equivalent tags a company files under, so every lookup goes
// through an ordered candidate list instead of a single name.
var (
	OperatingIncomeConcepts = []string{
		"OperatingIncomeLoss",
		"us-gaap:OperatingIncomeLoss",
		"IncomeLossFromContinuingOperationsBeforeIncomeTaxesExtraordinaryItemsNoncontrollingInterest",
		"us-gaap:IncomeLossFromContinuingOperationsBeforeIncomeTaxesExtraordinaryItemsNoncontrollingInterest",
	}

	IncomeTaxExpenseConcepts = []string{
		"IncomeTaxExpenseBenefit",
		"us-gaap:IncomeTaxExpenseBenefit",
	}

	PretaxIncomeConcepts = []string{
		"IncomeLossFromContinuingOperationsBeforeIncomeTaxesExtraordinaryItemsNoncontrollingInterest",
		"us-gaap:IncomeLossFromContinuingOperationsBeforeIncomeTaxesExtraordinaryItemsNoncontrollingInterest",
	}

	TotalAssetsConcepts = []string{
		"Assets",
		"us-gaap:Assets",
	}

	CashConcepts = []string{
		"CashAndCashEquivalentsAtCarryingValue",
		"us-gaap:CashAndCashEquivalentsAtCarryingValue",
		"Cash",
		"us-gaap:Cash",
	}

	CurrentLiabilitiesConcepts = []string{
		"LiabilitiesCurrent",
		"us-gaap:LiabilitiesCurrent",
	}

	// Short-term debt for the invested-capital adjustment: borrowings
	// first, then the broader DebtCurrent aggregate.
	ShortTermDebtConcepts = []string{
		"ShortTermBorrowings",
		"us-gaap:ShortTermBorrowings",
		"DebtCurrent",
		"us-gaap:DebtCurrent",
	}

	// Short-term debt for the capital structure: the aggregate tag
	// first, since it includes the current portion of long-term debt.
	DebtCurrentConcepts = []string{
		"DebtCurrent",
		"us-gaap:DebtCurrent",
		"ShortTermBorrowings",
		"us-gaap:ShortTermBorrowings",
	}

	LongTermDebtConcepts = []string{
		"LongTermDebt",
		"us-gaap:LongTermDebt",
		"LongTermDebtNoncurrent",
		"us-gaap:LongTermDebtNoncurrent",
	}

	InterestExpenseConcepts = []string{
		"InterestExpense",
		"us-gaap:InterestExpense",
		"InterestExpenseDebt",
		"us-gaap:InterestExpenseDebt",
	}

	StockholdersEquityConcepts = []string{
		"StockholdersEquity",
		"us-gaap:StockholdersEquity",
		"StockholdersEquityIncludingPortionAttributableToNoncontrollingInterest",
		"us-gaap:StockholdersEquityIncludingPortionAttributableToNoncontrollingInterest",
	}
)
