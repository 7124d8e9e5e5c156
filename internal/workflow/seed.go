package workflow

// BuiltinExpenseApprovalUUID names the seed workflow definition shipped
// with every Antbox deployment: a linear four-stage
// approval chain with a reject path back to Draft from either review
// stage.
const BuiltinExpenseApprovalUUID = "--expense-approval--"

// BuiltinExpenseApproval is the Draft -> ManagerReview -> FinanceReview
// -> Approved workflow, expressed as a seed Definition rather than a
// hardcoded special case inside the engine.
func BuiltinExpenseApproval() Definition {
	return BuildLinearChain(
		BuiltinExpenseApprovalUUID,
		"Expense Approval",
		[]string{"Draft", "ManagerReview", "FinanceReview", "Approved"},
		"Draft",
		nil,
	)
}
