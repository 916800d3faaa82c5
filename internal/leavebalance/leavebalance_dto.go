package leavebalance

type BalanceResponse struct {
	EmployeeID string `json:"employee_id"`
	LeaveType  string `json:"leave_type"`
	Balance    int    `json:"balance"`
}

type TeamBalancesResponse struct {
	EmployeeID string            `json:"employee_id"`
	Balances   []BalanceResponse `json:"balances"`
}
