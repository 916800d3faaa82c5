package leaverequest

import "time"

type SubmitLeaveRequest struct {
	LeaveType string `json:"leave_type" binding:"required,oneof=SICK CASUAL PAID"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
}

type ResolveLeaveRequest struct {
	Status string `json:"status" binding:"required,oneof=APPROVED REJECTED"`
}

type LeaveRequestResponse struct {
	ID            string `json:"id"`
	EmployeeID    string `json:"employee_id"`
	LeaveType     string `json:"leave_type"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	DaysRequested int    `json:"days_requested"`
	Status        string `json:"status"`
}

func mapToLeaveRequestResponse(r LeaveRequest) LeaveRequestResponse {
	return LeaveRequestResponse{
		ID:            r.ID.String(),
		EmployeeID:    r.EmployeeID.String(),
		LeaveType:     r.LeaveType,
		StartDate:     r.StartDate.Format(DateLayout),
		EndDate:       r.EndDate.Format(DateLayout),
		DaysRequested: r.DaysRequested,
		Status:        r.Status,
	}
}

func mapToLeaveRequestResponses(rows []LeaveRequest) []LeaveRequestResponse {
	result := make([]LeaveRequestResponse, 0, len(rows))
	for _, r := range rows {
		result = append(result, mapToLeaveRequestResponse(r))
	}
	return result
}

func parseDate(value string) (time.Time, bool) {
	d, err := time.Parse(DateLayout, value)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
