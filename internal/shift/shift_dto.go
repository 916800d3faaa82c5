package shift

import "time"

type AssignShiftRequest struct {
	ShiftName string `json:"shift_name" binding:"required"`
	StartDate string `json:"start_date" binding:"required"`
	EndDate   string `json:"end_date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
}

// AssignShiftResult is an error-as-value outcome: rule violations come back
// with Accepted false and a reason instead of an error.
type AssignShiftResult struct {
	Accepted   bool                     `json:"accepted"`
	Reason     string                   `json:"reason,omitempty"`
	Assignment *ShiftAssignmentResponse `json:"assignment,omitempty"`
}

type RequestChangeRequest struct {
	RequestedName string `json:"requested_name" binding:"required"`
	StartTime     string `json:"start_time" binding:"required"`
	EndTime       string `json:"end_time" binding:"required"`
}

type ResolveShiftRequest struct {
	Status string `json:"status" binding:"required,oneof=APPROVED REJECTED"`
}

type ShiftAssignmentResponse struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employee_id"`
	ShiftName  string `json:"shift_name"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
}

type ShiftChangeRequestResponse struct {
	ID                string    `json:"id"`
	EmployeeID        string    `json:"employee_id"`
	RequestedName     string    `json:"requested_name"`
	StartTime         string    `json:"start_time"`
	EndTime           string    `json:"end_time"`
	Status            string    `json:"status"`
	AssignedShiftID   string    `json:"assigned_shift_id"`
	AssignedShiftName string    `json:"assigned_shift_name"`
	RequestedAt       time.Time `json:"requested_at"`
}

type HistoryResponse struct {
	ID            string    `json:"id"`
	EmployeeID    string    `json:"employee_id"`
	RequestedName string    `json:"requested_name"`
	StartTime     string    `json:"start_time"`
	EndTime       string    `json:"end_time"`
	StartDate     string    `json:"start_date"`
	EndDate       string    `json:"end_date"`
	Status        string    `json:"status"`
	ResolvedAt    time.Time `json:"resolved_at"`
}

type TeamHistoryResponse struct {
	EmployeeID string            `json:"employee_id"`
	History    []HistoryResponse `json:"history"`
}

func mapToAssignmentResponse(a ShiftAssignment) ShiftAssignmentResponse {
	return ShiftAssignmentResponse{
		ID:         a.ID.String(),
		EmployeeID: a.EmployeeID.String(),
		ShiftName:  a.ShiftName,
		StartDate:  a.StartDate.Format(DateLayout),
		EndDate:    a.EndDate.Format(DateLayout),
		StartTime:  a.StartTime,
		EndTime:    a.EndTime,
	}
}

func mapToChangeRequestResponse(r ShiftChangeRequest) ShiftChangeRequestResponse {
	return ShiftChangeRequestResponse{
		ID:                r.ID.String(),
		EmployeeID:        r.EmployeeID.String(),
		RequestedName:     r.RequestedName,
		StartTime:         r.StartTime,
		EndTime:           r.EndTime,
		Status:            r.Status,
		AssignedShiftID:   r.AssignedShiftID.String(),
		AssignedShiftName: r.AssignedShiftName,
		RequestedAt:       r.RequestedAt,
	}
}

func mapToHistoryResponse(h UpdatedRequestHistory) HistoryResponse {
	return HistoryResponse{
		ID:            h.ID.String(),
		EmployeeID:    h.EmployeeID.String(),
		RequestedName: h.RequestedName,
		StartTime:     h.StartTime,
		EndTime:       h.EndTime,
		StartDate:     h.StartDate.Format(DateLayout),
		EndDate:       h.EndDate.Format(DateLayout),
		Status:        h.Status,
		ResolvedAt:    h.ResolvedAt,
	}
}

func mapToHistoryResponses(rows []UpdatedRequestHistory) []HistoryResponse {
	result := make([]HistoryResponse, 0, len(rows))
	for _, h := range rows {
		result = append(result, mapToHistoryResponse(h))
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

func validTimeOfDay(value string) bool {
	_, err := time.Parse(TimeLayout, value)
	return err == nil
}
