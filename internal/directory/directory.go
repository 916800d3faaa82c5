package directory

import "context"

// Directory resolves manager/employee relationships. The workflows depend
// on this contract only; it is satisfied by the local gorm-backed service
// and by the HTTP client when the directory runs as its own deployment.
//
//go:generate mockgen -source=directory.go -destination=mock/directory_mock.go -package=mock
type Directory interface {
	EmployeesUnderManager(ctx context.Context, managerID string) ([]string, error)
	ManagerOf(ctx context.Context, employeeID string) (string, error)
	AllEmployeeIDs(ctx context.Context) ([]string, error)
}
