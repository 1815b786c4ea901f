package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"smartpass/internal/model"
	"smartpass/internal/repository"
)

const (
	editorID = "editor"
	viewerID = "viewer"
)

type employeeFixture struct {
	svc      *employeeService
	repo     *mockEmployeeRepository
	qr       *stubQR
	recorder *recorderSpy
}

func setupEmployeeService(t *testing.T) employeeFixture {
	t.Helper()
	users := usersWith(
		newActor(editorID, model.FullPermissions()),
		newActor(viewerID, model.DefaultPermissions()),
		newActor("adder", model.Permissions{AddEmployees: true, ViewEmployees: true}),
		newActor("editonly", model.Permissions{EditEmployees: true, ViewEmployees: true}),
	)
	repo := &mockEmployeeRepository{}
	qr := &stubQR{}
	rec := &recorderSpy{}
	svc := NewEmployeeService(repo, users, qr, rec).(*employeeService)
	svc.now = func() time.Time { return time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC) }
	return employeeFixture{svc: svc, repo: repo, qr: qr, recorder: rec}
}

func TestCreateEmployee_Defaults(t *testing.T) {
	f := setupEmployeeService(t)
	var saved *model.Employee
	f.repo.createFunc = func(_ context.Context, e *model.Employee) error {
		saved = e
		return nil
	}

	emp, err := f.svc.CreateEmployee(context.Background(), editorID, CreateEmployeeRequest{Name: " Grace Hopper "})
	if err != nil {
		t.Fatalf("CreateEmployee() error = %v", err)
	}
	if saved != emp {
		t.Fatal("returned employee is not the stored one")
	}
	if emp.Name != "Grace Hopper" || emp.Status != model.EmployeeStatusActive || emp.Photo != model.DefaultEmployeePhoto {
		t.Errorf("defaults not applied: %+v", emp)
	}
	if !model.IsObjectID(emp.ID) {
		t.Errorf("ID = %q, want object id", emp.ID)
	}
	if !strings.HasPrefix(emp.EmployeeID, "EMP") || len(emp.EmployeeID) != 9 {
		t.Errorf("EmployeeID = %q", emp.EmployeeID)
	}
	if emp.QRCode != "data:image/png;base64,QR-"+emp.ID {
		t.Errorf("QRCode = %q", emp.QRCode)
	}
	if got := f.recorder.actions(); len(got) != 1 || got[0] != model.ActionCreateEmployee {
		t.Errorf("recorded actions = %v", got)
	}
}

func TestCreateEmployee_NoQRWithoutCapability(t *testing.T) {
	f := setupEmployeeService(t)
	f.repo.createFunc = func(context.Context, *model.Employee) error { return nil }

	emp, err := f.svc.CreateEmployee(context.Background(), "adder", CreateEmployeeRequest{Name: "Alan"})
	if err != nil {
		t.Fatalf("CreateEmployee() error = %v", err)
	}
	if emp.QRCode != "" || f.qr.calls != 0 {
		t.Errorf("QR generated without generateQRCodes: %q", emp.QRCode)
	}
}

func TestCreateEmployee_RedrawsCollidingEmployeeID(t *testing.T) {
	f := setupEmployeeService(t)
	var tried []string
	f.repo.createFunc = func(_ context.Context, e *model.Employee) error {
		tried = append(tried, e.EmployeeID)
		if len(tried) == 1 {
			return repository.ErrDuplicate
		}
		return nil
	}

	emp, err := f.svc.CreateEmployee(context.Background(), editorID, CreateEmployeeRequest{Name: "Grace"})
	if err != nil {
		t.Fatalf("CreateEmployee() error = %v", err)
	}
	if len(tried) != 2 {
		t.Fatalf("create calls = %d, want 2", len(tried))
	}
	if emp.EmployeeID != tried[1] || !strings.HasPrefix(emp.EmployeeID, model.EmployeeIDPrefix) || len(emp.EmployeeID) != 9 {
		t.Errorf("EmployeeID = %q after attempts %v", emp.EmployeeID, tried)
	}
}

func TestCreateEmployee_GivesUpAfterRepeatedCollisions(t *testing.T) {
	f := setupEmployeeService(t)
	calls := 0
	f.repo.createFunc = func(context.Context, *model.Employee) error {
		calls++
		return repository.ErrDuplicate
	}

	_, err := f.svc.CreateEmployee(context.Background(), editorID, CreateEmployeeRequest{Name: "Grace"})
	if !errors.Is(err, ErrConflict) {
		t.Errorf("error = %v, want ErrConflict", err)
	}
	if calls != maxEmployeeIDAttempts {
		t.Errorf("create calls = %d, want %d", calls, maxEmployeeIDAttempts)
	}
	if len(f.recorder.actions()) != 0 {
		t.Errorf("activity recorded for a failed create: %v", f.recorder.actions())
	}
}

func TestCreateEmployee_Validation(t *testing.T) {
	f := setupEmployeeService(t)
	tests := []CreateEmployeeRequest{
		{Name: "  "},
		{Name: "Alan", Status: "Retired"},
		{Name: "Alan", IDCardExpirationDate: "next year"},
	}
	for _, req := range tests {
		if _, err := f.svc.CreateEmployee(context.Background(), editorID, req); !errors.Is(err, ErrValidation) {
			t.Errorf("CreateEmployee(%+v) error = %v, want ErrValidation", req, err)
		}
	}
}

func TestEmployeeCapabilities(t *testing.T) {
	f := setupEmployeeService(t)
	ctx := context.Background()

	checks := map[string]error{}
	_, checks["create"] = f.svc.CreateEmployee(ctx, viewerID, CreateEmployeeRequest{Name: "x"})
	_, checks["update"] = f.svc.UpdateEmployee(ctx, viewerID, "e1", UpdateEmployeeRequest{})
	_, checks["status"] = f.svc.SetEmployeeStatus(ctx, viewerID, "e1", model.EmployeeStatusInactive)
	checks["delete"] = f.svc.DeleteEmployee(ctx, viewerID, "e1")
	_, checks["qr"] = f.svc.GenerateQRCode(ctx, viewerID, "e1")
	_, checks["revoke"] = f.svc.RevokeQRCode(ctx, viewerID, "e1")

	for op, err := range checks {
		if !errors.Is(err, ErrForbidden) {
			t.Errorf("%s as viewer: error = %v, want ErrForbidden", op, err)
		}
	}

	if _, _, err := f.svc.ListEmployees(ctx, "ghost", EmployeeFilter{}, 1, 10); !errors.Is(err, ErrUnauthorized) {
		t.Errorf("list as deleted user: error = %v, want ErrUnauthorized", err)
	}
}

func TestUpdateEmployee_StatusNeedsDeactivate(t *testing.T) {
	f := setupEmployeeService(t)
	f.repo.getByIDFunc = func(context.Context, string) (*model.Employee, error) {
		return &model.Employee{ID: "e1", Name: "Alan", Status: model.EmployeeStatusActive}, nil
	}
	f.repo.updateFunc = func(context.Context, *model.Employee) error { return nil }

	inactive := model.EmployeeStatusInactive
	_, err := f.svc.UpdateEmployee(context.Background(), "editonly", "e1", UpdateEmployeeRequest{Status: &inactive})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("error = %v, want ErrForbidden", err)
	}

	name := "Alan Turing"
	emp, err := f.svc.UpdateEmployee(context.Background(), "editonly", "e1", UpdateEmployeeRequest{Name: &name})
	if err != nil {
		t.Fatalf("UpdateEmployee() error = %v", err)
	}
	if emp.Name != name {
		t.Errorf("Name = %q", emp.Name)
	}
}

func TestUpdateEmployee_KeepsImmutableFields(t *testing.T) {
	f := setupEmployeeService(t)
	f.repo.getByIDFunc = func(context.Context, string) (*model.Employee, error) {
		return &model.Employee{ID: "e1", EmployeeID: "EMP123456", QRCode: "data:old", Name: "Alan", Status: model.EmployeeStatusActive}, nil
	}
	var saved *model.Employee
	f.repo.updateFunc = func(_ context.Context, e *model.Employee) error {
		saved = e
		return nil
	}

	dept := "R&D"
	exp := "2027-01-31"
	if _, err := f.svc.UpdateEmployee(context.Background(), editorID, "e1", UpdateEmployeeRequest{Department: &dept, IDCardExpirationDate: &exp}); err != nil {
		t.Fatalf("UpdateEmployee() error = %v", err)
	}
	if saved.EmployeeID != "EMP123456" || saved.QRCode != "data:old" {
		t.Errorf("immutable fields changed: %+v", saved)
	}
	if saved.Department != dept || saved.IDCardExpirationDate == nil || saved.IDCardExpirationDate.Format("2006-01-02") != exp {
		t.Errorf("update not applied: %+v", saved)
	}
}

func TestSetEmployeeStatus_RecordsAction(t *testing.T) {
	f := setupEmployeeService(t)
	f.repo.getByIDFunc = func(context.Context, string) (*model.Employee, error) {
		return &model.Employee{ID: "e1", Status: model.EmployeeStatusActive}, nil
	}
	f.repo.updateFunc = func(context.Context, *model.Employee) error { return nil }

	if _, err := f.svc.SetEmployeeStatus(context.Background(), editorID, "e1", "Paused"); !errors.Is(err, ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
	if _, err := f.svc.SetEmployeeStatus(context.Background(), editorID, "e1", model.EmployeeStatusInactive); err != nil {
		t.Fatalf("SetEmployeeStatus() error = %v", err)
	}
	if got := f.recorder.actions(); len(got) != 1 || got[0] != model.ActionDeactivateEmployee {
		t.Errorf("recorded actions = %v", got)
	}
}

func TestDeleteEmployee_NotFound(t *testing.T) {
	f := setupEmployeeService(t)
	f.repo.getByIDFunc = func(context.Context, string) (*model.Employee, error) {
		return nil, repository.ErrNotFound
	}

	err := f.svc.DeleteEmployee(context.Background(), editorID, "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("error = %v, want ErrNotFound", err)
	}
	if len(f.recorder.actions()) != 0 {
		t.Error("activity recorded for a failed delete")
	}
}

func TestRevokeQRCode_ClearsPayload(t *testing.T) {
	f := setupEmployeeService(t)
	f.repo.getByIDFunc = func(context.Context, string) (*model.Employee, error) {
		return &model.Employee{ID: "e1", QRCode: "data:old"}, nil
	}
	f.repo.updateFunc = func(context.Context, *model.Employee) error { return nil }

	emp, err := f.svc.RevokeQRCode(context.Background(), editorID, "e1")
	if err != nil {
		t.Fatalf("RevokeQRCode() error = %v", err)
	}
	if emp.QRCode != "" {
		t.Errorf("QRCode = %q, want empty", emp.QRCode)
	}
}

func TestListEmployees_BuildsFilter(t *testing.T) {
	f := setupEmployeeService(t)
	var gotFilter repository.Filter
	var gotPage, gotLimit int
	f.repo.listFunc = func(_ context.Context, filter repository.Filter, page, limit int) ([]model.Employee, int64, error) {
		gotFilter, gotPage, gotLimit = filter, page, limit
		return []model.Employee{{ID: "e1"}}, 25, nil
	}

	_, total, err := f.svc.ListEmployees(context.Background(), viewerID, EmployeeFilter{
		Company: "Acme", Status: model.EmployeeStatusActive, Search: "ann", DateRange: DateRangeLast7Days,
	}, 3, 10)
	if err != nil {
		t.Fatalf("ListEmployees() error = %v", err)
	}
	if total != 25 || gotPage != 3 || gotLimit != 10 {
		t.Errorf("total=%d page=%d limit=%d", total, gotPage, gotLimit)
	}
	// company, status, search, since
	if len(gotFilter) != 4 {
		t.Errorf("filter has %d predicates, want 4", len(gotFilter))
	}

	if _, _, err := f.svc.ListEmployees(context.Background(), viewerID, EmployeeFilter{DateRange: "Yesterday"}, 1, 10); !errors.Is(err, ErrValidation) {
		t.Errorf("unknown dateRange error = %v, want ErrValidation", err)
	}
}

func TestGetPublicEmployee_LookupOrder(t *testing.T) {
	hexID := model.NewObjectID()

	tests := []struct {
		name     string
		slug     string
		byID     bool
		byEmpID  bool
		wantErr  error
		wantCall []string
	}{
		{name: "object id hit", slug: hexID, byID: true, wantCall: []string{"id"}},
		{name: "object id miss falls back to employeeId", slug: hexID, byEmpID: true, wantCall: []string{"id", "employeeId"}},
		{name: "employeeId slug skips id lookup", slug: "EMP123456", byEmpID: true, wantCall: []string{"employeeId"}},
		{name: "neither", slug: "EMP000000", wantErr: ErrNotFound, wantCall: []string{"employeeId"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupEmployeeService(t)
			var calls []string
			f.repo.getByIDFunc = func(context.Context, string) (*model.Employee, error) {
				calls = append(calls, "id")
				if tt.byID {
					return &model.Employee{ID: hexID, Name: "By ID", Email: "secret@x.com"}, nil
				}
				return nil, repository.ErrNotFound
			}
			f.repo.getByEmployeeIDFunc = func(context.Context, string) (*model.Employee, error) {
				calls = append(calls, "employeeId")
				if tt.byEmpID {
					return &model.Employee{ID: "other", Name: "By EmployeeID"}, nil
				}
				return nil, repository.ErrNotFound
			}

			pub, err := f.svc.GetPublicEmployee(context.Background(), tt.slug)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
			} else if err != nil || pub == nil {
				t.Fatalf("GetPublicEmployee() = %v, %v", pub, err)
			}
			if strings.Join(calls, ",") != strings.Join(tt.wantCall, ",") {
				t.Errorf("calls = %v, want %v", calls, tt.wantCall)
			}
		})
	}
}
