package services

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
)

func facultyAccount() CreateUserInput {
	return CreateUserInput{
		FirstName:  "Grace",
		LastName:   "Hopper",
		Email:      "Grace@Example.org",
		Password:   "compiler-1952",
		Role:       "faculty",
		Department: "Physics",
	}
}

func TestCreateUserRequiresDepartmentForTeachingRoles(t *testing.T) {
	gormDB, state, cleanup := newScriptedGormDB(t, nil)
	defer cleanup()
	svc := NewUserService(gormDB)

	for _, role := range []string{"faculty", "dean"} {
		in := facultyAccount()
		in.Role = role
		in.Department = " "
		_, err := svc.Create(context.Background(), in)
		var ve *ValidationError
		if !errors.As(err, &ve) || ve.Field != "department" {
			t.Fatalf("%s without department: expected department ValidationError, got %v", role, err)
		}
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCreateUserRejectsTakenEmail(t *testing.T) {
	steps := []*queryStep{
		countStep("SELECT count\\(\\*\\) FROM `users` WHERE email = \\?", []driver.Value{"grace@example.org"}, 1),
	}
	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()
	svc := NewUserService(gormDB)

	_, err := svc.Create(context.Background(), facultyAccount())
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Field != "email" {
		t.Fatalf("taken email: expected email ValidationError, got %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestDeleteUser(t *testing.T) {
	softDelete := regexp.MustCompile("UPDATE `users` SET .*`delete_at`=\\?.*WHERE delete_at IS NULL AND user_id = \\?")
	steps := []*queryStep{
		{kind: kindExec, pattern: softDelete, result: scriptedResult{rowsAffected: 0}},
		{kind: kindExec, pattern: softDelete, result: scriptedResult{rowsAffected: 1}},
	}
	gormDB, state, cleanup := newScriptedGormDB(t, steps)
	defer cleanup()
	svc := NewUserService(gormDB)
	ctx := context.Background()

	if err := svc.Delete(ctx, administrator, administrator.UserID); !errors.Is(err, ErrValidation) {
		t.Fatalf("self delete: expected ErrValidation, got %v", err)
	}
	if err := svc.Delete(ctx, administrator, 99); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing user: expected ErrNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, administrator, physicsFaculty.UserID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := state.verifyComplete(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
