package utils

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"
)

func TestWriteXlsx(t *testing.T) {
	var buf bytes.Buffer
	headers := []string{"id", "label", "total"}
	rows := [][]any{
		{"O1", "Lake View", 12.5},
		{"O2", "Hill Top", 3},
	}
	if err := WriteXlsx(&buf, "orders", headers, rows); err != nil {
		t.Fatalf("WriteXlsx: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open written workbook: %v", err)
	}
	defer f.Close()

	got, err := f.GetRows("orders")
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	want := [][]string{
		{"id", "label", "total"},
		{"O1", "Lake View", "12.5"},
		{"O2", "Hill Top", "3"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("rows (-want +got):\n%s", diff)
	}

	if err := WriteXlsx(&buf, "", headers, nil); err == nil {
		t.Fatalf("expected error for empty sheet name")
	}
}

func TestNormalizePhone(t *testing.T) {
	got, err := NormalizePhone("(650) 253-0000", "US")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "+16502530000" {
		t.Fatalf("expected +16502530000, got %s", got)
	}

	if _, err := NormalizePhone("not a phone", "US"); err == nil {
		t.Fatalf("expected error for garbage input")
	}
	if err := ValidatePhoneNumber("123", "US"); err == nil {
		t.Fatalf("expected short number to be invalid")
	}
}

func TestProcessValidationErrors(t *testing.T) {
	type payload struct {
		Name string `validate:"required"`
		Tab  string `validate:"oneof=new done"`
	}
	got := ProcessValidationErrors(ValidateStruct(payload{Tab: "x"}))
	want := map[string]string{"Name": "required", "Tab": "oneof"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("errors (-want +got):\n%s", diff)
	}

	got = ProcessValidationErrors(errors.New("boom"))
	if got["error"] != "boom" {
		t.Fatalf("expected plain error under \"error\", got %v", got)
	}
	if got := ProcessValidationErrors(nil); len(got) != 0 {
		t.Fatalf("expected empty map for nil, got %v", got)
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := SetCorrelationIdInContext(context.Background(), "cid")
	ctx = SetRoleInContext(ctx, "vendor")
	ctx = SetSessionIdInContext(ctx, "sid")
	ctx = SetScreenInContext(ctx, "orders")

	if v, ok := GetCorrelationIdFromContext(ctx); !ok || v != "cid" {
		t.Fatalf("correlation id: %q %v", v, ok)
	}
	if v, _ := GetRoleFromContext(ctx); v != "vendor" {
		t.Fatalf("role: %q", v)
	}
	if v, _ := GetSessionIdFromContext(ctx); v != "sid" {
		t.Fatalf("session id: %q", v)
	}
	if v, _ := GetScreenFromContext(ctx); v != "orders" {
		t.Fatalf("screen: %q", v)
	}
	if _, ok := GetRoleFromContext(context.Background()); ok {
		t.Fatalf("expected missing role")
	}
}
