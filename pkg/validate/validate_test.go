package validate_test

import (
	"testing"

	"github.com/shashiranjanraj/shoplist/pkg/validate"
)

type createInput struct {
	Name      string  `json:"name"       validate:"required,min=1,max=255"`
	Email     string  `json:"email"      validate:"required,email"`
	Quantity  int     `json:"quantity"   validate:"gte=0,lte=10000"`
	CatalogID int     `json:"catalog_id" validate:"nullable,between=1,100"`
	Unit      string  `json:"unit"       validate:"nullable,in=piece,pack,bottle"`
	Score     float64 `json:"score"      validate:"numeric"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(createInput{
		Name:      "Beer",
		Email:     "admin@example.com",
		Quantity:  25,
		CatalogID: 7,
		Unit:      "bottle",
		Score:     1.5,
	})
	if len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}
}

func TestRequiredFields(t *testing.T) {
	errs := validate.Struct(createInput{Email: "admin@example.com"})
	if _, ok := errs["name"]; !ok {
		t.Error("expected error for missing name")
	}
	if _, ok := errs["email"]; ok {
		t.Error("did not expect error for provided email")
	}
}

func TestRequiredRejectsWhitespaceOnly(t *testing.T) {
	errs := validate.Struct(createInput{Name: "   ", Email: "a@b.co"})
	if _, ok := errs["name"]; !ok {
		t.Error("expected whitespace-only name to fail required")
	}
}

func TestEmailFormat(t *testing.T) {
	errs := validate.Struct(createInput{Name: "x", Email: "not-an-email"})
	if errs["email"] == "" {
		t.Error("expected error for malformed email")
	}
}

func TestRangeRules(t *testing.T) {
	errs := validate.Struct(createInput{Name: "x", Email: "a@b.co", Quantity: -1})
	if errs["quantity"] == "" {
		t.Error("expected error for negative quantity")
	}

	errs = validate.Struct(createInput{Name: "x", Email: "a@b.co", Quantity: 20000})
	if errs["quantity"] == "" {
		t.Error("expected error for quantity above lte bound")
	}
}

func TestBetweenKeepsCommaParam(t *testing.T) {
	// between=1,100 must be parsed as one rule, not split at the comma.
	errs := validate.Struct(createInput{Name: "x", Email: "a@b.co", CatalogID: 101})
	if errs["catalog_id"] == "" {
		t.Error("expected error for catalog_id above between range")
	}

	errs = validate.Struct(createInput{Name: "x", Email: "a@b.co", CatalogID: 100})
	if _, ok := errs["catalog_id"]; ok {
		t.Errorf("catalog_id=100 should be within range, got %q", errs["catalog_id"])
	}
}

func TestNullableSkipsEmpty(t *testing.T) {
	// CatalogID zero value and empty Unit are allowed via nullable.
	errs := validate.Struct(createInput{Name: "x", Email: "a@b.co"})
	if _, ok := errs["catalog_id"]; ok {
		t.Error("nullable catalog_id should skip rules when zero")
	}
	if _, ok := errs["unit"]; ok {
		t.Error("nullable unit should skip rules when empty")
	}
}

func TestInRule(t *testing.T) {
	errs := validate.Struct(createInput{Name: "x", Email: "a@b.co", Unit: "crate"})
	if errs["unit"] == "" {
		t.Error("expected error for unit outside allowed set")
	}
}

func TestFirstFailingRuleWins(t *testing.T) {
	errs := validate.Struct(createInput{Email: "bad"})
	if errs["email"] != "The email must be a valid email address." {
		// required passes (non-empty), so the email rule reports.
		t.Errorf("unexpected message: %q", errs["email"])
	}
}
