package report

import (
	"reflect"
	"testing"

	"github.com/rms-collector/backend/internal/models"
)

func TestBuildTreeSuccessIsNil(t *testing.T) {
	if tree := BuildTree(models.ContactDetails{}, &models.SubmissionResult{Kind: models.OutcomeSuccess}); tree != nil {
		t.Errorf("success produced a tree: %v", tree)
	}
	if tree := BuildTree(models.ContactDetails{}, nil); tree != nil {
		t.Errorf("nil result produced a tree: %v", tree)
	}
}

func TestBuildTreeTransportError(t *testing.T) {
	tree := BuildTree(models.ContactDetails{}, &models.SubmissionResult{
		Kind:    models.OutcomeTransportError,
		Message: "request failed: connection refused",
	})

	group, ok := tree["general"]
	if !ok {
		t.Fatalf("tree = %v, want a general group", tree)
	}
	if group.Kind != KindError || group.Title != "Submission Failed" {
		t.Errorf("group = %+v", group)
	}
	if group.Items["error"] != "request failed: connection refused" {
		t.Errorf("items = %v", group.Items)
	}

	// A bare transport error still yields a usable message.
	tree = BuildTree(models.ContactDetails{}, &models.SubmissionResult{Kind: models.OutcomeTransportError})
	if tree["general"].Items["error"] == "" {
		t.Error("transport error without message produced an empty item")
	}
}

func TestBuildTreeRecordErrors(t *testing.T) {
	tree := BuildTree(models.ContactDetails{}, &models.SubmissionResult{
		Kind:            models.OutcomePartialSuccess,
		SuccessfulSlots: []string{"Link"},
		SlotErrors: map[string][]models.RecordError{
			"Alignment": {
				{Record: 2, Field: "geometry", Message: "invalid"},
				{Record: 2, Field: "chainage", Message: "required"},
				{Record: 5, Message: "malformed row"},
			},
		},
	})

	group, ok := tree["Alignment"]
	if !ok {
		t.Fatalf("tree = %v, want an Alignment group", tree)
	}
	if group.Title != "Alignment Errors" {
		t.Errorf("Title = %q", group.Title)
	}
	if got := group.Items["Record 2"]; got != "geometry: invalid; chainage: required" {
		t.Errorf("Record 2 = %q", got)
	}
	if got := group.Items["Record 5"]; got != "malformed row" {
		t.Errorf("Record 5 = %q", got)
	}

	accepted := tree["accepted"]
	if accepted.Kind != KindSuccess {
		t.Errorf("accepted group kind = %q", accepted.Kind)
	}
	if got := accepted.Items["Link"]; got != "All records accepted" {
		t.Errorf("accepted items = %v", accepted.Items)
	}
}

func TestBuildTreeContactErrors(t *testing.T) {
	tests := []struct {
		name      string
		contact   models.ContactDetails
		errs      map[string]string
		wantLabel string
		wantMsg   string
	}{
		{
			name:      "provincial admin code",
			contact:   models.ContactDetails{Status: models.StatusProvincial},
			errs:      map[string]string{"admin_code": "Invalid code."},
			wantLabel: "Province",
			wantMsg:   "Select a valid province",
		},
		{
			name:      "kabupaten admin code",
			contact:   models.ContactDetails{Status: models.StatusKabupaten},
			errs:      map[string]string{"admin_code": "Invalid code."},
			wantLabel: "Kabupaten",
			wantMsg:   "Select a valid kabupaten",
		},
		{
			name:      "known field label",
			errs:      map[string]string{"lg_name": "This field may not be blank."},
			wantLabel: "LG Name",
			wantMsg:   "This field may not be blank.",
		},
		{
			name:      "unknown field passes through",
			errs:      map[string]string{"fax": "nope"},
			wantLabel: "fax",
			wantMsg:   "nope",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree := BuildTree(tt.contact, &models.SubmissionResult{
				Kind:          models.OutcomeValidationError,
				ContactErrors: tt.errs,
			})
			group, ok := tree["contactDetails"]
			if !ok {
				t.Fatalf("tree = %v, want a contactDetails group", tree)
			}
			if got := group.Items[tt.wantLabel]; got != tt.wantMsg {
				t.Errorf("items = %v, want %q under %q", group.Items, tt.wantMsg, tt.wantLabel)
			}
		})
	}
}

func TestBuildTreeNoModelRewrite(t *testing.T) {
	tree := BuildTree(models.ContactDetails{}, &models.SubmissionResult{
		Kind: models.OutcomeValidationError,
		SlotErrors: map[string][]models.RecordError{
			"CODE_AN_WidthStandards": {
				{Record: -1, Message: "No serializer found for model CODE_AN_WidthStandards"},
			},
		},
	})

	group := tree["CODE_AN_WidthStandards"]
	want := "Width Standards is not yet supported. Please contact support."
	if got := group.Items["Support"]; got != want {
		t.Errorf("Support item = %q, want %q", got, want)
	}
}

func TestBuildTreeFallbackGeneral(t *testing.T) {
	tree := BuildTree(models.ContactDetails{}, &models.SubmissionResult{
		Kind:    models.OutcomeValidationError,
		Message: "malformed request",
	})

	if got := tree["general"].Items["error"]; got != "malformed request" {
		t.Errorf("fallback group = %v", tree)
	}
}

func TestSlotLabel(t *testing.T) {
	tests := []struct {
		slot string
		want string
	}{
		{"Link", "Link"},
		{"RoadInventory", "Road Inventory"},
		{"CODE_AN_UnitCostsPER", "Unit Costs PER"},
		{"CODE_AN_UnitCostsPERUnpaved", "Unit Costs PER Unpaved"},
		{"CODE_AN_UnitCostsRIGID", "Unit Costs RIGID"},
		{"CODE_AN_WidthStandards", "Width Standards"},
		{"TrafficWeightingFactors", "Traffic Weighting Factors"},
		{"DRP", "DRP"},
	}

	for _, tt := range tests {
		if got := SlotLabel(tt.slot); got != tt.want {
			t.Errorf("SlotLabel(%q) = %q, want %q", tt.slot, got, tt.want)
		}
	}
}

func TestSortedKeys(t *testing.T) {
	tree := Tree{
		"accepted":       {Kind: KindSuccess},
		"DRP":            {Kind: KindError},
		"contactDetails": {Kind: KindError},
		"Alignment":      {Kind: KindError},
	}

	want := []string{"contactDetails", "Alignment", "DRP", "accepted"}
	if got := tree.SortedKeys(); !reflect.DeepEqual(got, want) {
		t.Errorf("SortedKeys() = %v, want %v", got, want)
	}
}
