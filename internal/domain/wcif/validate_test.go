package wcif

import "testing"

func TestWcifValidate(t *testing.T) {
	t.Parallel()

	valid := Wcif{
		ID:       "BerlinOpen2025",
		Name:     "Berlin Open 2025",
		Persons:  []Person{{RegistrantID: 1, Assignments: []Assignment{{ActivityID: 3, AssignmentCode: AssignmentCompetitor}}}},
		Schedule: singleGroupSchedule(),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("expected valid document, got %v", err)
	}

	missingCode := valid
	missingCode.Persons = []Person{{RegistrantID: 1, Assignments: []Assignment{{ActivityID: 3}}}}
	if err := missingCode.Validate(); err == nil {
		t.Fatalf("expected error for assignment without code")
	}

	missingName := valid
	missingName.Name = ""
	if err := missingName.Validate(); err == nil {
		t.Fatalf("expected error for document without name")
	}
}
