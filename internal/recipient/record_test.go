package recipient_test

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"papeterie/internal/recipient"
	"papeterie/internal/testsupport"
)

func TestNewValidRecord(t *testing.T) {
	header := []string{"Opening", "Closing", "Theme"}
	values := []string{"Dear brother,", "Yours truly, Lisa and Millhouse", "Cthulhu"}

	record, err := recipient.New(header, values)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	for i, name := range header {
		got, err := record.Field(name)
		if err != nil {
			t.Fatalf("Field(%q) returned error: %v", name, err)
		}
		if got != values[i] {
			t.Fatalf("Field(%q) = %q, want %q", name, got, values[i])
		}
	}
	if record.Map()["Theme"] != "Cthulhu" {
		t.Fatalf("unexpected map %v", record.Map())
	}
	if !strings.HasPrefix(record.String(), "Opening: Dear brother,\n") {
		t.Fatalf("unexpected string form %q", record.String())
	}
}

func TestNewRejectsShapeMismatch(t *testing.T) {
	cases := map[string][2][]string{
		"missing value":    {{"Opening", "Closing", "Theme"}, {"Dear brother,", "Bye"}},
		"superfluous data": {{"Opening"}, {"Dear brother,", "Cthulhu"}},
		"empty header":     {{}, {}},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := recipient.New(tc[0], tc[1]); !errors.Is(err, recipient.ErrShapeMismatch) {
				t.Fatalf("expected ErrShapeMismatch, got %v", err)
			}
		})
	}
}

func TestFieldUnknown(t *testing.T) {
	record, err := recipient.New([]string{"Opening"}, []string{"Hi"})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if _, err := record.Field("Closing"); !errors.Is(err, recipient.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestRecordIsImmutable(t *testing.T) {
	header := []string{"A"}
	values := []string{"a"}
	record, _ := recipient.New(header, values)
	values[0] = "changed"
	record.Map()["A"] = "changed"
	if got, _ := record.Field("A"); got != "a" {
		t.Fatalf("record mutated: %q", got)
	}
}

func TestLoadValidFile(t *testing.T) {
	path := testsupport.WriteFile(t, filepath.Join(t.TempDir(), "recipients.csv"),
		"\ufeff\"Opening\",\"Closing\"\n\"Dear Lisa,\",\"Bart\"\n\"Dear Bart,\",\"Lisa, your sister\"\n")

	records, err := recipient.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	got := []map[string]string{records[0].Map(), records[1].Map()}
	want := []map[string]string{
		{"Opening": "Dear Lisa,", "Closing": "Bart"},
		{"Opening": "Dear Bart,", "Closing": "Lisa, your sister"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected records (-want +got):\n%s", diff)
	}
}

func TestLoadRejectsEmptyFiles(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"empty":       "",
		"only header": "Opening,Closing\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := testsupport.WriteFile(t, filepath.Join(dir, strings.ReplaceAll(name, " ", "_")+".csv"), content)
			if _, err := recipient.Load(path); !errors.Is(err, recipient.ErrNoData) {
				t.Fatalf("expected ErrNoData, got %v", err)
			}
		})
	}
}

func TestLoadRejectsRaggedRows(t *testing.T) {
	path := testsupport.WriteFile(t, filepath.Join(t.TempDir(), "ragged.csv"), "A,B\n1,2\n3\n")
	_, err := recipient.Load(path)
	if !errors.Is(err, recipient.ErrShapeMismatch) {
		t.Fatalf("expected ErrShapeMismatch, got %v", err)
	}
	if !strings.Contains(err.Error(), "row 3") {
		t.Fatalf("expected row number in %v", err)
	}
}
