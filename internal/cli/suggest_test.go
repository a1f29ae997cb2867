package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSuggest(t *testing.T) {
	known := []string{"invoices", "customers", "payment-requests", "payouts"}

	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"close match", "invoice", []string{"invoices"}},
		{"transposition", "invocies", []string{"invoices"}},
		{"exact", "payouts", []string{"payouts"}},
		{"nothing close", "zzzzzzzzzzzz", nil},
		{"empty input", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Suggest(tt.input, known)
			if tt.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Subset(t, got, tt.want)
			assert.Equal(t, tt.want[0], got[0], "best match comes first")
		})
	}
}

func TestSuggestCapsAtThree(t *testing.T) {
	known := []string{"list1", "list2", "list3", "list4", "list5"}
	got := Suggest("list0", known)
	assert.Len(t, got, 3)
	assert.Equal(t, []string{"list1", "list2", "list3"}, got, "ties break alphabetically")
}

func TestSuggestCaseInsensitive(t *testing.T) {
	got := Suggest("INVOICES", []string{"invoices"})
	assert.Equal(t, []string{"invoices"}, got)
}

func TestSuggestEmptyKnown(t *testing.T) {
	assert.Empty(t, Suggest("anything", nil))
}
