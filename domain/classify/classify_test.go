package classify

import (
	"testing"

	"boardroom/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		want    Label
	}{
		{name: "employee id", columns: []string{"EmployeeID", "Dept"}, want: HR},
		{name: "salary", columns: []string{"Name", "Salary"}, want: HR},
		{name: "sales", columns: []string{"Date", "Sales"}, want: Sales},
		{name: "unit price", columns: []string{"SKU", "UnitPrice"}, want: Sales},
		{name: "order id", columns: []string{"OrderID"}, want: Sales},
		{name: "revenue only", columns: []string{"Revenue"}, want: Sales},
		{name: "campaign", columns: []string{"Campaign", "Spend"}, want: Marketing},
		{name: "clicks", columns: []string{"Clicks"}, want: Marketing},
		{name: "impressions", columns: []string{"Impressions"}, want: Marketing},
		{name: "nothing known", columns: []string{"a", "b"}, want: Generic},
		{name: "no columns", columns: nil, want: Generic},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.columns))
		})
	}
}

func TestClassify_PriorityOrder(t *testing.T) {
	// salary and revenue both match; HR precedes Sales
	assert.Equal(t, HR, Classify([]string{"Salary", "Revenue"}))
	// revenue and campaign both match; Sales precedes Marketing
	assert.Equal(t, Sales, Classify([]string{"Campaign", "Revenue", "Spend"}))
}

func TestClassify_SubstringAcrossJoinedHeaders(t *testing.T) {
	// headers are joined with spaces, so keywords never span two names
	assert.Equal(t, Generic, Classify([]string{"sal", "ary"}))
	assert.Equal(t, Sales, Classify([]string{"Total SALES"}))
}

func TestClassifyWith_CustomRules(t *testing.T) {
	rules := []Rule{{Label: Marketing, Keywords: []string{"spend"}}}
	assert.Equal(t, Marketing, ClassifyWith(rules, []string{"Spend"}))
	assert.Equal(t, Generic, ClassifyWith(nil, []string{"Spend"}))
}

func TestParseLabel(t *testing.T) {
	for _, l := range Labels() {
		got, ok := ParseLabel(string(l))
		assert.True(t, ok)
		assert.Equal(t, l, got)
	}
	_, ok := ParseLabel("Finance")
	assert.False(t, ok)
}

func TestClassifyDataset_IgnoresValues(t *testing.T) {
	header := []string{"Campaign", "Clicks"}
	a, err := dataset.FromRecords(header, [][]string{{"spring", "10"}})
	require.NoError(t, err)
	b, err := dataset.FromRecords(header, [][]string{{"salary review", "employee"}, {"x", "y"}})
	require.NoError(t, err)

	assert.Equal(t, Marketing, ClassifyDataset(a))
	assert.Equal(t, ClassifyDataset(a), ClassifyDataset(b))
}
