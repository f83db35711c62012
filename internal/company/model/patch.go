package model

// Patch is a partial update of the mergeable company columns.
// A nil field leaves the stored column untouched.
type Patch struct {
	Description      *string
	Logo             *string
	Website          *string
	Headquarters     *string
	PrimaryRevenue   *string
	RevenueBreakdown *string
	BusinessModel    *string
}

// patchColumns must list every Patch field; patch_test.go enforces it.
var patchColumns = []struct {
	column string
	value  func(p *Patch) *string
}{
	{"description", func(p *Patch) *string { return p.Description }},
	{"logo", func(p *Patch) *string { return p.Logo }},
	{"website", func(p *Patch) *string { return p.Website }},
	{"headquarters", func(p *Patch) *string { return p.Headquarters }},
	{"primary_revenue", func(p *Patch) *string { return p.PrimaryRevenue }},
	{"revenue_breakdown", func(p *Patch) *string { return p.RevenueBreakdown }},
	{"business_model", func(p *Patch) *string { return p.BusinessModel }},
}

// Columns returns the column/value map for the fields that are set.
func (p Patch) Columns() map[string]interface{} {
	columns := make(map[string]interface{}, len(patchColumns))
	for _, pc := range patchColumns {
		if v := pc.value(&p); v != nil {
			columns[pc.column] = *v
		}
	}
	return columns
}

// IsEmpty reports whether the patch sets no fields.
func (p Patch) IsEmpty() bool {
	return len(p.Columns()) == 0
}
