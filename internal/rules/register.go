package rules

import (
	"github.com/donaldgifford/cssfmt/internal/rules/format"
)

func init() {
	// Value normalization stage.
	RegisterFormatRule(&format.PropertyCase{})
	RegisterFormatRule(&format.Values{})

	// Cascade grouping stage; must see normalized property names.
	RegisterFormatRule(&format.Cascade{})
}
