package apis

const (
	// HTTP Response Fields
	Location = "Location"

	// Path Parameters
	Dialect  = "dialect"
	Family   = "family"
	Template = "template"
)
