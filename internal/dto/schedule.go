package dto

// GridQuery mirrors GET /schedule/grid filters.
type GridQuery struct {
	Kind string `form:"kind" validate:"omitempty,oneof=group teacher personal"`
}

// ExportQuery mirrors GET /schedule/export filters.
type ExportQuery struct {
	Kind   string `form:"kind" validate:"omitempty,oneof=group teacher personal"`
	Format string `form:"format" validate:"omitempty,oneof=csv pdf"`
	Week   int    `form:"week" validate:"min=0,max=1"`
}
